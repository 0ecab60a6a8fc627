package config

import (
	"errors"
	"fmt"
	"strings"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if cfg.App.DataDir == "" {
		errs = append(errs, "app.data_dir is required")
	}
	if cfg.Ingest.Schedule == "" {
		errs = append(errs, "ingest.schedule is required")
	}
	if cfg.Ingest.SourcePauseSeconds < 0 {
		errs = append(errs, "ingest.source_pause_seconds must be >= 0")
	}
	if cfg.Ingest.ExpireAfterDays < 0 {
		errs = append(errs, "ingest.expire_after_days must be >= 0")
	}
	if cfg.Ingest.RateLimitPerSec <= 0 {
		errs = append(errs, "ingest.rate_limit_per_sec must be > 0")
	}
	if cfg.Ingest.RateBurst < 1 {
		errs = append(errs, "ingest.rate_burst must be >= 1")
	}

	if len(errs) > 0 {
		return errors.New("invalid config:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}

func (c Config) SummaryLine() string {
	return fmt.Sprintf("port=%d data_dir=%s schedule=%q", c.App.Port, c.App.DataDir, c.Ingest.Schedule)
}
