package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"techjobs-engine/internal/config"
	"techjobs-engine/internal/ingest"
	"techjobs-engine/internal/scrape/adzuna"
	"techjobs-engine/internal/scrape/googlejobs"
	"techjobs-engine/internal/scrape/remotive"
	"techjobs-engine/internal/scrape/themuse"
	"techjobs-engine/internal/scrape/types"
	"techjobs-engine/internal/scrape/usajobs"
	"techjobs-engine/internal/scrape/util"
	"techjobs-engine/internal/store"
)

const version = "1.0.0"

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "engine",
	Short: "Tech job aggregation engine",
	Long:  "Aggregates tech listings from USAJobs, Adzuna, The Muse, Remotive and Google Jobs into one searchable store.",
	// bare `engine` runs the server, same as `engine serve`
	RunE: runServe,
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config/config.yml", "path to the default config file")

	// credentials may live in a .env next to the binary; a missing file is fine
	_ = godotenv.Load()
}

type engine struct {
	cfg   config.Config
	creds config.Credentials
	db    *store.DB
	orch  *ingest.Orchestrator
}

// buildEngine performs the shared startup: config bootstrap, store open and
// migrate, fetcher wiring.
func buildEngine() (*engine, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := os.MkdirAll(cfg.App.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	// first run copies the shipped defaults into the data dir; after that
	// the user's copy wins
	userCfg, err := config.EnsureUserConfig(cfg.App.DataDir, cfgPath)
	if err != nil {
		return nil, fmt.Errorf("bootstrap config: %w", err)
	}
	if cfg, err = config.Load(userCfg); err != nil {
		return nil, fmt.Errorf("load user config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	log.Printf("[engine] config loaded: %s", cfg.SummaryLine())

	creds := config.CredentialsFromEnv()

	db, err := store.Open(filepath.Join(cfg.App.DataDir, "jobs.db"))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := store.Migrate(db.Pool); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	limiter := util.NewHostLimiter(cfg.Ingest.RateLimitPerSec, cfg.Ingest.RateBurst)
	fetchers := []types.Fetcher{
		usajobs.New(creds.USAJobsKey, creds.USAJobsEmail, limiter),
		adzuna.New(creds.AdzunaAppID, creds.AdzunaAppKey, limiter),
		themuse.New(limiter),
		remotive.New(limiter),
		googlejobs.New(creds.ApifyToken, limiter),
	}

	orch := ingest.New(db.Pool, fetchers,
		time.Duration(cfg.Ingest.SourcePauseSeconds)*time.Second,
		time.Duration(cfg.Ingest.ExpireAfterDays)*24*time.Hour)

	return &engine{cfg: cfg, creds: creds, db: db, orch: orch}, nil
}
