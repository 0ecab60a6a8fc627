package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Ingest struct {
		// cron spec, local time
		Schedule           string  `yaml:"schedule"`
		SourcePauseSeconds int     `yaml:"source_pause_seconds"`
		ExpireAfterDays    int     `yaml:"expire_after_days"`
		RateLimitPerSec    float64 `yaml:"rate_limit_per_sec"`
		RateBurst          int     `yaml:"rate_burst"`
	} `yaml:"ingest"`

	HTTP struct {
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"http"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Credentials come from the environment (or a .env file), never from the
// yaml config, so the config file can be committed.
type Credentials struct {
	USAJobsKey   string
	USAJobsEmail string
	AdzunaAppID  string
	AdzunaAppKey string
	ApifyToken   string
	AdminKey     string
}

func CredentialsFromEnv() Credentials {
	return Credentials{
		USAJobsKey:   os.Getenv("USAJOBS_API_KEY"),
		USAJobsEmail: os.Getenv("USAJOBS_EMAIL"),
		AdzunaAppID:  os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey: os.Getenv("ADZUNA_APP_KEY"),
		ApifyToken:   os.Getenv("APIFY_API_TOKEN"),
		AdminKey:     os.Getenv("ADMIN_KEY"),
	}
}
