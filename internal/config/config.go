// Package config loads environment-based configuration for drive-mirror.
package config

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all environment-based configuration for drive-mirror.
type Config struct {
	// Google Cloud project hosting the Firestore mirror (required).
	ProjectID string `env:"GOOGLE_PROJECT_ID"`

	// Firestore database to mirror into.
	Database string `env:"FIRESTORE_DATABASE" envDefault:"(default)"`

	// Path to the service account key file (required). Firestore can use
	// application default credentials, but the Drive client needs the key
	// file for domain-wide delegation.
	CredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE"`

	// Admin principal the service account impersonates for Drive API
	// calls (required). Must hold shared-drive admin privileges.
	ImpersonateSubject string `env:"IMPERSONATE_SUBJECT"`

	// HTTP listen address.
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	// In-process scheduler. Disable when an external cron hits the
	// sync endpoint instead; only one driving mechanism should be active.
	EnableScheduler bool          `env:"ENABLE_SCHEDULER" envDefault:"true"`
	SyncInterval    time.Duration `env:"SYNC_INTERVAL" envDefault:"6h"`

	// Upper bound on one sync run. Zero means no deadline.
	SyncTimeout time.Duration `env:"SYNC_TIMEOUT" envDefault:"0"`

	// Remote pagination tunables. PageDelay is the pause between result
	// pages; DriveDelay is the pause between drives during a run. Both
	// throttle against the Drive API rate limits.
	PageDelay      time.Duration `env:"PAGE_DELAY" envDefault:"100ms"`
	PageMaxRetries int           `env:"PAGE_MAX_RETRIES" envDefault:"3"`
	DriveDelay     time.Duration `env:"DRIVE_DELAY" envDefault:"200ms"`

	// Number of most-recent sync runs the maintenance prune keeps.
	KeepRuns int `env:"KEEP_RUNS" envDefault:"50"`

	// Environment controls log format.
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// warnInsecureEnvFile checks whether the .env file (if present) has
// overly permissive permissions. On Unix systems, group or world
// readable files risk exposing credentials to other users.
func warnInsecureEnvFile() {
	if runtime.GOOS == "windows" {
		return
	}

	info, err := os.Stat(".env")
	if err != nil {
		return // file does not exist, nothing to check
	}

	mode := info.Mode().Perm()
	if mode&0o077 != 0 {
		log.Printf("WARNING: .env file has insecure permissions %04o; recommended 0600", mode)
	}
}

// Load reads configuration from environment variables.
// It first attempts to load a .env file if present, then parses env vars.
func Load() (*Config, error) {
	_ = godotenv.Load()

	warnInsecureEnvFile()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("GOOGLE_PROJECT_ID is required")
	}

	if c.ImpersonateSubject == "" {
		return fmt.Errorf("IMPERSONATE_SUBJECT is required")
	}

	if c.CredentialsFile == "" {
		return fmt.Errorf("GOOGLE_CREDENTIALS_FILE is required")
	}

	if c.SyncInterval <= 0 {
		return fmt.Errorf("SYNC_INTERVAL must be a positive duration")
	}

	if c.SyncTimeout < 0 {
		return fmt.Errorf("SYNC_TIMEOUT must not be negative")
	}

	if c.PageDelay < 0 || c.DriveDelay < 0 {
		return fmt.Errorf("PAGE_DELAY and DRIVE_DELAY must not be negative")
	}

	if c.PageMaxRetries < 0 {
		return fmt.Errorf("PAGE_MAX_RETRIES must not be negative")
	}

	if c.KeepRuns <= 0 {
		return fmt.Errorf("KEEP_RUNS must be positive")
	}

	return nil
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
