package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/doomedramen/autopwn-sub010/pkg/debug"
	"github.com/doomedramen/autopwn-sub010/pkg/env"
	"github.com/doomedramen/autopwn-sub010/pkg/fsutil"
)

// Config holds the application configuration
type Config struct {
	Host     string
	HTTPPort int
	DataDir  string

	// Cracking engine settings
	HashcatBinary string
	DeviceType    string // optional hashcat -D device-class hint, e.g. "1" (CPU) or "2" (GPU)
	StatusTimer   int    // seconds between hashcat status lines

	// Scheduler settings
	PollInterval time.Duration

	// Dictionary index settings
	DictionarySyncSchedule string // cron spec for directory re-scans
}

// NewConfig creates a new Config instance with values from environment variables
func NewConfig() *Config {
	cfg := &Config{
		Host:                   env.GetOrDefault("AUTOPWN_HOST", "localhost"),
		HTTPPort:               env.GetInt("AUTOPWN_HTTP_PORT", 8666),
		HashcatBinary:          env.GetOrDefault("AUTOPWN_HASHCAT_BINARY", "hashcat"),
		DeviceType:             os.Getenv("AUTOPWN_DEVICE_TYPE"),
		StatusTimer:            env.GetInt("AUTOPWN_STATUS_TIMER", 5),
		PollInterval:           env.GetDuration("AUTOPWN_POLL_INTERVAL", 2*time.Second),
		DictionarySyncSchedule: env.GetOrDefault("AUTOPWN_DICTIONARY_SYNC_SCHEDULE", "@every 1m"),
	}

	if env.GetBool("AUTOPWN_IN_DOCKER") {
		cfg.Host = "0.0.0.0"
	}

	dataDir := os.Getenv("AUTOPWN_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			dataDir = ".autopwn"
		} else {
			dataDir = filepath.Join(home, ".autopwn")
		}
	}
	cfg.DataDir = dataDir

	// Create the data directory layout if it doesn't exist
	for _, subdir := range []string{"hashes", "dictionaries", "captures"} {
		dir := filepath.Join(dataDir, subdir)
		if err := fsutil.EnsureDirectoryExists(dir); err != nil {
			debug.Error("Failed to create data subdirectory %s: %v", subdir, err)
		}
	}

	debug.Info("Using data directory: %s", cfg.DataDir)
	return cfg
}

// HashesDir returns the directory holding converted hash files
func (c *Config) HashesDir() string {
	return filepath.Join(c.DataDir, "hashes")
}

// DictionariesDir returns the directory scanned for wordlists
func (c *Config) DictionariesDir() string {
	return filepath.Join(c.DataDir, "dictionaries")
}

// CapturesDir returns the directory holding uploaded capture files
func (c *Config) CapturesDir() string {
	return filepath.Join(c.DataDir, "captures")
}
