// ABOUTME: Centralized configuration for the habit journal
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreCharm  = "charm"
	StoreMemory = "memory"
)

// Config holds all configuration for the habit journal
type Config struct {
	// Storage settings
	Store      string
	DataDir    string
	StorageKey string

	// Charm settings
	CharmHost   string
	CharmDBName string
	AutoSync    bool

	// Journal settings
	ChallengeDays int
	AutosaveDelay time.Duration

	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Store:         strings.ToLower(getEnv("HABITS_STORE", StoreFile)),
		DataDir:       os.Getenv("HABITS_DATA_DIR"),
		StorageKey:    getEnv("HABITS_STORAGE_KEY", "habit-journal"),
		CharmHost:     getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:   getEnv("CHARM_DB", "habits"),
		AutoSync:      getEnvBool("CHARM_AUTO_SYNC", true),
		ChallengeDays: getEnvInt("HABITS_CHALLENGE_DAYS", 30),
		AutosaveDelay: getEnvDuration("HABITS_AUTOSAVE_DELAY", 2*time.Second),
		LogLevel:      strings.ToLower(getEnv("HABITS_LOG_LEVEL", "info")),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreSQLite, StoreCharm, StoreMemory:
	default:
		return fmt.Errorf("HABITS_STORE must be one of file, sqlite, charm, memory, got %q", c.Store)
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		return fmt.Errorf("HABITS_STORAGE_KEY must not be empty")
	}
	if c.ChallengeDays < 1 || c.ChallengeDays > 366 {
		return fmt.Errorf("HABITS_CHALLENGE_DAYS must be 1-366, got %d", c.ChallengeDays)
	}
	if c.AutosaveDelay <= 0 {
		return fmt.Errorf("HABITS_AUTOSAVE_DELAY must be positive, got %v", c.AutosaveDelay)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("HABITS_LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
