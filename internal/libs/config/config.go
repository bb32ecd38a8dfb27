// Package config provides application configuration management from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabaseURL       string
	APIPort           string
	APIHost           string
	LogLevel          string
	LogFile           string
	DataDir           string
	DirectoryURL      string
	SearchMaxResults  int
	DirectoryAttempts int
	RatingInterval    time.Duration
	RatingBacklogDays int
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", filepath.Join(".", "data"))
	apiPort := getEnv("API_PORT", "8080")

	cfg := &Config{
		DatabaseURL:  getEnv("DATABASE_URL", "sqlite://"+filepath.Join(dataDir, "sentify.db")),
		APIPort:      apiPort,
		APIHost:      getEnv("API_HOST", "0.0.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
		DataDir:      dataDir,
		DirectoryURL: getEnv("DIRECTORY_URL", "http://localhost:"+apiPort),
	}

	var err error
	if cfg.SearchMaxResults, err = getEnvInt("SEARCH_MAX_RESULTS", 4); err != nil {
		return nil, err
	}
	if cfg.DirectoryAttempts, err = getEnvInt("DIRECTORY_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.RatingInterval, err = getEnvDuration("RATING_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.RatingBacklogDays, err = getEnvInt("RATING_BACKLOG_DAYS", 7); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Addr returns the host:port the API listens on
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.APIHost, c.APIPort)
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if _, err := strconv.Atoi(c.APIPort); err != nil {
		return fmt.Errorf("API_PORT must be numeric: %w", err)
	}
	if c.SearchMaxResults <= 0 {
		return fmt.Errorf("SEARCH_MAX_RESULTS must be positive, got %d", c.SearchMaxResults)
	}
	if c.DirectoryAttempts <= 0 {
		return fmt.Errorf("DIRECTORY_ATTEMPTS must be positive, got %d", c.DirectoryAttempts)
	}
	if c.RatingInterval <= 0 {
		return fmt.Errorf("RATING_INTERVAL must be positive, got %s", c.RatingInterval)
	}
	if c.RatingBacklogDays < 1 {
		return fmt.Errorf("RATING_BACKLOG_DAYS must be at least 1, got %d", c.RatingBacklogDays)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
