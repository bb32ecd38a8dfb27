package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/sentify-test")

	// Test with default values
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIPort != "8080" {
		t.Errorf("expected default APIPort=8080, got %s", cfg.APIPort)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected default LogLevel=info, got %s", cfg.LogLevel)
	}

	if cfg.SearchMaxResults != 4 {
		t.Errorf("expected default SearchMaxResults=4, got %d", cfg.SearchMaxResults)
	}

	if cfg.DirectoryAttempts != 3 {
		t.Errorf("expected default DirectoryAttempts=3, got %d", cfg.DirectoryAttempts)
	}

	if cfg.RatingInterval != time.Hour {
		t.Errorf("expected default RatingInterval=1h, got %s", cfg.RatingInterval)
	}

	if !strings.HasPrefix(cfg.DatabaseURL, "sqlite://") {
		t.Errorf("expected sqlite default DatabaseURL, got %s", cfg.DatabaseURL)
	}

	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("expected addr 0.0.0.0:8080, got %s", cfg.Addr())
	}

	if cfg.DirectoryURL != "http://localhost:8080" {
		t.Errorf("expected default DirectoryURL on port 8080, got %s", cfg.DirectoryURL)
	}

	if cfg.RatingBacklogDays != 7 {
		t.Errorf("expected default RatingBacklogDays=7, got %d", cfg.RatingBacklogDays)
	}
}

func TestDirectoryURLFollowsPort(t *testing.T) {
	t.Setenv("API_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:9090" {
		t.Errorf("expected addr 0.0.0.0:9090, got %s", cfg.Addr())
	}
	if cfg.DirectoryURL != "http://localhost:9090" {
		t.Errorf("expected DirectoryURL on the API port, got %s", cfg.DirectoryURL)
	}

	t.Setenv("DIRECTORY_URL", "http://directory.internal:7000")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.DirectoryURL != "http://directory.internal:7000" {
		t.Errorf("explicit DIRECTORY_URL should win, got %s", cfg.DirectoryURL)
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SEARCH_MAX_RESULTS", "5")
	t.Setenv("RATING_INTERVAL", "15m")
	t.Setenv("DATABASE_URL", "postgres://sentify@localhost:5432/sentify")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIPort != "9000" {
		t.Errorf("expected APIPort=9000, got %s", cfg.APIPort)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %s", cfg.LogLevel)
	}

	if cfg.SearchMaxResults != 5 {
		t.Errorf("expected SearchMaxResults=5, got %d", cfg.SearchMaxResults)
	}

	if cfg.RatingInterval != 15*time.Minute {
		t.Errorf("expected RatingInterval=15m, got %s", cfg.RatingInterval)
	}

	if cfg.DatabaseURL != "postgres://sentify@localhost:5432/sentify" {
		t.Errorf("unexpected DatabaseURL %s", cfg.DatabaseURL)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "API_PORT", "http"},
		{"non-numeric max results", "SEARCH_MAX_RESULTS", "four"},
		{"zero max results", "SEARCH_MAX_RESULTS", "0"},
		{"negative attempts", "DIRECTORY_ATTEMPTS", "-1"},
		{"bad interval", "RATING_INTERVAL", "soon"},
		{"zero backlog", "RATING_BACKLOG_DAYS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
