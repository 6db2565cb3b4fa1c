package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config holds all scanner service settings, populated from environment variables.
type Config struct {
	ArchiveDir      string
	ScanInterval    time.Duration // 0 means scan once and exit
	Permissive      bool
	IndexPath       string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	if shutdownTimeout <= 0 {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT: must be positive")
	}

	scanInterval, err := parseDuration("SCAN_INTERVAL", "0s")
	if err != nil {
		return nil, err
	}
	if scanInterval < 0 {
		return nil, errors.New("invalid SCAN_INTERVAL: must not be negative")
	}

	permissive, err := parseBool("PERMISSIVE", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ArchiveDir:      os.Getenv("ARCHIVE_DIR"),
		ScanInterval:    scanInterval,
		Permissive:      permissive,
		IndexPath:       os.Getenv("INDEX_PATH"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.ArchiveDir == "" {
		return nil, errors.New("ARCHIVE_DIR is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	switch v := os.Getenv(key); v {
	case "":
		return fallback, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s %q: want true or false", key, v)
	}
}
