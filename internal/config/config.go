package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	RpteditAPIKey string

	// NL command interpreter. An empty API key disables the interpreter and
	// routes every instruction through the deterministic fallback parser.
	AnthropicAPIKey string
	AnthropicModel  string

	// Upload limits
	MaxUploadBytes int64

	// Stored report lifetime
	ReportTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		RpteditAPIKey: os.Getenv("RPTEDIT_API_KEY"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 26214400), // 25MB

		ReportTTL: envDuration("REPORT_TTL", 24*time.Hour),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 26214400
	}
	if cfg.ReportTTL <= 0 {
		cfg.ReportTTL = 24 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.RpteditAPIKey == "" {
		return fmt.Errorf("RPTEDIT_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
