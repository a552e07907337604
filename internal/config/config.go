package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth
	EditorAPIKey string

	// Anthropic generation
	AnthropicAPIKey string
	AnthropicModel  string
	Temperature     float64

	// Concurrency
	MaxConcurrentGenerate int

	// Upload limits
	MaxUploadBytes int64

	// Session state
	SessionTTL time.Duration

	// LLM stats
	StatsWindow time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	// Missing .env is fine; environment variables take precedence anyway.
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		EditorAPIKey: os.Getenv("EDITOR_API_KEY"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		Temperature:     envFloat("TEMPERATURE", 0.7),

		MaxConcurrentGenerate: envInt("MAX_CONCURRENT_GENERATE", 5),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		SessionTTL: envDuration("SESSION_TTL", 1*time.Hour),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxConcurrentGenerate <= 0 {
		cfg.MaxConcurrentGenerate = 5
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.Temperature < 0 || cfg.Temperature > 1 {
		cfg.Temperature = 0.7
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.EditorAPIKey == "" {
		return fmt.Errorf("EDITOR_API_KEY is required")
	}
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
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

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
