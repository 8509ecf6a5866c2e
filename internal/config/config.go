package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/slidecast/internal/speech"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Slides
	OutputDir string
	ThemeFile string

	// Upload limits
	MaxUploadBytes int64

	// Request handling
	RequestTimeout time.Duration

	// Volcengine TTS
	Speech speech.Config
}

// Load reads the process environment. A .env file in the working directory,
// when present, fills in variables that are not already set.
func Load(log *slog.Logger) Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) && log != nil {
		log.Warn("failed to load .env file", "error", err)
	}

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("SLIDECAST_API_KEY"),

		OutputDir: envOr("OUTPUT_DIR", "."),
		ThemeFile: os.Getenv("THEME_FILE"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		RequestTimeout: envDuration("REQUEST_TIMEOUT", 5*time.Minute),

		Speech: speech.LoadConfig(os.LookupEnv, log),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Minute
	}

	return cfg
}

// Validate checks what the HTTP server needs. Speech credentials are
// optional there; the podcast endpoint reports them missing per request.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("SLIDECAST_API_KEY is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric: %q", c.Port)
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
