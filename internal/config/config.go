package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth. Empty disables bearer auth.
	APIKey string

	// Upload limits
	MaxUploadBytes int64
	MaxPages       int
	MinDocuments   int
	MaxDocuments   int

	// Worker pool
	WorkerCount int

	// Deadlines
	SingleDocTimeout time.Duration
	MultiDocTimeout  time.Duration
	PerDocTimeout    time.Duration

	// Multi-document defaults
	DefaultPersona string
	DefaultJob     string

	// Result storage
	StoreDriver string // sqlite or memory
	DBPath      string
	ResultTTL   time.Duration

	// Scoring weights file (YAML); empty uses built-in defaults.
	ScoringConfig string

	LogLevel    string
	CORSOrigins []string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8001"),

		APIKey: os.Getenv("API_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		MaxPages:       envInt("MAX_PAGES", 50),
		MinDocuments:   envInt("MIN_DOCUMENTS", 3),
		MaxDocuments:   envInt("MAX_DOCUMENTS", 10),

		WorkerCount: envInt("WORKER_COUNT", 4),

		SingleDocTimeout: envDuration("SINGLE_DOC_TIMEOUT", 10*time.Second),
		MultiDocTimeout:  envDuration("MULTI_DOC_TIMEOUT", 60*time.Second),
		PerDocTimeout:    envDuration("PER_DOC_TIMEOUT", 30*time.Second),

		DefaultPersona: envOr("DEFAULT_PERSONA", "researcher"),
		DefaultJob:     envOr("DEFAULT_JOB", "conduct research"),

		StoreDriver: envOr("STORE_DRIVER", "sqlite"),
		DBPath:      envOr("DB_PATH", "pdfintel.db"),
		ResultTTL:   envDuration("RESULT_TTL", 24*time.Hour),

		ScoringConfig: os.Getenv("SCORING_CONFIG"),

		LogLevel:    envOr("LOG_LEVEL", "info"),
		CORSOrigins: envList("CORS_ORIGINS", []string{"*"}),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 50
	}
	if cfg.SingleDocTimeout <= 0 {
		cfg.SingleDocTimeout = 10 * time.Second
	}
	if cfg.MultiDocTimeout <= 0 {
		cfg.MultiDocTimeout = 60 * time.Second
	}
	if cfg.PerDocTimeout <= 0 {
		cfg.PerDocTimeout = 30 * time.Second
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.MinDocuments < 1 {
		return fmt.Errorf("MIN_DOCUMENTS must be >= 1, got %d", c.MinDocuments)
	}
	if c.MaxDocuments < c.MinDocuments {
		return fmt.Errorf("MAX_DOCUMENTS (%d) must be >= MIN_DOCUMENTS (%d)", c.MaxDocuments, c.MinDocuments)
	}
	if c.PerDocTimeout > c.MultiDocTimeout {
		return fmt.Errorf("PER_DOC_TIMEOUT (%s) must not exceed MULTI_DOC_TIMEOUT (%s)", c.PerDocTimeout, c.MultiDocTimeout)
	}
	switch c.StoreDriver {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite store")
		}
	case "memory":
	default:
		return fmt.Errorf("STORE_DRIVER must be sqlite or memory, got %q", c.StoreDriver)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps LOG_LEVEL to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", s)
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
