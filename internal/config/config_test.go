package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "MAX_PAGES", "MIN_DOCUMENTS", "MAX_DOCUMENTS", "STORE_DRIVER", "CORS_ORIGINS", "SINGLE_DOC_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8001" {
		t.Errorf("expected port 8001, got %q", cfg.Port)
	}
	if cfg.MaxPages != 50 || cfg.MinDocuments != 3 || cfg.MaxDocuments != 10 {
		t.Errorf("unexpected limits: pages=%d min=%d max=%d", cfg.MaxPages, cfg.MinDocuments, cfg.MaxDocuments)
	}
	if cfg.SingleDocTimeout != 10*time.Second {
		t.Errorf("expected 10s single timeout, got %s", cfg.SingleDocTimeout)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("expected wildcard CORS default, got %v", cfg.CORSOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("PER_DOC_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("MAX_PAGES", "not-a-number")

	cfg := Load()
	if cfg.WorkerCount != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.WorkerCount)
	}
	if cfg.PerDocTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.PerDocTimeout)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("unexpected origins %v", cfg.CORSOrigins)
	}
	if cfg.MaxPages != 50 {
		t.Errorf("expected fallback for bad value, got %d", cfg.MaxPages)
	}
}

func TestValidate(t *testing.T) {
	base := Load()
	base.StoreDriver = "memory"

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"count range", func(c *Config) { c.MaxDocuments = 2 }, "MAX_DOCUMENTS"},
		{"per doc timeout", func(c *Config) { c.PerDocTimeout = 2 * time.Minute }, "PER_DOC_TIMEOUT"},
		{"driver", func(c *Config) { c.StoreDriver = "mongo" }, "STORE_DRIVER"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
	}
	for _, tc := range cases {
		cfg := base
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: expected error mentioning %s, got %v", tc.name, tc.want, err)
		}
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	if err != nil || lvl != slog.LevelDebug {
		t.Errorf("expected debug, got %v (%v)", lvl, err)
	}
}

func TestLoadScoring_Defaults(t *testing.T) {
	s, err := LoadScoring("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Rank.MaxExcerptChars != 500 || s.Structure.MaxHeadings != 50 {
		t.Errorf("unexpected defaults: %+v", s)
	}
}

func TestLoadScoring_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	body := `
structure:
  min_confidence: 0.6
rank:
  max_excerpt_chars: 300
  lexicon:
    chef:
      - recipe
      - menu
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadScoring(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Structure.MinConfidence != 0.6 {
		t.Errorf("expected min_confidence 0.6, got %v", s.Structure.MinConfidence)
	}
	if s.Structure.MaxHeadings != 50 {
		t.Errorf("expected untouched default 50, got %d", s.Structure.MaxHeadings)
	}
	if s.Rank.MaxExcerptChars != 300 {
		t.Errorf("expected 300, got %d", s.Rank.MaxExcerptChars)
	}
	if len(s.Rank.Lexicon["chef"]) != 2 {
		t.Errorf("expected chef lexicon entry, got %v", s.Rank.Lexicon["chef"])
	}
	if len(s.Rank.Lexicon["investor"]) == 0 {
		t.Error("expected built-in lexicon entries to survive the merge")
	}
}

func TestLoadScoring_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("rank:\n  max_results: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScoring(path); err == nil || !strings.Contains(err.Error(), "rank") {
		t.Errorf("expected rank validation error, got %v", err)
	}

	if _, err := LoadScoring(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected missing file error")
	}
}
