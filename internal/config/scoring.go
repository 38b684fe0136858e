package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/rank"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/structure"
)

// Scoring holds the weights and thresholds of structure extraction and
// relevance ranking. It is read-only once loaded.
type Scoring struct {
	Structure structure.Config `yaml:"structure"`
	Rank      rank.Config      `yaml:"rank"`
}

// DefaultScoring returns the built-in weights.
func DefaultScoring() *Scoring {
	return &Scoring{
		Structure: structure.DefaultConfig(),
		Rank:      rank.DefaultConfig(),
	}
}

// LoadScoring reads a YAML file over the defaults. Keys missing from the
// file keep their default value; lexicon entries are merged. An empty path
// returns the defaults.
func LoadScoring(path string) (*Scoring, error) {
	cfg := DefaultScoring()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scoring config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse scoring config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks both sections.
func (s *Scoring) Validate() error {
	if err := s.Structure.Validate(); err != nil {
		return fmt.Errorf("structure: %w", err)
	}
	if err := s.Rank.Validate(); err != nil {
		return fmt.Errorf("rank: %w", err)
	}
	return nil
}
