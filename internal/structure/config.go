package structure

import (
	"fmt"
	"regexp"
)

// TitleWeights weights the title candidate signals.
type TitleWeights struct {
	FontSize   float64 `yaml:"font_size"`
	Bold       float64 `yaml:"bold"`
	Length     float64 `yaml:"length"`
	Position   float64 `yaml:"position"`
	SingleLine float64 `yaml:"single_line"`
}

// HeadingWeights weights the heading candidate signals.
type HeadingWeights struct {
	FontSize  float64 `yaml:"font_size"`
	Bold      float64 `yaml:"bold"`
	Italic    float64 `yaml:"italic"`
	Lexical   float64 `yaml:"lexical"`
	Isolation float64 `yaml:"isolation"`
}

// Config holds the weights and thresholds of structure extraction.
type Config struct {
	TitleWeights   TitleWeights `yaml:"title_weights"`
	TitleThreshold float64      `yaml:"title_threshold"`
	// TitleRegion is the fraction of page 0's text extent, from the top,
	// searched for a title.
	TitleRegion   float64 `yaml:"title_region"`
	TitleMinChars int     `yaml:"title_min_chars"`
	TitleMaxChars int     `yaml:"title_max_chars"`
	// TitleSizeSpan is the ratio above the median font size at which the
	// title size signal saturates.
	TitleSizeSpan float64 `yaml:"title_size_span"`

	Weights HeadingWeights `yaml:"heading_weights"`
	// SizeSaturation is the ratio above the body font size at which the
	// heading size signal saturates.
	SizeSaturation float64 `yaml:"size_saturation"`
	// MinSizeRatio discards spans smaller than this fraction of body text.
	MinSizeRatio    float64 `yaml:"min_size_ratio"`
	MinConfidence   float64 `yaml:"min_confidence"`
	MinHeadingChars int     `yaml:"min_heading_chars"`
	MaxHeadingChars int     `yaml:"max_heading_chars"`
	MaxHeadingWords int     `yaml:"max_heading_words"`
	ShortWords      int     `yaml:"short_words"`
	MaxHeadings     int     `yaml:"max_headings"`
	// GapFactor is the vertical whitespace, in multiples of the span's font
	// size, that counts as separation from the neighbouring line.
	GapFactor float64 `yaml:"gap_factor"`
	// DuplicateYTolerance drops a heading within this many points of a
	// stronger heading on the same page.
	DuplicateYTolerance float64  `yaml:"duplicate_y_tolerance"`
	NumberedPatterns    []string `yaml:"numbered_patterns"`
}

// DefaultConfig returns the tuned default weights.
func DefaultConfig() Config {
	return Config{
		TitleWeights: TitleWeights{
			FontSize:   0.40,
			Bold:       0.15,
			Length:     0.15,
			Position:   0.20,
			SingleLine: 0.10,
		},
		TitleThreshold: 0.65,
		TitleRegion:    0.4,
		TitleMinChars:  3,
		TitleMaxChars:  120,
		TitleSizeSpan:  0.5,

		Weights: HeadingWeights{
			FontSize:  0.35,
			Bold:      0.20,
			Italic:    0.05,
			Lexical:   0.25,
			Isolation: 0.15,
		},
		SizeSaturation:      0.5,
		MinSizeRatio:        0.95,
		MinConfidence:       0.5,
		MinHeadingChars:     3,
		MaxHeadingChars:     200,
		MaxHeadingWords:     20,
		ShortWords:          12,
		MaxHeadings:         50,
		GapFactor:           0.8,
		DuplicateYTolerance: 10,
		NumberedPatterns: []string{
			`^(?i)(chapter|section|part|appendix)\s+[0-9IVXLC]+\b`,
			`^\d{1,2}(\.\d+)*\.?\s+\S`,
			`^[IVXLC]+\.\s+\S`,
			`^[A-Z]\.\s+\S`,
		},
	}
}

// Validate checks ranges and compiles the numbered patterns.
func (c Config) Validate() error {
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be within [0,1], got %v", c.MinConfidence)
	}
	if c.TitleRegion <= 0 || c.TitleRegion > 1 {
		return fmt.Errorf("title_region must be within (0,1], got %v", c.TitleRegion)
	}
	if c.SizeSaturation <= 0 || c.TitleSizeSpan <= 0 {
		return fmt.Errorf("size_saturation and title_size_span must be > 0")
	}
	if c.MaxHeadings <= 0 {
		return fmt.Errorf("max_headings must be > 0")
	}
	if _, err := compilePatterns(c.NumberedPatterns); err != nil {
		return err
	}
	return nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("numbered pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}
