package rank

import "fmt"

// Weights combines the per-section signals into a raw relevance score.
type Weights struct {
	Keyword   float64 `yaml:"keyword"`
	Title     float64 `yaml:"title"`
	Salience  float64 `yaml:"salience"`
	Position  float64 `yaml:"position"`
	Indicator float64 `yaml:"indicator"`
}

// Salience is the structural weight of a section by heading level.
type Salience struct {
	H1   float64 `yaml:"h1"`
	H2   float64 `yaml:"h2"`
	H3   float64 `yaml:"h3"`
	None float64 `yaml:"none"`
}

func (s Salience) forLevel(level int) float64 {
	switch level {
	case 1:
		return s.H1
	case 2:
		return s.H2
	case 3:
		return s.H3
	}
	return s.None
}

// Config holds the ranking weights, lexicon and output bounds.
type Config struct {
	Weights  Weights  `yaml:"weights"`
	Salience Salience `yaml:"salience"`
	// CoverageShare splits the keyword signal between weighted keyword
	// coverage and raw keyword density.
	CoverageShare float64 `yaml:"coverage_share"`
	// DensitySaturation is the keyword density at which the density signal
	// reaches 1.
	DensitySaturation float64 `yaml:"density_saturation"`
	// PositionDecay shapes the prior 1/(1+decay*index) over a document's sections.
	PositionDecay float64 `yaml:"position_decay"`
	// ExpansionWeight is the weight of lexicon terms relative to terms taken
	// directly from the persona and job.
	ExpansionWeight float64 `yaml:"expansion_weight"`
	// Lexicon maps a persona or job phrase to related terms. A phrase applies
	// when all of its tokens occur in the persona or job.
	Lexicon map[string][]string `yaml:"lexicon"`
	// Indicators are title words that mark summary-like sections.
	Indicators      []string `yaml:"indicators"`
	MaxExcerptChars int      `yaml:"max_excerpt_chars"`
	MaxResults      int      `yaml:"max_results"`
	MinRelevance    float64  `yaml:"min_relevance"`
}

// DefaultConfig returns the tuned default ranking configuration.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Keyword:   0.55,
			Title:     0.15,
			Salience:  0.15,
			Position:  0.10,
			Indicator: 0.05,
		},
		Salience:          Salience{H1: 1.0, H2: 0.8, H3: 0.4, None: 0.3},
		CoverageShare:     0.7,
		DensitySaturation: 0.1,
		PositionDecay:     0.1,
		ExpansionWeight:   0.5,
		Lexicon: map[string][]string{
			"investor":             {"revenue", "growth", "market", "financial", "investment", "returns"},
			"phd student":          {"research", "methodology", "literature", "analysis", "theory", "study"},
			"researcher":           {"data", "results", "findings", "conclusion", "experiment", "hypothesis"},
			"manager":              {"strategy", "performance", "objectives", "implementation", "management"},
			"student":              {"introduction", "overview", "summary", "basics", "fundamentals"},
			"literature review":    {"related work", "previous studies", "research", "literature"},
			"revenue trends":       {"revenue", "sales", "growth", "financial", "trends"},
			"prepare presentation": {"summary", "key points", "overview", "highlights"},
			"conduct research":     {"methodology", "data", "analysis", "findings", "results"},
		},
		Indicators:      []string{"summary", "conclusion", "results", "overview", "abstract"},
		MaxExcerptChars: 500,
		MaxResults:      100,
	}
}

// Validate checks weight and bound ranges.
func (c Config) Validate() error {
	w := c.Weights
	for name, v := range map[string]float64{
		"keyword": w.Keyword, "title": w.Title, "salience": w.Salience,
		"position": w.Position, "indicator": w.Indicator,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must be >= 0, got %v", name, v)
		}
	}
	if w.Keyword+w.Title+w.Salience+w.Position+w.Indicator <= 0 {
		return fmt.Errorf("at least one weight must be positive")
	}
	if c.CoverageShare < 0 || c.CoverageShare > 1 {
		return fmt.Errorf("coverage_share must be within [0,1], got %v", c.CoverageShare)
	}
	if c.DensitySaturation <= 0 {
		return fmt.Errorf("density_saturation must be > 0")
	}
	if c.MaxExcerptChars <= 0 {
		return fmt.Errorf("max_excerpt_chars must be > 0")
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("max_results must be > 0")
	}
	if c.MinRelevance < 0 || c.MinRelevance > 1 {
		return fmt.Errorf("min_relevance must be within [0,1], got %v", c.MinRelevance)
	}
	return nil
}
