// Package rank scores sections from several documents against a persona and
// job-to-be-done and returns one cross-document relevance ordering.
package rank

import (
	"math"
	"sort"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/doctree"
)

// DocumentSections is the section list of one document in the pool.
type DocumentSections struct {
	Name     string
	Sections []doctree.Section
}

// Ranker scores sections with a read-only Config. It is safe for
// concurrent use.
type Ranker struct {
	cfg        Config
	indicators map[string]bool
}

// New validates cfg and returns a Ranker.
func New(cfg Config) (*Ranker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ind := make(map[string]bool, len(cfg.Indicators))
	for _, w := range cfg.Indicators {
		for _, t := range Tokenize(w) {
			ind[t] = true
		}
	}
	return &Ranker{cfg: cfg, indicators: ind}, nil
}

// Config returns the configuration the ranker was built with.
func (r *Ranker) Config() Config { return r.cfg }

type scored struct {
	section doctree.Section
	score   float64
	doc     int
	index   int
}

// Rank scores every section of every document, normalizes the scores by the
// pool maximum, orders them by score (ties by document then section order)
// and assigns dense 1-based ranks. topN <= 0 returns all sections up to
// MaxResults.
func (r *Ranker) Rank(docs []DocumentSections, persona doctree.PersonaProfile, topN int) []doctree.RankedSection {
	kw := r.cfg.DeriveKeywords(persona)

	var pool []scored
	for d, doc := range docs {
		for i, s := range doc.Sections {
			if s.DocumentName == "" {
				s.DocumentName = doc.Name
			}
			pool = append(pool, scored{section: s, score: r.rawScore(s, i, kw), doc: d, index: i})
		}
	}

	maxScore := 0.0
	for _, p := range pool {
		maxScore = math.Max(maxScore, p.score)
	}
	for i := range pool {
		if maxScore > 0 {
			pool[i].score = round4(pool[i].score / maxScore)
		} else {
			pool[i].score = 0
		}
	}

	// Pool order is already (document, section), so a stable sort keeps ties in it.
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].score > pool[j].score })

	limit := r.cfg.MaxResults
	if topN > 0 && topN < limit {
		limit = topN
	}

	out := make([]doctree.RankedSection, 0, min(limit, len(pool)))
	for _, p := range pool {
		if len(out) >= limit {
			break
		}
		if p.score < r.cfg.MinRelevance {
			break
		}
		out = append(out, doctree.RankedSection{
			DocumentName:   p.section.DocumentName,
			SectionTitle:   p.section.SectionTitle,
			PageNumber:     p.section.PageNumber,
			ImportanceRank: len(out) + 1,
			RelevanceScore: p.score,
			KeyText:        r.Excerpt(p.section.Text, kw),
			Section:        p.section,
		})
	}
	return out
}

// rawScore combines keyword overlap, title match, structural salience,
// positional prior and summary indicators.
func (r *Ranker) rawScore(s doctree.Section, index int, kw Keywords) float64 {
	w := r.cfg.Weights
	body := Tokenize(s.Text)
	title := Tokenize(s.SectionTitle)

	tokens := make([]string, 0, len(body)+len(title))
	tokens = append(tokens, title...)
	tokens = append(tokens, body...)

	overlap := r.cfg.CoverageShare*coverage(tokens, kw) +
		(1-r.cfg.CoverageShare)*math.Min(1, density(tokens, kw)/r.cfg.DensitySaturation)

	indicator := 0.0
	for _, t := range title {
		if r.indicators[t] {
			indicator = 1
			break
		}
	}

	return w.Keyword*overlap +
		w.Title*coverage(title, kw) +
		w.Salience*r.cfg.Salience.forLevel(s.Level()) +
		w.Position*(1/(1+r.cfg.PositionDecay*float64(index))) +
		w.Indicator*indicator
}

// coverage is the weighted share of keywords that occur in tokens.
func coverage(tokens []string, kw Keywords) float64 {
	total := kw.Total()
	if total == 0 || len(tokens) == 0 {
		return 0
	}
	seen := make(map[string]bool)
	hit := 0.0
	for _, t := range tokens {
		if w, ok := kw[t]; ok && !seen[t] {
			seen[t] = true
			hit += w
		}
	}
	return hit / total
}

// density is the share of tokens that are keywords.
func density(tokens []string, kw Keywords) float64 {
	if len(tokens) == 0 {
		return 0
	}
	n := 0
	for _, t := range tokens {
		if _, ok := kw[t]; ok {
			n++
		}
	}
	return float64(n) / float64(len(tokens))
}

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
