// Package structure derives a document title and an H1-H3 outline from
// typed text spans using weighted layout and lexical signals.
package structure

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/doctree"
)

// Extractor scores spans against a read-only Config. It is safe for
// concurrent use.
type Extractor struct {
	cfg      Config
	numbered []*regexp.Regexp
}

// New validates cfg and returns an Extractor.
func New(cfg Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	numbered, err := compilePatterns(cfg.NumberedPatterns)
	if err != nil {
		return nil, err
	}
	return &Extractor{cfg: cfg, numbered: numbered}, nil
}

// Config returns the configuration the extractor was built with.
func (e *Extractor) Config() Config { return e.cfg }

// candidate is a span that passed the heading gates.
type candidate struct {
	span       doctree.TextSpan
	confidence float64
	depth      int // numbering depth, 0 when unnumbered
}

// Extract returns the outline of one document. Spans are expected in reading
// order; they are re-sorted by (page, order index) so the result does not
// depend on caller ordering.
func (e *Extractor) Extract(spans []doctree.TextSpan, pageCount int) doctree.DocumentOutline {
	outline := doctree.DocumentOutline{Headings: []doctree.Heading{}, TotalPages: pageCount}
	if len(spans) == 0 {
		return outline
	}

	ordered := make([]doctree.TextSpan, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Page != ordered[j].Page {
			return ordered[i].Page < ordered[j].Page
		}
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})

	layout := layoutLines(ordered, e.cfg.GapFactor)
	outline.Title = e.detectTitle(ordered, layout)

	body := bodyFontSize(ordered)
	var cands []candidate
	for i, s := range ordered {
		if c, ok := e.scoreHeading(s, layout[i], body); ok {
			cands = append(cands, c)
		}
	}
	cands = e.dedupe(cands)
	levels := assignLevels(cands)

	for i, c := range cands {
		outline.Headings = append(outline.Headings, doctree.Heading{
			Text:       c.span.Text,
			Level:      levels[i],
			PageNumber: c.span.Page + 1,
			Confidence: round3(c.confidence),
			Position: doctree.Position{
				X:      c.span.BBox.X0,
				Y:      c.span.BBox.Y0,
				Width:  c.span.BBox.Width(),
				Height: c.span.BBox.Height(),
			},
			BBox:       c.span.BBox,
			OrderIndex: c.span.OrderIndex,
		})
	}
	return outline
}

// detectTitle picks the strongest candidate in the top region of page 0.
func (e *Extractor) detectTitle(spans []doctree.TextSpan, layout []lineLayout) string {
	median := medianFontSize(spans)
	if median <= 0 {
		return ""
	}

	top, bottom := math.Inf(1), math.Inf(-1)
	for _, s := range spans {
		if s.Page != 0 {
			break
		}
		top = math.Min(top, s.BBox.Y0)
		bottom = math.Max(bottom, s.BBox.Y1)
	}
	if math.IsInf(top, 1) {
		return ""
	}
	cut := top + e.cfg.TitleRegion*(bottom-top)

	w := e.cfg.TitleWeights
	best, bestScore := "", e.cfg.TitleThreshold
	for i, s := range spans {
		if s.Page != 0 {
			break
		}
		if s.BBox.Y0 > cut {
			continue
		}
		score := w.FontSize * clamp01((s.FontSize/median-1)/e.cfg.TitleSizeSpan)
		if s.Flags.Has(doctree.FlagBold) {
			score += w.Bold
		}
		if n := len([]rune(s.Text)); n >= e.cfg.TitleMinChars && n <= e.cfg.TitleMaxChars {
			score += w.Length
		}
		if cut > top {
			score += w.Position * clamp01(1-(s.BBox.Y0-top)/(cut-top))
		} else {
			score += w.Position
		}
		if layout[i].alone {
			score += w.SingleLine
		}
		// Strictly greater keeps the earliest span on ties.
		if score > bestScore {
			best, bestScore = s.Text, score
		}
	}
	return best
}

// scoreHeading gates a span and computes its confidence.
func (e *Extractor) scoreHeading(s doctree.TextSpan, l lineLayout, body float64) (candidate, bool) {
	text := strings.TrimSpace(s.Text)
	n := len([]rune(text))
	if n < e.cfg.MinHeadingChars || n > e.cfg.MaxHeadingChars {
		return candidate{}, false
	}
	if countLetters(text) < 2 || len(strings.Fields(text)) > e.cfg.MaxHeadingWords {
		return candidate{}, false
	}
	ratio := 1.0
	if body > 0 {
		ratio = s.FontSize / body
	}
	if ratio < e.cfg.MinSizeRatio {
		return candidate{}, false
	}

	w := e.cfg.Weights
	conf := w.FontSize * clamp01((ratio-1)/e.cfg.SizeSaturation)
	if s.Flags.Has(doctree.FlagBold) {
		conf += w.Bold
	}
	if s.Flags.Has(doctree.FlagItalic) {
		conf += w.Italic
	}
	lex, depth := e.lexicalScore(text)
	conf += w.Lexical * lex
	conf += w.Isolation * l.isolation()
	conf = clamp01(conf)

	if conf < e.cfg.MinConfidence {
		return candidate{}, false
	}
	return candidate{span: s, confidence: conf, depth: depth}, true
}

var leadingNumber = regexp.MustCompile(`^(\d{1,2}(?:\.\d+)*)`)

// lexicalScore rates how heading-like the wording is. Numbered headings
// score 1 and report their numbering depth ("2.3" is depth 2).
func (e *Extractor) lexicalScore(text string) (float64, int) {
	for _, re := range e.numbered {
		if re.MatchString(text) {
			depth := 1
			if m := leadingNumber.FindString(text); m != "" {
				depth = strings.Count(m, ".") + 1
			}
			return 1, depth
		}
	}

	score := 0.0
	if isTitleCase(text) || isAllCaps(text) {
		score += 0.4
	}
	if len(strings.Fields(text)) <= e.cfg.ShortWords {
		score += 0.3
	}
	if last, _ := utf8.DecodeLastRuneInString(text); !strings.ContainsRune(".,;!?", last) {
		score += 0.3
	}
	return clamp01(score), 0
}

// dedupe keeps the strongest of repeated or co-located headings, caps the
// list and restores reading order.
func (e *Extractor) dedupe(cands []candidate) []candidate {
	byStrength := make([]candidate, len(cands))
	copy(byStrength, cands)
	sort.SliceStable(byStrength, func(i, j int) bool {
		return byStrength[i].confidence > byStrength[j].confidence
	})

	seen := make(map[string]bool)
	var kept []candidate
	for _, c := range byStrength {
		if len(kept) >= e.cfg.MaxHeadings {
			break
		}
		key := strings.ToLower(strings.Join(strings.Fields(c.span.Text), " "))
		if seen[key] {
			continue
		}
		near := false
		for _, k := range kept {
			if k.span.Page == c.span.Page && math.Abs(k.span.BBox.Y0-c.span.BBox.Y0) < e.cfg.DuplicateYTolerance {
				near = true
				break
			}
		}
		if near {
			continue
		}
		seen[key] = true
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].span.Page != kept[j].span.Page {
			return kept[i].span.Page < kept[j].span.Page
		}
		return kept[i].span.OrderIndex < kept[j].span.OrderIndex
	})
	return kept
}

func isTitleCase(text string) bool {
	significant, upper := 0, 0
	for _, word := range strings.Fields(text) {
		r := []rune(word)
		if len(r) <= 3 || !unicode.IsLetter(r[0]) {
			continue
		}
		significant++
		if unicode.IsUpper(r[0]) {
			upper++
		}
	}
	if significant == 0 {
		r := []rune(text)
		return len(r) > 0 && unicode.IsUpper(r[0])
	}
	return float64(upper)/float64(significant) >= 0.6
}

func isAllCaps(text string) bool {
	letters, upper := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return letters >= 3 && upper == letters
}

func countLetters(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
