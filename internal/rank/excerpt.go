package rank

import (
	"strings"
	"unicode/utf8"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/segment"
)

// Excerpt returns the window of consecutive sentences, at most
// MaxExcerptChars runes long, carrying the most keyword weight. The earliest
// window wins ties. Without any keyword hit it returns the leading text.
func (r *Ranker) Excerpt(text string, kw Keywords) string {
	limit := r.cfg.MaxExcerptChars
	flat := strings.Join(strings.Fields(text), " ")
	if flat == "" {
		return ""
	}

	sentences := segment.Sentences(flat)
	weights := make([]float64, len(sentences))
	for i, s := range sentences {
		for _, t := range Tokenize(s) {
			weights[i] += kw[t]
		}
	}

	best, bestWeight := "", 0.0
	for i := range sentences {
		window := truncateWords(sentences[i], limit)
		weight := weights[i]
		for j := i + 1; j < len(sentences); j++ {
			next := window + " " + sentences[j]
			if utf8.RuneCountInString(next) > limit {
				break
			}
			window = next
			weight += weights[j]
		}
		if weight > bestWeight {
			best, bestWeight = window, weight
		}
	}
	if best == "" {
		return truncateWords(flat, limit)
	}
	return best
}

// truncateWords cuts s to at most limit runes, at a word boundary when one
// exists.
func truncateWords(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		return cut[:i]
	}
	return cut
}
