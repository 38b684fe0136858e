package rank

import (
	"sort"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/doctree"
)

// Keywords maps each derived keyword to its weight.
type Keywords map[string]float64

// Total returns the sum of all weights.
func (k Keywords) Total() float64 {
	sum := 0.0
	for _, w := range k {
		sum += w
	}
	return sum
}

// Sorted returns the keywords in lexical order.
func (k Keywords) Sorted() []string {
	out := make([]string, 0, len(k))
	for w := range k {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// DeriveKeywords tokenizes the persona and job into direct terms (weight 1)
// and adds lexicon expansions (ExpansionWeight) for every lexicon phrase
// whose tokens all occur in them.
func (c Config) DeriveKeywords(p doctree.PersonaProfile) Keywords {
	kw := make(Keywords)
	present := make(map[string]bool)
	for _, t := range append(Tokenize(p.Persona), Tokenize(p.JobToBeDone)...) {
		kw[t] = 1
		present[t] = true
	}

	phrases := make([]string, 0, len(c.Lexicon))
	for phrase := range c.Lexicon {
		phrases = append(phrases, phrase)
	}
	sort.Strings(phrases)

	for _, phrase := range phrases {
		tokens := Tokenize(phrase)
		if len(tokens) == 0 {
			continue
		}
		applies := true
		for _, t := range tokens {
			if !present[t] {
				applies = false
				break
			}
		}
		if !applies {
			continue
		}
		for _, term := range c.Lexicon[phrase] {
			for _, t := range Tokenize(term) {
				if kw[t] < c.ExpansionWeight {
					kw[t] = c.ExpansionWeight
				}
			}
		}
	}
	return kw
}
