package structure

import (
	"math"
	"sort"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/doctree"
)

// lineLayout describes where a span sits relative to neighbouring lines.
type lineLayout struct {
	alone      bool // only span on its line
	spaceAbove bool // top of page, or whitespace above the line
	spaceBelow bool // bottom of page, or whitespace below the line
}

func (l lineLayout) isolation() float64 {
	score := 0.0
	if l.alone {
		score += 0.5
	}
	if l.spaceAbove {
		score += 0.25
	}
	if l.spaceBelow {
		score += 0.25
	}
	return score
}

type textLine struct {
	page   int
	y0, y1 float64
	count  int
}

// layoutLines groups consecutive spans whose boxes overlap vertically into
// lines and reports each span's isolation.
func layoutLines(spans []doctree.TextSpan, gapFactor float64) []lineLayout {
	lineOf := make([]int, len(spans))
	var lines []textLine
	for i, s := range spans {
		if n := len(lines); n > 0 {
			l := &lines[n-1]
			if l.page == s.Page && overlapsVertically(l.y0, l.y1, s.BBox) {
				l.y0 = math.Min(l.y0, s.BBox.Y0)
				l.y1 = math.Max(l.y1, s.BBox.Y1)
				l.count++
				lineOf[i] = n - 1
				continue
			}
		}
		lines = append(lines, textLine{page: s.Page, y0: s.BBox.Y0, y1: s.BBox.Y1, count: 1})
		lineOf[i] = len(lines) - 1
	}

	out := make([]lineLayout, len(spans))
	for i, s := range spans {
		li := lineOf[i]
		l := lines[li]
		gap := gapFactor * s.FontSize
		above := li == 0 || lines[li-1].page != l.page || l.y0-lines[li-1].y1 >= gap
		below := li == len(lines)-1 || lines[li+1].page != l.page || lines[li+1].y0-l.y1 >= gap
		out[i] = lineLayout{alone: l.count == 1, spaceAbove: above, spaceBelow: below}
	}
	return out
}

func overlapsVertically(y0, y1 float64, b doctree.BBox) bool {
	overlap := math.Min(y1, b.Y1) - math.Max(y0, b.Y0)
	minHeight := math.Min(y1-y0, b.Height())
	if minHeight <= 0 {
		return overlap >= 0
	}
	return overlap >= 0.5*minHeight
}

// sizeBucket rounds a font size to the nearest half point.
func sizeBucket(size float64) float64 { return math.Round(size*2) / 2 }

// bodyFontSize returns the most frequent font size. Ties go to the size
// carrying more characters, then to the smaller size.
func bodyFontSize(spans []doctree.TextSpan) float64 {
	type tally struct{ spans, chars int }
	counts := make(map[float64]*tally)
	for _, s := range spans {
		b := sizeBucket(s.FontSize)
		t, ok := counts[b]
		if !ok {
			t = &tally{}
			counts[b] = t
		}
		t.spans++
		t.chars += len([]rune(s.Text))
	}

	best, bestT := 0.0, tally{}
	for size, t := range counts {
		switch {
		case t.spans > bestT.spans,
			t.spans == bestT.spans && t.chars > bestT.chars,
			t.spans == bestT.spans && t.chars == bestT.chars && (best == 0 || size < best):
			best, bestT = size, *t
		}
	}
	return best
}

func medianFontSize(spans []doctree.TextSpan) float64 {
	if len(spans) == 0 {
		return 0
	}
	sizes := make([]float64, len(spans))
	for i, s := range spans {
		sizes[i] = s.FontSize
	}
	sort.Float64s(sizes)
	mid := len(sizes) / 2
	if len(sizes)%2 == 0 {
		return (sizes[mid-1] + sizes[mid]) / 2
	}
	return sizes[mid]
}

const maxLevels = 3

// band is a group of candidates that share one heading level.
type band struct {
	members []int // indices into the candidate slice
	size    float64
}

// assignLevels clusters candidates into at most three font-size bands, ranks
// the bands by average confidence and, when fewer than three bands exist,
// splits a band by numbering depth. Levels are contiguous from 1.
func assignLevels(cands []candidate) []int {
	levels := make([]int, len(cands))
	if len(cands) == 0 {
		return levels
	}

	bands := sizeBands(cands)
	sort.SliceStable(bands, func(i, j int) bool {
		ai, aj := avgConfidence(cands, bands[i]), avgConfidence(cands, bands[j])
		if ai != aj {
			return ai > aj
		}
		if bands[i].size != bands[j].size {
			return bands[i].size > bands[j].size
		}
		return bands[i].members[0] < bands[j].members[0]
	})
	bands = splitByDepth(cands, bands)

	for rank, b := range bands {
		for _, m := range b.members {
			levels[m] = rank + 1
		}
	}
	return levels
}

func sizeBands(cands []candidate) []band {
	var distinct []float64
	seen := make(map[float64]bool)
	for _, c := range cands {
		b := sizeBucket(c.span.FontSize)
		if !seen[b] {
			seen[b] = true
			distinct = append(distinct, b)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(distinct)))

	// Bucket -> band index. With more than three sizes, cut at the two widest gaps.
	bandOf := make(map[float64]int, len(distinct))
	if len(distinct) <= maxLevels {
		for i, d := range distinct {
			bandOf[d] = i
		}
	} else {
		gaps := make([]int, len(distinct)-1)
		for i := range gaps {
			gaps[i] = i
		}
		sort.SliceStable(gaps, func(a, b int) bool {
			ga := distinct[gaps[a]] - distinct[gaps[a]+1]
			gb := distinct[gaps[b]] - distinct[gaps[b]+1]
			return ga > gb
		})
		cuts := []int{gaps[0], gaps[1]}
		sort.Ints(cuts)
		for i, d := range distinct {
			switch {
			case i <= cuts[0]:
				bandOf[d] = 0
			case i <= cuts[1]:
				bandOf[d] = 1
			default:
				bandOf[d] = 2
			}
		}
	}

	n := 0
	for _, idx := range bandOf {
		if idx+1 > n {
			n = idx + 1
		}
	}
	bands := make([]band, n)
	for i, c := range cands {
		b := &bands[bandOf[sizeBucket(c.span.FontSize)]]
		b.members = append(b.members, i)
		b.size = math.Max(b.size, c.span.FontSize)
	}
	return bands
}

// splitByDepth fills unused levels by separating numbered headings of
// different depth ("1" vs "1.1") that share a font size. Unnumbered members
// stay level with the shallowest numbered depth of their band.
func splitByDepth(cands []candidate, bands []band) []band {
	var out []band
	for i, b := range bands {
		room := maxLevels - len(out) - (len(bands) - i - 1)
		if room <= 1 {
			out = append(out, b)
			continue
		}

		shallowest := 0
		for _, m := range b.members {
			if d := cands[m].depth; d > 0 && (shallowest == 0 || d < shallowest) {
				shallowest = d
			}
		}

		byDepth := make(map[int][]int)
		var depths []int
		for _, m := range b.members {
			d := cands[m].depth
			if d == 0 {
				d = shallowest
			}
			if _, ok := byDepth[d]; !ok {
				depths = append(depths, d)
			}
			byDepth[d] = append(byDepth[d], m)
		}
		if len(depths) == 1 {
			out = append(out, b)
			continue
		}
		sort.Ints(depths)

		parts := make([]band, 0, room)
		for _, d := range depths {
			if len(parts) < room {
				parts = append(parts, band{size: b.size})
			}
			last := &parts[len(parts)-1]
			last.members = append(last.members, byDepth[d]...)
		}
		for _, p := range parts {
			sort.Ints(p.members)
			out = append(out, p)
		}
	}
	return out
}

func avgConfidence(cands []candidate, b band) float64 {
	sum := 0.0
	for _, m := range b.members {
		sum += cands[m].confidence
	}
	return sum / float64(len(b.members))
}
