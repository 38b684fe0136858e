package parser

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/unicode/norm"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/doctree"
)

const defaultPageHeight = 792.0 // US Letter

// Validate checks the PDF header, parses and validates the file with pdfcpu
// and enforces the page limit. It returns the page count.
func Validate(data []byte, maxPages int) (pages int, err error) {
	if !IsPDF(data) {
		return 0, fmt.Errorf("%w: missing %%PDF header", ErrInvalidPDF)
	}
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("%w: %v", ErrInvalidPDF, r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadAndValidate(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	if maxPages > 0 && ctx.PageCount > maxPages {
		return ctx.PageCount, fmt.Errorf("%w: %d pages (max %d)", ErrTooManyPages, ctx.PageCount, maxPages)
	}
	return ctx.PageCount, nil
}

// PDFParser extracts spans with ledongthuc/pdf.
type PDFParser struct {
	// SpaceGap is the horizontal gap, in multiples of the font size, above
	// which a space is inserted between glyphs of the same run.
	SpaceGap float64
	// ColumnGap is the gap that splits a line into separate spans.
	ColumnGap float64
	// LineTolerance is the baseline drift, in multiples of the font size,
	// tolerated within one line.
	LineTolerance float64
}

// NewPDFParser returns a parser with default layout tolerances.
func NewPDFParser() *PDFParser {
	return &PDFParser{
		SpaceGap:      0.2,
		ColumnGap:     3.0,
		LineTolerance: 0.5,
	}
}

// Extract reads every page and returns its spans in reading order. The
// context is checked between pages so an abandoned document stops early.
func (p *PDFParser) Extract(ctx context.Context, data []byte) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: %v", ErrInvalidPDF, r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	doc = &Document{PageCount: reader.NumPage()}
	order := 0
	for i := 1; i <= doc.PageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		runs := p.groupRuns(page.Content().Text)
		height := pageHeight(page)
		for _, r := range sortReadingOrder(runs, p.LineTolerance) {
			text := cleanText(r.text.String())
			if text == "" {
				continue
			}
			doc.Spans = append(doc.Spans, doctree.TextSpan{
				Text:       text,
				Page:       i - 1,
				FontSize:   r.size,
				FontName:   r.font,
				Flags:      fontFlags(r.font),
				BBox:       r.bbox(height),
				OrderIndex: order,
			})
			order++
		}
	}
	return doc, nil
}

// run is a sequence of glyphs sharing font, size and baseline.
type run struct {
	font     string
	size     float64
	baseline float64
	x0, x1   float64
	text     strings.Builder
}

func (r *run) bbox(pageHeight float64) doctree.BBox {
	top := pageHeight - r.baseline - 0.8*r.size
	bottom := pageHeight - r.baseline + 0.2*r.size
	return doctree.BBox{
		X0: r.x0,
		Y0: math.Max(0, top),
		X1: r.x1,
		Y1: math.Max(0, bottom),
	}
}

// groupRuns merges glyphs in content-stream order into runs.
func (p *PDFParser) groupRuns(glyphs []pdflib.Text) []*run {
	var runs []*run
	var cur *run

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		size := math.Abs(g.FontSize)
		if size == 0 {
			size = 1
		}
		width := g.W
		if width <= 0 {
			width = 0.5 * size * float64(len([]rune(g.S)))
		}

		if cur != nil && p.continues(cur, g, size) {
			gap := g.X - cur.x1
			if gap > p.SpaceGap*size && g.S != " " && !strings.HasSuffix(cur.text.String(), " ") {
				cur.text.WriteByte(' ')
			}
			cur.text.WriteString(g.S)
			cur.x1 = math.Max(cur.x1, g.X+width)
			continue
		}

		cur = &run{font: g.Font, size: size, baseline: g.Y, x0: g.X, x1: g.X + width}
		cur.text.WriteString(g.S)
		runs = append(runs, cur)
	}
	return runs
}

func (p *PDFParser) continues(cur *run, g pdflib.Text, size float64) bool {
	if g.Font != cur.font || math.Abs(size-cur.size) > 0.01 {
		return false
	}
	if math.Abs(g.Y-cur.baseline) > p.LineTolerance*size {
		return false
	}
	gap := g.X - cur.x1
	return gap >= -size && gap <= p.ColumnGap*size
}

// sortReadingOrder orders runs top-to-bottom, then left-to-right within a line.
func sortReadingOrder(runs []*run, tolerance float64) []*run {
	if len(runs) == 0 {
		return nil
	}
	sorted := make([]*run, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].baseline > sorted[j].baseline
	})

	lines := make([]int, len(sorted))
	line := 0
	top := sorted[0].baseline
	for i, r := range sorted {
		if top-r.baseline > tolerance*r.size {
			line++
			top = r.baseline
		}
		lines[i] = line
	}

	idx := make([]int, len(sorted))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if lines[idx[a]] != lines[idx[b]] {
			return lines[idx[a]] < lines[idx[b]]
		}
		return sorted[idx[a]].x0 < sorted[idx[b]].x0
	})

	out := make([]*run, len(sorted))
	for i, k := range idx {
		out[i] = sorted[k]
	}
	return out
}

// pageHeight walks the page tree for an inherited MediaBox.
func pageHeight(page pdflib.Page) float64 {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
				return h
			}
		}
	}
	return defaultPageHeight
}

// fontFlags derives style bits from the font's base name.
func fontFlags(fontName string) doctree.FontFlags {
	name := strings.ToLower(fontName)
	var flags doctree.FontFlags
	for _, marker := range []string{"bold", "black", "heavy", "semibold", "demibold"} {
		if strings.Contains(name, marker) {
			flags |= doctree.FlagBold
			break
		}
	}
	if strings.Contains(name, "italic") || strings.Contains(name, "oblique") {
		flags |= doctree.FlagItalic
	}
	if strings.Contains(name, "courier") || strings.Contains(name, "mono") {
		flags |= doctree.FlagMonospace
	}
	return flags
}

// cleanText applies NFKC (folding ligatures such as "ﬁ") and collapses whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}
