package structure

import (
	"reflect"
	"strings"
	"testing"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/doctree"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/segment"
)

// spanBuilder appends spans with increasing order indexes.
type spanBuilder struct {
	spans []doctree.TextSpan
}

func (b *spanBuilder) add(text string, page int, size float64, bold bool, y float64) *spanBuilder {
	var flags doctree.FontFlags
	if bold {
		flags = doctree.FlagBold
	}
	b.spans = append(b.spans, doctree.TextSpan{
		Text:       text,
		Page:       page,
		FontSize:   size,
		Flags:      flags,
		BBox:       doctree.BBox{X0: 72, Y0: y, X1: 72 + float64(len(text))*size*0.5, Y1: y + size},
		OrderIndex: len(b.spans),
	})
	return b
}

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestExtract_EmptyDocument(t *testing.T) {
	out := newExtractor(t).Extract(nil, 4)
	if out.Title != "" {
		t.Errorf("expected empty title, got %q", out.Title)
	}
	if out.Headings == nil || len(out.Headings) != 0 {
		t.Errorf("expected empty non-nil headings, got %#v", out.Headings)
	}
	if out.TotalPages != 4 {
		t.Errorf("expected 4 pages, got %d", out.TotalPages)
	}
}

func TestExtract_IntroductionAboveBody(t *testing.T) {
	b := &spanBuilder{}
	b.add("Introduction", 0, 24, true, 72).
		add("Body text one covers the topic.", 0, 12, false, 130).
		add("Body text two adds some detail.", 0, 12, false, 146).
		add("Body text three closes it out.", 0, 12, false, 162)

	out := newExtractor(t).Extract(b.spans, 1)
	if len(out.Headings) != 1 {
		t.Fatalf("expected 1 heading, got %d: %+v", len(out.Headings), out.Headings)
	}
	h := out.Headings[0]
	if h.Text != "Introduction" || h.Level != 1 || h.PageNumber != 1 {
		t.Errorf("expected Introduction/H1/page 1, got %q/H%d/page %d", h.Text, h.Level, h.PageNumber)
	}
	if out.Title != "" && out.Title != "Introduction" {
		t.Errorf("expected empty title or the heading line, got %q", out.Title)
	}
	if h.Position.Height != 24 || h.Position.Y != 72 {
		t.Errorf("expected position from bbox, got %+v", h.Position)
	}
}

func levelsDoc() *spanBuilder {
	b := &spanBuilder{}
	b.add("Financial Overview", 0, 20, true, 60).
		add("Revenue rose eight percent in the year.", 0, 12, false, 100).
		add("Margins held steady across all units.", 0, 12, false, 116).
		add("Costs were contained by the new plan.", 0, 12, false, 132).
		add("Revenue Growth", 0, 16, true, 160).
		add("Growth came mostly from new markets.", 0, 12, false, 190).
		add("Existing markets were flat overall.", 0, 12, false, 206).
		add("Regional Detail", 0, 14, true, 236).
		add("Europe led with the strongest results.", 0, 12, false, 264).
		add("Asia followed closely behind it.", 0, 12, false, 280)
	return b
}

func TestExtract_LevelsFollowSizeBands(t *testing.T) {
	out := newExtractor(t).Extract(levelsDoc().spans, 1)

	want := map[string]int{
		"Financial Overview": 1,
		"Revenue Growth":     2,
		"Regional Detail":    3,
	}
	if len(out.Headings) != len(want) {
		t.Fatalf("expected %d headings, got %d: %+v", len(want), len(out.Headings), out.Headings)
	}
	for _, h := range out.Headings {
		if want[h.Text] != h.Level {
			t.Errorf("%q: expected level %d, got %d", h.Text, want[h.Text], h.Level)
		}
	}
	if out.Title != "Financial Overview" {
		t.Errorf("expected title %q, got %q", "Financial Overview", out.Title)
	}
}

func TestExtract_NoHeadings(t *testing.T) {
	b := &spanBuilder{}
	b.add("plain text that runs on and on.", 0, 12, false, 72).
		add("more plain text follows after it.", 0, 12, false, 88).
		add("and the document ends here.", 0, 12, false, 104)

	out := newExtractor(t).Extract(b.spans, 1)
	if len(out.Headings) != 0 {
		t.Errorf("expected no headings, got %+v", out.Headings)
	}
	if out.Title != "" {
		t.Errorf("expected empty title, got %q", out.Title)
	}
}

func TestExtract_BoundsAndOrdering(t *testing.T) {
	b := levelsDoc()
	b.add("Outlook", 1, 20, true, 60).
		add("Next year looks similar to this one.", 1, 12, false, 100).
		add("Risks", 1, 16, true, 140).
		add("Currency moves remain the main risk.", 1, 12, false, 170)

	out := newExtractor(t).Extract(b.spans, 2)
	if len(out.Headings) == 0 {
		t.Fatal("expected headings")
	}
	for i, h := range out.Headings {
		if h.Level < 1 || h.Level > 3 {
			t.Errorf("%q: level %d out of range", h.Text, h.Level)
		}
		if h.Confidence < 0 || h.Confidence > 1 {
			t.Errorf("%q: confidence %v out of range", h.Text, h.Confidence)
		}
		if i == 0 {
			continue
		}
		prev := out.Headings[i-1]
		if prev.PageNumber > h.PageNumber ||
			(prev.PageNumber == h.PageNumber && prev.OrderIndex >= h.OrderIndex) {
			t.Errorf("headings out of order at %d: %+v then %+v", i, prev, h)
		}
	}
}

func TestExtract_Deterministic(t *testing.T) {
	e := newExtractor(t)
	spans := levelsDoc().spans
	first := e.Extract(spans, 1)

	reversed := make([]doctree.TextSpan, len(spans))
	for i, s := range spans {
		reversed[len(spans)-1-i] = s
	}
	for _, input := range [][]doctree.TextSpan{spans, reversed} {
		if again := e.Extract(input, 1); !reflect.DeepEqual(first, again) {
			t.Fatalf("expected identical outlines:\n%+v\n%+v", first, again)
		}
	}
}

func TestExtract_DropsRepeatedRunningHeader(t *testing.T) {
	b := &spanBuilder{}
	for page := 0; page < 3; page++ {
		b.add("Quarterly Report", page, 16, true, 40).
			add("Body line one of the page.", page, 12, false, 80).
			add("Body line two of the page.", page, 12, false, 96)
	}

	out := newExtractor(t).Extract(b.spans, 3)
	n := 0
	for _, h := range out.Headings {
		if h.Text == "Quarterly Report" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("expected running header once, got %d", n)
	}
}

func TestExtract_DropsCoLocatedWeakerHeading(t *testing.T) {
	b := &spanBuilder{}
	b.add("Summary", 0, 18, true, 100).
		add("Highlights", 0, 16, true, 104).
		add("Plain sentence of body text here.", 0, 12, false, 150).
		add("Another plain sentence of body text.", 0, 12, false, 166)

	out := newExtractor(t).Extract(b.spans, 1)
	if len(out.Headings) != 1 || out.Headings[0].Text != "Summary" {
		t.Errorf("expected only Summary, got %+v", out.Headings)
	}
}

func TestExtract_SplitsSameSizeByNumberingDepth(t *testing.T) {
	b := &spanBuilder{}
	b.add("1 Introduction", 0, 14, true, 60).
		add("Some words about the scope here.", 0, 12, false, 90).
		add("1.1 Scope", 0, 14, true, 120).
		add("The scope is narrow and well known.", 0, 12, false, 150).
		add("2 Methods", 0, 14, true, 180).
		add("Methods are listed in this part.", 0, 12, false, 210)

	out := newExtractor(t).Extract(b.spans, 1)
	want := []struct {
		text  string
		level int
	}{
		{"1 Introduction", 1},
		{"1.1 Scope", 2},
		{"2 Methods", 1},
	}
	if len(out.Headings) != len(want) {
		t.Fatalf("expected %d headings, got %+v", len(want), out.Headings)
	}
	for i, w := range want {
		if out.Headings[i].Text != w.text || out.Headings[i].Level != w.level {
			t.Errorf("heading %d: expected %q/H%d, got %q/H%d",
				i, w.text, w.level, out.Headings[i].Text, out.Headings[i].Level)
		}
	}
}

func TestExtract_MixedNumberedPeersShareLevel(t *testing.T) {
	b := &spanBuilder{}
	b.add("Abstract", 0, 14, true, 60).
		add("We study the revenue growth of small firms.", 0, 12, false, 90).
		add("1 Introduction", 0, 14, true, 120).
		add("Some words about the scope here.", 0, 12, false, 150).
		add("2 Methods", 0, 14, true, 180).
		add("Methods are listed in this part.", 0, 12, false, 210).
		add("References", 0, 14, true, 240).
		add("Smith and Jones wrote the survey.", 0, 12, false, 270)

	out := newExtractor(t).Extract(b.spans, 1)
	wantTexts := []string{"Abstract", "1 Introduction", "2 Methods", "References"}
	if len(out.Headings) != len(wantTexts) {
		t.Fatalf("expected %d headings, got %+v", len(wantTexts), out.Headings)
	}
	for i, want := range wantTexts {
		h := out.Headings[i]
		if h.Text != want || h.Level != 1 {
			t.Errorf("heading %d: expected %q/H1, got %q/H%d", i, want, h.Text, h.Level)
		}
	}

	sections := segment.Segment(b.spans, out, "paper.pdf")
	wantText := map[string]string{
		"Abstract":       "We study the revenue growth of small firms.",
		"1 Introduction": "Some words about the scope here.",
		"2 Methods":      "Methods are listed in this part.",
		"References":     "Smith and Jones wrote the survey.",
	}
	found := 0
	for _, sec := range sections {
		want, ok := wantText[sec.SectionTitle]
		if !ok {
			continue
		}
		found++
		if sec.Text != want {
			t.Errorf("section %q: expected %q, got %q", sec.SectionTitle, want, sec.Text)
		}
	}
	if found != len(wantText) {
		t.Errorf("expected %d heading sections, got %d", len(wantText), found)
	}
}

func TestExtract_UnnumberedJoinsShallowestDepth(t *testing.T) {
	b := &spanBuilder{}
	b.add("Overview", 0, 14, true, 60).
		add("Some words about the plan here.", 0, 12, false, 90).
		add("1 Budget", 0, 14, true, 120).
		add("The budget is fixed for the year.", 0, 12, false, 150).
		add("1.1 Travel", 0, 14, true, 180).
		add("Travel costs are kept separate.", 0, 12, false, 210)

	out := newExtractor(t).Extract(b.spans, 1)
	want := map[string]int{"Overview": 1, "1 Budget": 1, "1.1 Travel": 2}
	if len(out.Headings) != len(want) {
		t.Fatalf("expected %d headings, got %+v", len(want), out.Headings)
	}
	for _, h := range out.Headings {
		if h.Level != want[h.Text] {
			t.Errorf("%q: expected H%d, got H%d", h.Text, want[h.Text], h.Level)
		}
	}
}

func TestExtract_IgnoresPageNumbers(t *testing.T) {
	b := &spanBuilder{}
	b.add("12", 0, 16, true, 40).
		add("Body line of the page here.", 0, 12, false, 80).
		add("Another body line of the page.", 0, 12, false, 96)

	for _, h := range newExtractor(t).Extract(b.spans, 1).Headings {
		if h.Text == "12" {
			t.Error("expected page number to be ignored")
		}
	}
}

func TestExtract_CapsHeadingCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHeadings = 2
	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	out := e.Extract(levelsDoc().spans, 1)
	if len(out.Headings) != 2 {
		t.Fatalf("expected 2 headings, got %d", len(out.Headings))
	}
	for _, h := range out.Headings {
		if h.Text == "Regional Detail" {
			t.Error("expected the weakest heading to be dropped")
		}
	}
}

func TestBodyFontSize(t *testing.T) {
	b := &spanBuilder{}
	b.add("short", 0, 10, false, 0).
		add("a much longer run of body text", 0, 12, false, 20).
		add("x", 0, 14, false, 40)
	if got := bodyFontSize(b.spans); got != 12 {
		t.Errorf("expected tie broken by character count (12), got %v", got)
	}

	b.add("more", 0, 10, false, 60)
	if got := bodyFontSize(b.spans); got != 10 {
		t.Errorf("expected most frequent size 10, got %v", got)
	}
}

func TestLexicalScore(t *testing.T) {
	e := newExtractor(t)
	cases := []struct {
		text      string
		wantScore float64
		wantDepth int
	}{
		{"2.3.1 Sampling Frame", 1, 3},
		{"Chapter 4 Results", 1, 1},
		{"IV. Discussion", 1, 1},
		{"EXECUTIVE SUMMARY", 1, 0},
		{"12.4 Limits", 1, 2},
		{"2024 Annual Report", 1, 0},
		{"this is an ordinary sentence.", 0.3, 0},
	}
	for _, tc := range cases {
		score, depth := e.lexicalScore(tc.text)
		if score != tc.wantScore || depth != tc.wantDepth {
			t.Errorf("lexicalScore(%q): expected (%v,%d), got (%v,%d)",
				tc.text, tc.wantScore, tc.wantDepth, score, depth)
		}
	}
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumberedPatterns = append(cfg.NumberedPatterns, "(")
	if _, err := New(cfg); err == nil || !strings.Contains(err.Error(), "numbered pattern") {
		t.Errorf("expected pattern error, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.MinConfidence = 1.5
	if _, err := New(cfg); err == nil {
		t.Error("expected min_confidence error")
	}
}
