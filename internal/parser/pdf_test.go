package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/doctree"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/testutil"
)

func TestIsPDF(t *testing.T) {
	if !IsPDF([]byte("%PDF-1.7\n...")) {
		t.Error("expected header to be recognized")
	}
	if IsPDF([]byte("PK\x03\x04 not a pdf")) {
		t.Error("expected zip bytes to be rejected")
	}
	if IsPDF(nil) {
		t.Error("expected empty input to be rejected")
	}
}

func TestIsSupportedExtension(t *testing.T) {
	cases := map[string]bool{
		"report.pdf":  true,
		"REPORT.PDF":  true,
		"notes.txt":   false,
		"archive.zip": false,
		"pdf":         false,
	}
	for name, want := range cases {
		if got := IsSupportedExtension(name); got != want {
			t.Errorf("IsSupportedExtension(%q): expected %v, got %v", name, want, got)
		}
	}
}

func TestValidate_RejectsNonPDF(t *testing.T) {
	_, err := Validate([]byte("hello world"), 50)
	if !errors.Is(err, ErrInvalidPDF) {
		t.Fatalf("expected ErrInvalidPDF, got %v", err)
	}
}

func TestValidate_RejectsCorruptStream(t *testing.T) {
	_, err := Validate([]byte("%PDF-1.4\nthis is not a real pdf body\n%%EOF"), 50)
	if !errors.Is(err, ErrInvalidPDF) {
		t.Fatalf("expected ErrInvalidPDF, got %v", err)
	}
}

func TestValidate_PageCountAndLimit(t *testing.T) {
	data := testutil.BuildPDF(
		testutil.SamplePage("One", "body"),
		testutil.SamplePage("Two", "body"),
		testutil.SamplePage("Three", "body"),
	)

	pages, err := Validate(data, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages != 3 {
		t.Errorf("expected 3 pages, got %d", pages)
	}

	_, err = Validate(data, 2)
	if !errors.Is(err, ErrTooManyPages) {
		t.Fatalf("expected ErrTooManyPages, got %v", err)
	}
}

func TestExtract_SpansCarryFontAndOrder(t *testing.T) {
	data := testutil.BuildPDF(
		testutil.Page{
			{Text: "Body after heading", Size: 12, X: 72, Y: 650},
			{Text: "Introduction", Size: 24, Bold: true, X: 72, Y: 700},
		},
		testutil.Page{
			{Text: "Second page text", Size: 12, X: 72, Y: 700},
		},
	)

	doc, err := NewPDFParser().Extract(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.PageCount != 2 {
		t.Fatalf("expected 2 pages, got %d", doc.PageCount)
	}
	if len(doc.Spans) != 3 {
		t.Fatalf("expected 3 spans, got %d: %+v", len(doc.Spans), doc.Spans)
	}

	first := doc.Spans[0]
	if first.Text != "Introduction" {
		t.Errorf("expected top line first, got %q", first.Text)
	}
	if first.FontSize != 24 {
		t.Errorf("expected font size 24, got %v", first.FontSize)
	}
	if !first.Flags.Has(doctree.FlagBold) {
		t.Errorf("expected bold flag for %q", first.FontName)
	}
	if first.BBox.Y0 >= doc.Spans[1].BBox.Y0 {
		t.Errorf("expected heading above body: %v vs %v", first.BBox, doc.Spans[1].BBox)
	}
	if doc.Spans[1].Flags.Has(doctree.FlagBold) {
		t.Error("expected body span not bold")
	}
	if doc.Spans[2].Page != 1 {
		t.Errorf("expected third span on page index 1, got %d", doc.Spans[2].Page)
	}
	for i, s := range doc.Spans {
		if s.OrderIndex != i {
			t.Errorf("span %d: expected order index %d, got %d", i, i, s.OrderIndex)
		}
	}
}

func TestExtract_HonorsCancelledContext(t *testing.T) {
	data := testutil.BuildPDF(testutil.SamplePage("Heading", "body"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPDFParser().Extract(ctx, data)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExtract_InvalidBytes(t *testing.T) {
	_, err := NewPDFParser().Extract(context.Background(), []byte("not a pdf"))
	if !errors.Is(err, ErrInvalidPDF) {
		t.Fatalf("expected ErrInvalidPDF, got %v", err)
	}
}

func TestFontFlags(t *testing.T) {
	cases := []struct {
		name string
		want doctree.FontFlags
	}{
		{"Helvetica", 0},
		{"ABCDEF+Arial-BoldMT", doctree.FlagBold},
		{"Times-BoldItalic", doctree.FlagBold | doctree.FlagItalic},
		{"Helvetica-Oblique", doctree.FlagItalic},
		{"Courier", doctree.FlagMonospace},
	}
	for _, tc := range cases {
		if got := fontFlags(tc.name); got != tc.want {
			t.Errorf("fontFlags(%q): expected %b, got %b", tc.name, tc.want, got)
		}
	}
}

func TestCleanText_FoldsLigaturesAndSpaces(t *testing.T) {
	if got := cleanText("  ﬁnancial \t  results "); got != "financial results" {
		t.Errorf("expected %q, got %q", "financial results", got)
	}
}
