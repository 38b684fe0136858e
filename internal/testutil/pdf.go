// Package testutil builds small, well-formed PDFs for tests.
package testutil

import (
	"bytes"
	"fmt"
	"strings"
)

// Line is one text line placed at (X, Y) in PDF user space (origin bottom-left).
type Line struct {
	Text string
	Size float64
	Bold bool
	X, Y float64
}

// Page is the list of lines drawn on one page.
type Page []Line

// glyphWidth is the advance used for every character, in 1/1000 em.
const glyphWidth = 556

// BuildPDF renders pages on US Letter paper using Helvetica and
// Helvetica-Bold with explicit widths, and returns the file bytes.
func BuildPDF(pages ...Page) []byte {
	if len(pages) == 0 {
		pages = []Page{{}}
	}

	var objs []string
	add := func(body string) int {
		objs = append(objs, body)
		return len(objs)
	}

	catalog := add("") // patched below
	pagesObj := add("")
	regular := add(fontDict("Helvetica"))
	bold := add(fontDict("Helvetica-Bold"))

	var kids []string
	for _, p := range pages {
		stream := contentStream(p)
		contents := add(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
		page := add(fmt.Sprintf("<< /Type /Page /Parent %d 0 R /Resources << /Font << /F1 %d 0 R /F2 %d 0 R >> >> /Contents %d 0 R >>",
			pagesObj, regular, bold, contents))
		kids = append(kids, fmt.Sprintf("%d 0 R", page))
	}
	objs[catalog-1] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesObj)
	objs[pagesObj-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>",
		strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, catalog, xref)
	return buf.Bytes()
}

func fontDict(base string) string {
	widths := make([]string, 126-32+1)
	for i := range widths {
		widths[i] = fmt.Sprint(glyphWidth)
	}
	return fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>",
		base, strings.Join(widths, " "))
}

func contentStream(p Page) string {
	var sb strings.Builder
	for _, l := range p {
		font := "F1"
		if l.Bold {
			font = "F2"
		}
		fmt.Fprintf(&sb, "BT /%s %.2f Tf %.2f %.2f Td (%s) Tj ET\n", font, l.Size, l.X, l.Y, escape(l.Text))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// SamplePage returns a page with a bold heading over a few body lines.
func SamplePage(heading string, body ...string) Page {
	p := Page{{Text: heading, Size: 20, Bold: true, X: 72, Y: 720}}
	y := 690.0
	for _, b := range body {
		p = append(p, Line{Text: b, Size: 11, X: 72, Y: y})
		y -= 14
	}
	return p
}
