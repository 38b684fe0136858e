// Package segment groups a document's spans into heading-bounded sections.
package segment

import (
	"sort"
	"strings"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/doctree"
)

// UntitledSection names the section of a document with no title and no
// preceding heading.
const UntitledSection = "Document"

// Segment walks spans in reading order. Each heading opens a section that
// runs until the next heading at the same or a higher level, so a section
// includes the text of its subordinate headings. Text before the first
// heading, or the whole body when there are no headings, forms a section
// titled with the document title.
func Segment(spans []doctree.TextSpan, outline doctree.DocumentOutline, documentName string) []doctree.Section {
	if len(spans) == 0 {
		return nil
	}

	ordered := make([]doctree.TextSpan, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Page != ordered[j].Page {
			return ordered[i].Page < ordered[j].Page
		}
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})

	posOf := make(map[int]int, len(ordered))
	for i, s := range ordered {
		posOf[s.OrderIndex] = i
	}

	// Headings paired with the position of their span.
	type anchor struct {
		heading doctree.Heading
		pos     int
	}
	var anchors []anchor
	for _, h := range outline.Headings {
		if p, ok := posOf[h.OrderIndex]; ok {
			anchors = append(anchors, anchor{heading: h, pos: p})
		}
	}
	sort.SliceStable(anchors, func(i, j int) bool { return anchors[i].pos < anchors[j].pos })

	fallbackTitle := outline.Title
	if fallbackTitle == "" {
		fallbackTitle = UntitledSection
	}

	var sections []doctree.Section
	leadEnd := len(ordered)
	if len(anchors) > 0 {
		leadEnd = anchors[0].pos
	}
	if lead := joinText(ordered[:leadEnd]); lead != "" || len(anchors) == 0 {
		sections = append(sections, doctree.Section{
			DocumentName: documentName,
			SectionTitle: fallbackTitle,
			PageNumber:   1,
			Text:         lead,
		})
	}

	for i, a := range anchors {
		end := len(ordered)
		for _, next := range anchors[i+1:] {
			if next.heading.Level <= a.heading.Level {
				end = next.pos
				break
			}
		}
		h := a.heading
		sections = append(sections, doctree.Section{
			DocumentName: documentName,
			SectionTitle: h.Text,
			PageNumber:   h.PageNumber,
			Text:         joinText(ordered[a.pos+1 : end]),
			HeadingRef:   &h,
		})
	}
	return sections
}

func joinText(spans []doctree.TextSpan) string {
	parts := make([]string, 0, len(spans))
	for _, s := range spans {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}
