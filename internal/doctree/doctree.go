package doctree

import "time"

// FontFlags is a bit set of font style attributes carried by a span.
type FontFlags uint8

const (
	FlagBold FontFlags = 1 << iota
	FlagItalic
	FlagMonospace
)

// Has reports whether all bits of f are set.
func (ff FontFlags) Has(f FontFlags) bool { return ff&f == f }

// BBox is an axis-aligned box in page space, origin top-left, y growing downward.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

func (b BBox) Width() float64  { return b.X1 - b.X0 }
func (b BBox) Height() float64 { return b.Y1 - b.Y0 }

// TextSpan is a run of text sharing one font, size and line on a page.
type TextSpan struct {
	Text       string
	Page       int // 0-based
	FontSize   float64
	FontName   string
	Flags      FontFlags
	BBox       BBox
	OrderIndex int // document-wide reading order
}

// Position is the serialized form of a heading's bounding box.
type Position struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Heading is a detected H1-H3 heading.
type Heading struct {
	Text       string   `json:"text" yaml:"text"`
	Level      int      `json:"level" yaml:"level"`
	PageNumber int      `json:"page_number" yaml:"page_number"` // 1-based
	Confidence float64  `json:"confidence" yaml:"confidence"`
	Position   Position `json:"position" yaml:"position"`

	BBox       BBox `json:"-" yaml:"-"`
	OrderIndex int  `json:"-" yaml:"-"`
}

// DocumentOutline is the title and heading list of one document.
type DocumentOutline struct {
	Title      string    `json:"title" yaml:"title"`
	Headings   []Heading `json:"headings" yaml:"headings"`
	TotalPages int       `json:"total_pages" yaml:"total_pages"`
}

// Section is the body governed by one heading (or the document start).
type Section struct {
	DocumentName string   `json:"document_name"`
	SectionTitle string   `json:"section_title"`
	PageNumber   int      `json:"page_number"`
	Text         string   `json:"text"`
	HeadingRef   *Heading `json:"-"`
}

// Level returns the governing heading level, or 0 for headerless sections.
func (s Section) Level() int {
	if s.HeadingRef == nil {
		return 0
	}
	return s.HeadingRef.Level
}

// PersonaProfile conditions multi-document ranking.
type PersonaProfile struct {
	Persona     string `json:"persona" yaml:"persona"`
	JobToBeDone string `json:"job_to_be_done" yaml:"job_to_be_done"`
}

// RankedSection is one entry of the cross-document relevance ordering.
type RankedSection struct {
	DocumentName   string  `json:"document_name" yaml:"document_name"`
	SectionTitle   string  `json:"section_title" yaml:"section_title"`
	PageNumber     int     `json:"page_number" yaml:"page_number"`
	ImportanceRank int     `json:"importance_rank" yaml:"importance_rank"`
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
	KeyText        string  `json:"key_text" yaml:"key_text"`

	Section Section `json:"-" yaml:"-"`
}

// SingleResult is the response of a single-document analysis.
type SingleResult struct {
	ID             string    `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	Headings       []Heading `json:"headings" yaml:"headings"`
	TotalPages     int       `json:"total_pages" yaml:"total_pages"`
	ProcessingTime float64   `json:"processing_time" yaml:"processing_time"`
	Timestamp      time.Time `json:"timestamp" yaml:"timestamp"`
}

// DocumentStatus reports how one document of a batch was processed.
type DocumentStatus struct {
	DocumentName string `json:"document_name" yaml:"document_name"`
	Status       string `json:"status" yaml:"status"`
	TotalPages   int    `json:"total_pages" yaml:"total_pages"`
	Sections     int    `json:"sections" yaml:"sections"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
}

// MultiResult is the response of a persona-conditioned multi-document analysis.
type MultiResult struct {
	ID               string           `json:"id" yaml:"id"`
	Persona          string           `json:"persona" yaml:"persona"`
	JobToBeDone      string           `json:"job_to_be_done" yaml:"job_to_be_done"`
	RelevantSections []RankedSection  `json:"relevant_sections" yaml:"relevant_sections"`
	TotalDocuments   int              `json:"total_documents" yaml:"total_documents"`
	FailedDocuments  int              `json:"failed_documents" yaml:"failed_documents"`
	Documents        []DocumentStatus `json:"documents" yaml:"documents"`
	ProcessingTime   float64          `json:"processing_time" yaml:"processing_time"`
	Timestamp        time.Time        `json:"timestamp" yaml:"timestamp"`
}
