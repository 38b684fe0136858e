package parser

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/doctree"
)

var (
	// ErrInvalidPDF marks uploads that are not PDFs or cannot be parsed.
	ErrInvalidPDF = errors.New("invalid pdf")
	// ErrTooManyPages marks PDFs above the configured page limit.
	ErrTooManyPages = errors.New("pdf exceeds page limit")
)

// Document is the span stream of one PDF.
type Document struct {
	Spans     []doctree.TextSpan
	PageCount int
}

// SpanExtractor turns PDF bytes into typed text spans.
type SpanExtractor interface {
	Extract(ctx context.Context, data []byte) (*Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf": true,
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// pdfMagic must appear within the first kilobyte of a PDF file.
var pdfMagic = []byte("%PDF-")

// IsPDF sniffs the PDF header.
func IsPDF(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, pdfMagic)
}
