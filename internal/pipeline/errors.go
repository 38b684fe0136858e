package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentCount rejects multi-document requests outside the allowed range.
	ErrDocumentCount = errors.New("document count out of range")
	// ErrExtractionTimeout marks a document abandoned after its deadline.
	ErrExtractionTimeout = errors.New("extraction timed out")
)

// DocumentError attributes a failure to one uploaded document.
type DocumentError struct {
	Document string
	Err      error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Document, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }
