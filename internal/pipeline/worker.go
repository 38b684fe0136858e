package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/doctree"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/parser"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/segment"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/structure"
)

// Analysis is the per-document output of the extraction phase.
type Analysis struct {
	Name     string
	Outline  doctree.DocumentOutline
	Sections []doctree.Section
}

// renamed returns a copy attributed to another document name.
func (a *Analysis) renamed(name string) *Analysis {
	sections := make([]doctree.Section, len(a.Sections))
	copy(sections, a.Sections)
	for i := range sections {
		sections[i].DocumentName = name
	}
	return &Analysis{Name: name, Outline: a.Outline, Sections: sections}
}

// Worker runs span extraction, structure extraction and segmentation for
// one document.
type Worker struct {
	extractor parser.SpanExtractor
	structure *structure.Extractor
	log       *slog.Logger
}

func NewWorker(extractor parser.SpanExtractor, st *structure.Extractor, log *slog.Logger) *Worker {
	return &Worker{
		extractor: extractor,
		structure: st,
		log:       log,
	}
}

type processResult struct {
	analysis *Analysis
	err      error
}

// Process analyzes one upload. A positive timeout bounds the whole run; when
// it expires the document is abandoned with ErrExtractionTimeout.
func (w *Worker) Process(ctx context.Context, up Upload, timeout time.Duration) (*Analysis, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	log := w.log.With("document", up.Name)
	start := time.Now()

	// Buffered so the extraction goroutine never blocks after we give up on it.
	done := make(chan processResult, 1)
	go func() {
		a, err := w.run(ctx, up)
		done <- processResult{analysis: a, err: err}
	}()

	select {
	case <-ctx.Done():
		log.Warn("document abandoned", "error", ctx.Err(), "duration_ms", time.Since(start).Milliseconds())
		return nil, documentError(up.Name, ctx.Err())
	case r := <-done:
		if r.err != nil {
			log.Warn("document failed", "error", r.err)
			return nil, documentError(up.Name, r.err)
		}
		log.Debug("document analyzed",
			"pages", r.analysis.Outline.TotalPages,
			"headings", len(r.analysis.Outline.Headings),
			"sections", len(r.analysis.Sections),
			"duration_ms", time.Since(start).Milliseconds())
		return r.analysis, nil
	}
}

func (w *Worker) run(ctx context.Context, up Upload) (*Analysis, error) {
	doc, err := w.extractor.Extract(ctx, up.Data)
	if err != nil {
		return nil, fmt.Errorf("extract spans: %w", err)
	}
	outline := w.structure.Extract(doc.Spans, doc.PageCount)
	sections := segment.Segment(doc.Spans, outline, up.Name)
	return &Analysis{Name: up.Name, Outline: outline, Sections: sections}, nil
}

func documentError(name string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		err = ErrExtractionTimeout
	}
	return &DocumentError{Document: name, Err: err}
}
