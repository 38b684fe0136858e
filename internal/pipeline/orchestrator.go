package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/config"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/doctree"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/parser"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/rank"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/store"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/structure"
)

const (
	statsWindow = time.Hour
	saveTimeout = 5 * time.Second
)

// Upload is one PDF received from a caller.
type Upload struct {
	Name string
	Data []byte
}

// Orchestrator runs single- and multi-document analyses end to end.
type Orchestrator struct {
	cfg    config.Config
	worker *Worker
	ranker *rank.Ranker
	store  store.Store
	stats  *Stats
	log    *slog.Logger
}

// NewOrchestrator wires the extraction and ranking stages. A nil scoring
// uses the built-in weights; a nil store disables persistence.
func NewOrchestrator(cfg config.Config, scoring *config.Scoring, extractor parser.SpanExtractor, st store.Store, log *slog.Logger) (*Orchestrator, error) {
	if scoring == nil {
		scoring = config.DefaultScoring()
	}
	se, err := structure.New(scoring.Structure)
	if err != nil {
		return nil, fmt.Errorf("structure config: %w", err)
	}
	rk, err := rank.New(scoring.Rank)
	if err != nil {
		return nil, fmt.Errorf("rank config: %w", err)
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	return &Orchestrator{
		cfg:    cfg,
		worker: NewWorker(extractor, se, log),
		ranker: rk,
		store:  st,
		stats:  NewStats(statsWindow),
		log:    log,
	}, nil
}

// AnalyzeSingle extracts the outline of one PDF.
func (o *Orchestrator) AnalyzeSingle(ctx context.Context, up Upload) (*doctree.SingleResult, error) {
	start := time.Now()

	pages, err := parser.Validate(up.Data, o.cfg.MaxPages)
	if err != nil {
		return nil, &DocumentError{Document: up.Name, Err: err}
	}

	a, err := o.worker.Process(ctx, up, o.cfg.SingleDocTimeout)
	if err != nil {
		o.stats.documentFailed(errors.Is(err, ErrExtractionTimeout))
		return nil, err
	}

	totalPages := a.Outline.TotalPages
	if totalPages == 0 {
		totalPages = pages
	}
	headings := a.Outline.Headings
	if headings == nil {
		headings = []doctree.Heading{}
	}

	elapsed := time.Since(start)
	res := &doctree.SingleResult{
		ID:             uuid.NewString(),
		Title:          a.Outline.Title,
		Headings:       headings,
		TotalPages:     totalPages,
		ProcessingTime: seconds(elapsed),
		Timestamp:      time.Now().UTC(),
	}
	o.stats.record(store.KindSingle, elapsed, 1, totalPages)
	o.log.Info("single analysis complete",
		"id", res.ID, "document", up.Name, "pages", totalPages,
		"headings", len(headings), "duration_ms", elapsed.Milliseconds())

	o.persist(ctx, store.KindSingle, res.ID, res)
	return res, nil
}

// AnalyzeMulti extracts every document in parallel and ranks their sections
// against the persona. Documents that fail or time out are reported in the
// result and left out of the ranking pool. A topN of zero or less returns
// every qualifying section.
func (o *Orchestrator) AnalyzeMulti(ctx context.Context, uploads []Upload, persona doctree.PersonaProfile, topN int) (*doctree.MultiResult, error) {
	start := time.Now()

	if n := len(uploads); n < o.cfg.MinDocuments || n > o.cfg.MaxDocuments {
		return nil, fmt.Errorf("%w: got %d files, need between %d and %d",
			ErrDocumentCount, n, o.cfg.MinDocuments, o.cfg.MaxDocuments)
	}
	if strings.TrimSpace(persona.Persona) == "" {
		persona.Persona = o.cfg.DefaultPersona
	}
	if strings.TrimSpace(persona.JobToBeDone) == "" {
		persona.JobToBeDone = o.cfg.DefaultJob
	}

	if o.cfg.MultiDocTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.MultiDocTimeout)
		defer cancel()
	}

	jobs := newJobs(uploads)

	// Phase 1: reject the whole request if any upload is not a usable PDF.
	vg, vctx := errgroup.WithContext(ctx)
	vg.SetLimit(o.cfg.WorkerCount)
	for _, j := range jobs {
		if j.dupOf >= 0 {
			continue
		}
		vg.Go(func() error {
			if err := vctx.Err(); err != nil {
				return err
			}
			pages, err := parser.Validate(j.upload.Data, o.cfg.MaxPages)
			if err != nil {
				return &DocumentError{Document: j.upload.Name, Err: err}
			}
			j.pages = pages
			return nil
		})
	}
	if err := vg.Wait(); err != nil {
		return nil, err
	}

	// Phase 2: independent extraction per document. Failures stay local.
	var eg errgroup.Group
	eg.SetLimit(o.cfg.WorkerCount)
	for _, j := range jobs {
		if j.dupOf >= 0 {
			continue
		}
		eg.Go(func() error {
			j.analysis, j.err = o.worker.Process(ctx, j.upload, o.cfg.PerDocTimeout)
			return nil
		})
	}
	_ = eg.Wait()
	for _, j := range jobs {
		if j.dupOf >= 0 {
			j.pages = jobs[j.dupOf].pages
		}
	}
	resolveDuplicates(jobs)

	// Phase 3: rank across the surviving documents.
	pool := make([]rank.DocumentSections, 0, len(jobs))
	statuses := make([]doctree.DocumentStatus, 0, len(jobs))
	failed, pagesDone := 0, 0
	for _, j := range jobs {
		statuses = append(statuses, j.status())
		if j.err != nil {
			failed++
			o.stats.documentFailed(errors.Is(j.err, ErrExtractionTimeout))
			continue
		}
		pagesDone += j.pages
		pool = append(pool, rank.DocumentSections{Name: j.upload.Name, Sections: j.analysis.Sections})
	}

	ranked := o.ranker.Rank(pool, persona, topN)
	if ranked == nil {
		ranked = []doctree.RankedSection{}
	}

	elapsed := time.Since(start)
	res := &doctree.MultiResult{
		ID:               uuid.NewString(),
		Persona:          persona.Persona,
		JobToBeDone:      persona.JobToBeDone,
		RelevantSections: ranked,
		TotalDocuments:   len(uploads),
		FailedDocuments:  failed,
		Documents:        statuses,
		ProcessingTime:   seconds(elapsed),
		Timestamp:        time.Now().UTC(),
	}
	o.stats.record(store.KindMulti, elapsed, len(uploads), pagesDone)
	o.log.Info("multi analysis complete",
		"id", res.ID, "documents", len(uploads), "failed", failed,
		"sections", len(ranked), "duration_ms", elapsed.Milliseconds())

	o.persist(ctx, store.KindMulti, res.ID, res)
	return res, nil
}

// Result returns a persisted analysis by id.
func (o *Orchestrator) Result(ctx context.Context, id string) (*store.Record, error) {
	if o.store == nil {
		return nil, store.ErrNotFound
	}
	return o.store.Get(ctx, id)
}

// Stats returns latency and failure counters.
func (o *Orchestrator) Stats() StatsSnapshot {
	return o.stats.Snapshot()
}

// persist hands a result to the store. Failures are logged, never returned.
func (o *Orchestrator) persist(ctx context.Context, kind, id string, v any) {
	if o.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	rec, err := store.NewRecord(id, kind, v)
	if err == nil {
		err = o.store.Save(ctx, rec)
	}
	if err != nil {
		o.log.Warn("persist result failed", "id", id, "kind", kind, "error", err)
	}
}

func seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000) / 1000
}
