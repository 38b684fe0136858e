package pipeline

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/store"
)

// analysisSample is one completed analysis inside the rolling window.
type analysisSample struct {
	at        time.Time
	kind      string
	elapsed   time.Duration
	documents int
	pages     int
}

// KindStats aggregates the samples of one analysis kind.
type KindStats struct {
	Count     int     `json:"count"`
	Documents int     `json:"documents"`
	Pages     int     `json:"pages"`
	MinMs     int64   `json:"min_ms"`
	MaxMs     int64   `json:"max_ms"`
	AvgMs     float64 `json:"avg_ms"`
	P50Ms     float64 `json:"p50_ms"`
	P95Ms     float64 `json:"p95_ms"`
	P99Ms     float64 `json:"p99_ms"`
	MsPerPage float64 `json:"ms_per_page"`
}

// StatsSnapshot is the JSON form served by the stats endpoint.
type StatsSnapshot struct {
	WindowSeconds   float64   `json:"window_seconds"`
	Single          KindStats `json:"single"`
	Multi           KindStats `json:"multi"`
	FailedDocuments int64     `json:"failed_documents"`
	Timeouts        int64     `json:"timeouts"`
}

// Stats keeps recent analyses, tagged by kind, plus lifetime failure counters.
type Stats struct {
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	samples []analysisSample

	failedDocuments atomic.Int64
	timeouts        atomic.Int64
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{window: window, now: time.Now}
}

// record adds a finished analysis of the given kind.
func (s *Stats) record(kind string, elapsed time.Duration, documents, pages int) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked(now)
	s.samples = append(s.samples, analysisSample{
		at:        now,
		kind:      kind,
		elapsed:   max(elapsed, 0),
		documents: documents,
		pages:     pages,
	})
}

func (s *Stats) documentFailed(timeout bool) {
	s.failedDocuments.Add(1)
	if timeout {
		s.timeouts.Add(1)
	}
}

func (s *Stats) Snapshot() StatsSnapshot {
	now := s.now()
	s.mu.Lock()
	s.expireLocked(now)
	var single, multi []analysisSample
	for _, sm := range s.samples {
		switch sm.kind {
		case store.KindSingle:
			single = append(single, sm)
		case store.KindMulti:
			multi = append(multi, sm)
		}
	}
	s.mu.Unlock()

	return StatsSnapshot{
		WindowSeconds:   s.window.Seconds(),
		Single:          summarize(single),
		Multi:           summarize(multi),
		FailedDocuments: s.failedDocuments.Load(),
		Timeouts:        s.timeouts.Load(),
	}
}

// expireLocked drops samples older than the window. Samples are appended
// in time order, so the expired ones form a prefix.
func (s *Stats) expireLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	i := 0
	for i < len(s.samples) && s.samples[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		s.samples = slices.Delete(s.samples, 0, i)
	}
}

func summarize(samples []analysisSample) KindStats {
	if len(samples) == 0 {
		return KindStats{}
	}
	ms := make([]int64, len(samples))
	var total int64
	out := KindStats{Count: len(samples)}
	for i, sm := range samples {
		ms[i] = sm.elapsed.Milliseconds()
		total += ms[i]
		out.Documents += sm.documents
		out.Pages += sm.pages
	}
	slices.Sort(ms)

	out.MinMs = ms[0]
	out.MaxMs = ms[len(ms)-1]
	out.AvgMs = float64(total) / float64(len(ms))
	out.P50Ms = interpolate(ms, 0.50)
	out.P95Ms = interpolate(ms, 0.95)
	out.P99Ms = interpolate(ms, 0.99)
	if out.Pages > 0 {
		out.MsPerPage = float64(total) / float64(out.Pages)
	}
	return out
}

// interpolate reads quantile q (0..1) from ascending values, blending the
// two nearest ranks.
func interpolate(sorted []int64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return float64(sorted[len(sorted)-1])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}
