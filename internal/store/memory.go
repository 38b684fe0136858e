package store

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Memory is a thread-safe in-memory result registry with TTL eviction.
type Memory struct {
	mu      sync.Mutex
	records map[string]Record
	ttl     time.Duration
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		records: make(map[string]Record),
		ttl:     ttl,
	}
}

func (m *Memory) Save(_ context.Context, rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok || m.expired(rec, time.Now()) {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// Cleanup removes expired records.
func (m *Memory) Cleanup(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var n int64
	for id, rec := range m.records {
		if m.expired(rec, now) {
			delete(m.records, id)
			n++
		}
	}
	return n, nil
}

func (m *Memory) expired(rec Record, now time.Time) bool {
	return m.ttl > 0 && now.Sub(rec.CreatedAt) > m.ttl
}

func (m *Memory) Close() error { return nil }

// Cleaner is a store that can evict expired records.
type Cleaner interface {
	Cleanup(ctx context.Context) (int64, error)
}

// RunJanitor calls Cleanup every interval until ctx is done.
func RunJanitor(ctx context.Context, c Cleaner, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := c.Cleanup(ctx)
			if err != nil {
				log.Warn("result cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				log.Debug("expired results removed", "count", n)
			}
		}
	}
}

// Open returns the store selected by driver ("sqlite" or "memory").
func Open(driver, dbPath string, ttl time.Duration) (Store, error) {
	if driver == "memory" {
		return NewMemory(ttl), nil
	}
	return OpenSQLite(dbPath, ttl)
}
