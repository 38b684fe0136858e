package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	payload    BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
`

const busyAttempts = 3

// SQLite stores records in a single table. Records older than the TTL are
// treated as missing and removed by Cleanup.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
}

// OpenSQLite opens (creating if needed) the database at path and applies
// WAL pragmas and the schema.
func OpenSQLite(path string, ttl time.Duration) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}
	return &SQLite{db: db, ttl: ttl}, nil
}

// isBusy reports whether err indicates an SQLite BUSY condition.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

func retryBusy(ctx context.Context) []retry.Option {
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(busyAttempts),
		retry.Delay(100 * time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isBusy),
		retry.LastErrorOnly(true),
	}
}

func (s *SQLite) Save(ctx context.Context, rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	err := retry.Do(func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO analyses (id, kind, created_at, payload) VALUES (?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET kind = excluded.kind, created_at = excluded.created_at, payload = excluded.payload`,
			rec.ID, rec.Kind, rec.CreatedAt.UnixMilli(), []byte(rec.Payload))
		return err
	}, retryBusy(ctx)...)
	if err != nil {
		return fmt.Errorf("store: save %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, id string) (*Record, error) {
	rec, err := retry.DoWithData(func() (*Record, error) {
		var (
			rec     Record
			created int64
			payload []byte
		)
		err := s.db.QueryRowContext(ctx,
			`SELECT id, kind, created_at, payload FROM analyses WHERE id = ?`, id,
		).Scan(&rec.ID, &rec.Kind, &created, &payload)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		rec.CreatedAt = time.UnixMilli(created).UTC()
		rec.Payload = payload
		return &rec, nil
	}, retryBusy(ctx)...)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", id, err)
	}
	if s.ttl > 0 && time.Since(rec.CreatedAt) > s.ttl {
		return nil, ErrNotFound
	}
	return rec, nil
}

// Cleanup deletes expired records and returns how many were removed.
func (s *SQLite) Cleanup(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-s.ttl).UnixMilli()
	var n int64
	err := retry.Do(func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE created_at < ?`, cutoff)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	}, retryBusy(ctx)...)
	if err != nil {
		return 0, fmt.Errorf("store: cleanup: %w", err)
	}
	return n, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
