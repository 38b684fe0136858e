// Package store persists analysis results keyed by their id.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get for unknown or expired ids.
var ErrNotFound = errors.New("analysis not found")

// Result kinds.
const (
	KindSingle = "single"
	KindMulti  = "multi"
)

// Record is one persisted analysis result.
type Record struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

// NewRecord marshals v as the payload of a record.
func NewRecord(id, kind string, v any) (Record, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return Record{}, fmt.Errorf("marshal %s result: %w", kind, err)
	}
	return Record{ID: id, Kind: kind, CreatedAt: time.Now().UTC(), Payload: payload}, nil
}

// Store is the persisted-state collaborator for analysis results.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (*Record, error)
	Close() error
}
