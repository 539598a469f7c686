// Package history records generation runs so they can be listed and
// inspected after the fact, by the HTTP API and WebSocket sessions alike.
package history

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get for an unknown run.
var ErrNotFound = errors.New("run not found")

// Status of a finished run.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Run is one generation, successful or not.
type Run struct {
	ID        string        `json:"id"`
	SessionID string        `json:"session_id,omitempty"`
	Target    string        `json:"target"`
	Status    string        `json:"status"`
	Classes   []string      `json:"classes,omitempty"`
	Source    string        `json:"source,omitempty"`
	ErrorKind string        `json:"error_kind,omitempty"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}

// OK reports whether the run succeeded.
func (r Run) OK() bool { return r.Status == StatusOK }

// QueryOptions controls filtering and pagination for List.
type QueryOptions struct {
	SessionID string // only runs of this session
	Limit     int    // max results (default: 20, max: 100)
	Offset    int
}

// DefaultQueryOptions returns QueryOptions with sensible defaults.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{Limit: 20}
}

func (o QueryOptions) limit() int {
	if o.Limit <= 0 || o.Limit > 100 {
		return 20
	}
	return o.Limit
}

// Store is the interface for reading and writing runs.
type Store interface {
	// Write stores a run. Writing an ID twice replaces the earlier run.
	Write(ctx context.Context, run Run) error

	// Get returns the run with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (Run, error)

	// List returns runs newest first, plus the total number of runs that
	// match opts before pagination.
	List(ctx context.Context, opts QueryOptions) (runs []Run, totalCount int, err error)

	// Between returns every run started in [since, until), oldest first.
	Between(ctx context.Context, since, until time.Time) ([]Run, error)
}
