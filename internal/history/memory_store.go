package history

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore implements Store in process memory. Used when no database is
// configured, and in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	runs []Run
	byID map[string]int
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

func (s *MemoryStore) Write(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run.Classes = slices.Clone(run.Classes)
	if i, ok := s.byID[run.ID]; ok {
		s.runs[i] = run
		return nil
	}
	s.byID[run.ID] = len(s.runs)
	s.runs = append(s.runs, run)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return Run{}, ErrNotFound
	}
	return s.runs[i], nil
}

func (s *MemoryStore) List(_ context.Context, opts QueryOptions) ([]Run, int, error) {
	s.mu.RLock()
	var matched []Run
	for _, r := range s.runs {
		if opts.SessionID != "" && r.SessionID != opts.SessionID {
			continue
		}
		matched = append(matched, r)
	}
	s.mu.RUnlock()

	// Newest first; runs written in the same instant keep reverse write order.
	slices.Reverse(matched)
	slices.SortStableFunc(matched, func(a, b Run) int {
		return b.StartedAt.Compare(a.StartedAt)
	})

	total := len(matched)
	if opts.Offset >= total {
		return []Run{}, total, nil
	}
	matched = matched[max(opts.Offset, 0):]
	if limit := opts.limit(); len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (s *MemoryStore) Between(_ context.Context, since, until time.Time) ([]Run, error) {
	s.mu.RLock()
	runs := []Run{}
	for _, r := range s.runs {
		if !r.StartedAt.Before(since) && r.StartedAt.Before(until) {
			runs = append(runs, r)
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(runs, func(a, b Run) int {
		return a.StartedAt.Compare(b.StartedAt)
	})
	return runs, nil
}
