package store

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/matchbench/pkg/bench"
)

// MemoryStore keeps runs in a map.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*bench.Run
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*bench.Run)}
}

// SaveRun stores a copy of run.
func (s *MemoryStore) SaveRun(_ context.Context, run *bench.Run) error {
	if err := validateRun(run); err != nil {
		return err
	}
	c := *run
	c.Records = slices.Clone(run.Records)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = &c
	return nil
}

// GetRun returns a copy of the stored run.
func (s *MemoryStore) GetRun(_ context.Context, id string) (*bench.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, notFound(id)
	}
	c := *run
	c.Records = slices.Clone(run.Records)
	return &c, nil
}

// ListRuns returns runs ordered by start time, newest first. Ties are
// broken by ID so the order is stable.
func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]*bench.Run, error) {
	s.mu.RLock()
	out := make([]*bench.Run, 0, len(s.runs))
	for _, run := range s.runs {
		c := *run
		c.Records = nil
		out = append(out, &c)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *bench.Run) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	if limit = limitOrDefault(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close implements [Store].
func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
