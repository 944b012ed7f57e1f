package report

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps reports in memory. Reports are lost on exit.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]*Report
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]*Report)}
}

func clone(r *Report) *Report {
	c := *r
	c.ErrorCounts = maps.Clone(r.ErrorCounts)
	c.Files = slices.Clone(r.Files)
	return &c
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, r *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = clone(r)
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(r), nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, limit int) ([]*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := make([]*Report, 0, len(s.reports))
	for _, r := range s.reports {
		reports = append(reports, clone(r))
	}
	slices.SortFunc(reports, func(a, b *Report) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

// Prune implements Store.
func (s *MemoryStore) Prune(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, r := range s.reports {
		if r.StartedAt.Before(cutoff) {
			delete(s.reports, id)
			n++
		}
	}
	return n, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
