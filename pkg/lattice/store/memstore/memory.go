package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/lattice/pkg/lattice/internalerr"
	"github.com/cognicore/lattice/pkg/lattice/store"
)

// Store is an in-memory store.Store. The CLI archives into it when no
// database is configured, and tests use it as a stand-in for sqlite.
type Store struct {
	mu   sync.RWMutex
	runs map[string]store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]store.Run)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun stores a run, replacing any run with the same ID.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run id is required", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return copyRun(r), nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		result = append(result, copyRun(r))
	}
	// ULIDs sort by creation time.
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID > result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func copyRun(r store.Run) store.Run {
	out := r
	out.Keywords = append([]string(nil), r.Keywords...)
	out.Concepts = make([]store.Concept, len(r.Concepts))
	for i, c := range r.Concepts {
		out.Concepts[i] = store.Concept{
			Rank:       c.Rank,
			Name:       c.Name,
			Importance: c.Importance,
			Extent:     append([]string(nil), c.Extent...),
			Intent:     append([]string(nil), c.Intent...),
			Terms:      append([]store.Term(nil), c.Terms...),
		}
	}
	return out
}
