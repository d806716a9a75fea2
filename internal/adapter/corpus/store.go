package corpus

import (
	"fmt"
	"sync"

	"edubot/internal/domain"
)

// Store owns the in-memory corpus: rows, their embeddings, and a load
// generation counter. Replacement is wholesale and atomic; readers work
// on immutable snapshots, so a query running during a reload always sees
// a fully loaded generation.
type Store struct {
	mu         sync.RWMutex
	rows       []domain.Row
	embeddings [][]float32
	generation uint64
}

func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a new corpus generation. Embeddings may be nil (no
// embedder configured); otherwise they must pair one-to-one with rows.
func (s *Store) Replace(rows []domain.Row, embeddings [][]float32) error {
	if embeddings != nil && len(embeddings) != len(rows) {
		return fmt.Errorf("embedding count %d does not match row count %d", len(embeddings), len(rows))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
	s.embeddings = embeddings
	s.generation++
	return nil
}

// Snapshot returns the current generation. The slices are never mutated
// after Replace, only swapped out, so the snapshot stays consistent.
func (s *Store) Snapshot() domain.Corpus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Corpus{
		Rows:       s.rows,
		Embeddings: s.embeddings,
		Generation: s.generation,
	}
}

// Stats reports the current corpus state for the health endpoint.
func (s *Store) Stats() domain.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Stats{
		Loaded:     len(s.rows) > 0,
		RowCount:   len(s.rows),
		Generation: s.generation,
	}
}
