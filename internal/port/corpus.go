package port

import "edubot/internal/domain"

// CorpusProvider hands out consistent corpus snapshots.
type CorpusProvider interface {
	// Snapshot returns the current load generation. The returned value
	// is immutable; queries running against it are unaffected by a
	// concurrent reload.
	Snapshot() domain.Corpus

	// Stats reports the current corpus state.
	Stats() domain.Stats
}

// VectorCache persists row embeddings across reloads so unchanged rows
// are not re-embedded.
type VectorCache interface {
	// Get returns the cached vector for the text, or nil when absent.
	Get(model, text string) ([]float32, error)

	// Put stores vectors for the given texts.
	Put(model string, texts []string, vectors [][]float32) error

	Close() error
}
