package retriever

import (
	"context"
	"fmt"
	"math"

	"edubot/internal/domain"
	"edubot/internal/port"
)

// SemanticRanker scores rows by cosine similarity between the query
// embedding and each row's stored embedding.
type SemanticRanker struct {
	corpus   port.CorpusProvider
	embedder port.Embedder
}

func NewSemanticRanker(corpus port.CorpusProvider, embedder port.Embedder) *SemanticRanker {
	return &SemanticRanker{
		corpus:   corpus,
		embedder: embedder,
	}
}

// Rank embeds the query and scores it against every stored vector.
// Each candidate keeps its (row, score) pair from the start, so
// duplicate scores cannot swap rows during selection.
func (r *SemanticRanker) Rank(_ context.Context, query string, k int, threshold float64) ([]domain.ScoredRow, error) {
	if r.embedder == nil {
		return nil, fmt.Errorf("semantic search not available: embeddings not configured")
	}

	snap := r.corpus.Snapshot()
	if snap.Empty() {
		return nil, nil
	}
	if snap.Embeddings == nil {
		return nil, fmt.Errorf("corpus was loaded without embeddings")
	}

	embeddings, err := r.embedder.Embed([]string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding returned empty result")
	}
	queryVec := embeddings[0]

	scored := make([]domain.ScoredRow, 0, len(snap.Rows))
	for i, row := range snap.Rows {
		scored = append(scored, domain.ScoredRow{
			Row:   row,
			Score: cosineSimilarity(queryVec, snap.Embeddings[i]),
		})
	}

	return selectTop(scored, k, threshold), nil
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
