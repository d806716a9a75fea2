package retriever

import (
	"context"
	"sort"

	"edubot/internal/adapter/analyzer"
	"edubot/internal/domain"
	"edubot/internal/port"
)

// LexicalRanker scores rows by Jaccard overlap between the query's
// lowercase word set and each row's prose text.
type LexicalRanker struct {
	corpus    port.CorpusProvider
	tokenizer *analyzer.Tokenizer
}

func NewLexicalRanker(corpus port.CorpusProvider, tokenizer *analyzer.Tokenizer) *LexicalRanker {
	return &LexicalRanker{
		corpus:    corpus,
		tokenizer: tokenizer,
	}
}

// Rank returns the top-k rows with Jaccard score above threshold,
// best first, ties kept in row order. An empty corpus yields an empty
// result, never an error.
func (r *LexicalRanker) Rank(_ context.Context, query string, k int, threshold float64) ([]domain.ScoredRow, error) {
	snap := r.corpus.Snapshot()
	if snap.Empty() {
		return nil, nil
	}

	querySet := r.tokenizer.TokenSet(query)

	scored := make([]domain.ScoredRow, 0, len(snap.Rows))
	for _, row := range snap.Rows {
		rowSet := r.tokenizer.TokenSet(row.Prose)
		scored = append(scored, domain.ScoredRow{
			Row:   row,
			Score: analyzer.Jaccard(querySet, rowSet),
		})
	}

	return selectTop(scored, k, threshold), nil
}

// selectTop sorts descending by score (stable on ties by original row
// order), truncates to k, and drops scores at or below the threshold.
func selectTop(scored []domain.ScoredRow, k int, threshold float64) []domain.ScoredRow {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}

	kept := make([]domain.ScoredRow, 0, len(scored))
	for _, s := range scored {
		if s.Score > threshold {
			kept = append(kept, s)
		}
	}
	return kept
}
