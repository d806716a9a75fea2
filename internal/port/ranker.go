package port

import (
	"context"

	"edubot/internal/domain"
)

// Ranker scores corpus rows against a query and returns the top-k rows
// whose score exceeds the threshold, best first.
type Ranker interface {
	Rank(ctx context.Context, query string, k int, threshold float64) ([]domain.ScoredRow, error)
}
