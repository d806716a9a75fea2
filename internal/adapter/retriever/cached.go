package retriever

import (
	"context"

	"edubot/internal/adapter/cache"
	"edubot/internal/domain"
	"edubot/internal/port"
)

// CachedRanker wraps a Ranker with the rank cache. Entries are tied to
// the corpus generation, so a reload transparently invalidates them.
type CachedRanker struct {
	ranker port.Ranker
	corpus port.CorpusProvider
	cache  *cache.RankCache
}

func NewCachedRanker(ranker port.Ranker, corpus port.CorpusProvider, c *cache.RankCache) *CachedRanker {
	return &CachedRanker{
		ranker: ranker,
		corpus: corpus,
		cache:  c,
	}
}

func (r *CachedRanker) Rank(ctx context.Context, query string, k int, threshold float64) ([]domain.ScoredRow, error) {
	generation := r.corpus.Snapshot().Generation

	if results, hit := r.cache.Get(query, k, generation); hit {
		return results, nil
	}

	results, err := r.ranker.Rank(ctx, query, k, threshold)
	if err != nil {
		return nil, err
	}

	r.cache.Put(query, k, generation, results)
	return results, nil
}
