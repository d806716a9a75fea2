package usecase

import (
	"fmt"

	"github.com/rs/zerolog"

	"edubot/internal/adapter/corpus"
	"edubot/internal/adapter/dataset"
	"edubot/internal/domain"
	"edubot/internal/port"
)

// LoadUseCase walks the data directory, parses CSV files and swaps the
// in-memory corpus in one step.
type LoadUseCase struct {
	walker   *dataset.Walker
	loader   *dataset.Loader
	corpus   *corpus.Store
	embedder port.Embedder    // nil disables the dense path
	cache    port.VectorCache // nil disables embedding reuse
	logger   zerolog.Logger

	// OnProgress is called once per embedded row when set.
	OnProgress func(done, total int)
}

// NewLoadUseCase creates a new load use case.
func NewLoadUseCase(
	walker *dataset.Walker,
	loader *dataset.Loader,
	corpusStore *corpus.Store,
	embedder port.Embedder,
	cache port.VectorCache,
	logger zerolog.Logger,
) *LoadUseCase {
	return &LoadUseCase{
		walker:   walker,
		loader:   loader,
		corpus:   corpusStore,
		embedder: embedder,
		cache:    cache,
		logger:   logger,
	}
}

// LoadResult contains the results of a load operation.
type LoadResult struct {
	Files      int
	Rows       int
	Embedded   int
	CacheHits  int
	Generation uint64
}

// Load reads every matching CSV under root and replaces the corpus.
// Queries against the previous snapshot keep their results.
func (u *LoadUseCase) Load(root string) (*LoadResult, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no data files found under %s", root)
	}

	var rows []domain.Row
	for _, file := range files {
		fileRows, err := u.loader.Load(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		// Row indices are per corpus, not per file.
		for _, r := range fileRows {
			r.Index = len(rows)
			rows = append(rows, r)
		}
		u.logger.Debug().Str("file", file).Int("rows", len(fileRows)).Msg("loaded data file")
	}

	result := &LoadResult{Files: len(files), Rows: len(rows)}

	var embeddings [][]float32
	if u.embedder != nil {
		embeddings, err = u.embedRows(rows, result)
		if err != nil {
			return nil, err
		}
	}

	if err := u.corpus.Replace(rows, embeddings); err != nil {
		return nil, err
	}
	result.Generation = u.corpus.Stats().Generation

	u.logger.Info().
		Int("files", result.Files).
		Int("rows", result.Rows).
		Int("embedded", result.Embedded).
		Int("cache_hits", result.CacheHits).
		Msg("corpus loaded")

	return result, nil
}

// embedRows resolves one vector per row, reusing cached vectors and
// embedding only the misses.
func (u *LoadUseCase) embedRows(rows []domain.Row, result *LoadResult) ([][]float32, error) {
	model := u.embedder.ModelName()
	vectors := make([][]float32, len(rows))
	resolved := 0

	var missTexts []string
	var missIndices []int
	for i, row := range rows {
		if u.cache != nil {
			cached, err := u.cache.Get(model, row.Text)
			if err != nil {
				return nil, fmt.Errorf("failed to read vector cache: %w", err)
			}
			if cached != nil {
				vectors[i] = cached
				result.CacheHits++
				resolved++
				u.reportProgress(resolved, len(rows))
				continue
			}
		}
		missTexts = append(missTexts, row.Text)
		missIndices = append(missIndices, i)
	}

	if len(missTexts) > 0 {
		embedded, err := u.embedder.Embed(missTexts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}
		if len(embedded) != len(missTexts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(embedded), len(missTexts))
		}
		for j, idx := range missIndices {
			vectors[idx] = embedded[j]
			result.Embedded++
			resolved++
			u.reportProgress(resolved, len(rows))
		}
		if u.cache != nil {
			if err := u.cache.Put(model, missTexts, embedded); err != nil {
				u.logger.Warn().Err(err).Msg("failed to persist vectors")
			}
		}
	}

	return vectors, nil
}

func (u *LoadUseCase) reportProgress(done, total int) {
	if u.OnProgress != nil {
		u.OnProgress(done, total)
	}
}
