package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"edubot/config"
	"edubot/internal/adapter/analyzer"
	"edubot/internal/adapter/cache"
	"edubot/internal/adapter/corpus"
	"edubot/internal/adapter/dataset"
	"edubot/internal/adapter/embedding"
	"edubot/internal/adapter/llm"
	"edubot/internal/adapter/retriever"
	"edubot/internal/adapter/store"
	"edubot/internal/adapter/translate"
	"edubot/internal/observability"
	"edubot/internal/port"
	"edubot/internal/usecase"
)

// app wires the full dependency graph from configuration. Both the
// serve and one-shot commands build it the same way.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger

	corpus    *corpus.Store
	boltCache *store.BoltCache

	load *usecase.LoadUseCase
	ask  *usecase.AskUseCase
}

func buildApp(cfg *config.Config) (*app, error) {
	logger := observability.NewLogger(observability.LogConfig{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Service: "edubot",
	})

	corpusStore := corpus.NewStore()

	var boltCache *store.BoltCache
	if cfg.Cache.Path != "" {
		if err := cfg.EnsureCacheDir(); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		var err error
		boltCache, err = store.NewBoltCache(cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
	}

	embedder := buildEmbedder(cfg, logger)

	chatModel := llm.NewOpenAICompat(os.Getenv(cfg.LLM.APIKeyEnv), llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	})

	var askNorm, chatNorm port.Translator
	if cfg.Translate.Enabled {
		// Translation uses a short completion budget of its own.
		transModel := llm.NewOpenAICompat(os.Getenv(cfg.LLM.APIKeyEnv), llm.Config{
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.Translate.MaxTokens,
			Timeout:     cfg.Translate.Timeout,
		})

		var transCache translate.TranslationCache
		if boltCache != nil {
			transCache = boltCache
		}

		askMode := translate.DetectStrict
		if cfg.Translate.Mode == "loose" {
			askMode = translate.DetectLoose
		}
		askNorm = translate.NewNormalizer(transModel, transCache, askMode, cfg.Translate.Timeout, logger)
		// The keyword route keeps its broader substring heuristic.
		chatNorm = translate.NewNormalizer(transModel, transCache, translate.DetectLoose, cfg.Translate.Timeout, logger)
	}

	lexical := rankerWithCache(
		retriever.NewLexicalRanker(corpusStore, analyzer.NewTokenizer()),
		corpusStore, cfg,
	)

	var semantic port.Ranker
	if embedder != nil && cfg.Retrieve.Strategy != "lexical" {
		semantic = rankerWithCache(
			retriever.NewSemanticRanker(corpusStore, embedder),
			corpusStore, cfg,
		)
	}

	composer, err := usecase.NewPromptComposer()
	if err != nil {
		return nil, err
	}

	var vectorCache port.VectorCache
	if boltCache != nil {
		vectorCache = boltCache
	}

	loadUC := usecase.NewLoadUseCase(
		dataset.NewWalker(cfg.Data.Includes, cfg.Data.Excludes),
		dataset.NewLoader(),
		corpusStore,
		embedder,
		vectorCache,
		logger,
	)

	askUC := usecase.NewAskUseCase(usecase.AskConfig{
		Semantic:         semantic,
		Lexical:          lexical,
		AskNormalizer:    askNorm,
		ChatNormalizer:   chatNorm,
		Composer:         composer,
		Chat:             chatModel,
		Corpus:           corpusStore,
		TopK:             cfg.Retrieve.TopK,
		DenseThreshold:   cfg.Retrieve.DenseThreshold,
		LexicalThreshold: cfg.Retrieve.LexicalThreshold,
		Logger:           logger,
	})

	return &app{
		cfg:       cfg,
		logger:    logger,
		corpus:    corpusStore,
		boltCache: boltCache,
		load:      loadUC,
		ask:       askUC,
	}, nil
}

// buildEmbedder returns nil when the dense route cannot be wired; the
// answering path then falls back to keyword matching.
func buildEmbedder(cfg *config.Config, logger zerolog.Logger) port.Embedder {
	if !cfg.Embedding.Enabled {
		return nil
	}

	var embedder port.Embedder
	var err error
	switch cfg.Embedding.Provider {
	case "mistral":
		embedder, err = embedding.NewMistral(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "openai":
		embedder, err = embedding.NewOpenAI(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "ollama":
		embedder = embedding.NewOllama(cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "mock":
		embedder = embedding.NewMockEmbedder(1024)
	default:
		err = fmt.Errorf("unknown embedding provider: %s", cfg.Embedding.Provider)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("embedding disabled, using keyword matching")
		return nil
	}
	return embedder
}

func rankerWithCache(r port.Ranker, corpusStore *corpus.Store, cfg *config.Config) port.Ranker {
	if cfg.Retrieve.CacheSize <= 0 {
		return r
	}
	// Each ranker gets its own cache; keys carry no strategy marker.
	return retriever.NewCachedRanker(r, corpusStore, cache.NewRankCache(cfg.Retrieve.CacheSize, cfg.Retrieve.CacheTTL))
}

func (a *app) Close() {
	if a.boltCache != nil {
		if err := a.boltCache.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("failed to close cache")
		}
	}
}
