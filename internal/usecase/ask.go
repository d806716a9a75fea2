package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"edubot/internal/domain"
	"edubot/internal/port"
)

const (
	// noRelevantDataAnswer is returned without calling the model when
	// no row clears the lexical relevance threshold.
	noRelevantDataAnswer = "I could not find relevant information about your question in the available data. Please rephrase your question."

	// chatErrorAnswer is returned when the model call fails on the
	// lexical path. The HTTP response stays 200 with this answer.
	chatErrorAnswer = "Sorry, I encountered an error while processing your question."
)

// AskConfig wires the answering use case.
type AskConfig struct {
	Semantic port.Ranker // nil when no embedder is configured
	Lexical  port.Ranker

	// AskNormalizer handles Roman Urdu on the dense path,
	// ChatNormalizer on the lexical path. Either may be nil.
	AskNormalizer  port.Translator
	ChatNormalizer port.Translator

	Composer *PromptComposer
	Chat     port.ChatModel
	Corpus   port.CorpusProvider

	TopK             int
	DenseThreshold   float64
	LexicalThreshold float64

	Logger zerolog.Logger
}

// AskUseCase answers questions over the loaded corpus.
type AskUseCase struct {
	cfg AskConfig
}

// NewAskUseCase creates a new ask use case.
func NewAskUseCase(cfg AskConfig) *AskUseCase {
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	return &AskUseCase{cfg: cfg}
}

// AskResult is the outcome of a dense-path question.
type AskResult struct {
	Original        string
	English         string
	TranslationNote string
	Answer          string
}

// Ask answers a question on the dense path. Roman Urdu questions are
// translated first and the translation surfaced in the note. When no
// semantic ranker is wired the lexical ranker fills in.
func (u *AskUseCase) Ask(ctx context.Context, question string) (*AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyInput
	}
	if !u.cfg.Corpus.Stats().Loaded {
		return nil, domain.ErrCorpusNotLoaded
	}

	english := question
	note := ""
	if u.cfg.AskNormalizer != nil {
		translated, detected := u.cfg.AskNormalizer.Normalize(ctx, question)
		if detected {
			english = translated
			note = fmt.Sprintf("(Translated from Roman Urdu: %s)", english)
		}
	}

	rows, err := u.rankDense(ctx, english)
	if err != nil {
		return nil, err
	}

	userPrompt, err := u.cfg.Composer.DenseUser(english, rows)
	if err != nil {
		return nil, err
	}

	answer, err := u.cfg.Chat.CompleteWithSystem(ctx, u.cfg.Composer.DenseSystem(), userPrompt)
	if err != nil {
		// Upstream failure degrades to a canned answer, not a 500.
		u.cfg.Logger.Warn().Err(err).Msg("chat completion failed")
		answer = chatErrorAnswer
	}

	return &AskResult{
		Original:        question,
		English:         english,
		TranslationNote: note,
		Answer:          strings.TrimSpace(answer),
	}, nil
}

func (u *AskUseCase) rankDense(ctx context.Context, query string) ([]domain.ScoredRow, error) {
	if u.cfg.Semantic == nil {
		u.cfg.Logger.Debug().Msg("no semantic ranker, using lexical")
		return u.cfg.Lexical.Rank(ctx, query, u.cfg.TopK, u.cfg.LexicalThreshold)
	}

	rows, err := u.cfg.Semantic.Rank(ctx, query, u.cfg.TopK, u.cfg.DenseThreshold)
	if err != nil {
		u.cfg.Logger.Warn().Err(err).Msg("semantic ranking failed, falling back to lexical")
		return u.cfg.Lexical.Rank(ctx, query, u.cfg.TopK, u.cfg.LexicalThreshold)
	}
	return rows, nil
}

// ChatResult is the outcome of a lexical-path question.
type ChatResult struct {
	Answer          string
	DisplayQuestion string
	IsRomanUrdu     bool
}

// Chat answers a question on the lexical path. The display question
// keeps the user's wording even when translation rewrote the query.
func (u *AskUseCase) Chat(ctx context.Context, message string) (*ChatResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.ErrEmptyInput
	}
	if !u.cfg.Corpus.Stats().Loaded {
		return nil, domain.ErrCorpusNotLoaded
	}

	result := &ChatResult{DisplayQuestion: message}

	query := message
	if u.cfg.ChatNormalizer != nil {
		translated, detected := u.cfg.ChatNormalizer.Normalize(ctx, message)
		result.IsRomanUrdu = detected
		if detected {
			query = translated
		}
	}

	rows, err := u.cfg.Lexical.Rank(ctx, query, u.cfg.TopK, u.cfg.LexicalThreshold)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		result.Answer = noRelevantDataAnswer
		return result, nil
	}

	prompt, err := u.cfg.Composer.Lexical(query, rows)
	if err != nil {
		return nil, err
	}

	answer, err := u.cfg.Chat.Complete(ctx, prompt)
	if err != nil {
		u.cfg.Logger.Warn().Err(err).Msg("chat completion failed")
		result.Answer = chatErrorAnswer
		return result, nil
	}

	result.Answer = strings.TrimSpace(answer)
	return result, nil
}
