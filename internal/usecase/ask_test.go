package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"edubot/internal/adapter/corpus"
	"edubot/internal/domain"
)

type stubRanker struct {
	rows      []domain.ScoredRow
	err       error
	calls     int
	lastQuery string
}

func (r *stubRanker) Rank(ctx context.Context, query string, k int, threshold float64) ([]domain.ScoredRow, error) {
	r.calls++
	r.lastQuery = query
	return r.rows, r.err
}

type stubChat struct {
	answer     string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (c *stubChat) Complete(ctx context.Context, prompt string) (string, error) {
	c.calls++
	c.lastUser = prompt
	return c.answer, c.err
}

func (c *stubChat) CompleteWithSystem(ctx context.Context, system, user string) (string, error) {
	c.calls++
	c.lastSystem = system
	c.lastUser = user
	return c.answer, c.err
}

func (c *stubChat) ModelName() string { return "stub" }

type stubTranslator struct {
	translated string
	detected   bool
}

func (t *stubTranslator) Normalize(ctx context.Context, text string) (string, bool) {
	if !t.detected {
		return text, false
	}
	return t.translated, true
}

func loadedStore(t *testing.T) *corpus.Store {
	t.Helper()
	store := corpus.NewStore()
	rows := []domain.Row{
		{Index: 0, Text: "Test: MDCAT. Field: Medical.", Prose: "Test is MDCAT. Field is Medical."},
	}
	if err := store.Replace(rows, nil); err != nil {
		t.Fatal(err)
	}
	return store
}

func newComposer(t *testing.T) *PromptComposer {
	t.Helper()
	composer, err := NewPromptComposer()
	if err != nil {
		t.Fatal(err)
	}
	return composer
}

func TestAskEmptyQuestion(t *testing.T) {
	uc := NewAskUseCase(AskConfig{
		Lexical:  &stubRanker{},
		Composer: newComposer(t),
		Chat:     &stubChat{},
		Corpus:   loadedStore(t),
		Logger:   zerolog.Nop(),
	})

	if _, err := uc.Ask(context.Background(), "   "); !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestAskCorpusNotLoaded(t *testing.T) {
	uc := NewAskUseCase(AskConfig{
		Lexical:  &stubRanker{},
		Composer: newComposer(t),
		Chat:     &stubChat{},
		Corpus:   corpus.NewStore(),
		Logger:   zerolog.Nop(),
	})

	if _, err := uc.Ask(context.Background(), "what is mdcat"); !errors.Is(err, domain.ErrCorpusNotLoaded) {
		t.Errorf("expected ErrCorpusNotLoaded, got %v", err)
	}
}

func TestAskRendersDensePrompts(t *testing.T) {
	semantic := &stubRanker{rows: scoredRows()}
	chat := &stubChat{answer: "MDCAT is the medical entry test.\n"}
	uc := NewAskUseCase(AskConfig{
		Semantic: semantic,
		Lexical:  &stubRanker{},
		Composer: newComposer(t),
		Chat:     chat,
		Corpus:   loadedStore(t),
		Logger:   zerolog.Nop(),
	})

	result, err := uc.Ask(context.Background(), "what is mdcat")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if result.Answer != "MDCAT is the medical entry test." {
		t.Errorf("expected trimmed answer, got %q", result.Answer)
	}
	if result.TranslationNote != "" {
		t.Errorf("expected empty translation note, got %q", result.TranslationNote)
	}
	if !strings.Contains(chat.lastSystem, "education assistant chatbot") {
		t.Errorf("unexpected system prompt:\n%s", chat.lastSystem)
	}
	if !strings.Contains(chat.lastUser, "Test: MDCAT. Field: Medical.") {
		t.Errorf("expected row text in user prompt:\n%s", chat.lastUser)
	}
	if semantic.calls != 1 {
		t.Errorf("expected one semantic rank call, got %d", semantic.calls)
	}
}

func TestAskTranslationNote(t *testing.T) {
	uc := NewAskUseCase(AskConfig{
		Semantic:      &stubRanker{rows: scoredRows()},
		Lexical:       &stubRanker{},
		AskNormalizer: &stubTranslator{translated: "what is the MDCAT test", detected: true},
		Composer:      newComposer(t),
		Chat:          &stubChat{answer: "ok"},
		Corpus:        loadedStore(t),
		Logger:        zerolog.Nop(),
	})

	result, err := uc.Ask(context.Background(), "mdcat kya hai")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if result.Original != "mdcat kya hai" {
		t.Errorf("expected original question kept, got %q", result.Original)
	}
	if result.English != "what is the MDCAT test" {
		t.Errorf("expected translated question, got %q", result.English)
	}
	if result.TranslationNote != "(Translated from Roman Urdu: what is the MDCAT test)" {
		t.Errorf("unexpected translation note %q", result.TranslationNote)
	}
}

func TestAskFallsBackToLexical(t *testing.T) {
	semantic := &stubRanker{err: errors.New("embedding service down")}
	lexical := &stubRanker{rows: scoredRows()}
	uc := NewAskUseCase(AskConfig{
		Semantic: semantic,
		Lexical:  lexical,
		Composer: newComposer(t),
		Chat:     &stubChat{answer: "ok"},
		Corpus:   loadedStore(t),
		Logger:   zerolog.Nop(),
	})

	if _, err := uc.Ask(context.Background(), "what is mdcat"); err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if lexical.calls != 1 {
		t.Errorf("expected lexical fallback, got %d calls", lexical.calls)
	}
}

func TestAskWithoutSemanticRanker(t *testing.T) {
	lexical := &stubRanker{rows: scoredRows()}
	uc := NewAskUseCase(AskConfig{
		Lexical:  lexical,
		Composer: newComposer(t),
		Chat:     &stubChat{answer: "ok"},
		Corpus:   loadedStore(t),
		Logger:   zerolog.Nop(),
	})

	if _, err := uc.Ask(context.Background(), "what is mdcat"); err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if lexical.calls != 1 {
		t.Errorf("expected lexical ranker used, got %d calls", lexical.calls)
	}
}

func TestAskChatErrorReturnsApology(t *testing.T) {
	uc := NewAskUseCase(AskConfig{
		Semantic: &stubRanker{rows: scoredRows()},
		Lexical:  &stubRanker{},
		Composer: newComposer(t),
		Chat:     &stubChat{err: errors.New("api unreachable")},
		Corpus:   loadedStore(t),
		Logger:   zerolog.Nop(),
	})

	result, err := uc.Ask(context.Background(), "what is mdcat")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if result.Answer != chatErrorAnswer {
		t.Errorf("unexpected answer %q", result.Answer)
	}
}

func TestChatNoRelevantRows(t *testing.T) {
	chat := &stubChat{answer: "should not be called"}
	uc := NewAskUseCase(AskConfig{
		Lexical:  &stubRanker{},
		Composer: newComposer(t),
		Chat:     chat,
		Corpus:   loadedStore(t),
		Logger:   zerolog.Nop(),
	})

	result, err := uc.Chat(context.Background(), "unrelated question")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if result.Answer != noRelevantDataAnswer {
		t.Errorf("unexpected answer %q", result.Answer)
	}
	if chat.calls != 0 {
		t.Errorf("expected no model call, got %d", chat.calls)
	}
}

func TestChatTranslationKeepsDisplayQuestion(t *testing.T) {
	lexical := &stubRanker{rows: scoredRows()}
	uc := NewAskUseCase(AskConfig{
		Lexical:        lexical,
		ChatNormalizer: &stubTranslator{translated: "what is MDCAT", detected: true},
		Composer:       newComposer(t),
		Chat:           &stubChat{answer: "MDCAT is the medical entry test."},
		Corpus:         loadedStore(t),
		Logger:         zerolog.Nop(),
	})

	result, err := uc.Chat(context.Background(), "mdcat kya hai")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if !result.IsRomanUrdu {
		t.Error("expected Roman Urdu flag set")
	}
	if result.DisplayQuestion != "mdcat kya hai" {
		t.Errorf("expected original display question, got %q", result.DisplayQuestion)
	}
	if lexical.lastQuery != "what is MDCAT" {
		t.Errorf("expected ranking on translated query, got %q", lexical.lastQuery)
	}
}

func TestChatModelErrorReturnsApology(t *testing.T) {
	uc := NewAskUseCase(AskConfig{
		Lexical:  &stubRanker{rows: scoredRows()},
		Composer: newComposer(t),
		Chat:     &stubChat{err: errors.New("api unreachable")},
		Corpus:   loadedStore(t),
		Logger:   zerolog.Nop(),
	})

	result, err := uc.Chat(context.Background(), "what is mdcat")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if result.Answer != chatErrorAnswer {
		t.Errorf("unexpected answer %q", result.Answer)
	}
}

func TestChatEmptyMessage(t *testing.T) {
	uc := NewAskUseCase(AskConfig{
		Lexical:  &stubRanker{},
		Composer: newComposer(t),
		Chat:     &stubChat{},
		Corpus:   loadedStore(t),
		Logger:   zerolog.Nop(),
	})

	if _, err := uc.Chat(context.Background(), ""); !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}
