package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"edubot/internal/adapter/analyzer"
	"edubot/internal/adapter/corpus"
	"edubot/internal/adapter/dataset"
	"edubot/internal/adapter/retriever"
	"edubot/internal/domain"
	"edubot/internal/usecase"
)

type stubChat struct {
	answer string
	err    error
}

func (c *stubChat) Complete(ctx context.Context, prompt string) (string, error) {
	return c.answer, c.err
}

func (c *stubChat) CompleteWithSystem(ctx context.Context, system, user string) (string, error) {
	return c.answer, c.err
}

func (c *stubChat) ModelName() string { return "stub" }

type testEnv struct {
	router  http.Handler
	corpus  *corpus.Store
	dataDir string
}

func newTestEnv(t *testing.T, answer string) *testEnv {
	t.Helper()

	dataDir := t.TempDir()
	csv := "Test,Field\nMDCAT,Medical\nECAT,Engineering\n"
	if err := os.WriteFile(filepath.Join(dataDir, "tests.csv"), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	store := corpus.NewStore()
	rows := []domain.Row{
		{Index: 0, Text: "Test: MDCAT. Field: Medical.", Prose: "Test is MDCAT. Field is Medical."},
		{Index: 1, Text: "Test: ECAT. Field: Engineering.", Prose: "Test is ECAT. Field is Engineering."},
	}
	if err := store.Replace(rows, nil); err != nil {
		t.Fatal(err)
	}

	composer, err := usecase.NewPromptComposer()
	if err != nil {
		t.Fatal(err)
	}

	lexical := retriever.NewLexicalRanker(store, analyzer.NewTokenizer())
	ask := usecase.NewAskUseCase(usecase.AskConfig{
		Lexical:          lexical,
		Composer:         composer,
		Chat:             &stubChat{answer: answer},
		Corpus:           store,
		TopK:             3,
		LexicalThreshold: 0.1,
		Logger:           zerolog.Nop(),
	})

	load := usecase.NewLoadUseCase(
		dataset.NewWalker(nil, nil),
		dataset.NewLoader(),
		store,
		nil,
		nil,
		zerolog.Nop(),
	)

	handler := NewHandler(ask, load, store, dataDir, zerolog.Nop())
	return &testEnv{
		router:  NewRouter(handler, RouterConfig{}),
		corpus:  store,
		dataDir: dataDir,
	}
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "ok")

	rec := doJSON(t, env.router, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	decode(t, rec, &resp)
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
	if !resp.DataLoaded || resp.DataCount != 2 {
		t.Errorf("unexpected corpus state: %+v", resp)
	}
}

func TestLoadData(t *testing.T) {
	env := newTestEnv(t, "ok")

	rec := doJSON(t, env.router, http.MethodGet, "/api/load-data", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp LoadDataResponse
	decode(t, rec, &resp)
	if !resp.Success {
		t.Error("expected success")
	}
	if resp.DataCount != 2 {
		t.Errorf("expected 2 entries, got %d", resp.DataCount)
	}
	if resp.Message != "Loaded 2 entries from CSV" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestLoadDataFailure(t *testing.T) {
	env := newTestEnv(t, "ok")
	if err := os.Remove(filepath.Join(env.dataDir, "tests.csv")); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, env.router, http.MethodGet, "/api/load-data", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestAskBot(t *testing.T) {
	env := newTestEnv(t, "MDCAT is the medical entry test.")

	rec := doJSON(t, env.router, http.MethodPost, "/api/ask-bot", `{"question":"what is mdcat"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AskResponse
	decode(t, rec, &resp)
	if !resp.Success {
		t.Error("expected success")
	}
	if resp.OriginalQuestion != "what is mdcat" {
		t.Errorf("unexpected original question %q", resp.OriginalQuestion)
	}
	if resp.Answer != "MDCAT is the medical entry test." {
		t.Errorf("unexpected answer %q", resp.Answer)
	}
}

func TestAskBotEmptyQuestion(t *testing.T) {
	env := newTestEnv(t, "ok")

	rec := doJSON(t, env.router, http.MethodPost, "/api/ask-bot", `{"question":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp map[string]string
	decode(t, rec, &resp)
	if resp["error"] != "Empty question" {
		t.Errorf("unexpected error %q", resp["error"])
	}
}

func TestAskBotCorpusNotLoaded(t *testing.T) {
	env := newTestEnv(t, "ok")
	if err := env.corpus.Replace(nil, nil); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, env.router, http.MethodPost, "/api/ask-bot", `{"question":"what is mdcat"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestChat(t *testing.T) {
	env := newTestEnv(t, "MDCAT is the medical entry test.")

	rec := doJSON(t, env.router, http.MethodPost, "/api/chat", `{"message":"what is mdcat"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ChatResponse
	decode(t, rec, &resp)
	if resp.Answer != "MDCAT is the medical entry test." {
		t.Errorf("unexpected answer %q", resp.Answer)
	}
	if resp.DisplayQuestion != "what is mdcat" {
		t.Errorf("unexpected display question %q", resp.DisplayQuestion)
	}
	if resp.IsRomanUrdu {
		t.Error("expected plain English question")
	}
}

func TestChatEmptyMessage(t *testing.T) {
	env := newTestEnv(t, "ok")

	rec := doJSON(t, env.router, http.MethodPost, "/api/chat", `{"message":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp map[string]string
	decode(t, rec, &resp)
	if resp["error"] != "Empty message" {
		t.Errorf("unexpected error %q", resp["error"])
	}
}

func TestChatNoRelevantData(t *testing.T) {
	env := newTestEnv(t, "should not be used")

	rec := doJSON(t, env.router, http.MethodPost, "/api/chat", `{"message":"quantum chromodynamics"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ChatResponse
	decode(t, rec, &resp)
	if !strings.Contains(resp.Answer, "could not find relevant information") {
		t.Errorf("unexpected answer %q", resp.Answer)
	}
}

func TestCounselor(t *testing.T) {
	env := newTestEnv(t, "ok")

	body := `{"message":"I want to study MBBS with a scholarship","userProfile":{},"conversationHistory":[{},{},{},{}]}`
	rec := doJSON(t, env.router, http.MethodPost, "/api/edubot", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp CounselorResponse
	decode(t, rec, &resp)
	if !resp.Success {
		t.Error("expected success")
	}
	if resp.UpdatedProfile.Budget != "Scholarship Required" {
		t.Errorf("expected scholarship budget, got %q", resp.UpdatedProfile.Budget)
	}
	if len(resp.UpdatedProfile.CareerGoals) == 0 {
		t.Error("expected extracted career goals")
	}
	if resp.Answer == "" {
		t.Error("expected non-empty answer")
	}
}

func TestCounselorEmptyMessage(t *testing.T) {
	env := newTestEnv(t, "ok")

	rec := doJSON(t, env.router, http.MethodPost, "/api/edubot", `{"message":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, "ok")

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS headers on preflight")
	}
}
