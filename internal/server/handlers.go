// Package server exposes the chatbot over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"edubot/internal/counselor"
	"edubot/internal/domain"
	"edubot/internal/port"
	"edubot/internal/usecase"
)

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	ask    *usecase.AskUseCase
	load   *usecase.LoadUseCase
	corpus port.CorpusProvider
	// dataDir is the root the load endpoint reads from.
	dataDir string
	logger  zerolog.Logger
}

// NewHandler creates the handler set.
func NewHandler(
	ask *usecase.AskUseCase,
	load *usecase.LoadUseCase,
	corpus port.CorpusProvider,
	dataDir string,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		ask:     ask,
		load:    load,
		corpus:  corpus,
		dataDir: dataDir,
		logger:  logger,
	}
}

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	Status     string `json:"status"`
	DataLoaded bool   `json:"data_loaded"`
	DataCount  int    `json:"data_count"`
}

// Health reports service status and corpus state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.corpus.Stats()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		DataLoaded: stats.Loaded,
		DataCount:  stats.RowCount,
	})
}

// LoadDataResponse is the load endpoint payload.
type LoadDataResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	DataCount int    `json:"data_count"`
}

// LoadData reloads the corpus from the data directory.
func (h *Handler) LoadData(w http.ResponseWriter, r *http.Request) {
	result, err := h.load.Load(h.dataDir)
	if err != nil {
		h.logger.Error().Err(err).Str("dir", h.dataDir).Msg("data load failed")
		writeError(w, http.StatusInternalServerError, "Failed to load data")
		return
	}

	writeJSON(w, http.StatusOK, LoadDataResponse{
		Success:   true,
		Message:   fmt.Sprintf("Loaded %d entries from CSV", result.Rows),
		DataCount: result.Rows,
	})
}

// AskRequest is the dense-path question payload.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the dense-path answer payload.
type AskResponse struct {
	Success          bool   `json:"success"`
	OriginalQuestion string `json:"original_question"`
	EnglishQuestion  string `json:"english_question"`
	TranslationNote  string `json:"translation_note"`
	Answer           string `json:"answer"`
}

// AskBot answers a question on the dense path.
func (h *Handler) AskBot(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.ask.Ask(r.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyInput):
			writeError(w, http.StatusBadRequest, "Empty question")
		case errors.Is(err, domain.ErrCorpusNotLoaded):
			writeError(w, http.StatusInternalServerError, "Data not loaded")
		default:
			h.logger.Error().Err(err).Msg("ask failed")
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{
		Success:          true,
		OriginalQuestion: result.Original,
		EnglishQuestion:  result.English,
		TranslationNote:  result.TranslationNote,
		Answer:           result.Answer,
	})
}

// ChatRequest is the lexical-path question payload.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the lexical-path answer payload.
type ChatResponse struct {
	Answer          string `json:"answer"`
	DisplayQuestion string `json:"display_question"`
	IsRomanUrdu     bool   `json:"is_roman_urdu"`
}

// Chat answers a question on the lexical path.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.ask.Chat(r.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyInput):
			writeError(w, http.StatusBadRequest, "Empty message")
		case errors.Is(err, domain.ErrCorpusNotLoaded):
			writeError(w, http.StatusInternalServerError, "Failed to load data")
		default:
			h.logger.Error().Err(err).Msg("chat failed")
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Answer:          result.Answer,
		DisplayQuestion: result.DisplayQuestion,
		IsRomanUrdu:     result.IsRomanUrdu,
	})
}

// CounselorRequest is the counselor endpoint payload. Only the length
// of the conversation history matters to the rules.
type CounselorRequest struct {
	Message             string            `json:"message"`
	UserProfile         counselor.Profile `json:"userProfile"`
	ConversationHistory []json.RawMessage `json:"conversationHistory"`
}

// CounselorResponse is the counselor endpoint payload.
type CounselorResponse struct {
	Answer         string            `json:"answer"`
	UpdatedProfile counselor.Profile `json:"updatedProfile"`
	Success        bool              `json:"success"`
}

// Counselor extracts profile facts from the message and replies from
// the rule table.
func (h *Handler) Counselor(w http.ResponseWriter, r *http.Request) {
	var req CounselorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "Empty message")
		return
	}

	profile := counselor.Extract(message, req.UserProfile)
	answer := counselor.Respond(message, profile, len(req.ConversationHistory))

	writeJSON(w, http.StatusOK, CounselorResponse{
		Answer:         answer,
		UpdatedProfile: profile,
		Success:        true,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
