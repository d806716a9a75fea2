// Package translate normalizes Roman Urdu questions to English before
// retrieval. Detection is a keyword heuristic reproduced from the
// original service, not a language-ID model: it has known false
// positives (English words containing "se" or "ki") and false negatives.
package translate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"edubot/internal/port"
)

// DetectMode selects which of the two original heuristics to run.
type DetectMode string

const (
	// DetectStrict matches function words on word boundaries plus the
	// vowel-suffix and domain-word patterns.
	DetectStrict DetectMode = "strict"
	// DetectLoose matches the shorter pattern list as plain substrings.
	DetectLoose DetectMode = "loose"
)

var strictPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(kya|hai|hain|ki|ka|ke|se|ko|ek|aur|ya|nahi|haan)\b`),
	regexp.MustCompile(`(ay|ain|ee|oo|aa)\b`),
	regexp.MustCompile(`\b(test|exam|fees|passing|marks|date|fields|topics|rules)\b`),
}

var loosePatterns = []string{"ki", "kya", "hain", "hai", "kya hain", "se", "tak", "aur", "ya"}

// Detect reports whether text looks like Roman-transliterated Urdu.
func Detect(text string, mode DetectMode) bool {
	lower := strings.ToLower(text)

	if mode == DetectLoose {
		for _, p := range loosePatterns {
			if strings.Contains(lower, p) {
				return true
			}
		}
		return false
	}

	for _, re := range strictPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// TranslationCache remembers successful translations across requests.
type TranslationCache interface {
	GetTranslation(text string) (string, bool)
	PutTranslation(text, translated string) error
}

// Normalizer rewrites detected Roman Urdu to English through the chat
// model. Upstream failure is silent: the original text is returned and
// the flow proceeds with it.
type Normalizer struct {
	model   port.ChatModel
	cache   TranslationCache
	mode    DetectMode
	timeout time.Duration
	logger  zerolog.Logger
}

func NewNormalizer(model port.ChatModel, cache TranslationCache, mode DetectMode, timeout time.Duration, logger zerolog.Logger) *Normalizer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Normalizer{
		model:   model,
		cache:   cache,
		mode:    mode,
		timeout: timeout,
		logger:  logger.With().Str("module", "translate").Logger(),
	}
}

const translatePrompt = `Translate this Roman Urdu text to English. Only provide the English translation, nothing else.

Roman Urdu: %s
English:`

// Normalize returns the English form of text and whether it was detected
// as Roman Urdu. No retry is performed; a timeout or upstream error
// falls back to the input unchanged.
func (n *Normalizer) Normalize(ctx context.Context, text string) (string, bool) {
	if !Detect(text, n.mode) {
		return text, false
	}

	if n.cache != nil {
		if translated, found := n.cache.GetTranslation(text); found {
			return translated, true
		}
	}

	if n.model == nil {
		n.logger.Warn().Msg("no translation model configured")
		return text, true
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	translated, err := n.model.Complete(ctx, fmt.Sprintf(translatePrompt, text))
	if err != nil {
		n.logger.Warn().Err(err).Msg("translation failed, using original text")
		return text, true
	}

	translated = strings.TrimSpace(translated)
	if translated == "" {
		return text, true
	}

	if n.cache != nil {
		if err := n.cache.PutTranslation(text, translated); err != nil {
			n.logger.Warn().Err(err).Msg("failed to cache translation")
		}
	}

	return translated, true
}
