package analyzer

import "strings"

// Tokenizer splits text into a lowercase word set for lexical scoring.
// Splitting is on whitespace only: the keyword route scores whole words
// exactly as they appear, so no stemming or stopword removal is applied.
type Tokenizer struct{}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize splits text on whitespace and lowercases every token.
func (t *Tokenizer) Tokenize(text string) []string {
	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, strings.ToLower(w))
	}
	return tokens
}

// TokenSet returns the deduplicated token set for text.
func (t *Tokenizer) TokenSet(text string) map[string]struct{} {
	tokens := t.Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// Jaccard computes intersection-over-union of two token sets.
// Returns 0 when either set is empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
