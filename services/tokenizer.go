package services

import (
	"regexp"
	"strings"
)

// nonWord matches every character that is not a word character or whitespace.
// Punctuation is replaced with spaces before splitting so "cats,dogs" yields
// two tokens.
var nonWord = regexp.MustCompile(`[^\w\s]`)

// Tokenize lower-cases the input, strips punctuation, and splits on
// whitespace runs. Tokens of length two or less are dropped. Empty input
// yields an empty slice, not an error.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) > 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Vectorize counts token occurrences into a bag-of-words frequency map.
// Deterministic for a given token sequence.
func Vectorize(tokens []string) map[string]int {
	vec := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		vec[tok]++
	}
	return vec
}
