package textutil

import (
	"math"
	"regexp"
	"strings"
)

// tokenSplitPattern matches non-alphanumeric character sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Tokenize splits text into lowercase alphanumeric tokens after folding accents.
// Tokens shorter than minLen are dropped.
func Tokenize(text string, minLen int) []string {
	lowered := strings.ToLower(foldAccents(text))
	raw := tokenSplitPattern.Split(lowered, -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if token == "" || len(token) < minLen {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// ContainsPhrase reports whether phrase occurs in text as a run of whole
// tokens, ignoring case, punctuation, and hyphenation. "real-time" therefore
// matches "Real time" and "REAL-TIME".
func ContainsPhrase(text, phrase string) bool {
	needle := Tokenize(phrase, 1)
	if len(needle) == 0 {
		return false
	}
	haystack := Tokenize(text, 1)
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, token := range needle {
			if haystack[i+j] != token {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Fingerprint represents a term-frequency vector for text similarity comparison.
type Fingerprint struct {
	tokens map[string]float64
	norm   float64
}

// NewFingerprint creates a fingerprint from tokens of three or more characters.
// Returns nil if the text produces no valid tokens.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text, 3)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	var sum float64
	for _, count := range counts {
		sum += count * count
	}
	return &Fingerprint{tokens: counts, norm: math.Sqrt(sum)}
}

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for token, count := range a.tokens {
		if other, ok := b.tokens[token]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}
