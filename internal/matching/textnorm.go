// internal/matching/textnorm.go
package matching

import (
	"sort"
	"strings"
	"unicode"
)

// stopWords contains common English function words excluded from matching.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "from": true,
	"as": true, "is": true, "are": true, "was": true, "were": true,
	"been": true, "be": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true,
	"should": true, "could": true, "may": true, "might": true,
	"must": true, "can": true, "this": true, "that": true,
	"these": true, "those": true,
}

// Normalizer turns free text into a canonical stemmed token stream. It holds
// no mutable state and is safe for concurrent use.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize lowercases, strips non-word runes, tokenizes, drops short and
// stop-word tokens, stems the rest and rejoins with single spaces. Empty
// input yields an empty string; it never fails.
func (n *Normalizer) Normalize(text string) string {
	return strings.Join(n.Tokens(text), " ")
}

// Tokens returns the normalized stemmed tokens of text in order.
func (n *Normalizer) Tokens(text string) []string {
	if text == "" {
		return nil
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	var tokens []string
	for _, w := range words {
		if len(w) <= 2 || stopWords[w] {
			continue
		}
		tokens = append(tokens, porterStem(w))
	}
	return tokens
}

// ExtractKeywords returns the top maxKeywords normalized tokens by descending
// frequency. Ties keep first-seen order so the output is deterministic.
func (n *Normalizer) ExtractKeywords(text string, maxKeywords int) []string {
	if maxKeywords <= 0 {
		maxKeywords = 10
	}

	tokens := n.Tokens(text)
	if len(tokens) == 0 {
		return nil
	}

	freq := make(map[string]int, len(tokens))
	firstSeen := make(map[string]int, len(tokens))
	var order []string
	for i, tok := range tokens {
		if _, ok := freq[tok]; !ok {
			firstSeen[tok] = i
			order = append(order, tok)
		}
		freq[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if freq[order[i]] != freq[order[j]] {
			return freq[order[i]] > freq[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	return order
}
