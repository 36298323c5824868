// Package tokenizer splits raw text into the normalized token stream the
// indexer consumes; the query parser splits query strings with its own
// simpler word rule (internal/query). Tokenization does not itself apply
// stemming or stop-word filtering; see internal/stemmer for those.
package tokenizer

import (
	"strings"

	"github.com/mongodb/marian/internal/stemmer"
)

// isWordByte reports whether b belongs to the token alphabet
// [A-Za-z0-9_$%.]. Any other byte separates components.
func isWordByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '_' || b == '$' || b == '%' || b == '.':
		return true
	}
	return false
}

// splitComponents breaks text into maximal runs of isWordByte characters.
func splitComponents(text string) []string {
	components := make([]string, 0)
	start := -1
	for i := 0; i < len(text); i++ {
		if isWordByte(text[i]) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			components = append(components, text[start:i])
			start = -1
		}
	}
	if start != -1 {
		components = append(components, text[start:])
	}
	return components
}

// Tokenize splits text on runs of characters outside the token alphabet,
// lowercases and trims leading/trailing dots from each component, expands a
// bare "$" component into "positional operator", folds recognized atomic
// phrases into a single token, and emits components of length > 1. When
// fuzzy is true, each dot-separated sub-component of a component containing
// a dot is additionally emitted, in order, right after the full token.
func Tokenize(text string, fuzzy bool) []string {
	raw := splitComponents(text)

	components := make([]string, len(raw))
	for i, c := range raw {
		components[i] = strings.Trim(strings.ToLower(c), ".")
	}

	tokens := make([]string, 0)
	for i := 0; i < len(components); i++ {
		c := components[i]

		if c == "$" {
			tokens = append(tokens, "positional", "operator")
			continue
		}

		if i+1 < len(components) {
			if joined, ok := stemmer.LookupAtomicPhrase(c, components[i+1]); ok {
				tokens = append(tokens, joined)
				i++
				continue
			}
		}

		if len(c) > 1 {
			tokens = append(tokens, c)
		}

		if fuzzy && strings.Contains(c, ".") {
			for _, sub := range strings.Split(c, ".") {
				if len(sub) > 1 {
					tokens = append(tokens, sub)
				}
			}
		}
	}

	return tokens
}
