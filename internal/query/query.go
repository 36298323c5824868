// Package query parses raw search query strings into the term/phrase
// representation the ranker consumes.
package query

import (
	"strings"

	"github.com/mongodb/marian/internal/stemmer"
)

// Query is the parsed form of a raw query string.
type Query struct {
	// Terms holds the lowercased bare words found anywhere in the query
	// (both outside and inside quoted phrases), in first-occurrence order,
	// each appearing once.
	Terms []string
	// Phrases holds the original (lowercased) literal text of each quoted
	// phrase, in order of appearance.
	Phrases []string
	// StemmedPhrases holds, for each entry in Phrases at the same index,
	// the stemmed non-stop-word tokens of that phrase in order.
	StemmedPhrases [][]string
	// Filter is assigned by the searcher, not by Parse; nil accepts every
	// document.
	Filter func(docID int) bool
}

func isWordChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '_':
		return true
	}
	return false
}

// splitWords partitions s on runs of non-word characters, lowercasing each
// resulting component. This mirrors a `\W+` split, which is intentionally
// narrower than the tokenizer's token alphabet: query terms do not get the
// sigil/dot handling documents do.
func splitWords(s string) []string {
	words := make([]string, 0)
	start := -1
	for i := 0; i < len(s); i++ {
		if isWordChar(s[i]) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			words = append(words, strings.ToLower(s[start:i]))
			start = -1
		}
	}
	if start != -1 {
		words = append(words, strings.ToLower(s[start:]))
	}
	return words
}

// stemNonStopWords stems every word in words that is not a stop-word,
// preserving order.
func stemNonStopWords(words []string) []string {
	stemmed := make([]string, 0, len(words))
	for _, w := range words {
		if stemmer.IsStopWord(w) {
			continue
		}
		stemmed = append(stemmed, stemmer.Stem(w))
	}
	return stemmed
}

// Parse splits raw into top-level terms and quoted phrases. An unterminated
// opening quote (a "phrase fragment") is treated as if it were closed at the
// end of the string.
func Parse(raw string) Query {
	q := Query{
		Terms:          make([]string, 0),
		Phrases:        make([]string, 0),
		StemmedPhrases: make([][]string, 0),
	}
	seen := make(map[string]struct{})

	addTerms := func(words []string) {
		for _, w := range words {
			if w == "" {
				continue
			}
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			q.Terms = append(q.Terms, w)
		}
	}

	i := 0
	for i < len(raw) {
		if raw[i] == '"' {
			rest := raw[i+1:]
			close := strings.IndexByte(rest, '"')
			var body string
			if close == -1 {
				body = rest
				i = len(raw)
			} else {
				body = rest[:close]
				i += 1 + close + 1
			}

			words := splitWords(body)
			addTerms(words)

			stemmed := stemNonStopWords(words)
			if len(stemmed) == 0 {
				continue
			}
			q.Phrases = append(q.Phrases, strings.ToLower(strings.TrimSpace(body)))
			q.StemmedPhrases = append(q.StemmedPhrases, stemmed)
			continue
		}

		next := strings.IndexByte(raw[i:], '"')
		var segment string
		if next == -1 {
			segment = raw[i:]
			i = len(raw)
		} else {
			segment = raw[i : i+next]
			i += next
		}
		addTerms(splitWords(segment))
	}

	return q
}

// ApplyMandatoryTerms rewrites q so that any bare term in mandatory is
// additionally treated as a single-word phrase: its stem is appended to
// StemmedPhrases (and the literal term to Phrases, to keep the two slices
// index-aligned).
func ApplyMandatoryTerms(q *Query, mandatory map[string]struct{}) {
	for _, term := range q.Terms {
		if _, ok := mandatory[term]; !ok {
			continue
		}
		if stemmer.IsStopWord(term) {
			continue
		}
		q.Phrases = append(q.Phrases, term)
		q.StemmedPhrases = append(q.StemmedPhrases, []string{stemmer.Stem(term)})
	}
}
