// Package stemmer implements the English Porter2 stemmer (by way of the
// Snowball reference implementation), stop-word filtering, and atomic-phrase
// recognition used to normalize text into canonical tokens before indexing.
package stemmer

import (
	"sync"

	snowballstem "github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/english"
)

// cache memoizes Stem results. Stemming is pure (same word always produces
// the same stem) and is called once per token occurrence during indexing and
// again per query term at search time, so caching avoids re-running the
// Snowball state machine for words that recur across a corpus.
var (
	cacheMu sync.RWMutex
	cache   = make(map[string]string)
)

// Stem reduces word to its Porter2 stem. Atomic phrases (tokens joined by a
// space, see LookupAtomicPhrase) pass through unchanged since they were
// never split into stemmable components.
func Stem(word string) string {
	if IsAtomicPhrase(word) {
		return word
	}

	cacheMu.RLock()
	stemmed, ok := cache[word]
	cacheMu.RUnlock()
	if ok {
		return stemmed
	}

	env := snowballstem.NewEnv(word)
	english.Stem(env)
	stemmed = env.Current()

	cacheMu.Lock()
	cache[word] = stemmed
	cacheMu.Unlock()

	return stemmed
}
