package stemmer

// atomicPhrases maps the first word of a two-word lexical item to its
// required second word. When the tokenizer sees these two words adjacent it
// emits one token (the two words joined by a single space) instead of two,
// and that token bypasses stemming entirely.
var atomicPhrases = map[string]string{
	"ops":   "manager",
	"cloud": "manager",
	"real":  "time",
}

// LookupAtomicPhrase reports whether (first, second) form a configured
// atomic phrase, returning the joined token to emit when they do.
func LookupAtomicPhrase(first, second string) (string, bool) {
	want, ok := atomicPhrases[first]
	if !ok || want != second {
		return "", false
	}
	return first + " " + second, true
}

// IsAtomicPhrase reports whether token is the joined form of a configured
// atomic phrase (i.e. contains the separating space). Atomic phrase tokens
// bypass stemming.
func IsAtomicPhrase(token string) bool {
	for i := 0; i < len(token); i++ {
		if token[i] == ' ' {
			return true
		}
	}
	return false
}
