package stemmer

// stopWords is the fixed English stop-list consulted by IsStopWord. The set
// mirrors the standard list used by Snowball's English stemmer demo
// (pronouns, auxiliary verbs, prepositions, conjunctions) so that stemming
// and stop-word filtering agree on what counts as a "function word".
var stopWords = buildStopWordSet([]string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves",
	"you", "your", "yours", "yourself", "yourselves",
	"he", "him", "his", "himself", "she", "her", "hers", "herself",
	"it", "its", "itself", "they", "them", "their", "theirs", "themselves",
	"what", "which", "who", "whom", "this", "that", "these", "those",
	"am", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "having", "do", "does", "did", "doing",
	"a", "an", "the", "and", "but", "if", "or", "because", "as", "until", "while",
	"of", "at", "by", "for", "with", "about", "against", "between", "into",
	"through", "during", "before", "after", "above", "below", "to", "from",
	"up", "down", "in", "out", "on", "off", "over", "under",
	"again", "further", "then", "once", "here", "there", "when", "where",
	"why", "how", "all", "any", "both", "each", "few", "more", "most",
	"other", "some", "such", "no", "nor", "not", "only", "own", "same",
	"so", "than", "too", "very", "can", "will", "just",
})

func buildStopWordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopWord reports whether word is a member of the fixed English stop-list.
// Lookup is case-sensitive; callers are expected to lowercase first, the way
// the tokenizer already does.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
