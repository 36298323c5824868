// Package index implements FTSIndex: the inverted index that backs
// document retrieval (§3, §4.4). One FTSIndex is one complete generation of
// one worker's corpus; ids are dense and valid only within that generation.
package index

import (
	"strings"
	"sync"

	"github.com/mongodb/marian/config"
	"github.com/mongodb/marian/internal/query"
	"github.com/mongodb/marian/internal/ranking"
	"github.com/mongodb/marian/internal/stemmer"
	"github.com/mongodb/marian/internal/tokenizer"
	"github.com/mongodb/marian/internal/trie"
	"github.com/mongodb/marian/model"
)

// FTSIndex is the per-generation inverted index: per-field posting data,
// term statistics, the trie, the link graph, and synonym correlations.
type FTSIndex struct {
	mu sync.RWMutex

	fieldOrder []string
	fields     map[string]*Field

	terms map[string]*TermEntry
	trie  *trie.Trie

	linkGraph *LinkGraph

	correlations map[string][]Correlation

	documents       map[int]model.Document
	documentWeights map[int]float64
	nextID          int

	settings config.RankerSettings
}

// New returns an empty FTSIndex configured with the given ordered field
// weights and ranker settings.
func New(fieldWeights config.FieldWeights, settings config.RankerSettings) *FTSIndex {
	fi := &FTSIndex{
		fieldOrder:      make([]string, 0, len(fieldWeights)),
		fields:          make(map[string]*Field, len(fieldWeights)),
		terms:           make(map[string]*TermEntry),
		trie:            trie.New(),
		linkGraph:       newLinkGraph(),
		correlations:    make(map[string][]Correlation),
		documents:       make(map[int]model.Document),
		documentWeights: make(map[int]float64),
		settings:        settings,
	}
	for _, fw := range fieldWeights {
		fi.fieldOrder = append(fi.fieldOrder, fw.Name)
		fi.fields[fw.Name] = newField(fw.Name, fw.Weight)
	}
	return fi
}

// stemKey reduces s (a word or a short phrase) to its space-joined stemmed
// form, the key shape §4.4's correlateWord uses for bigram synonym keys.
func stemKey(s string) string {
	toks := tokenizer.Tokenize(s, false)
	stems := make([]string, len(toks))
	for i, t := range toks {
		stems[i] = stemmer.Stem(t)
	}
	return strings.Join(stems, " ")
}

// CorrelateWord registers a synonym correlation: the stemmed form of word
// (possibly a stemmed bigram for two-word phrases) maps to (stem(synonym),
// closeness). Multiple correlations for the same key accumulate.
func (fi *FTSIndex) CorrelateWord(word, synonym string, closeness float64) {
	fi.mu.Lock()
	defer fi.mu.Unlock()

	key := stemKey(word)
	fi.correlations[key] = append(fi.correlations[key], Correlation{
		Synonym: stemKey(synonym),
		Weight:  closeness,
	})
}

// sigilCorrelation registers the automatic correlation for a sigil-prefixed
// token (§4.1, §4.4): stemmed(token without its sigil prefix) -> token, 0.9.
func (fi *FTSIndex) sigilCorrelation(token string) {
	var base string
	switch {
	case strings.HasPrefix(token, "%%"):
		base = token[2:]
	case strings.HasPrefix(token, "$") || strings.HasPrefix(token, "%"):
		base = token[1:]
	default:
		return
	}
	if base == "" {
		return
	}
	key := stemKey(base)
	fi.correlations[key] = append(fi.correlations[key], Correlation{Synonym: token, Weight: 0.9})
}

func fieldText(doc model.Document, fieldName string) string {
	switch fieldName {
	case "title":
		return doc.Title
	case "headings":
		return doc.Headings
	case "text":
		return doc.Text
	case "tags":
		return doc.Tags
	default:
		return ""
	}
}

func isSigilToken(token string) bool {
	return strings.HasPrefix(token, "$") || strings.HasPrefix(token, "%")
}

// Add indexes doc, assigns it the next document id, and returns that id.
func (fi *FTSIndex) Add(doc model.Document) int {
	fi.mu.Lock()
	defer fi.mu.Unlock()

	id := fi.nextID
	fi.nextID++

	weight := doc.Weight
	if weight == 0 {
		weight = 1
	}
	fi.documents[id] = doc
	fi.documentWeights[id] = weight

	if doc.URL != "" {
		fi.linkGraph.AddDocument(id, doc.URL, doc.Links)
	}

	position := 0
	for _, fieldName := range fi.fieldOrder {
		text := fieldText(doc, fieldName)
		if text == "" {
			continue
		}
		field := fi.fields[fieldName]

		toks := tokenizer.Tokenize(text, true)
		for _, tok := range toks {
			if stemmer.IsStopWord(tok) {
				continue
			}

			var term string
			if isSigilToken(tok) {
				fi.sigilCorrelation(tok)
				term = tok
			} else {
				term = stemmer.Stem(tok)
			}

			entry, ok := field.Documents[id]
			if !ok {
				entry = newDocumentEntry()
				field.Documents[id] = entry
			}
			entry.Len++
			entry.TermFrequencies[term]++
			field.TotalTokensSeen++

			te, ok := fi.terms[term]
			if !ok {
				te = newTermEntry()
				fi.terms[term] = te
			}
			te.recordOccurrence(id, fieldName, position)

			fi.trie.Insert(term, id)

			position++
		}
		position++ // field separator bump (§4.4, §9)
	}

	return id
}

// Finalize resolves the link graph's URL-keyed adjacency into doc-id-keyed
// adjacency. Must be called once, after the whole corpus has been added and
// before Search.
func (fi *FTSIndex) Finalize() {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	fi.linkGraph.Finalize()
}

// CollectCorrelations seeds every stemmed query term at weight 1, then
// merges in registered synonym correlations for each term and each adjacent
// bigram, and applies one further pass over the resulting set to catch one
// hop of transitive synonym expansion (§4.4, §9 Open Question).
func (fi *FTSIndex) CollectCorrelations(queryTerms []string) map[string]float64 {
	fi.mu.RLock()
	defer fi.mu.RUnlock()
	return fi.collectCorrelationsLocked(queryTerms)
}

func (fi *FTSIndex) collectCorrelationsLocked(queryTerms []string) map[string]float64 {
	weights := make(map[string]float64)
	stemmed := make([]string, len(queryTerms))
	for i, t := range queryTerms {
		stemmed[i] = stemmer.Stem(t)
		weights[stemmed[i]] = 1
	}

	apply := func(key string) {
		for _, corr := range fi.correlations[key] {
			if w, ok := weights[corr.Synonym]; !ok || corr.Weight > w {
				weights[corr.Synonym] = corr.Weight
			}
		}
	}
	for i, s := range stemmed {
		apply(s)
		if i+1 < len(stemmed) {
			apply(s + " " + stemmed[i+1])
		}
	}

	snapshot := make([]string, 0, len(weights))
	for k := range weights {
		snapshot = append(snapshot, k)
	}
	for _, k := range snapshot {
		apply(k)
	}

	return weights
}

// Search runs the full ranking procedure of §4.5 over q and returns the
// top matches, truncated to the ranker's configured MaxMatches.
func (fi *FTSIndex) Search(q query.Query, useHits bool) []*ranking.Match {
	fi.mu.RLock()
	defer fi.mu.RUnlock()

	weights := fi.collectCorrelationsLocked(q.Terms)

	// Step A: candidate generation via prefix trie lookup.
	candidateTerms := make(map[int]map[string]struct{})
	for term := range weights {
		hits := fi.trie.Search(term, true)
		for docID, matchedTokens := range hits {
			if q.Filter != nil && !q.Filter(docID) {
				continue
			}
			set, ok := candidateTerms[docID]
			if !ok {
				set = make(map[string]struct{})
				candidateTerms[docID] = set
			}
			for tok := range matchedTokens {
				set[tok] = struct{}{}
			}
		}
	}

	// Deterministic order (by doc id) for tie-break insertion ordering.
	orderedDocs := make([]int, 0, len(candidateTerms))
	for docID := range candidateTerms {
		orderedDocs = append(orderedDocs, docID)
	}
	sortInts(orderedDocs)

	qlen := len(q.Terms)
	matches := make(map[int]*ranking.Match, len(orderedDocs))

	// Step B: Dirichlet+ relevance scoring.
	for order, docID := range orderedDocs {
		match := ranking.NewMatch(docID, order)
		for term := range candidateTerms[docID] {
			te, ok := fi.terms[term]
			if !ok {
				continue
			}
			tfq, ok := weights[term]
			if !ok {
				tfq = 0.1
			}

			contributed := false
			for _, fieldName := range fi.fieldOrder {
				field := fi.fields[fieldName]
				entry, ok := field.Documents[docID]
				if !ok {
					continue
				}
				tfd, ok := entry.TermFrequencies[term]
				if !ok {
					continue
				}
				denom := field.TotalTokensSeen
				if denom < fi.settings.MinFieldTokensSeen {
					denom = fi.settings.MinFieldTokensSeen
				}
				if denom == 0 {
					continue
				}
				p := float64(te.TimesAppeared[fieldName]) / float64(denom)

				score := ranking.DirichletPlusTermScore(
					fi.settings, tfq, float64(tfd), p, float64(entry.Len), qlen,
					field.Weight, field.LengthWeight(), fi.documentWeights[docID],
				)
				match.RelevancyScore += score
				contributed = true
			}
			if contributed {
				match.AddTerm(term)
			}
		}
		matches[docID] = match
	}

	// Step C: phrase-adjacency post-filter.
	if len(q.StemmedPhrases) > 0 {
		for docID := range matches {
			if !fi.satisfiesAllPhrasesLocked(docID, q.StemmedPhrases) {
				delete(matches, docID)
			}
		}
	}

	// Step D: sort, or HITS then sort.
	return ranking.RankAndTruncate(matches, useHits, fi.linkGraph.OutgoingAdjacency(), fi.linkGraph.IncomingAdjacency(), fi.settings)
}

func (fi *FTSIndex) satisfiesAllPhrasesLocked(docID int, stemmedPhrases [][]string) bool {
	for _, phrase := range stemmedPhrases {
		positionsByToken := make(map[string][]int, len(phrase))
		for _, tok := range phrase {
			te, ok := fi.terms[tok]
			if !ok {
				positionsByToken[tok] = nil
				continue
			}
			positionsByToken[tok] = te.Positions[docID]
		}
		if !ranking.PhraseMatches(phrase, positionsByToken) {
			return false
		}
	}
	return true
}

// Document returns the document stored under id, if any.
func (fi *FTSIndex) Document(id int) (model.Document, bool) {
	fi.mu.RLock()
	defer fi.mu.RUnlock()
	doc, ok := fi.documents[id]
	return doc, ok
}

// Len returns the number of documents added to the index.
func (fi *FTSIndex) Len() int {
	fi.mu.RLock()
	defer fi.mu.RUnlock()
	return fi.nextID
}

// Terms returns every indexed term, for seeding a speller dictionary.
func (fi *FTSIndex) Terms() []string {
	fi.mu.RLock()
	defer fi.mu.RUnlock()
	terms := make([]string, 0, len(fi.terms))
	for term := range fi.terms {
		terms = append(terms, term)
	}
	return terms
}

func sortInts(ids []int) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
