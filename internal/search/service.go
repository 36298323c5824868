// Package search implements the Searcher facade of §4.6: the thin layer
// between an HTTP request and an FTSIndex that resolves property aliases,
// parses and validates the query, assigns the visibility filter, and maps
// ranking.Match results to the per-document display projection.
package search

import (
	"fmt"
	"sync"

	"github.com/mongodb/marian/config"
	marianerrors "github.com/mongodb/marian/internal/errors"
	"github.com/mongodb/marian/internal/query"
	"github.com/mongodb/marian/internal/ranking"
	"github.com/mongodb/marian/index"
)

// Speller suggests a single replacement for a query term, consulted only
// when a search returns weak results (§4.6 step 6).
type Speller interface {
	Suggest(term string) (suggestion string, ok bool)
}

// Result is the per-document display projection of a ranking.Match.
type Result struct {
	Title   string `json:"title"`
	Preview string `json:"preview"`
	URL     string `json:"url"`
}

// Response is the Searcher facade's reply: display results plus any
// spelling corrections attached under step 6.
type Response struct {
	Results             []Result          `json:"results"`
	SpellingCorrections map[string]string `json:"spellingCorrections"`
}

// Service is one worker's Searcher facade: its FTSIndex, the property-alias
// table published by the most recent manifest load, and an optional
// speller consulted on weak results.
type Service struct {
	mu             sync.RWMutex
	idx            *index.FTSIndex
	settings       config.RankerSettings
	aliases        map[string]string
	speller        Speller
	mandatoryTerms map[string]struct{}
}

// NewService returns a Service backed by idx. idx must not be nil.
func NewService(idx *index.FTSIndex, settings config.RankerSettings) (*Service, error) {
	if idx == nil {
		return nil, fmt.Errorf("search: index must not be nil")
	}
	return &Service{
		idx:            idx,
		settings:       settings,
		aliases:        make(map[string]string),
		mandatoryTerms: config.MandatoryTerms(),
	}, nil
}

// UpdateAliases replaces the property-alias table wholesale. Called by the
// coordinator on each manifest load (§4.8) and on each admin-config update.
func (s *Service) UpdateAliases(aliases map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aliases = aliases
}

// UpdateSpeller installs (or, with nil, clears) the speller consulted on
// weak results.
func (s *Service) UpdateSpeller(sp Speller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speller = sp
}

// UpdateMandatoryTerms replaces the set of terms the query parser treats as
// if quoted, overriding the built-in default (§9). An empty set restores
// the built-in default rather than disabling mandatory-term rewriting.
func (s *Service) UpdateMandatoryTerms(terms map[string]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(terms) == 0 {
		s.mandatoryTerms = config.MandatoryTerms()
		return
	}
	s.mandatoryTerms = terms
}

// CorrelateWord seeds a manual synonym correlation directly onto this
// worker's live index (§4.4), without waiting for the next rebuild.
// FTSIndex guards the correlation table with its own lock, so this is safe
// to call concurrently with in-flight searches.
func (s *Service) CorrelateWord(word, synonym string, closeness float64) {
	s.mu.RLock()
	idx := s.idx
	s.mu.RUnlock()
	idx.CorrelateWord(word, synonym, closeness)
}

func (s *Service) resolveProperty(tag string) string {
	if canon, ok := s.aliases[tag]; ok {
		return canon
	}
	return tag
}

// Search runs §4.6's procedure: parse, validate term count, assign the
// visibility filter, execute the index search, and map matches to display
// results. useHits selects whether the HITS link-analysis pass runs.
func (s *Service) Search(queryString string, searchProperties []string, useHits bool) (Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := query.Parse(queryString)
	if len(q.Terms) == 0 || len(q.Terms) > s.settings.MaximumTerms {
		return Response{}, marianerrors.ErrQueryTooLong
	}
	query.ApplyMandatoryTerms(&q, s.mandatoryTerms)

	resolved := make(map[string]struct{}, len(searchProperties))
	for _, tag := range searchProperties {
		resolved[s.resolveProperty(tag)] = struct{}{}
	}

	if len(resolved) > 0 {
		q.Filter = func(docID int) bool {
			doc, ok := s.idx.Document(docID)
			if !ok {
				return false
			}
			_, in := resolved[doc.SearchProperty]
			return in
		}
	} else {
		q.Filter = func(docID int) bool {
			doc, ok := s.idx.Document(docID)
			return ok && doc.IncludeInGlobalSearch
		}
	}

	matches := s.idx.Search(q, useHits)

	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		doc, ok := s.idx.Document(m.DocID)
		if !ok {
			continue
		}
		results = append(results, Result{Title: doc.Title, Preview: doc.Preview, URL: doc.URL})
	}

	resp := Response{Results: results}
	if s.speller != nil && s.needsSpellCorrection(matches, useHits) {
		resp.SpellingCorrections = s.suggestCorrections(q.Terms)
	}
	return resp, nil
}

// needsSpellCorrection reports whether step 6's trigger condition holds: no
// results, or the top-ranked match's score is at or below LowScoreThreshold.
func (s *Service) needsSpellCorrection(matches []*ranking.Match, useHits bool) bool {
	if len(matches) == 0 {
		return true
	}
	top := matches[0].RelevancyScore
	if useHits {
		top = matches[0].Score
	}
	return top <= s.settings.LowScoreThreshold
}

// suggestCorrections asks the speller for one replacement per query term,
// keeping only the terms for which a suggestion was offered.
func (s *Service) suggestCorrections(terms []string) map[string]string {
	corrections := make(map[string]string)
	for _, term := range terms {
		if suggestion, ok := s.speller.Suggest(term); ok {
			corrections[term] = suggestion
		}
	}
	if len(corrections) == 0 {
		return nil
	}
	return corrections
}
