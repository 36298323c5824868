package ranking

import (
	"math"
	"testing"

	"github.com/mongodb/marian/config"
)

func defaultSettings() config.RankerSettings {
	var rs config.RankerSettings
	rs.ApplyDefaults()
	return rs
}

func TestDirichletPlusTermScoreZeroWhenPIsZero(t *testing.T) {
	settings := defaultSettings()
	got := DirichletPlusTermScore(settings, 1, 5, 0, 100, 2, 10, 1, 1)
	if got != 0 {
		t.Errorf("DirichletPlusTermScore with p=0 = %v, want 0", got)
	}
}

func TestDirichletPlusTermScoreIsFinite(t *testing.T) {
	settings := defaultSettings()
	got := DirichletPlusTermScore(settings, 1, 5, 0.01, 100, 2, 10, 1.5, 1)
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("DirichletPlusTermScore = %v, want a finite number", got)
	}
}

func TestDirichletPlusTermScoreScalesWithFieldWeight(t *testing.T) {
	settings := defaultSettings()
	low := DirichletPlusTermScore(settings, 1, 5, 0.01, 100, 2, 1, 1, 1)
	high := DirichletPlusTermScore(settings, 1, 5, 0.01, 100, 2, 10, 1, 1)
	if math.Abs(high) <= math.Abs(low) {
		t.Errorf("expected |score| to scale with field weight: low=%v high=%v", low, high)
	}
}

func TestPhraseMatchesQuothTheRaven(t *testing.T) {
	positions := map[string][]int{
		"quoth": {0, 5},
		"raven": {8, 1},
	}
	if !PhraseMatches([]string{"quoth", "raven"}, positions) {
		t.Error("expected phrase match for {quoth:[0,5], raven:[8,1]}")
	}
}

func TestPhraseMatchesQuothTheRavenNoMatch(t *testing.T) {
	positions := map[string][]int{
		"quoth": {0, 3},
		"raven": {2, 5},
	}
	if PhraseMatches([]string{"quoth", "raven"}, positions) {
		t.Error("expected no phrase match for {quoth:[0,3], raven:[2,5]}")
	}
}

func TestPhraseMatchesSingleToken(t *testing.T) {
	positions := map[string][]int{"atlas": {4}}
	if !PhraseMatches([]string{"atlas"}, positions) {
		t.Error("expected single-token phrase to match when token is present")
	}
	if PhraseMatches([]string{"missing"}, positions) {
		t.Error("expected single-token phrase to fail when token is absent")
	}
}

func TestPhraseMatchesThreeComponents(t *testing.T) {
	positions := map[string][]int{
		"connect": {0},
		"via":     {1},
		"dialog":  {2},
	}
	if !PhraseMatches([]string{"connect", "via", "dialog"}, positions) {
		t.Error("expected three-component consecutive phrase to match")
	}
	positions["via"] = []int{5}
	if PhraseMatches([]string{"connect", "via", "dialog"}, positions) {
		t.Error("expected phrase match to fail once contiguity is broken")
	}
}

func TestRankAndTruncateWithoutHITSOrdersByRelevancy(t *testing.T) {
	candidates := map[int]*Match{
		1: {DocID: 1, RelevancyScore: 3},
		2: {DocID: 2, RelevancyScore: 9},
		3: {DocID: 3, RelevancyScore: 1},
	}
	settings := defaultSettings()

	ranked := RankAndTruncate(candidates, false, nil, nil, settings)
	if len(ranked) != 3 {
		t.Fatalf("len(ranked) = %d, want 3", len(ranked))
	}
	if ranked[0].DocID != 2 || ranked[1].DocID != 1 || ranked[2].DocID != 3 {
		t.Errorf("order = %v, %v, %v; want 2,1,3", ranked[0].DocID, ranked[1].DocID, ranked[2].DocID)
	}
}

func TestRankAndTruncateRespectsMaxMatches(t *testing.T) {
	settings := defaultSettings()
	settings.MaxMatches = 2

	candidates := map[int]*Match{
		1: {DocID: 1, RelevancyScore: 3},
		2: {DocID: 2, RelevancyScore: 9},
		3: {DocID: 3, RelevancyScore: 1},
	}
	ranked := RankAndTruncate(candidates, false, nil, nil, settings)
	if len(ranked) != 2 {
		t.Fatalf("len(ranked) = %d, want 2", len(ranked))
	}
}

func TestRankAndTruncateTieBreaksByInsertionOrder(t *testing.T) {
	first := NewMatch(1, 0)
	first.RelevancyScore = 5
	second := NewMatch(2, 1)
	second.RelevancyScore = 5

	candidates := map[int]*Match{1: first, 2: second}
	ranked := RankAndTruncate(candidates, false, nil, nil, defaultSettings())

	if ranked[0].DocID != 1 || ranked[1].DocID != 2 {
		t.Errorf("tie-break order = %v, %v; want 1, 2 (insertion order)", ranked[0].DocID, ranked[1].DocID)
	}
}

func TestApplyHITSDropsZeroRelevancyCandidates(t *testing.T) {
	candidates := map[int]*Match{
		1: {DocID: 1, RelevancyScore: 5, AuthorityScore: 1, HubScore: 1},
		2: {DocID: 2, RelevancyScore: 0, AuthorityScore: 1, HubScore: 1},
	}
	outgoing := map[int]map[int]struct{}{1: {2: {}}}
	incoming := map[int]map[int]struct{}{2: {1: {}}}

	survivors := ApplyHITS(candidates, outgoing, incoming, defaultSettings())
	if len(survivors) != 1 || survivors[0].DocID != 1 {
		t.Errorf("survivors = %v, want just doc 1", survivors)
	}
}

func TestApplyHITSPullsInNeighborsForAuthority(t *testing.T) {
	candidates := map[int]*Match{
		1: {DocID: 1, RelevancyScore: 5, AuthorityScore: 1, HubScore: 1},
	}
	// doc 2 links to doc 1 (doc 2 is a hub, doc 1 gains authority), but doc 2
	// itself has no relevancy and must not appear in the final result.
	outgoing := map[int]map[int]struct{}{2: {1: {}}}
	incoming := map[int]map[int]struct{}{1: {2: {}}}

	survivors := ApplyHITS(candidates, outgoing, incoming, defaultSettings())
	if len(survivors) != 1 || survivors[0].DocID != 1 {
		t.Fatalf("survivors = %v, want just doc 1", survivors)
	}
	if survivors[0].AuthorityScore <= 0 {
		t.Errorf("doc 1 AuthorityScore = %v, want positive (fed by doc 2's hub score)", survivors[0].AuthorityScore)
	}
}
