// Package ranking implements the Dirichlet+ smoothed relevance score, the
// phrase-adjacency post-filter, and the HITS link-analysis pass described in
// §4.5. It operates on plain docID-keyed data so it has no dependency on the
// index package that builds that data.
package ranking

import (
	"math"
	"sort"

	"github.com/mongodb/marian/config"
)

// Match is a transient per-query record for one candidate document.
type Match struct {
	DocID          int
	RelevancyScore float64
	Terms          map[string]struct{}
	AuthorityScore float64
	HubScore       float64
	Score          float64

	order int
}

// NewMatch returns a zero-relevance Match for docID. order records the
// position in which the match was first generated, for tie-breaking
// (§4.5 "Tie-breaking").
func NewMatch(docID, order int) *Match {
	return &Match{
		DocID:          docID,
		Terms:          make(map[string]struct{}),
		AuthorityScore: 1,
		HubScore:       1,
		order:          order,
	}
}

// AddTerm records that term contributed to this match.
func (m *Match) AddTerm(term string) {
	m.Terms[term] = struct{}{}
}

func log2(x float64) float64 {
	return math.Log2(x)
}

// DirichletPlusTermScore computes one (term, field) contribution to a
// match's relevancy score, per the formula in §4.5 Step B. p is the term's
// field-level occurrence probability; a p of 0 yields a contribution of 0,
// not NaN or Inf.
func DirichletPlusTermScore(settings config.RankerSettings, tfq, tfd, p, dl float64, qlen int, fieldWeight, fieldLengthWeight, docWeight float64) float64 {
	if p == 0 {
		return 0
	}
	mu := settings.Mu
	delta := settings.Delta

	raw := tfq*(log2(1+tfd/(mu*p))+log2(1+delta/(mu*p))) + float64(qlen)*log2(mu/(dl+mu))
	return raw * fieldWeight * fieldLengthWeight * docWeight
}

// PhraseMatches reports whether the stemmed phrase components can be found
// at consecutive positions, in order, within a single document — per §4.5
// Step C. positionsByToken maps each stemmed phrase component to every
// position at which it occurs in the document (across all fields; the field
// separator bump deliberately makes cross-field adjacency indistinguishable
// from within-field adjacency, per §9).
func PhraseMatches(stemmedPhrase []string, positionsByToken map[string][]int) bool {
	if len(stemmedPhrase) == 0 {
		return true
	}

	sets := make([]map[int]struct{}, len(stemmedPhrase))
	for i, tok := range stemmedPhrase {
		set := make(map[int]struct{})
		for _, p := range positionsByToken[tok] {
			set[p] = struct{}{}
		}
		sets[i] = set
	}

	for start := range sets[0] {
		cur := start
		matched := true
		for i := 1; i < len(stemmedPhrase); i++ {
			next := cur + 1
			if _, ok := sets[i][next]; !ok {
				matched = false
				break
			}
			cur = next
		}
		if matched {
			return true
		}
	}
	return false
}

// ApplyHITS runs Kleinberg's HITS algorithm (§4.5 Step D) over the base set
// derived from candidates plus their incoming/outgoing neighbors, and
// returns the final per-match score for every surviving candidate (zero-
// relevance candidates are dropped; neighbor-only placeholder nodes never
// appear in the result — they exist only to seed authority/hub mass).
func ApplyHITS(candidates map[int]*Match, outgoing, incoming map[int]map[int]struct{}, settings config.RankerSettings) []*Match {
	base := make(map[int]*Match, len(candidates))
	nextOrder := len(candidates)
	for id, m := range candidates {
		base[id] = m
	}
	addNeighbors := func(id int) {
		for n := range outgoing[id] {
			if _, ok := base[n]; !ok {
				base[n] = NewMatch(n, nextOrder)
				nextOrder++
			}
		}
		for n := range incoming[id] {
			if _, ok := base[n]; !ok {
				base[n] = NewMatch(n, nextOrder)
				nextOrder++
			}
		}
	}
	for id := range candidates {
		addNeighbors(id)
	}

	ids := make([]int, 0, len(base))
	for id := range base {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	maxIter := settings.HitsMaxIterations
	if maxIter <= 0 {
		maxIter = 200
	}
	eps := settings.HitsConvergenceEps
	if eps <= 0 {
		eps = 1e-5
	}

	prevAuthNorm, prevHubNorm := 0.0, 0.0
	for iter := 0; iter < maxIter; iter++ {
		newAuth := make(map[int]float64, len(ids))
		for _, id := range ids {
			sum := 0.0
			for u := range incoming[id] {
				if node, ok := base[u]; ok {
					sum += node.HubScore
				}
			}
			newAuth[id] = sum
		}
		authNorm := l2Norm(newAuth, ids)
		normalizeInPlace(newAuth, ids, authNorm)
		for _, id := range ids {
			base[id].AuthorityScore = newAuth[id]
		}

		newHub := make(map[int]float64, len(ids))
		for _, id := range ids {
			sum := 0.0
			for w := range outgoing[id] {
				if node, ok := base[w]; ok {
					sum += node.AuthorityScore
				}
			}
			newHub[id] = sum
		}
		hubNorm := l2Norm(newHub, ids)
		normalizeInPlace(newHub, ids, hubNorm)
		for _, id := range ids {
			base[id].HubScore = newHub[id]
		}

		if iter > 0 && math.Abs(authNorm-prevAuthNorm) < eps && math.Abs(hubNorm-prevHubNorm) < eps {
			break
		}
		prevAuthNorm, prevHubNorm = authNorm, hubNorm
	}

	survivors := make([]*Match, 0, len(candidates))
	for id := range candidates {
		m := base[id]
		if m.RelevancyScore == 0 {
			continue
		}
		if math.IsNaN(m.AuthorityScore) {
			m.AuthorityScore = 1e-10
		}
		survivors = append(survivors, m)
	}
	if len(survivors) == 0 {
		return survivors
	}

	mean := 0.0
	for _, m := range survivors {
		mean += m.RelevancyScore
	}
	mean /= float64(len(survivors))

	variance := 0.0
	for _, m := range survivors {
		d := m.RelevancyScore - mean
		variance += d * d
	}
	variance /= float64(len(survivors))
	tau := math.Sqrt(variance)

	maxRelevancy, maxAuthority := 0.0, 0.0
	for _, m := range survivors {
		if m.RelevancyScore >= tau {
			if m.RelevancyScore > maxRelevancy {
				maxRelevancy = m.RelevancyScore
			}
			if m.AuthorityScore > maxAuthority {
				maxAuthority = m.AuthorityScore
			}
		}
	}
	if maxRelevancy == 0 {
		maxRelevancy = 1
	}
	if maxAuthority == 0 {
		maxAuthority = 1
	}

	const authorityScale = 1 / 2.0 // 1/log2(4) == 1/2
	for _, m := range survivors {
		score := log2(m.RelevancyScore/maxRelevancy+1) + log2(m.AuthorityScore/maxAuthority+1)*authorityScale
		if tau > 0 && m.RelevancyScore < tau*2.5 {
			score -= tau / m.RelevancyScore
		}
		m.Score = score
	}

	return survivors
}

func l2Norm(values map[int]float64, ids []int) float64 {
	sum := 0.0
	for _, id := range ids {
		v := values[id]
		sum += v * v
	}
	return math.Sqrt(sum)
}

func normalizeInPlace(values map[int]float64, ids []int, norm float64) {
	if norm == 0 {
		return
	}
	for _, id := range ids {
		values[id] /= norm
	}
}

// RankAndTruncate sorts candidates and truncates to settings.MaxMatches, per
// §4.5 Step D. With useHits=false it sorts by RelevancyScore; with
// useHits=true it runs ApplyHITS first and sorts by the resulting Score.
// Ties preserve insertion order (the order each match was first generated).
func RankAndTruncate(candidates map[int]*Match, useHits bool, outgoing, incoming map[int]map[int]struct{}, settings config.RankerSettings) []*Match {
	var ranked []*Match
	if useHits {
		ranked = ApplyHITS(candidates, outgoing, incoming, settings)
		sort.SliceStable(ranked, func(i, j int) bool {
			if ranked[i].Score != ranked[j].Score {
				return ranked[i].Score > ranked[j].Score
			}
			return ranked[i].order < ranked[j].order
		})
	} else {
		ranked = make([]*Match, 0, len(candidates))
		for _, m := range candidates {
			ranked = append(ranked, m)
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			if ranked[i].RelevancyScore != ranked[j].RelevancyScore {
				return ranked[i].RelevancyScore > ranked[j].RelevancyScore
			}
			return ranked[i].order < ranked[j].order
		})
	}

	maxMatches := settings.MaxMatches
	if maxMatches <= 0 {
		maxMatches = 150
	}
	if len(ranked) > maxMatches {
		ranked = ranked[:maxMatches]
	}
	return ranked
}
