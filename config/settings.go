// Package config provides configuration structures for the search service.
// It defines field weights, ranker tuning knobs, worker pool sizing, and
// manifest source parsing.
package config

import (
	"strings"

	marianerrors "github.com/mongodb/marian/internal/errors"
)

// FieldWeight is one (fieldName, weight) pair in the ordered list an index
// is constructed with (§4.4).
type FieldWeight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// FieldWeights is the ordered list of fields an index indexes, each with its
// multiplicative ranking weight. Canonical configuration: text=1,
// headings=5, title=10, tags=10.
type FieldWeights []FieldWeight

// DefaultFieldWeights returns the canonical field configuration named in §3.
func DefaultFieldWeights() FieldWeights {
	return FieldWeights{
		{Name: "text", Weight: 1},
		{Name: "headings", Weight: 5},
		{Name: "title", Weight: 10},
		{Name: "tags", Weight: 10},
	}
}

// ValidateFieldNames reports configuration conflicts: duplicate field names
// or non-positive weights.
func (fw FieldWeights) ValidateFieldNames() []string {
	var conflicts []string
	seen := make(map[string]bool)
	for _, f := range fw {
		if strings.TrimSpace(f.Name) == "" {
			conflicts = append(conflicts, "field name cannot be empty or whitespace-only")
			continue
		}
		if seen[f.Name] {
			conflicts = append(conflicts, "duplicate field '"+f.Name+"' in field weights")
		}
		seen[f.Name] = true
		if f.Weight <= 0 {
			conflicts = append(conflicts, "field '"+f.Name+"' must have a positive weight")
		}
	}
	return conflicts
}

// RankerSettings holds the Dirichlet+/HITS tuning knobs of §4.5. Canonical
// defaults follow §4.5/§4.6; all are overridable.
type RankerSettings struct {
	Mu                  float64 `json:"mu"`
	Delta               float64 `json:"delta"`
	MaxMatches           int     `json:"max_matches"`
	MaximumTerms        int     `json:"maximum_terms"`
	MinFieldTokensSeen  int     `json:"min_field_tokens_seen"`
	HitsMaxIterations   int     `json:"hits_max_iterations"`
	HitsConvergenceEps  float64 `json:"hits_convergence_epsilon"`
	LowScoreThreshold   float64 `json:"low_score_threshold"`
}

// ApplyDefaults fills in the canonical Dirichlet+/HITS constants named in
// §4.5/§4.6 for any field left at its zero value.
func (rs *RankerSettings) ApplyDefaults() {
	if rs.Mu == 0 {
		rs.Mu = 2000
	}
	if rs.Delta == 0 {
		rs.Delta = 0.05
	}
	if rs.MaxMatches == 0 {
		rs.MaxMatches = 150
	}
	if rs.MaximumTerms == 0 {
		rs.MaximumTerms = 10
	}
	if rs.MinFieldTokensSeen == 0 {
		rs.MinFieldTokensSeen = 500
	}
	if rs.HitsMaxIterations == 0 {
		rs.HitsMaxIterations = 200
	}
	if rs.HitsConvergenceEps == 0 {
		rs.HitsConvergenceEps = 1e-5
	}
	if rs.LowScoreThreshold == 0 {
		rs.LowScoreThreshold = 0.6
	}
}

// PoolSettings sizes the balancing worker pool (§4.7). Canonical defaults:
// 2 workers, MaximumBacklog 20, WarningBacklog 15.
type PoolSettings struct {
	WorkerCount     int `json:"worker_count"`
	MaximumBacklog  int `json:"maximum_backlog"`
	WarningBacklog  int `json:"warning_backlog"`
}

// ApplyDefaults fills in the canonical pool sizing constants for any field
// left at its zero value.
func (ps *PoolSettings) ApplyDefaults() {
	if ps.WorkerCount == 0 {
		ps.WorkerCount = 2
	}
	if ps.MaximumBacklog == 0 {
		ps.MaximumBacklog = 20
	}
	if ps.WarningBacklog == 0 {
		ps.WarningBacklog = 15
	}
}

// Validate reports configuration conflicts in pool sizing.
func (ps PoolSettings) Validate() []string {
	var conflicts []string
	if ps.WorkerCount < 1 {
		conflicts = append(conflicts, "worker_count must be at least 1")
	}
	if ps.WarningBacklog > ps.MaximumBacklog {
		conflicts = append(conflicts, "warning_backlog must not exceed maximum_backlog")
	}
	return conflicts
}

// ManifestSourceKind distinguishes the two manifest source grammars named
// in §6.
type ManifestSourceKind int

const (
	// ManifestSourceBucket is "bucket:<bucket>/<prefix>".
	ManifestSourceBucket ManifestSourceKind = iota
	// ManifestSourceDir is "dir:<path>".
	ManifestSourceDir
)

// ManifestSource is a parsed manifest source string.
type ManifestSource struct {
	Kind   ManifestSourceKind
	Bucket string
	Prefix string
	Dir    string
	Raw    string
}

// ParseManifestSource parses a manifest source string per §6. Anything that
// does not match "bucket:<bucket>/<prefix>" or "dir:<path>" is a fatal
// configuration error at startup.
func ParseManifestSource(raw string) (ManifestSource, error) {
	switch {
	case strings.HasPrefix(raw, "bucket:"):
		rest := strings.TrimPrefix(raw, "bucket:")
		parts := strings.SplitN(rest, "/", 2)
		bucket := parts[0]
		prefix := ""
		if len(parts) == 2 {
			prefix = parts[1]
		}
		if bucket == "" {
			return ManifestSource{}, marianerrors.NewManifestSourceError(raw, "empty bucket")
		}
		return ManifestSource{Kind: ManifestSourceBucket, Bucket: bucket, Prefix: prefix, Raw: raw}, nil

	case strings.HasPrefix(raw, "dir:"):
		dir := strings.TrimPrefix(raw, "dir:")
		if dir == "" {
			return ManifestSource{}, marianerrors.NewManifestSourceError(raw, "empty path")
		}
		return ManifestSource{Kind: ManifestSourceDir, Dir: dir, Raw: raw}, nil

	default:
		return ManifestSource{}, marianerrors.NewManifestSourceError(raw, "must start with \"bucket:\" or \"dir:\"")
	}
}

// MandatoryTerms is the reference set of words the query parser treats as
// if quoted, per the Design Notes mandatory-terms extension (§9).
func MandatoryTerms() map[string]struct{} {
	return map[string]struct{}{
		"realm":   {},
		"atlas":   {},
		"compass": {},
	}
}

// AdminConfig is the small amount of operator-entered state that survives a
// restart independently of a manifest sync: alias overrides layered on top
// of the per-sync manifest-derived alias table, and an override for the
// mandatory-terms set. It is snapshotted to disk by internal/persistence;
// manual synonym correlations have their own JSON-backed store
// (internal/correlation) and are not duplicated here.
type AdminConfig struct {
	AdminAliases   map[string]string `json:"adminAliases"`
	MandatoryTerms []string          `json:"mandatoryTerms"`
}

// MandatoryTermsSet returns ac.MandatoryTerms as the set shape
// query.ApplyMandatoryTerms expects, or nil if none were configured.
func (ac AdminConfig) MandatoryTermsSet() map[string]struct{} {
	if len(ac.MandatoryTerms) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ac.MandatoryTerms))
	for _, term := range ac.MandatoryTerms {
		set[term] = struct{}{}
	}
	return set
}
