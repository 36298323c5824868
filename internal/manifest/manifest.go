// Package manifest implements the Fetcher contract of §6: listing manifest
// sources and returning raw (body, lastModified, searchProperty) entries
// for the coordinator to parse.
package manifest

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// filenamePattern extracts the tag a manifest file's searchProperty is
// derived from; entries whose key doesn't match are reported as sync
// errors without aborting the sync (§6, §7).
var filenamePattern = regexp.MustCompile(`([^/]+)\.json$`)

// SearchPropertyForKey returns the searchProperty tag derived from key's
// filename, or "" if key doesn't match the required `([^/]+)\.json$` shape.
func SearchPropertyForKey(key string) (string, bool) {
	m := filenamePattern.FindStringSubmatch(key)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Entry is one manifest file's raw contents, ready for the coordinator to
// unmarshal and ingest.
type Entry struct {
	Body           string
	LastModified   time.Time
	SearchProperty string
}

// Fetcher lists and retrieves every manifest file under a configured
// source. Entries with keys that fail SearchPropertyForKey are omitted
// from the returned slice and surfaced instead as entries in errs.
type Fetcher interface {
	Fetch(ctx context.Context) (entries []Entry, errs []error)
}

func trimSlashes(s string) string {
	return strings.Trim(s, "/")
}
