package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the wire-stable conditions the front-end maps to HTTP
// status codes (§6/§7). Their Error() text is part of the wire contract and
// must not change.
var (
	// ErrStillIndexing is returned when a search arrives before any index
	// generation has been installed.
	ErrStillIndexing = errors.New("still-indexing")

	// ErrBacklogExceeded is returned when the chosen worker's backlog
	// exceeds MAXIMUM_BACKLOG.
	ErrBacklogExceeded = errors.New("backlog-exceeded")

	// ErrPoolUnavailable is returned when every worker is suspended.
	ErrPoolUnavailable = errors.New("pool-unavailable")

	// ErrQueryTooLong is returned when a parsed query has more terms than
	// MAXIMUM_TERMS, or is empty.
	ErrQueryTooLong = errors.New("query-too-long")

	// ErrAlreadyIndexing is returned when a sync is requested while one is
	// already in flight.
	ErrAlreadyIndexing = errors.New("already-indexing")

	// ErrWorkerNotRunning is returned by a worker that has been marked dead
	// after repeatedly failing to start within its minimum interval.
	ErrWorkerNotRunning = errors.New("worker not running")
)

// ManifestSourceError represents a fatal startup configuration error: a
// manifest source string that is neither "bucket:<bucket>/<prefix>" nor
// "dir:<path>".
type ManifestSourceError struct {
	Source string
	Reason string
}

func (e *ManifestSourceError) Error() string {
	return fmt.Sprintf("invalid manifest source %q: %s", e.Source, e.Reason)
}

// NewManifestSourceError creates a new ManifestSourceError.
func NewManifestSourceError(source, reason string) *ManifestSourceError {
	return &ManifestSourceError{Source: source, Reason: reason}
}

// ManifestParseError represents a per-manifest parse failure, recorded on
// the coordinator's sync status without aborting the sync (§7).
type ManifestParseError struct {
	SearchProperty string
	Message        string
}

func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("manifest %q: %s", e.SearchProperty, e.Message)
}

// NewManifestParseError creates a new ManifestParseError.
func NewManifestParseError(searchProperty, message string) *ManifestParseError {
	return &ManifestParseError{SearchProperty: searchProperty, Message: message}
}

// ListingTruncatedError represents a fetcher listing that was truncated
// (>1000 objects, §7); the design does not support pagination, so this is
// fatal for the sync.
type ListingTruncatedError struct {
	Source string
	Count  int
}

func (e *ListingTruncatedError) Error() string {
	return fmt.Sprintf("manifest listing for %q truncated at %d objects", e.Source, e.Count)
}

// NewListingTruncatedError creates a new ListingTruncatedError.
func NewListingTruncatedError(source string, count int) *ListingTruncatedError {
	return &ListingTruncatedError{Source: source, Count: count}
}
