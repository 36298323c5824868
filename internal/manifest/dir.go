package manifest

import (
	"context"
	"os"
	"path/filepath"
	"time"

	marianerrors "github.com/mongodb/marian/internal/errors"
)

// DirFetcher is the `dir:<path>` reference implementation of Fetcher (§6):
// it walks a filesystem directory non-recursively and reads every
// `*.json` file it finds.
type DirFetcher struct {
	Dir string
}

// Fetch lists the directory and reads each matching file. Non-matching
// filenames are reported as sync errors, not aborted. A directory listing
// over 1000 entries is a fatal configuration error (§7): it is reported
// as the sole error with no entries, and the coordinator must treat it as
// fatal rather than partial.
func (f DirFetcher) Fetch(ctx context.Context) ([]Entry, []error) {
	items, err := os.ReadDir(f.Dir)
	if err != nil {
		return nil, []error{err}
	}
	if len(items) > 1000 {
		return nil, []error{marianerrors.NewListingTruncatedError(f.Dir, len(items))}
	}

	var entries []Entry
	var errs []error
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		select {
		case <-ctx.Done():
			return entries, append(errs, ctx.Err())
		default:
		}

		searchProperty, ok := SearchPropertyForKey(item.Name())
		if !ok {
			errs = append(errs, marianerrors.NewManifestParseError(item.Name(), "filename does not match ([^/]+).json$"))
			continue
		}

		path := filepath.Join(f.Dir, item.Name())
		body, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, marianerrors.NewManifestParseError(searchProperty, err.Error()))
			continue
		}

		info, err := item.Info()
		lastModified := time.Time{}
		if err == nil {
			lastModified = info.ModTime()
		}

		entries = append(entries, Entry{
			Body:           string(body),
			LastModified:   lastModified,
			SearchProperty: searchProperty,
		})
	}
	return entries, errs
}
