// Package coordinator implements the index coordinator of §4.8: it holds
// the manifest source and the worker pool, and orchestrates whole-corpus
// rebuilds across the pool's workers one at a time.
package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mongodb/marian/config"
	"github.com/mongodb/marian/internal/correlation"
	marianerrors "github.com/mongodb/marian/internal/errors"
	"github.com/mongodb/marian/index"
	"github.com/mongodb/marian/internal/manifest"
	"github.com/mongodb/marian/internal/persistence"
	"github.com/mongodb/marian/internal/pool"
	"github.com/mongodb/marian/internal/search"
	"github.com/mongodb/marian/model"
)

// Status is the coordinator's full published state, as returned by
// `/status` (§6).
type Status struct {
	Manifests []string
	LastSync  model.SyncStatus
	Workers   []model.WorkerStatus
}

// Coordinator holds the manifest source and the pool, and serializes
// rebuilds: only one load() may be in flight at a time (§4.8).
type Coordinator struct {
	mu sync.Mutex

	fetcher        manifest.Fetcher
	pool           *pool.Pool
	fieldWeights   config.FieldWeights
	rankerSettings config.RankerSettings
	speller        search.Speller
	correlations   *correlation.Store
	dataDir        string
	adminConfig    config.AdminConfig

	indexing     bool
	ready        bool
	manifests    []string
	aliases      map[string]string
	lastSync     model.SyncStatus
	lastSyncDate time.Time
}

// Ready reports whether at least one manifest load has completed and
// installed an index generation on every worker. A search arriving before
// the first Load() fails with ErrStillIndexing (§4.6 step 1).
func (c *Coordinator) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// New returns a Coordinator with workerCount freshly-built empty workers,
// ready to receive its first load(). dataDir is where the admin
// configuration snapshot (§4.8, admin aliases and mandatory terms) is
// persisted; an empty dataDir disables snapshotting. correlations may be
// nil, in which case no admin-seeded correlations are replayed onto
// rebuilt workers.
func New(fetcher manifest.Fetcher, workerCount int, fieldWeights config.FieldWeights, rankerSettings config.RankerSettings, poolSettings config.PoolSettings, dataDir string, correlations *correlation.Store) (*Coordinator, error) {
	searchers := make([]*search.Service, workerCount)
	for i := 0; i < workerCount; i++ {
		idx := index.New(fieldWeights, rankerSettings)
		idx.Finalize()
		svc, err := search.NewService(idx, rankerSettings)
		if err != nil {
			return nil, err
		}
		searchers[i] = svc
	}

	var adminConfig config.AdminConfig
	if dataDir != "" {
		loaded, err := persistence.LoadAdminConfig(dataDir)
		if err != nil {
			return nil, fmt.Errorf("coordinator: failed to load admin config snapshot: %w", err)
		}
		adminConfig = loaded
	}

	return &Coordinator{
		fetcher:        fetcher,
		pool:           pool.New(searchers, poolSettings),
		fieldWeights:   fieldWeights,
		rankerSettings: rankerSettings,
		correlations:   correlations,
		dataDir:        dataDir,
		adminConfig:    adminConfig,
		aliases:        make(map[string]string),
	}, nil
}

// updatableSpeller is implemented by speller.Dictionary: a speller whose
// vocabulary must be refreshed with each rebuilt index generation.
type updatableSpeller interface {
	search.Speller
	Update(terms []string)
}

// UpdateSpeller installs (or, with nil, clears) the speller every
// rebuilt worker's Searcher is given.
func (c *Coordinator) UpdateSpeller(sp search.Speller) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speller = sp
}

// Pool exposes the underlying worker pool, for the front-end to Acquire a
// worker per search request.
func (c *Coordinator) Pool() *pool.Pool {
	return c.pool
}

// UpdateAdminConfig replaces the operator-entered admin configuration
// (alias overrides and the mandatory-terms override), persists it if a
// dataDir was configured, and applies it to every live worker immediately
// rather than waiting for the next manifest sync.
func (c *Coordinator) UpdateAdminConfig(cfg config.AdminConfig) error {
	c.mu.Lock()
	c.adminConfig = cfg
	dataDir := c.dataDir
	aliases := mergeAliases(cfg.AdminAliases, c.aliases)
	c.aliases = aliases
	c.mu.Unlock()

	if dataDir != "" {
		if err := persistence.SaveAdminConfig(dataDir, cfg); err != nil {
			return fmt.Errorf("coordinator: failed to persist admin config snapshot: %w", err)
		}
	}

	for _, w := range c.pool.Workers() {
		w.Searcher.UpdateAliases(aliases)
		w.Searcher.UpdateMandatoryTerms(cfg.MandatoryTermsSet())
	}
	return nil
}

// Load fetches manifests via the external fetcher and rebuilds every
// worker's index in turn (§4.8's load() operation). Concurrent loads are
// refused with ErrAlreadyIndexing.
func (c *Coordinator) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.indexing {
		c.mu.Unlock()
		return marianerrors.ErrAlreadyIndexing
	}
	c.indexing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.indexing = false
		c.mu.Unlock()
	}()

	entries, fetchErrs := c.fetcher.Fetch(ctx)
	if entries == nil && len(fetchErrs) > 0 {
		return fetchErrs[0]
	}

	manifests, manifestAliases, tags, parseErrs := parseManifests(entries)
	documents := flattenDocuments(manifests)

	c.mu.Lock()
	adminConfig := c.adminConfig
	c.mu.Unlock()
	aliases := mergeAliases(adminConfig.AdminAliases, manifestAliases)

	syncErrors := make([]model.SyncError, 0, len(fetchErrs)+len(parseErrs))
	for _, err := range fetchErrs {
		syncErrors = append(syncErrors, model.SyncError{Message: err.Error()})
	}
	for _, pe := range parseErrs {
		syncErrors = append(syncErrors, model.SyncError{SearchProperty: pe.SearchProperty, Message: pe.Message})
	}

	for _, w := range c.pool.Workers() {
		log.Printf("Worker %d suspended for rebuild", w.ID)
		c.pool.Suspend(w)

		idx := index.New(c.fieldWeights, c.rankerSettings)
		for _, doc := range documents {
			idx.Add(doc)
		}
		idx.Finalize()

		svc, err := search.NewService(idx, c.rankerSettings)
		if err != nil {
			log.Printf("Warning: worker %d rebuild failed, keeping its previous index generation: %v", w.ID, err)
			syncErrors = append(syncErrors, model.SyncError{Message: err.Error()})
			c.pool.Resume(w)
			log.Printf("Worker %d resumed with its previous index generation", w.ID)
			continue
		}
		svc.UpdateAliases(aliases)
		svc.UpdateMandatoryTerms(adminConfig.MandatoryTermsSet())
		if c.correlations != nil {
			c.correlations.Apply(svc, "")
		}

		c.mu.Lock()
		speller := c.speller
		c.mu.Unlock()
		if speller != nil {
			if us, ok := speller.(updatableSpeller); ok {
				us.Update(idx.Terms())
			}
			svc.UpdateSpeller(speller)
		}

		c.pool.SetSearcher(w, svc)
		c.pool.Resume(w)
		log.Printf("Worker %d resumed with the new index generation", w.ID)

		c.mu.Lock()
		c.lastSyncDate = time.Now()
		c.mu.Unlock()
	}

	if len(syncErrors) > 0 {
		log.Printf("Warning: manifest sync finished with %d error(s): %v", len(syncErrors), syncErrors)
	}
	if len(documents) == 0 && len(syncErrors) > 0 {
		log.Printf("CRITICAL: every manifest failed to load; workers are serving an empty index")
	}

	c.mu.Lock()
	c.manifests = tags
	c.aliases = aliases
	c.lastSync = model.SyncStatus{Errors: syncErrors, Finished: time.Now()}
	c.ready = true
	c.mu.Unlock()

	return nil
}

// Status returns the coordinator's published manifest list, last sync
// outcome, and per-worker status (§6's `/status`).
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	manifests := append([]string(nil), c.manifests...)
	lastSync := c.lastSync
	c.mu.Unlock()

	return Status{
		Manifests: manifests,
		LastSync:  lastSync,
		Workers:   c.pool.GetStatus(),
	}
}

// NotModifiedSince implements S8's 304 semantics at seconds precision. The
// zero Unix timestamp (`Date(0)`) is never treated as "not modified".
func (c *Coordinator) NotModifiedSince(ifModifiedSince time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastSyncDate.IsZero() || ifModifiedSince.Unix() <= 0 {
		return false
	}
	return !ifModifiedSince.Truncate(time.Second).Before(c.lastSyncDate.Truncate(time.Second))
}

// parseManifests decodes every fetched entry's JSON body, deriving each
// manifest's searchProperty from the entry (never from the JSON body
// itself, per §6). Parse failures are recorded and skipped; other
// manifests are still processed (§7).
func parseManifests(entries []manifest.Entry) (manifests []model.Manifest, aliases map[string]string, tags []string, parseErrs []*marianerrors.ManifestParseError) {
	aliases = make(map[string]string)
	for _, entry := range entries {
		var m model.Manifest
		if err := json.Unmarshal([]byte(entry.Body), &m); err != nil {
			parseErrs = append(parseErrs, marianerrors.NewManifestParseError(entry.SearchProperty, err.Error()))
			continue
		}
		m.SearchProperty = entry.SearchProperty
		manifests = append(manifests, m)
		tags = append(tags, entry.SearchProperty)
		for _, alias := range m.Aliases {
			aliases[alias] = entry.SearchProperty
		}
	}
	return manifests, aliases, tags, parseErrs
}

// mergeAliases layers authoritative over base, returning a new map: admin-
// entered aliases fill gaps the manifest sync doesn't cover, but a manifest-
// declared alias always wins on conflict.
func mergeAliases(base, authoritative map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(authoritative))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range authoritative {
		merged[k] = v
	}
	return merged
}

func flattenDocuments(manifests []model.Manifest) []model.Document {
	var documents []model.Document
	for _, m := range manifests {
		for _, md := range m.Documents {
			documents = append(documents, m.Resolve(md))
		}
	}
	return documents
}
