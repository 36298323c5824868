// Package correlation implements the admin-managed synonym correlation
// store: operators seed manual word/synonym pairs per search property
// (or globally) without redeploying, and every rebuilt index applies them
// on top of the automatic sigil correlations FTSIndex derives on its own.
package correlation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mongodb/marian/model"
)

// Indexer is the subset of index.FTSIndex the store needs to replay its
// correlations onto a freshly built index generation.
type Indexer interface {
	CorrelateWord(word, synonym string, closeness float64)
}

// Store is a JSON-file-backed, mutex-guarded set of correlations, one file
// per deployment.
type Store struct {
	mu           sync.RWMutex
	correlations map[string]model.Correlation
	dataFilePath string
}

// New loads (or, if absent, prepares to create) the correlation store at
// dataDir/correlations.json.
func New(dataDir string) (*Store, error) {
	s := &Store{
		correlations: make(map[string]model.Correlation),
		dataFilePath: filepath.Join(dataDir, "correlations.json"),
	}
	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load correlations data: %w", err)
	}
	return s, nil
}

// Add registers a new correlation and persists the store. searchProperty
// may be empty to mean "every property".
func (s *Store) Add(searchProperty, word, synonym string, closeness float64) (model.Correlation, error) {
	if word == "" || synonym == "" {
		return model.Correlation{}, fmt.Errorf("word and synonym must both be non-empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := model.Correlation{
		ID:             uuid.New().String(),
		SearchProperty: searchProperty,
		Word:           word,
		Synonym:        synonym,
		Closeness:      closeness,
		CreatedAt:      time.Now(),
	}
	s.correlations[c.ID] = c

	if err := s.saveLocked(); err != nil {
		delete(s.correlations, c.ID)
		return model.Correlation{}, fmt.Errorf("failed to persist correlation: %w", err)
	}
	return c, nil
}

// Delete removes a correlation by id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.correlations[id]
	if !exists {
		return fmt.Errorf("correlation with ID %s not found", id)
	}
	delete(s.correlations, id)

	if err := s.saveLocked(); err != nil {
		s.correlations[id] = c
		return fmt.Errorf("failed to persist correlation deletion: %w", err)
	}
	return nil
}

// List returns every correlation that applies to searchProperty: those
// scoped to it plus every property-wide (empty SearchProperty) entry. An
// empty searchProperty returns the whole store.
func (s *Store) List(searchProperty string) []model.Correlation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Correlation
	for _, c := range s.correlations {
		if searchProperty == "" || c.SearchProperty == "" || c.SearchProperty == searchProperty {
			out = append(out, c)
		}
	}
	return out
}

// Apply replays every correlation that applies to searchProperty onto idx,
// called once per rebuilt worker after the automatic corpus-derived
// correlations have already been registered (§4.4).
func (s *Store) Apply(idx Indexer, searchProperty string) {
	for _, c := range s.List(searchProperty) {
		idx.CorrelateWord(c.Word, c.Synonym, c.Closeness)
	}
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.dataFilePath)
	if err != nil {
		return err
	}

	var correlations []model.Correlation
	if err := json.Unmarshal(data, &correlations); err != nil {
		return fmt.Errorf("failed to parse correlations data: %w", err)
	}

	s.correlations = make(map[string]model.Correlation, len(correlations))
	for _, c := range correlations {
		s.correlations[c.ID] = c
	}
	return nil
}

func (s *Store) saveLocked() error {
	correlations := make([]model.Correlation, 0, len(s.correlations))
	for _, c := range s.correlations {
		correlations = append(correlations, c)
	}

	data, err := json.MarshalIndent(correlations, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal correlations data: %w", err)
	}

	dir := filepath.Dir(s.dataFilePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return os.WriteFile(s.dataFilePath, data, 0600)
}
