package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	marianerrors "github.com/mongodb/marian/internal/errors"
)

// SearchHandler handles `GET /search?q=<query>&searchProperty=<csv>` (§6's
// query API). It runs §4.6 step 1's still-indexing check, acquires a
// worker from the pool (§4.7's admission control), and maps the outcome to
// the wire-stable status codes of §6/§7.
func (api *API) SearchHandler(c *gin.Context) {
	start := time.Now()

	if !api.coordinator.Ready() {
		SendSearchError(c, marianerrors.ErrStillIndexing)
		return
	}

	query := c.Query("q")
	var searchProperties []string
	if raw := c.Query("searchProperty"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				searchProperties = append(searchProperties, tag)
			}
		}
	}

	worker, useHits, err := api.coordinator.Pool().Acquire()
	if err != nil {
		SendSearchError(c, err)
		return
	}
	defer api.coordinator.Pool().Release(worker)

	resp, err := worker.Searcher.Search(query, searchProperties, useHits)
	if err != nil {
		SendSearchError(c, err)
		return
	}

	api.metrics.ObserveSearch(useHits, time.Since(start), len(resp.Results), len(resp.SpellingCorrections) > 0)
	c.JSON(http.StatusOK, resp)
}
