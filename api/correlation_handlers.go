package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateCorrelationRequest is the body for `POST /properties/:name/correlations`.
// Global=true (the default is false) stores the correlation with an empty
// search property instead of the :name path segment (§4.4, §3).
type CreateCorrelationRequest struct {
	Word      string  `json:"word" binding:"required"`
	Synonym   string  `json:"synonym" binding:"required"`
	Closeness float64 `json:"closeness"`
	Global    bool    `json:"global"`
}

// CreateCorrelationHandler seeds a manual synonym correlation for the
// property named by the :name path segment (or, if global=true, for every
// property) and replays it onto every live worker's index immediately.
func (api *API) CreateCorrelationHandler(c *gin.Context) {
	property := c.Param("name")

	var req CreateCorrelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid request body: "+err.Error())
		return
	}

	scope := property
	if req.Global {
		scope = ""
	}

	correlation, err := api.correlation.Add(scope, req.Word, req.Synonym, req.Closeness)
	if err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
		return
	}

	for _, w := range api.coordinator.Pool().Workers() {
		w.Searcher.CorrelateWord(req.Word, req.Synonym, req.Closeness)
	}

	c.JSON(http.StatusCreated, correlation)
}

// ListCorrelationsHandler lists the correlations scoped to the named
// property plus any global ones.
func (api *API) ListCorrelationsHandler(c *gin.Context) {
	property := c.Param("name")
	c.JSON(http.StatusOK, gin.H{"correlations": api.correlation.List(property)})
}

// DeleteCorrelationHandler removes a previously seeded correlation by id.
// It does not retroactively undo the correlation already applied to live
// workers; the next manifest reload rebuilds indexes from the current
// correlation store and will not re-apply it.
func (api *API) DeleteCorrelationHandler(c *gin.Context) {
	id := c.Param("id")
	if err := api.correlation.Delete(id); err != nil {
		SendError(c, http.StatusNotFound, ErrorCodeNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "correlation deleted"})
}
