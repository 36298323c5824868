package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	marianerrors "github.com/mongodb/marian/internal/errors"
	"github.com/mongodb/marian/model"
)

// statusResponse is /status's wire shape (§6): `workers` renders each
// worker as its backlog depth, or "s"/"d" for suspended/dead.
type statusResponse struct {
	Manifests []string         `json:"manifests"`
	LastSync  model.SyncStatus `json:"lastSync"`
	Workers   []interface{}    `json:"workers"`
}

func renderWorkers(statuses []model.WorkerStatus) []interface{} {
	rendered := make([]interface{}, len(statuses))
	for i, w := range statuses {
		switch {
		case w.Dead:
			rendered[i] = "d"
		case w.Suspended:
			rendered[i] = "s"
		default:
			rendered[i] = w.Backlog
		}
	}
	return rendered
}

func anyWorkerDead(statuses []model.WorkerStatus) bool {
	for _, w := range statuses {
		if w.Dead {
			return true
		}
	}
	return false
}

// StatusHandler handles `GET /status` (§6). A dead worker always yields
// 500, overriding the If-Modified-Since 304 shortcut of S8. Otherwise, a
// request at or after the coordinator's lastSyncDate (seconds precision)
// is answered with 304, per S8 (`Date(0)` never matches).
func (api *API) StatusHandler(c *gin.Context) {
	status := api.coordinator.Status()
	body := statusResponse{
		Manifests: status.Manifests,
		LastSync:  status.LastSync,
		Workers:   renderWorkers(status.Workers),
	}

	if anyWorkerDead(status.Workers) {
		c.JSON(http.StatusInternalServerError, body)
		return
	}

	if ims := c.GetHeader("If-Modified-Since"); ims != "" {
		if t, err := http.ParseTime(ims); err == nil && api.coordinator.NotModifiedSince(t) {
			c.Status(http.StatusNotModified)
			return
		}
	}

	c.JSON(http.StatusOK, body)
}

// RefreshHandler handles `POST /refresh` (§6): triggers a manifest sync.
// A sync already in flight is reported as accepted rather than rejected,
// per §6's `already-indexing` → 200 mapping.
func (api *API) RefreshHandler(c *gin.Context) {
	start := time.Now()
	err := api.coordinator.Load(context.Background())
	syncErrs := errCount(err)
	if err == nil {
		syncErrs = len(api.coordinator.Status().LastSync.Errors)
	}
	api.metrics.ObserveSync(time.Since(start), syncErrs)

	if err == nil {
		c.JSON(http.StatusOK, gin.H{"status": "completed"})
		return
	}
	if errors.Is(err, marianerrors.ErrAlreadyIndexing) {
		c.JSON(http.StatusOK, gin.H{"status": "already scheduled"})
		return
	}
	SendInternalError(c, "refresh", err)
}

func errCount(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
