// Package api is the gin HTTP frontend of §6: /search, /status, /refresh,
// /metrics, and the admin correlation routes. Routing, compression, and
// 304/Last-Modified handling are treated as external collaborators (§1)
// rather than index internals, but a complete repository still needs one
// concrete frontend wired to the coordinator.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mongodb/marian/config"
	"github.com/mongodb/marian/internal/coordinator"
	"github.com/mongodb/marian/internal/correlation"
	"github.com/mongodb/marian/internal/metrics"
)

// API holds the dependencies every handler needs: the coordinator (search +
// sync + status), the admin correlation store, and the Prometheus
// collectors.
type API struct {
	coordinator *coordinator.Coordinator
	correlation *correlation.Store
	metrics     *metrics.Metrics
}

// New returns an API wired to the given coordinator, correlation store, and
// metrics registry.
func New(c *coordinator.Coordinator, corr *correlation.Store, m *metrics.Metrics) *API {
	return &API{coordinator: c, correlation: corr, metrics: m}
}

// SetupRoutes registers every route the frontend exposes.
func SetupRoutes(router *gin.Engine, api *API) {
	router.Use(CORSMiddleware())
	router.Use(RequestSizeLimitMiddleware(1 << 20))

	router.GET("/health", api.HealthCheckHandler)
	router.GET("/search", api.SearchHandler)
	router.GET("/status", api.StatusHandler)
	router.POST("/refresh", api.RefreshHandler)
	metricsHandler := gin.WrapH(metrics.Handler())
	router.GET("/metrics", func(c *gin.Context) {
		api.metrics.SetWorkerStatuses(api.coordinator.Status().Workers)
		metricsHandler(c)
	})

	properties := router.Group("/properties/:name")
	{
		properties.POST("/correlations", api.CreateCorrelationHandler)
		properties.GET("/correlations", api.ListCorrelationsHandler)
		properties.DELETE("/correlations/:id", api.DeleteCorrelationHandler)
	}

	admin := router.Group("/admin")
	{
		admin.PUT("/config", api.UpdateAdminConfigHandler)
	}
}

// HealthCheckHandler provides a simple liveness probe.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "marian"})
}

// UpdateAdminConfigHandler handles `PUT /admin/config`: it replaces the
// operator-entered alias overrides and mandatory-terms set and applies them
// to every live worker immediately, without waiting for the next manifest
// sync (§4.3's admin-config layer).
func (api *API) UpdateAdminConfigHandler(c *gin.Context) {
	var cfg config.AdminConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid request body: "+err.Error())
		return
	}

	if err := api.coordinator.UpdateAdminConfig(cfg); err != nil {
		SendInternalError(c, "update admin config", err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// CORSMiddleware allows cross-origin requests from any browser-based
// consumer of the query API.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestSizeLimitMiddleware rejects request bodies over maxBytes before
// they reach a handler's binding step.
func RequestSizeLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
