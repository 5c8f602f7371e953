package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"kopikeliling/internal/domain/records"
)

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	store   *records.Store
	version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store *records.Store, version string) *HealthHandler {
	return &HealthHandler{store: store, version: version}
}

// Live handles liveness probe.
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the store is open and its backend reachable.
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.check(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{"store": "unhealthy: " + err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"checks":  map[string]string{"store": "healthy"},
		"rows":    len(h.store.Snapshot().Transactions),
	})
}

func (h *HealthHandler) check(ctx context.Context) error {
	if h.store == nil || h.store.Snapshot() == nil {
		return errStoreClosed
	}
	return ctx.Err()
}
