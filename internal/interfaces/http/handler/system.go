package handler

import (
	"net/http"
	"time"

	"github.com/dentallab/backend/internal/infrastructure/logger"
	"github.com/dentallab/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SystemHandler handles health and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db      *persistence.Database
	version string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, version string) *SystemHandler {
	return &SystemHandler{db: db, version: version}
}

// Health reports liveness plus database connectivity. A failed DB ping
// degrades the status to 503 so load balancers stop routing here.
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	httpStatus := http.StatusOK

	dbStatus := "ok"
	if err := h.db.Ping(); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		status = "degraded"
		dbStatus = "unreachable"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": gin.H{
			"database": dbStatus,
		},
	})
}

// Stats exposes database connection pool statistics
func (h *SystemHandler) Stats(c *gin.Context) {
	stats, err := h.db.Stats()
	if err != nil {
		h.InternalError(c, "Failed to read connection stats")
		return
	}
	h.Success(c, stats)
}

// RegisterRoutes registers system routes on the root engine group, outside
// the versioned API prefix.
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/system/stats", h.Stats)
}
