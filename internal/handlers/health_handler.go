package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthChecker reports whether a dependency is usable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler reports service health
type HealthHandler struct {
	database HealthChecker
	version  string
}

// NewHealthHandler creates a new health handler. database may be nil.
func NewHealthHandler(database HealthChecker, version string) *HealthHandler {
	return &HealthHandler{database: database, version: version}
}

// @Summary Health check
// @Description Reports service and database health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	response := gin.H{
		"status":  "healthy",
		"service": "gateway-inject",
		"version": h.version,
	}

	if h.database != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.database.HealthCheck(ctx); err != nil {
			logrus.WithError(err).Error("Database health check failed")
			response["status"] = "unhealthy"
			response["database"] = "unavailable"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
		response["database"] = "ok"
	}

	c.JSON(http.StatusOK, response)
}
