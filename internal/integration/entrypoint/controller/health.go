// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController reports API liveness and database connectivity.
type HealthController struct {
	pingDatabase func() bool
	startedAt    time.Time
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
	Time     string `json:"time"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(pingDatabase func() bool) *HealthController {
	return &HealthController{
		pingDatabase: pingDatabase,
		startedAt:    time.Now().UTC(),
	}
}

// Check handles GET /health requests. The endpoint always answers 200 so
// that a degraded database shows up in the payload rather than as a dead
// endpoint.
func (h *HealthController) Check(c *gin.Context) {
	status := "ok"
	database := "up"
	if h.pingDatabase == nil || !h.pingDatabase() {
		status = "degraded"
		database = "down"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:   status,
		Database: database,
		Uptime:   time.Since(h.startedAt).Round(time.Second).String(),
		Time:     time.Now().UTC().Format(time.RFC3339),
	})
}
