package handlers

import (
	"net/http"
	"time"

	"github.com/studiostorm/server/internal/models"
)

// Version information injected at build time
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// HealthHandler handles health and version endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthCheck returns the server health status
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse "Server is healthy"
// @Router /api/health [get]
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	})
}

type versionResponse struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
}

// VersionInfo returns build version information
func (h *HealthHandler) VersionInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, versionResponse{
		Version:   Version,
		GitCommit: GitCommit,
	})
}
