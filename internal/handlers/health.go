package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/t4n15hq/luminari-be/internal/db"
	"github.com/t4n15hq/luminari-be/internal/dto"
	"github.com/t4n15hq/luminari-be/internal/utils"
)

// HealthHandler handles health check related requests
type HealthHandler struct {
	manager *db.Manager
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(manager *db.Manager) *HealthHandler {
	return &HealthHandler{manager: manager}
}

// Root handles the liveness check at /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// HealthCheck handles basic health check (no database)
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// ReadinessCheck handles readiness check (includes database connectivity)
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	pool, err := h.manager.Get(ctx)
	if err == nil {
		err = pool.Ping(ctx)
	}
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, dto.HealthResponse{
			Status:  "degraded",
			Details: map[string]any{"db": err.Error()},
		})
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{
		Status:  "ready",
		Details: map[string]any{"db": "ok"},
	})
}
