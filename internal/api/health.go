package api

import (
	"net/http"
	"time"

	"github.com/ananyateklu/second-brain-sub004/internal/api/respond"
)

// HealthFunc reports cached service health.
type HealthFunc func() bool

// HealthHandler handles health check endpoints
type HealthHandler struct{ healthy HealthFunc }

func NewHealthHandler(healthy HealthFunc) *HealthHandler {
	if healthy == nil {
		healthy = func() bool { return true }
	}
	return &HealthHandler{healthy: healthy}
}

// CheckHealth handles GET /api/health
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	if h.healthy() {
		respond.WriteJSON(w, http.StatusOK, map[string]any{
			"status":    "UP",
			"message":   "Service is healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
		"status":    "DOWN",
		"message":   "One or more dependencies unavailable",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
