package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/askagent/askagent/internal/models"
)

const version = "1.0.0"

// Pinger is implemented by dependencies that can report connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles GET /health with dependency checks
type HealthHandler struct {
	modelReady bool
	wiki       Pinger
}

func NewHealthHandler(modelReady bool, wiki Pinger) *HealthHandler {
	return &HealthHandler{modelReady: modelReady, wiki: wiki}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	overallStatus := "healthy"

	// Use a short timeout for health checks so they don't block
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.modelReady {
		checks["llm"] = "ok"
	} else {
		checks["llm"] = "disabled"
	}

	if h.wiki != nil {
		if err := h.wiki.Ping(ctx); err != nil {
			checks["wikipedia"] = "unavailable: " + err.Error()
			overallStatus = "degraded"
		} else {
			checks["wikipedia"] = "ok"
		}
	} else {
		checks["wikipedia"] = "disabled"
	}

	statusCode := http.StatusOK
	if overallStatus == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	models.WriteJSON(w, statusCode, models.HealthResponse{
		Status:  overallStatus,
		Version: version,
		Checks:  checks,
	})
}
