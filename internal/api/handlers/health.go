package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"cluster-facade-go/internal/models"
)

// Pinger reports whether the cluster API server answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health and readiness checks
type HealthHandler struct {
	cluster Pinger
	logger  *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cluster Pinger, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{
		cluster: cluster,
		logger:  logger,
	}
}

// HandleHealth handles GET /health (liveness probe). It never checks the
// cluster so an API server outage does not restart the process.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}

// HandleReady handles GET /ready (readiness probe)
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	if h.cluster != nil {
		if err := h.cluster.Ping(r.Context()); err != nil {
			h.logger.Error("readiness check failed: cluster unavailable", zap.Error(err))
			respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
			return
		}
	}

	respondWithJSON(w, http.StatusOK, models.HealthResponse{Status: "ready"})
}
