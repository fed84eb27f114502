package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"cluster-facade-go/internal/errkind"
	"cluster-facade-go/internal/reporter"
)

// PromDetailsHandler serves the running pod count with the relayed query result
type PromDetailsHandler struct {
	reporter reporter.Interface
	logger   *zap.Logger
}

// NewPromDetailsHandler creates a new handler for GET /getPromdetails
func NewPromDetailsHandler(reporter reporter.Interface, logger *zap.Logger) *PromDetailsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromDetailsHandler{
		reporter: reporter,
		logger:   logger,
	}
}

// Handle handles GET /getPromdetails
func (h *PromDetailsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.reporter.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("metrics snapshot failed", zap.Error(err))

		switch errkind.Of(err) {
		case errkind.MetricsStoreUnreachable:
			respondWithError(w, http.StatusInternalServerError, "Error fetching Prometheus data: "+err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Error listing pods: "+err.Error())
		}
		return
	}

	respondWithJSON(w, http.StatusOK, snapshot)
}
