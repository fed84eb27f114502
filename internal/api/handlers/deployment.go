package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cluster-facade-go/internal/deployer"
	"cluster-facade-go/internal/errkind"
	"cluster-facade-go/internal/models"
)

// DeploymentHandler handles deployment creation requests
type DeploymentHandler struct {
	deployer deployer.Interface
	logger   *zap.Logger
}

// NewDeploymentHandler creates a new deployment handler
func NewDeploymentHandler(deployer deployer.Interface, logger *zap.Logger) *DeploymentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeploymentHandler{
		deployer: deployer,
		logger:   logger,
	}
}

// Handle handles POST /createDeployment/{deployment_name}
func (h *DeploymentHandler) Handle(w http.ResponseWriter, r *http.Request) {
	req := models.DeploymentRequest{Name: deploymentName(r)}

	result, err := h.deployer.CreateDeployment(r.Context(), req)
	if err != nil {
		switch errkind.Of(err) {
		case errkind.InvalidArgument, errkind.ClusterRejected:
			respondWithError(w, statusFor(err), err.Error())
		default:
			h.logger.Error("deployment creation failed",
				zap.Error(err),
				zap.String("deployment", req.Name),
			)
			respondWithError(w, http.StatusInternalServerError, "Error creating deployment: "+err.Error())
		}
		return
	}

	respondWithJSON(w, http.StatusOK, models.MessageResponse{
		Message: fmt.Sprintf("Deployment %s created successfully", result.Name),
	})
}

// deploymentName returns the path parameter decoded exactly once. chi matches
// against RawPath when it is set, otherwise against the already decoded Path.
func deploymentName(r *http.Request) string {
	name := chi.URLParam(r, "deployment_name")
	if r.URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}
