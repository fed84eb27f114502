package deployer

import (
	"context"
	"errors"

	appsv1 "k8s.io/api/apps/v1"

	"cluster-facade-go/internal/models"
)

// InvalidNameMessage is returned to callers whose name fails validation.
const InvalidNameMessage = "Invalid deployment name. It must be alphanumeric."

const (
	defaultReplicas      int32 = 1
	defaultContainerPort int32 = 80
)

// ErrInvalidName is the cause carried by InvalidArgument errors.
var ErrInvalidName = errors.New("deployment name must match ^[A-Za-z0-9]+$")

// Interface defines the interface for deployment creation
type Interface interface {
	// CreateDeployment validates req.Name and submits a single-replica Deployment for it.
	CreateDeployment(ctx context.Context, req models.DeploymentRequest) (*models.DeploymentResult, error)
}

// DeploymentCreator submits a rendered descriptor to the cluster namespace it
// reports.
type DeploymentCreator interface {
	CreateDeployment(ctx context.Context, d models.DeploymentDescriptor) (*appsv1.Deployment, error)
	GetNamespace() string
}
