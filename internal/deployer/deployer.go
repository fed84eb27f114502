package deployer

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"cluster-facade-go/internal/api/middleware"
	"cluster-facade-go/internal/errkind"
	"cluster-facade-go/internal/models"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Deployer turns a validated name into exactly one create call.
type Deployer struct {
	creator   DeploymentCreator
	namespace string
	image     string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewDeployer creates a new deployer instance.
// Deployments go to the namespace the creator reports.
func NewDeployer(creator DeploymentCreator, image string, timeout time.Duration, logger *zap.Logger) *Deployer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deployer{
		creator:   creator,
		namespace: creator.GetNamespace(),
		image:     image,
		timeout:   timeout,
		logger:    logger,
	}
}

// ValidateName trims name and checks it is non-empty ASCII alphanumerics.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if !namePattern.MatchString(name) {
		return "", &errkind.Error{
			Kind:    errkind.InvalidArgument,
			Message: InvalidNameMessage,
			Err:     ErrInvalidName,
		}
	}
	return name, nil
}

// Descriptor returns the canonical single-replica descriptor for name.
func (d *Deployer) Descriptor(name string) models.DeploymentDescriptor {
	return models.DeploymentDescriptor{
		Name:          name,
		Namespace:     d.namespace,
		Replicas:      defaultReplicas,
		ContainerName: name,
		Image:         d.image,
		ContainerPort: defaultContainerPort,
	}
}

// CreateDeployment validates the requested name and submits the deployment.
// Nothing is retried; a name that already exists comes back as a
// ClusterRejected error.
func (d *Deployer) CreateDeployment(ctx context.Context, req models.DeploymentRequest) (*models.DeploymentResult, error) {
	valid, err := ValidateName(req.Name)
	if err != nil {
		middleware.DeploymentsTotal.WithLabelValues(string(errkind.InvalidArgument)).Inc()
		return nil, err
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	desc := d.Descriptor(valid)
	created, err := d.creator.CreateDeployment(ctx, desc)
	if err != nil {
		kind := errkind.Of(err)
		if kind == "" {
			err = errkind.Wrap(errkind.ClusterUnreachable, err)
			kind = errkind.ClusterUnreachable
		}
		middleware.DeploymentsTotal.WithLabelValues(string(kind)).Inc()
		d.logger.Warn("deployment create failed",
			zap.String("deployment", valid),
			zap.String("namespace", desc.Namespace),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return nil, err
	}

	middleware.DeploymentsTotal.WithLabelValues("success").Inc()
	d.logger.Info("deployment created",
		zap.String("deployment", created.Name),
		zap.String("namespace", created.Namespace),
	)

	return &models.DeploymentResult{
		Name:      created.Name,
		Namespace: created.Namespace,
	}, nil
}
