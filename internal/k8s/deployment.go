package k8s

import (
	"context"

	"go.uber.org/zap"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"cluster-facade-go/internal/models"
)

// AppLabel is the label key used for both the selector and the pod template.
const AppLabel = "app"

// BuildDeployment renders a descriptor as an apps/v1 Deployment.
func BuildDeployment(d models.DeploymentDescriptor) *appsv1.Deployment {
	labels := map[string]string{AppLabel: d.Name}

	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      d.Name,
			Namespace: d.Namespace,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(d.Replicas),
			Selector: &metav1.LabelSelector{
				MatchLabels: labels,
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{AppLabel: d.Name},
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:  d.ContainerName,
							Image: d.Image,
							Ports: []corev1.ContainerPort{
								{
									ContainerPort: d.ContainerPort,
									Protocol:      corev1.ProtocolTCP,
								},
							},
						},
					},
				},
			},
		},
	}
}

// CreateDeployment submits the descriptor with a single Create call. Failures
// come back classified as ClusterRejected or ClusterUnreachable.
func (c *Client) CreateDeployment(ctx context.Context, d models.DeploymentDescriptor) (*appsv1.Deployment, error) {
	namespace := d.Namespace
	if namespace == "" {
		namespace = c.namespace
		d.Namespace = namespace
	}

	created, err := c.clientset.AppsV1().Deployments(namespace).Create(ctx, BuildDeployment(d), metav1.CreateOptions{})
	if err != nil {
		c.logger.Debug("deployment create failed",
			zap.String("deployment", d.Name),
			zap.String("namespace", namespace),
			zap.Error(err),
		)
		return nil, classify(err)
	}

	return created, nil
}
