package k8s

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"cluster-facade-go/internal/config"
)

// Client wraps the Kubernetes clientset used by the deployer and the reporter.
type Client struct {
	clientset kubernetes.Interface
	namespace string
	pageSize  int64
	logger    *zap.Logger
}

// NewClient creates a Kubernetes client from the in-cluster service account or
// from a kubeconfig file.
func NewClient(cfg *config.Config, logger *zap.Logger) (*Client, error) {
	restConfig, err := restConfig(cfg.K8sInCluster, cfg.K8sKubeConfigPath)
	if err != nil {
		return nil, err
	}
	restConfig.Timeout = cfg.ClusterTimeout
	restConfig.UserAgent = cfg.AppName + "/" + cfg.AppVersion

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create K8s clientset: %w", err)
	}

	return NewWithClientset(clientset, cfg.DeploymentNamespace, cfg.PodListPageSize, logger), nil
}

// NewWithClientset wraps an existing clientset. Tests pass a fake clientset here.
func NewWithClientset(clientset kubernetes.Interface, namespace string, pageSize int64, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		clientset: clientset,
		namespace: namespace,
		pageSize:  pageSize,
		logger:    logger,
	}
}

func restConfig(inCluster bool, kubeConfigPath string) (*rest.Config, error) {
	if inCluster {
		config, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create in-cluster config: %w", err)
		}
		return config, nil
	}

	if kubeConfigPath == "" {
		kubeConfigPath = clientcmd.RecommendedHomeFile
	}
	config, err := clientcmd.BuildConfigFromFlags("", kubeConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubeconfig: %w", err)
	}
	return config, nil
}

// GetNamespace returns the namespace deployments are created in
func (c *Client) GetNamespace() string {
	return c.namespace
}

// Ping asks the API server for its version, bounded by ctx. Used by the
// readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rc := c.clientset.Discovery().RESTClient()
	if rc == nil {
		// Fake discovery clients carry no REST client.
		if _, err := c.clientset.Discovery().ServerVersion(); err != nil {
			return classify(err)
		}
		return nil
	}

	if err := rc.Get().AbsPath("/version").Do(ctx).Error(); err != nil {
		return classify(err)
	}
	return nil
}
