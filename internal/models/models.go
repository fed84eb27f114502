package models

// DeploymentRequest is the input of a create call, built from the path
// parameter. Name is untrimmed and unvalidated.
type DeploymentRequest struct {
	Name string
}

// DeploymentDescriptor holds the canonical fields of a single-replica
// Deployment. The selector label, pod label and container name all derive
// from Name.
type DeploymentDescriptor struct {
	Name          string
	Namespace     string
	Replicas      int32
	ContainerName string
	Image         string
	ContainerPort int32
}

// DeploymentResult confirms a created deployment.
type DeploymentResult struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
}

// MetricsSnapshot is the running pod count plus the relayed Prometheus body.
type MetricsSnapshot struct {
	RunningPodsCount int `json:"running_pods_count"`
	PrometheusData   any `json:"prometheus_data"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
