package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerHost      string
	ServerPort      string
	MetricsPort     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// Kubernetes configuration
	K8sInCluster      bool
	K8sKubeConfigPath string
	ClusterTimeout    time.Duration
	PodListPageSize   int64

	// Deployment template
	DeploymentNamespace string
	DeploymentImage     string

	// Prometheus configuration
	PrometheusURL     string
	PrometheusQuery   string
	PrometheusTimeout time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string

	// Application metadata
	AppName    string
	AppVersion string
}

// Load loads configuration from an optional .env file, environment variables
// and command-line flags, in increasing order of precedence.
func Load(args []string) (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	cfg := fromEnv()

	flags := pflag.NewFlagSet("cluster-facade", pflag.ContinueOnError)
	cfg.bindFlags(flags)
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}
	if !flags.Changed("metrics-port") && os.Getenv("METRICS_PORT") == "" {
		cfg.MetricsPort = cfg.ServerPort
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func fromEnv() *Config {
	serverPort := getEnv("SERVER_PORT", "8000")
	kubeConfig := getEnv("K8S_KUBECONFIG_PATH", os.Getenv("KUBECONFIG"))

	return &Config{
		ServerHost:          getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort:          serverPort,
		MetricsPort:         getEnv("METRICS_PORT", serverPort),
		RequestTimeout:      getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:     getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		K8sInCluster:        getEnvBool("K8S_IN_CLUSTER", os.Getenv("KUBERNETES_SERVICE_HOST") != ""),
		K8sKubeConfigPath:   kubeConfig,
		ClusterTimeout:      getEnvDuration("CLUSTER_TIMEOUT", 5*time.Second),
		PodListPageSize:     int64(getEnvInt("POD_LIST_PAGE_SIZE", 500)),
		DeploymentNamespace: getEnv("DEPLOYMENT_NAMESPACE", "default"),
		DeploymentImage:     getEnv("DEPLOYMENT_IMAGE", "flask-app"),
		PrometheusURL:       getEnv("PROMETHEUS_URL", "http://localhost:3001"),
		PrometheusQuery:     getEnv("PROMETHEUS_QUERY", "running_pods"),
		PrometheusTimeout:   getEnvDuration("PROMETHEUS_TIMEOUT", 5*time.Second),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "json"),
		AppName:             "cluster-facade",
		AppVersion:          getEnv("APP_VERSION", "dev"),
	}
}

// bindFlags registers command-line overrides. Defaults are the values already
// resolved from the environment.
func (c *Config) bindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.ServerHost, "host", c.ServerHost, "address to bind the HTTP server to")
	flags.StringVar(&c.ServerPort, "port", c.ServerPort, "HTTP server port")
	flags.StringVar(&c.MetricsPort, "metrics-port", c.MetricsPort, "port serving /metrics (defaults to --port)")
	flags.BoolVar(&c.K8sInCluster, "in-cluster", c.K8sInCluster, "use the in-cluster service account")
	flags.StringVar(&c.K8sKubeConfigPath, "kubeconfig", c.K8sKubeConfigPath, "path to a kubeconfig file")
	flags.DurationVar(&c.ClusterTimeout, "cluster-timeout", c.ClusterTimeout, "timeout for each Kubernetes API call")
	flags.Int64Var(&c.PodListPageSize, "pod-page-size", c.PodListPageSize, "page size used when listing pods")
	flags.StringVar(&c.DeploymentNamespace, "namespace", c.DeploymentNamespace, "namespace deployments are created in")
	flags.StringVar(&c.DeploymentImage, "image", c.DeploymentImage, "container image of created deployments")
	flags.StringVar(&c.PrometheusURL, "prometheus-url", c.PrometheusURL, "Prometheus base URL")
	flags.StringVar(&c.PrometheusQuery, "prometheus-query", c.PrometheusQuery, "query relayed by /getPromdetails")
	flags.DurationVar(&c.PrometheusTimeout, "prometheus-timeout", c.PrometheusTimeout, "timeout for the Prometheus query")
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug/info/warn/error)")
	flags.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format (json/console)")
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", c.LogLevel)
	}

	if c.ServerPort == "" {
		return fmt.Errorf("server_port is required")
	}
	if c.DeploymentNamespace == "" {
		return fmt.Errorf("deployment_namespace is required")
	}
	if c.DeploymentImage == "" {
		return fmt.Errorf("deployment_image is required")
	}

	u, err := url.Parse(c.PrometheusURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid prometheus_url: %q", c.PrometheusURL)
	}
	if c.PrometheusQuery == "" {
		return fmt.Errorf("prometheus_query is required")
	}

	if c.ClusterTimeout <= 0 || c.PrometheusTimeout <= 0 {
		return fmt.Errorf("cluster_timeout and prometheus_timeout must be positive")
	}
	if c.PodListPageSize < 0 {
		return fmt.Errorf("pod_list_page_size must not be negative")
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return c.ServerHost + ":" + c.ServerPort
}

// GetMetricsAddress returns the address of the dedicated metrics server
func (c *Config) GetMetricsAddress() string {
	return c.ServerHost + ":" + c.MetricsPort
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return defaultVal
		}
		return b
	}
	return defaultVal
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return defaultVal
		}
		return i
	}
	return defaultVal
}

// getEnvDuration retrieves a duration environment variable or returns a default value
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return defaultVal
		}
		return d
	}
	return defaultVal
}
