package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cluster-facade-go/internal/api/handlers"
	"cluster-facade-go/internal/api/middleware"
	"cluster-facade-go/internal/config"
	"cluster-facade-go/internal/deployer"
	"cluster-facade-go/internal/reporter"
)

// NewRouter creates a new Chi router with all routes and middleware configured
func NewRouter(
	dep deployer.Interface,
	rep reporter.Interface,
	cluster handlers.Pinger,
	gatherer prometheus.Gatherer,
	cfg *config.Config,
	logger *zap.Logger,
) chi.Router {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Apply middleware stack
	r.Use(middleware.Recovery(logger))
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS())
	if cfg != nil && cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	deploymentHandler := handlers.NewDeploymentHandler(dep, logger)
	promDetailsHandler := handlers.NewPromDetailsHandler(rep, logger)
	healthHandler := handlers.NewHealthHandler(cluster, logger)

	r.Post("/createDeployment/{deployment_name}", deploymentHandler.Handle)
	r.Get("/getPromdetails", promDetailsHandler.Handle)

	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/ready", healthHandler.HandleReady)
	r.Handle("/metrics", MetricsHandler(gatherer))

	return r
}

// NewMetricsRouter serves only /metrics and /health, for a dedicated metrics port.
func NewMetricsRouter(gatherer prometheus.Gatherer, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))

	healthHandler := handlers.NewHealthHandler(nil, logger)
	r.Get("/health", healthHandler.HandleHealth)
	r.Handle("/metrics", MetricsHandler(gatherer))

	return r
}

// MetricsHandler renders gatherer in the Prometheus exposition format. A nil
// gatherer means the default registry.
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
