package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cluster-facade-go/internal/api"
	"cluster-facade-go/internal/config"
	"cluster-facade-go/internal/deployer"
	"cluster-facade-go/internal/k8s"
	"cluster-facade-go/internal/metrics"
	"cluster-facade-go/internal/promquery"
	"cluster-facade-go/internal/reporter"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	logger.Info("Starting cluster facade",
		zap.String("version", cfg.AppVersion),
		zap.Bool("in_cluster", cfg.K8sInCluster),
		zap.String("namespace", cfg.DeploymentNamespace),
	)

	// Create Kubernetes client
	cluster, err := k8s.NewClient(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create Kubernetes client", zap.Error(err))
	}

	// Not fatal: the API server may come up after us, /ready reports it.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.ClusterTimeout)
	if err := cluster.Ping(pingCtx); err != nil {
		logger.Warn("Kubernetes API server not reachable yet", zap.Error(err))
	} else {
		logger.Info("Connected to Kubernetes API server")
	}
	pingCancel()

	store := promquery.NewClient(cfg.PrometheusURL, cfg.PrometheusTimeout, logger)
	logger.Info("Prometheus client created", zap.Stringer("client", store))

	sink, err := metrics.NewRunningPodsSink(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("Failed to register running pods gauge", zap.Error(err))
	}

	// Create components
	dep := deployer.NewDeployer(cluster, cfg.DeploymentImage, cfg.ClusterTimeout, logger)
	rep := reporter.NewReporter(cluster, store, sink, cfg.PrometheusQuery, cfg.ClusterTimeout, logger)

	router := api.NewRouter(dep, rep, cluster, prometheus.DefaultGatherer, cfg, logger)

	httpServer := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: router,
	}

	// Separate minimal router when metrics get their own port
	var metricsServer *http.Server
	if cfg.MetricsPort != cfg.ServerPort {
		metricsServer = &http.Server{
			Addr:    cfg.GetMetricsAddress(),
			Handler: api.NewMetricsRouter(prometheus.DefaultGatherer, logger),
		}
	}

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	if metricsServer != nil {
		go func() {
			logger.Info("Starting metrics server", zap.String("addr", metricsServer.Addr))
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	// Wait for shutdown signal
	<-quit
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		logger.Info("HTTP server shut down gracefully")
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown error", zap.Error(err))
		}
	}

	logger.Info("Cluster facade shutdown complete")
}

func setupLogger(cfg *config.Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)

	if cfg.LogFormat == "console" {
		config.Encoding = "console"
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	return config.Build(zap.Fields(zap.String("app", cfg.AppName)))
}
