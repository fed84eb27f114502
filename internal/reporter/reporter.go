// Package reporter combines a running pod count with a Prometheus query result.
package reporter

import (
	"context"
	"time"

	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"

	"cluster-facade-go/internal/api/middleware"
	"cluster-facade-go/internal/errkind"
	"cluster-facade-go/internal/k8s"
	"cluster-facade-go/internal/metrics"
	"cluster-facade-go/internal/models"
	"cluster-facade-go/internal/promquery"
)

// Interface defines the interface for metrics snapshots
type Interface interface {
	Snapshot(ctx context.Context) (*models.MetricsSnapshot, error)
}

// PodLister returns the phase of every pod in the cluster.
type PodLister interface {
	ListPodPhases(ctx context.Context) ([]corev1.PodPhase, error)
}

// Reporter runs the list, record and query steps in order.
type Reporter struct {
	pods           PodLister
	store          promquery.Querier
	sink           metrics.Sink
	query          string
	clusterTimeout time.Duration
	logger         *zap.Logger
}

// NewReporter creates a new reporter instance.
func NewReporter(pods PodLister, store promquery.Querier, sink metrics.Sink, query string, clusterTimeout time.Duration, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		pods:           pods,
		store:          store,
		sink:           sink,
		query:          query,
		clusterTimeout: clusterTimeout,
		logger:         logger,
	}
}

// Snapshot lists pods, records the running count on the gauge, then relays the
// configured query. A failed query does not undo the gauge update.
func (r *Reporter) Snapshot(ctx context.Context) (*models.MetricsSnapshot, error) {
	phases, err := r.listPhases(ctx)
	if err != nil {
		if errkind.Of(err) == "" {
			err = errkind.Wrap(errkind.ClusterUnreachable, err)
		}
		middleware.SnapshotsTotal.WithLabelValues(string(errkind.Of(err))).Inc()
		r.logger.Warn("pod listing failed", zap.Error(err))
		return nil, err
	}

	count := k8s.CountRunning(phases)
	r.sink.Set(metrics.RunningPods, float64(count))

	data, err := r.store.Query(ctx, r.query)
	if err != nil {
		middleware.SnapshotsTotal.WithLabelValues(string(errkind.MetricsStoreUnreachable)).Inc()
		r.logger.Warn("prometheus query failed",
			zap.String("query", r.query),
			zap.Int("running_pods", count),
			zap.Error(err),
		)
		return nil, errkind.Wrap(errkind.MetricsStoreUnreachable, err)
	}

	middleware.SnapshotsTotal.WithLabelValues("success").Inc()
	r.logger.Debug("metrics snapshot taken",
		zap.Int("pods", len(phases)),
		zap.Int("running_pods", count),
	)

	return &models.MetricsSnapshot{
		RunningPodsCount: count,
		PrometheusData:   data,
	}, nil
}

func (r *Reporter) listPhases(ctx context.Context) ([]corev1.PodPhase, error) {
	if r.clusterTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.clusterTimeout)
		defer cancel()
	}
	return r.pods.ListPodPhases(ctx)
}
