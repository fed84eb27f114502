// Package metrics records named numeric observations on Prometheus gauges.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RunningPods is the gauge holding the last observed running pod count.
const RunningPods = "running_pods"

// Sink records a named numeric observation. Set overwrites the previous value.
type Sink interface {
	Set(name string, value float64)
}

// GaugeSink is a Sink backed by Prometheus gauges registered once at
// construction. Names that were not registered are ignored.
type GaugeSink struct {
	gauges map[string]prometheus.Gauge
}

// NewGaugeSink registers one gauge per opts on reg. It returns an error if any
// gauge collides with an existing collector.
func NewGaugeSink(reg prometheus.Registerer, opts ...prometheus.GaugeOpts) (*GaugeSink, error) {
	s := &GaugeSink{gauges: make(map[string]prometheus.Gauge, len(opts))}
	for _, o := range opts {
		g := prometheus.NewGauge(o)
		if err := reg.Register(g); err != nil {
			return nil, err
		}
		s.gauges[prometheus.BuildFQName(o.Namespace, o.Subsystem, o.Name)] = g
	}
	return s, nil
}

// NewRunningPodsSink registers the running_pods gauge.
func NewRunningPodsSink(reg prometheus.Registerer) (*GaugeSink, error) {
	return NewGaugeSink(reg, prometheus.GaugeOpts{
		Name: RunningPods,
		Help: "Number of running pods",
	})
}

// Set overwrites the gauge called name.
func (s *GaugeSink) Set(name string, value float64) {
	if g, ok := s.gauges[name]; ok {
		g.Set(value)
	}
}

// Gauge returns the registered gauge called name.
func (s *GaugeSink) Gauge(name string) (prometheus.Gauge, bool) {
	g, ok := s.gauges[name]
	return g, ok
}
