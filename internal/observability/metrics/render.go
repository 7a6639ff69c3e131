package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RenderMetrics contains Prometheus metrics for the content transform.
type RenderMetrics struct {
	TransformDuration prometheus.Histogram
	TransformErrors   prometheus.Counter
	registry          *prometheus.Registry
}

// NewRenderMetrics creates a new instance of RenderMetrics and registers
// it with the provided registry.
func NewRenderMetrics(registry *prometheus.Registry) (*RenderMetrics, error) {
	m := &RenderMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register render metrics: %w", err)
	}
	return m, nil
}

func (m *RenderMetrics) initMetrics() {
	m.TransformDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "render_transform_duration_seconds",
		Help:    "Time spent transforming post HTML",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	})

	m.TransformErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "render_transform_errors_total",
		Help: "Total content transforms that failed",
	})
}

// RecordTransform records one content transform.
func (m *RenderMetrics) RecordTransform(duration time.Duration, err error) {
	m.TransformDuration.Observe(duration.Seconds())
	if err != nil {
		m.TransformErrors.Inc()
	}
}

// Describe implements the prometheus.Collector interface.
func (m *RenderMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.TransformDuration.Desc()
	ch <- m.TransformErrors.Desc()
}

// Collect implements the prometheus.Collector interface.
func (m *RenderMetrics) Collect(ch chan<- prometheus.Metric) {
	ch <- m.TransformDuration
	ch <- m.TransformErrors
}
