// Package metrics provides custom Prometheus metrics for the frontend's
// components.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics contains Prometheus metrics for page serving.
type HTTPMetrics struct {
	PageRenders     *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	registry        *prometheus.Registry
}

// NewHTTPMetrics creates a new instance of HTTPMetrics and registers it
// with the provided registry.
func NewHTTPMetrics(registry *prometheus.Registry) (*HTTPMetrics, error) {
	m := &HTTPMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register HTTP metrics: %w", err)
	}
	return m, nil
}

func (m *HTTPMetrics) initMetrics() {
	m.PageRenders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_page_renders_total",
		Help: "Total number of rendered pages by route and status code",
	}, []string{"route", "status"})

	m.RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Time spent serving a request, by route",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"route"})
}

// RecordPageRender records one served request.
func (m *HTTPMetrics) RecordPageRender(route string, status int, duration time.Duration) {
	m.PageRenders.WithLabelValues(route, fmt.Sprintf("%d", status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// Describe implements the prometheus.Collector interface.
func (m *HTTPMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.PageRenders.Describe(ch)
	m.RequestDuration.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *HTTPMetrics) Collect(ch chan<- prometheus.Metric) {
	m.PageRenders.Collect(ch)
	m.RequestDuration.Collect(ch)
}
