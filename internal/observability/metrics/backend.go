package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BackendMetrics contains Prometheus metrics for the backend REST client.
type BackendMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CacheLookups    *prometheus.CounterVec
	registry        *prometheus.Registry
}

// NewBackendMetrics creates a new instance of BackendMetrics and
// registers it with the provided registry.
func NewBackendMetrics(registry *prometheus.Registry) (*BackendMetrics, error) {
	m := &BackendMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register backend metrics: %w", err)
	}
	return m, nil
}

func (m *BackendMetrics) initMetrics() {
	m.RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backend_requests_total",
		Help: "Total backend API requests by resource, method and status code (0 for transport errors)",
	}, []string{"resource", "method", "status"})

	m.RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_seconds",
		Help:    "Backend API request latency by resource",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"resource"})

	m.CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backend_cache_lookups_total",
		Help: "Backend read cache lookups by resource and result",
	}, []string{"resource", "result"})
}

// RecordRequest records one completed backend request.
func (m *BackendMetrics) RecordRequest(resource, method string, status int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(resource, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

// RecordCacheLookup records one cache lookup.
func (m *BackendMetrics) RecordCacheLookup(resource string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(resource, result).Inc()
}

// Describe implements the prometheus.Collector interface.
func (m *BackendMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.RequestsTotal.Describe(ch)
	m.RequestDuration.Describe(ch)
	m.CacheLookups.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *BackendMetrics) Collect(ch chan<- prometheus.Metric) {
	m.RequestsTotal.Collect(ch)
	m.RequestDuration.Collect(ch)
	m.CacheLookups.Collect(ch)
}
