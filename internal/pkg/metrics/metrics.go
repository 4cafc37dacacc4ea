// internal/pkg/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the REST client reports through.
type Recorder interface {
	RecordBackendCall(method, path string, statusCode int, duration time.Duration)
	RecordBackendError(method, path string)
}

// Collector collects Prometheus metrics for outbound backend calls.
type Collector struct {
	registry    *prometheus.Registry
	calls       *prometheus.CounterVec
	transportEr *prometheus.CounterVec
	latency     prometheus.Histogram
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_backend_requests_total",
			Help: "Backend API requests by method, path and status code",
		}, []string{"method", "path", "status_code"}),
		transportEr: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_backend_transport_errors_total",
			Help: "Backend API requests that failed before receiving a response",
		}, []string{"method", "path"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_backend_request_duration_seconds",
			Help:    "Backend API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.calls, c.transportEr, c.latency)

	return c
}

// RecordBackendCall records a completed backend request.
func (c *Collector) RecordBackendCall(method, path string, statusCode int, duration time.Duration) {
	c.calls.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	c.latency.Observe(duration.Seconds())
}

// RecordBackendError records a request that never got a response.
func (c *Collector) RecordBackendError(method, path string) {
	c.transportEr.WithLabelValues(method, path).Inc()
}

// Handler returns the HTTP handler that serves the metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Nop is a Recorder that discards everything. Used in tests and when
// metrics are not wired.
type Nop struct{}

func (Nop) RecordBackendCall(string, string, int, time.Duration) {}
func (Nop) RecordBackendError(string, string)                    {}
