package infra

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the service's Prometheus collectors on a private registry so
// tests can create as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	suggestionsTotal    *prometheus.CounterVec
}

// NewMetrics registers the HTTP and suggestion collectors plus the Go
// runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		suggestionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "usage_suggestions_total",
			Help: "Usage-report suggestions by provider and outcome.",
		}, []string{"provider", "outcome"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.suggestionsTotal,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RequestStarted increments the in-flight gauge.
func (m *Metrics) RequestStarted() {
	m.httpInFlight.Inc()
}

// RequestFinished records a completed request and decrements the in-flight gauge.
func (m *Metrics) RequestFinished(method, route string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	m.httpRequestDuration.WithLabelValues(method, route, code).Observe(elapsed.Seconds())
	m.httpRequestsTotal.WithLabelValues(method, route, code).Inc()
	m.httpInFlight.Dec()
}

// RecordSuggestion counts one suggestion outcome ("generated" or a fallback reason).
func (m *Metrics) RecordSuggestion(provider, outcome string) {
	m.suggestionsTotal.WithLabelValues(provider, outcome).Inc()
}
