package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the portal's Prometheus collectors. A nil *Metrics is a no-op.
type Metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	durations      *prometheus.HistogramVec
	errors         *prometheus.CounterVec
	decisions      *prometheus.CounterVec
	identityEvents *prometheus.CounterVec
}

// NewMetrics registers collectors on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_errors_total",
			Help: "Error responses by route, method and error code.",
		}, []string{"route", "method", "code"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_route_decisions_total",
			Help: "Route authorization decisions by outcome and resolved role.",
		}, []string{"decision", "role"}),
		identityEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_identity_events_total",
			Help: "Identity change events by type.",
		}, []string{"type"}),
	}
	reg.MustRegister(m.requests, m.durations, m.errors, m.decisions, m.identityEvents)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.durations.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordDecision counts a route authorization outcome. role is empty for anonymous callers.
func (m *Metrics) RecordDecision(decision, role string) {
	if m == nil {
		return
	}
	if role == "" {
		role = "none"
	}
	m.decisions.WithLabelValues(decision, role).Inc()
}

// RecordIdentityEvent counts identity change events.
func (m *Metrics) RecordIdentityEvent(eventType string) {
	if m == nil {
		return
	}
	m.identityEvents.WithLabelValues(eventType).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
