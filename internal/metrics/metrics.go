package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every collector the service exports.  Each Metrics owns
// its registry, so tests never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Domain metrics
	LoginAttemptsTotal      *prometheus.CounterVec
	BookingTransitionsTotal *prometheus.CounterVec
	EventsPublishedTotal    *prometheus.CounterVec
	RateLimitDroppedTotal   *prometheus.CounterVec
	CacheLookupsTotal       *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_server_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_server_requests_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status_code"},
		),
		LoginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_login_attempts_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"}, // success, invalid_credentials, error
		),
		BookingTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "test_ride_transitions_total",
				Help: "Test ride bookings created, cancelled and confirmed",
			},
			[]string{"event"},
		),
		EventsPublishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_events_published_total",
				Help: "Test ride events handed to the broker",
			},
			[]string{"status"}, // success, failure
		),
		RateLimitDroppedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratelimit_dropped_total",
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"route"},
		),
		CacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "response_cache_lookups_total",
				Help: "Response cache lookups by result",
			},
			[]string{"result"}, // hit, miss
		),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LoginAttemptsTotal,
		m.BookingTransitionsTotal,
		m.EventsPublishedTotal,
		m.RateLimitDroppedTotal,
		m.CacheLookupsTotal,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer returns the underlying registry.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }

// LoginAttempt counts a login by outcome.
func (m *Metrics) LoginAttempt(outcome string) {
	m.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}

// BookingTransition counts a booking lifecycle event.
func (m *Metrics) BookingTransition(event string) {
	m.BookingTransitionsTotal.WithLabelValues(event).Inc()
}

// EventPublished counts a publish attempt.
func (m *Metrics) EventPublished(ok bool) {
	status := "success"
	if !ok {
		status = "failure"
	}
	m.EventsPublishedTotal.WithLabelValues(status).Inc()
}

// RateLimited counts a rejected request.
func (m *Metrics) RateLimited(route string) {
	m.RateLimitDroppedTotal.WithLabelValues(route).Inc()
}

// CacheLookup counts a response cache lookup.
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}
