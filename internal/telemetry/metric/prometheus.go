package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avtoken/avtoken-go/internal/core/domain"
)

const namespace = "avtoken"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	TokensIssued     *prometheus.CounterVec
	TokenFailures    *prometheus.CounterVec
	AdminAuthFailure prometheus.Counter
	PersistenceError *prometheus.CounterVec
}

// NewRegistry creates a registry with the process and Go collectors plus
// the application metrics.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		TokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Tokens issued by kind.",
		}, []string{"kind"}),
		TokenFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_failures_total",
			Help:      "Rejected or failed issuance requests by kind and error code.",
		}, []string{"kind", "reason"}),
		AdminAuthFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_auth_failures_total",
			Help:      "Admin requests presenting a wrong secret.",
		}),
		PersistenceError: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_errors_total",
			Help:      "Failed writes of the config or stats file.",
		}, []string{"store"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.RequestsTotal,
		r.RequestDuration,
		r.TokensIssued,
		r.TokenFailures,
		r.AdminAuthFailure,
		r.PersistenceError,
	)
	return r
}

// MustRegister adds extra collectors, such as a UsageCollector.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.registry.MustRegister(cs...)
}

// Gatherer exposes the underlying registry for tests and custom handlers.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveHTTP records one finished HTTP request. route is the matched
// pattern, never the raw path, to keep cardinality bounded.
func (r *Registry) ObserveHTTP(method, route string, status int, d time.Duration) {
	r.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// TokenIssued implements service.Recorder.
func (r *Registry) TokenIssued(kind domain.RequestKind) {
	r.TokensIssued.WithLabelValues(string(kind)).Inc()
}

// TokenFailed implements service.Recorder.
func (r *Registry) TokenFailed(kind domain.RequestKind, reason string) {
	if reason == "" {
		reason = "unknown"
	}
	r.TokenFailures.WithLabelValues(string(kind), reason).Inc()
}

// AdminAuthFailed implements service.Recorder.
func (r *Registry) AdminAuthFailed() {
	r.AdminAuthFailure.Inc()
}

// PersistenceFailed implements service.Recorder.
func (r *Registry) PersistenceFailed(store string) {
	r.PersistenceError.WithLabelValues(store).Inc()
}
