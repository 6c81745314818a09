// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application.
type Registry struct {
	// Engine metrics
	IngestTotal      *prometheus.CounterVec
	IngestDuration   prometheus.Histogram
	IngestNodes      prometheus.Histogram
	DroppedEdges     prometheus.Counter
	TransitionsTotal *prometheus.CounterVec
	ProjectDuration  prometheus.Histogram
	ExtractTotal     *prometheus.CounterVec
	ExtractDuration  prometheus.Histogram
	SessionsActive   prometheus.Gauge

	// Cache metrics
	CacheOpsTotal   *prometheus.CounterVec
	CacheWriteBytes *prometheus.HistogramVec

	// Outgoing HTTP metrics
	ClientRequestsTotal   *prometheus.CounterVec
	ClientRequestDuration *prometheus.HistogramVec
	ClientErrorsTotal     *prometheus.CounterVec

	// Server metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric initialized.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initEngineMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Registry) initEngineMetrics() {
	f := promauto.With(r.registry)

	r.IngestTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "entigraph_ingest_total",
		Help: "Graph loads by outcome",
	}, []string{"status"})
	r.IngestDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "entigraph_ingest_duration_seconds",
		Help:    "Graph normalization latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
	r.IngestNodes = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "entigraph_ingest_nodes",
		Help:    "Nodes per loaded graph",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 1000},
	})
	r.DroppedEdges = f.NewCounter(prometheus.CounterOpts{
		Name: "entigraph_dropped_edges_total",
		Help: "Edges dropped during normalization",
	})
	r.TransitionsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "entigraph_transitions_total",
		Help: "Dispatched interaction events by kind and outcome",
	}, []string{"kind", "status"})
	r.ProjectDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "entigraph_project_duration_seconds",
		Help:    "Frame projection latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	})
	r.ExtractTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "entigraph_extract_total",
		Help: "Extraction submissions by outcome",
	}, []string{"status"})
	r.ExtractDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "entigraph_extract_duration_seconds",
		Help:    "Extraction request latency in seconds",
		Buckets: prometheus.DefBuckets,
	})
	r.SessionsActive = f.NewGauge(prometheus.GaugeOpts{
		Name: "entigraph_sessions_active",
		Help: "Live interaction sessions",
	})
}

func (r *Registry) initCacheMetrics() {
	f := promauto.With(r.registry)

	r.CacheOpsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "entigraph_cache_operations_total",
		Help: "Cache lookups and writes by key type and result",
	}, []string{"key_type", "result"})
	r.CacheWriteBytes = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "entigraph_cache_write_bytes",
		Help:    "Size of cached values in bytes",
		Buckets: []float64{100, 1000, 10000, 100000, 1000000},
	}, []string{"key_type"})
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)

	r.ClientRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "entigraph_client_requests_total",
		Help: "Outgoing HTTP requests by host and status",
	}, []string{"method", "host", "status"})
	r.ClientRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "entigraph_client_request_duration_seconds",
		Help:    "Outgoing HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "host"})
	r.ClientErrorsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "entigraph_client_errors_total",
		Help: "Outgoing HTTP requests that failed without a response",
	}, []string{"method", "host"})

	r.HTTPRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "entigraph_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})
	r.HTTPRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "entigraph_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	r.HTTPRequestsInFlight = f.NewGauge(prometheus.GaugeOpts{
		Name: "entigraph_http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	})
}

// =============================================================================
// Hook Implementations
// =============================================================================

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnIngest implements observability.EngineHooks.
func (r *Registry) OnIngest(_ context.Context, nodes, _, dropped int, d time.Duration, err error) {
	r.IngestTotal.WithLabelValues(status(err)).Inc()
	r.IngestDuration.Observe(d.Seconds())
	if err == nil {
		r.IngestNodes.Observe(float64(nodes))
	}
	r.DroppedEdges.Add(float64(dropped))
}

// OnTransition implements observability.EngineHooks.
func (r *Registry) OnTransition(_ context.Context, kind string, err error) {
	r.TransitionsTotal.WithLabelValues(kind, status(err)).Inc()
}

// OnProject implements observability.EngineHooks.
func (r *Registry) OnProject(_ context.Context, _, _ int, d time.Duration) {
	r.ProjectDuration.Observe(d.Seconds())
}

// OnExtract implements observability.EngineHooks.
func (r *Registry) OnExtract(_ context.Context, d time.Duration, err error) {
	r.ExtractTotal.WithLabelValues(status(err)).Inc()
	r.ExtractDuration.Observe(d.Seconds())
}

// OnCacheHit implements observability.CacheHooks.
func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheOpsTotal.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheOpsTotal.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheOpsTotal.WithLabelValues(keyType, "set").Inc()
	r.CacheWriteBytes.WithLabelValues(keyType).Observe(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (r *Registry) OnRequest(context.Context, string, string, string) {}

// OnResponse implements observability.HTTPHooks.
func (r *Registry) OnResponse(_ context.Context, method, host, _ string, code int, d time.Duration) {
	r.ClientRequestsTotal.WithLabelValues(method, host, strconv.Itoa(code)).Inc()
	r.ClientRequestDuration.WithLabelValues(method, host).Observe(d.Seconds())
}

// OnError implements observability.HTTPHooks.
func (r *Registry) OnError(_ context.Context, method, host, _ string, _ error) {
	r.ClientErrorsTotal.WithLabelValues(method, host).Inc()
}

// RecordHTTPRequest records one served HTTP request.
func (r *Registry) RecordHTTPRequest(method, route string, code int, d time.Duration) {
	s := strconv.Itoa(code)
	r.HTTPRequestsTotal.WithLabelValues(method, route, s).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, s).Observe(d.Seconds())
}

// SetSessions records the number of live sessions.
func (r *Registry) SetSessions(n int) { r.SessionsActive.Set(float64(n)) }
