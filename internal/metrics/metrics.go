package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheCollapses *prometheus.CounterVec
}

// New constructs a Metrics instance with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reelstream_http_requests_total",
			Help: "HTTP requests handled, by method and status.",
		}, []string{"method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reelstream_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reelstream_cache_hits_total",
			Help: "Metadata cache hits, by key.",
		}, []string{"key"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reelstream_cache_misses_total",
			Help: "Metadata cache misses, by key.",
		}, []string{"key"}),
		cacheCollapses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reelstream_cache_collapsed_lookups_total",
			Help: "Lookups that joined an already in-flight origin fetch, by key.",
		}, []string{"key"}),
	}

	registry.MustRegister(m.requestsTotal, m.requestDuration, m.cacheHits, m.cacheMisses, m.cacheCollapses)
	return m
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// CacheHit implements reels.Recorder.
func (m *Metrics) CacheHit(key string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(keyKind(key)).Inc()
}

// CacheMiss implements reels.Recorder.
func (m *Metrics) CacheMiss(key string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(keyKind(key)).Inc()
}

// CacheCollapse implements reels.Recorder.
func (m *Metrics) CacheCollapse(key string) {
	if m == nil {
		return
	}
	m.cacheCollapses.WithLabelValues(keyKind(key)).Inc()
}

// keyKind collapses per-reel keys into one label value to keep the
// cardinality bounded.
func keyKind(key string) string {
	if strings.HasPrefix(key, "reel:") {
		return "reel"
	}
	return key
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
