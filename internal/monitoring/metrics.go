package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is nil-safe: every recording method is a no-op on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	cacheHealthy      prometheus.Gauge
	upstreamErrors    *prometheus.CounterVec
	commentsScored    *prometheus.CounterVec
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "comment_cache_hits_total",
			Help: "Total comment cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "comment_cache_misses_total",
			Help: "Total comment cache misses.",
		}),
		cacheHealthy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "comment_cache_healthy",
			Help: "1 when the last cache health check succeeded.",
		}),
		upstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "youtube_upstream_errors_total",
			Help: "YouTube Data API failures by operation.",
		}, []string{"operation"}),
		commentsScored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "comments_scored_total",
			Help: "Texts scored, by sentiment label.",
		}, []string{"sentiment"}),
	}

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.cacheHits,
		m.cacheMisses,
		m.cacheHealthy,
		m.upstreamErrors,
		m.commentsScored,
	)

	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *Metrics) SetCacheHealthy(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.cacheHealthy.Set(1)
	} else {
		m.cacheHealthy.Set(0)
	}
}

func (m *Metrics) UpstreamError(operation string) {
	if m == nil {
		return
	}
	m.upstreamErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) CommentScored(sentiment string) {
	if m == nil {
		return
	}
	m.commentsScored.WithLabelValues(sentiment).Inc()
}
