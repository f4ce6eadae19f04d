package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors exposed on /metrics.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec
	ReportsTotal    *prometheus.CounterVec
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
}

// NewMetrics registers the application collectors on the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		RequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"method", "route", "status"}),
		ReportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reports_generated_total",
			Help: "Report generation outcomes by type and status.",
		}, []string{"type", "status"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stats_cache_hits_total",
			Help: "Herd stats served from cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stats_cache_misses_total",
			Help: "Herd stats recomputed from the database.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.RequestDuration, m.RequestTotal, m.ReportsTotal, m.CacheHits, m.CacheMisses)
	}
	return m
}

// ReportGenerated counts one report generation outcome. Nil-safe so services
// can run without a metrics registry in tests.
func (m *Metrics) ReportGenerated(reportType, status string) {
	if m == nil {
		return
	}
	m.ReportsTotal.WithLabelValues(reportType, status).Inc()
}

// CacheHit counts a herd-stats response served from cache.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// CacheMiss counts a herd-stats response recomputed from the database.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}
