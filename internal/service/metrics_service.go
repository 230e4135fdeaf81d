package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// MetricsService owns the Prometheus registry and application collectors.
type MetricsService struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
	NotificationsFanned prometheus.Counter
	ReportJobsTotal     *prometheus.CounterVec
}

// NewMetricsService builds the registry and registers all collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &MetricsService{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classpulse_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classpulse_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classpulse_cache_hits_total",
			Help: "Dashboard cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classpulse_cache_misses_total",
			Help: "Dashboard cache misses.",
		}),
		NotificationsFanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classpulse_notifications_fanned_total",
			Help: "Notifications created by cancellation fanout.",
		}),
		ReportJobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classpulse_report_jobs_total",
			Help: "Report export jobs by terminal status.",
		}, []string{"status"}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CacheHits,
		m.CacheMisses,
		m.NotificationsFanned,
		m.ReportJobsTotal,
	)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}
