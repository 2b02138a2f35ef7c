package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "college_admin"

// Latency buckets tuned for Mongo-backed handlers and PDF rendering.
var httpBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// MetricsService owns the Prometheus registry the API reports into.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	httpLatency *prometheus.HistogramVec
	httpTotal   *prometheus.CounterVec
	cacheOps    *prometheus.HistogramVec
	cacheResult *prometheus.CounterVec
	emails      *prometheus.CounterVec
	payments    *prometheus.CounterVec
	collected   *prometheus.CounterVec
	admissions  *prometheus.CounterVec
	allocations *prometheus.CounterVec
}

// NewMetricsService registers the API collectors plus the Go runtime and
// process collectors on a private registry.
func NewMetricsService() *MetricsService {
	m := &MetricsService{
		registry: prometheus.NewRegistry(),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency by route template.",
			Buckets: httpBuckets,
		}, []string{"method", "path", "status"}),
		httpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by route template and status.",
		}, []string{"method", "path", "status"}),
		cacheOps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace, Subsystem: "stats_cache", Name: "operation_seconds",
			Help:    "Stats cache round trips.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 10),
		}, []string{"op"}),
		cacheResult: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Subsystem: "stats_cache", Name: "lookups_total",
			Help: "Stats cache lookups by result.",
		}, []string{"result"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Subsystem: "email", Name: "deliveries_total",
			Help: "Email delivery attempts by kind and outcome.",
		}, []string{"kind", "outcome"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Subsystem: "fees", Name: "payments_total",
			Help: "Recorded fee payments by method.",
		}, []string{"method"}),
		collected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Subsystem: "fees", Name: "collected_amount_total",
			Help: "Sum of recorded payment amounts by fee type.",
		}, []string{"fee_type"}),
		admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Subsystem: "admission", Name: "status_changes_total",
			Help: "Admission status changes by target status.",
		}, []string{"status"}),
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Subsystem: "hostel", Name: "allocation_changes_total",
			Help: "Hostel allocate and vacate actions by room type.",
		}, []string{"room_type", "action"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpLatency, m.httpTotal,
		m.cacheOps, m.cacheResult,
		m.emails, m.payments, m.collected,
		m.admissions, m.allocations,
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return m
}

// Registry exposes the registry to tests and extra collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry, or 503 when metrics are off.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpLatency.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.httpTotal.WithLabelValues(method, path, code).Inc()
}

func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheOps.WithLabelValues("get").Observe(duration.Seconds())
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheResult.WithLabelValues(result).Inc()
}

func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheOps.WithLabelValues("set").Observe(duration.Seconds())
}

// RecordEmail counts one delivery attempt; outcome is sent, retry or failed.
func (m *MetricsService) RecordEmail(kind, outcome string) {
	if m == nil {
		return
	}
	m.emails.WithLabelValues(kind, outcome).Inc()
}

func (m *MetricsService) RecordPayment(method, feeType string, amount float64) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(method).Inc()
	if amount > 0 {
		m.collected.WithLabelValues(feeType).Add(amount)
	}
}

func (m *MetricsService) RecordAdmissionStatus(status string) {
	if m == nil {
		return
	}
	m.admissions.WithLabelValues(status).Inc()
}

func (m *MetricsService) RecordAllocation(roomType, action string) {
	if m == nil {
		return
	}
	m.allocations.WithLabelValues(roomType, action).Inc()
}
