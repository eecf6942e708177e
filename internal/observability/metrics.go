package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	httpErrorsTotal      *prometheus.CounterVec
	backendRequestsTotal *prometheus.CounterVec
	backendLatency       *prometheus.HistogramVec
	resultsComputed      *prometheus.CounterVec
	optimisticOutcomes   *prometheus.CounterVec
	uploadRejected       *prometheus.CounterVec
	dashboardCache       *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the portal.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of portal API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_latency_seconds",
			Help:    "Latency distribution for portal API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_errors_total",
			Help: "Total number of error responses returned by the portal API.",
		}, []string{"method", "route", "status"})

		backendRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_backend_requests_total",
			Help: "Calls made to the backend REST API by operation and outcome.",
		}, []string{"operation", "outcome"})

		backendLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_backend_latency_seconds",
			Help:    "Latency of backend REST API calls.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"})

		resultsComputed = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_results_computed_total",
			Help: "Result reports computed, labelled by whether any course was graded.",
		}, []string{"graded"})

		optimisticOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_optimistic_changes_total",
			Help: "Optimistic list changes by entity and final state.",
		}, []string{"entity", "state"})

		uploadRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_marks_upload_rejected_total",
			Help: "Rejected marks uploads by reason.",
		}, []string{"reason"})

		dashboardCache = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_dashboard_cache_total",
			Help: "Dashboard summary cache lookups by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			backendRequestsTotal,
			backendLatency,
			resultsComputed,
			optimisticOutcomes,
			uploadRejected,
			dashboardCache,
		)
	})
}

// HTTPRequests exposes the counter for portal requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for portal requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for portal error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// BackendRequests exposes the backend call counter.
func BackendRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return backendRequestsTotal
}

// BackendLatency exposes the backend latency histogram.
func BackendLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return backendLatency
}

// ResultsComputed exposes the result report counter.
func ResultsComputed() *prometheus.CounterVec {
	RegisterMetrics()
	return resultsComputed
}

// OptimisticOutcomes exposes the optimistic change counter.
func OptimisticOutcomes() *prometheus.CounterVec {
	RegisterMetrics()
	return optimisticOutcomes
}

// UploadRejected exposes the rejected upload counter.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejected
}

// DashboardCache exposes the dashboard cache counter.
func DashboardCache() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardCache
}
