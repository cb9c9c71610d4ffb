package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	requestsTotal         *prometheus.CounterVec
	requestLatencySeconds *prometheus.HistogramVec
	requestErrorsTotal    *prometheus.CounterVec
	submissionsReceived   *prometheus.CounterVec
	submissionsGraded     prometheus.Counter
	submissionsPublished  prometheus.Counter
	gradebookCacheHits    prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradebook_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		requestLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gradebook_request_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		requestErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradebook_request_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		submissionsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradebook_submissions_received_total",
			Help: "Submissions accepted, labelled by initial status.",
		}, []string{"status"})

		submissionsGraded = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradebook_submissions_graded_total",
			Help: "Grading actions recorded, including re-grades.",
		})

		submissionsPublished = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradebook_submissions_published_total",
			Help: "Grade publications, including idempotent republishing.",
		})

		gradebookCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradebook_cache_hits_total",
			Help: "Gradebook reads served from the Redis cache.",
		})

		prometheus.MustRegister(
			requestsTotal,
			requestLatencySeconds,
			requestErrorsTotal,
			submissionsReceived,
			submissionsGraded,
			submissionsPublished,
			gradebookCacheHits,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// RequestLatency exposes the latency histogram for API requests.
func RequestLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencySeconds
}

// RequestErrors exposes the counter for API error responses.
func RequestErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return requestErrorsTotal
}

// SubmissionsReceived exposes the submission intake counter.
func SubmissionsReceived() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsReceived
}

// SubmissionsGraded exposes the grading action counter.
func SubmissionsGraded() prometheus.Counter {
	RegisterMetrics()
	return submissionsGraded
}

// SubmissionsPublished exposes the publish counter.
func SubmissionsPublished() prometheus.Counter {
	RegisterMetrics()
	return submissionsPublished
}

// GradebookCacheHits exposes the gradebook cache hit counter.
func GradebookCacheHits() prometheus.Counter {
	RegisterMetrics()
	return gradebookCacheHits
}
