package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce   sync.Once
	requestsTotal  *prometheus.CounterVec
	latencySeconds *prometheus.HistogramVec
	errorsTotal    *prometheus.CounterVec
	lockedTotal    prometheus.Counter
	submittedTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the jury API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jury_requests_total",
			Help: "Total number of jury API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jury_latency_seconds",
			Help:    "Latency distribution for jury API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jury_errors_total",
			Help: "Total number of error responses returned by jury endpoints.",
		}, []string{"method", "route", "status"})

		lockedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jury_evaluations_locked_total",
			Help: "Total number of evaluations locked by bulk admin actions.",
		})

		submittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jury_evaluations_submitted_total",
			Help: "Total number of evaluations submitted by jurors.",
		})

		prometheus.MustRegister(requestsTotal, latencySeconds, errorsTotal, lockedTotal, submittedTotal)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// EvaluationsLocked exposes the counter for bulk-locked evaluations.
func EvaluationsLocked() prometheus.Counter {
	RegisterMetrics()
	return lockedTotal
}

// EvaluationsSubmitted exposes the counter for submitted evaluations.
func EvaluationsSubmitted() prometheus.Counter {
	RegisterMetrics()
	return submittedTotal
}
