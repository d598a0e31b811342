package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	requestsTotal         *prometheus.CounterVec
	latencySeconds        *prometheus.HistogramVec
	enrollmentsTotal      *prometheus.CounterVec
	submissionsTotal      *prometheus.CounterVec
	gradingActionsTotal   *prometheus.CounterVec
	assignmentsAutoClosed prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lms_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		enrollmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_enrollments_total",
			Help: "Enrollment operations by outcome.",
		}, []string{"action", "outcome"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_submissions_total",
			Help: "Submission attempts by outcome.",
		}, []string{"outcome"})

		gradingActionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_grading_actions_total",
			Help: "Grading actions recorded, by action label.",
		}, []string{"action"})

		assignmentsAutoClosed = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lms_assignments_auto_closed_total",
			Help: "Assignments closed by the auto-close sweep.",
		})

		prometheus.MustRegister(
			requestsTotal,
			latencySeconds,
			enrollmentsTotal,
			submissionsTotal,
			gradingActionsTotal,
			assignmentsAutoClosed,
		)
	})
}

// Requests exposes the request counter.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Enrollments exposes the enrollment outcome counter.
func Enrollments() *prometheus.CounterVec {
	RegisterMetrics()
	return enrollmentsTotal
}

// Submissions exposes the submission outcome counter.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// GradingActions exposes the grading action counter.
func GradingActions() *prometheus.CounterVec {
	RegisterMetrics()
	return gradingActionsTotal
}

// AssignmentsAutoClosed exposes the sweep counter.
func AssignmentsAutoClosed() prometheus.Counter {
	RegisterMetrics()
	return assignmentsAutoClosed
}
