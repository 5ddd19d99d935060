// internal/common/metrics/metrics.go
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	IntakeTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_turns_total",
			Help: "Conversation turns processed, by flow and outcome",
		},
		[]string{"flow", "outcome"},
	)

	IntakeSessionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_sessions_started_total",
			Help: "Conversation sessions started, by flow",
		},
		[]string{"flow"},
	)

	AdviceResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advice_responses_total",
			Help: "Advice answers served, by source (provider or fallback) and intent",
		},
		[]string{"source", "intent"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by route and status code",
		},
		[]string{"route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
	)
)

func RecordIntakeTurn(flow, outcome string) {
	IntakeTurns.WithLabelValues(flow, outcome).Inc()
}

func RecordAdvice(source, intent string) {
	AdviceResponses.WithLabelValues(source, intent).Inc()
}

func RecordHTTPRequest(route string, status int, seconds float64) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(seconds)
}
