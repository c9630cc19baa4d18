// Package metrics holds the Prometheus collectors served on /metrics.
// Every series is prefixed "pitch_".
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pitch"

// Job lifecycle, recorded by camunda.BeginJob / JobRun.Done.
var (
	WorkerJobsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "jobs_completed_total",
		Help:      "Jobs completed, by task type.",
	}, []string{"task_type"})

	WorkerJobsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "jobs_failed_total",
		Help:      "Jobs failed, by task type and error code.",
	}, []string{"task_type", "error_code"})

	// Buckets span a cache hit (ms) to a slow SES or webhook round trip.
	WorkerJobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "job_duration_seconds",
		Help:      "Job handling time in seconds, by task type.",
		Buckets:   []float64{.005, .025, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"task_type"})

	WorkerJobsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "jobs_active",
		Help:      "Jobs currently being handled, by task type.",
	}, []string{"task_type"})
)

// Pitch domain.
var (
	PitchScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "score_total",
		Help:      "Distribution of total pitch scores (0-100).",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})

	PitchOffers = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offers_total",
		Help:      "Offers built, by score band.",
	}, []string{"band"})

	PitchScoreCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "score_cache_total",
		Help:      "Score cache lookups by result (hit, miss, error).",
	}, []string{"result"})

	PitchIntakeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "intake_requests_total",
		Help:      "HTTP intake requests by route and status code.",
	}, []string{"route", "status"})

	NotificationDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_deliveries_total",
		Help:      "Notification deliveries by channel and status.",
	}, []string{"channel", "status"})

	ConversionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "conversion_events_total",
		Help:      "Conversion events by result (sent, skipped, failed).",
	}, []string{"result"})
)
