package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	esgReview = "esg_review"

	// Review metrics
	reviewActionsTotal   = "review_actions_total"
	batchItemsTotal      = "batch_items_total"
	auditFailuresTotal   = "audit_failures_total"
	reconcileFailures    = "reconciliation_failures_total"
	extractionJobsTotal  = "extraction_jobs_total"
	reviewActionDuration = "review_action_duration_seconds"

	// Labels
	actionLabel      = "action"
	resultLabel      = "result"
	targetTableLabel = "target_table"
	jobStatusLabel   = "status"
)

/**
* Metrics definition
**/
var reviewActionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: esgReview,
		Name:      reviewActionsTotal,
		Help:      "number of review actions recorded, by action",
	},
	[]string{actionLabel, targetTableLabel},
)

var batchItemsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: esgReview,
		Name:      batchItemsTotal,
		Help:      "number of previews processed by batch approvals, by result",
	},
	[]string{resultLabel},
)

var auditFailuresTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: esgReview,
		Name:      auditFailuresTotal,
		Help:      "number of audit entries that could not be written after a committed review action",
	},
)

var reconciliationFailuresMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: esgReview,
		Name:      reconcileFailures,
		Help:      "number of failed inserts into target tables",
	},
	[]string{targetTableLabel},
)

var extractionJobsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: esgReview,
		Name:      extractionJobsTotal,
		Help:      "number of finished extraction jobs, by final status",
	},
	[]string{jobStatusLabel},
)

var reviewActionDurationMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Subsystem: esgReview,
		Name:      reviewActionDuration,
		Help:      "time spent approving or rejecting a preview",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
	},
	[]string{actionLabel},
)

func IncreaseReviewActionMetric(action, targetTable string) {
	reviewActionsTotalMetric.With(prometheus.Labels{
		actionLabel:      action,
		targetTableLabel: targetTable,
	}).Inc()
}

func ObserveReviewActionDuration(action string, seconds float64) {
	reviewActionDurationMetric.With(prometheus.Labels{actionLabel: action}).Observe(seconds)
}

func IncreaseBatchItemMetric(result string) {
	batchItemsTotalMetric.With(prometheus.Labels{resultLabel: result}).Inc()
}

func IncreaseAuditFailureMetric() {
	auditFailuresTotalMetric.Inc()
}

func IncreaseReconciliationFailureMetric(targetTable string) {
	reconciliationFailuresMetric.With(prometheus.Labels{targetTableLabel: targetTable}).Inc()
}

func IncreaseExtractionJobMetric(status string) {
	extractionJobsTotalMetric.With(prometheus.Labels{jobStatusLabel: status}).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(reviewActionsTotalMetric)
	prometheus.MustRegister(batchItemsTotalMetric)
	prometheus.MustRegister(auditFailuresTotalMetric)
	prometheus.MustRegister(reconciliationFailuresMetric)
	prometheus.MustRegister(extractionJobsTotalMetric)
	prometheus.MustRegister(reviewActionDurationMetric)
}
