// Package metrics provides Prometheus metrics for planning and scheduling
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Run metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mrp_runs_total",
			Help: "Total number of MRP runs by final status",
		},
		[]string{"run_type", "status"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mrp_run_duration_seconds",
			Help:    "Wall time of MRP runs",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"run_type"},
	)

	SuggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mrp_suggestions_total",
			Help: "Planned order suggestions emitted",
		},
		[]string{"order_type", "priority"},
	)

	IssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mrp_planning_issues_total",
			Help: "Recoverable planning and scheduling issues",
		},
		[]string{"kind", "code"},
	)

	// Scheduling metrics
	OperationsScheduled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "production_operations_scheduled_total",
			Help: "Operations placed on work-center calendars",
		},
		[]string{"work_center", "direction"},
	)

	ScheduleRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "production_schedule_day_retries_total",
			Help: "Days skipped because the work center was occupied or closed",
		},
		[]string{"work_center"},
	)

	OrdersScheduled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "production_orders_scheduled_total",
			Help: "Production orders processed by the capacity scheduler",
		},
		[]string{"direction", "status"},
	)
)

// Recorder records planning metrics; a nil or disabled Recorder is a no-op
type Recorder struct {
	enabled bool
}

// NewRecorder creates a new metrics recorder
func NewRecorder(enabled bool) *Recorder {
	return &Recorder{enabled: enabled}
}

func (r *Recorder) on() bool {
	return r != nil && r.enabled
}

// RecordRun records a finished MRP run
func (r *Recorder) RecordRun(runType, status string, duration time.Duration) {
	if !r.on() {
		return
	}
	RunsTotal.WithLabelValues(runType, status).Inc()
	RunDuration.WithLabelValues(runType).Observe(duration.Seconds())
}

// RecordSuggestion records one planned order suggestion
func (r *Recorder) RecordSuggestion(orderType, priority string) {
	if !r.on() {
		return
	}
	SuggestionsTotal.WithLabelValues(orderType, priority).Inc()
}

// RecordIssue records a recoverable issue
func (r *Recorder) RecordIssue(kind, code string) {
	if !r.on() {
		return
	}
	IssuesTotal.WithLabelValues(kind, code).Inc()
}

// RecordOperation records an operation placed on a work center
func (r *Recorder) RecordOperation(workCenterID, direction string) {
	if !r.on() {
		return
	}
	OperationsScheduled.WithLabelValues(workCenterID, direction).Inc()
}

// RecordRetry records a skipped day during slot search
func (r *Recorder) RecordRetry(workCenterID string) {
	if !r.on() {
		return
	}
	ScheduleRetries.WithLabelValues(workCenterID).Inc()
}

// RecordOrder records the outcome of scheduling one order
func (r *Recorder) RecordOrder(direction, status string) {
	if !r.on() {
		return
	}
	OrdersScheduled.WithLabelValues(direction, status).Inc()
}
