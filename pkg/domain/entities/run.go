package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle state of an MRP run
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// RunOptions are the parameters of one planning invocation
type RunOptions struct {
	RunType            string    `json:"run_type"`
	PlanningHorizon    int       `json:"planning_horizon"`
	IncludeSafetyStock bool      `json:"include_safety_stock"`
	IncludeOrders      bool      `json:"include_orders"`
	IncludeMPS         bool      `json:"include_mps"`
	User               string    `json:"user"`
	AsOf               time.Time `json:"as_of"`
}

// DefaultPlanningHorizon is used when a run does not specify one
const DefaultPlanningHorizon = 90

// DefaultRunOptions enables every demand source over the default horizon
func DefaultRunOptions() RunOptions {
	return RunOptions{
		RunType:            "regenerative",
		PlanningHorizon:    DefaultPlanningHorizon,
		IncludeSafetyStock: true,
		IncludeOrders:      true,
		IncludeMPS:         true,
	}
}

// Normalize fills defaults and truncates AsOf to a date
func (o RunOptions) Normalize(now time.Time) RunOptions {
	if o.PlanningHorizon <= 0 {
		o.PlanningHorizon = DefaultPlanningHorizon
	}
	if o.RunType == "" {
		o.RunType = "regenerative"
	}
	if o.AsOf.IsZero() {
		o.AsOf = now
	}
	o.AsOf = DateOf(o.AsOf)
	return o
}

// HorizonEnd is the last day covered by the run
func (o RunOptions) HorizonEnd() time.Time {
	return o.AsOf.AddDate(0, 0, o.PlanningHorizon)
}

// RunStatistics summarises a completed or failed run
type RunStatistics struct {
	DemandCount           int   `json:"demand_count"`
	ItemsPlanned          int   `json:"items_planned"`
	SuggestionCount       int   `json:"suggestion_count"`
	PurchaseSuggestions   int   `json:"purchase_suggestions"`
	ProductionSuggestions int   `json:"production_suggestions"`
	ShortageCount         int   `json:"shortage_count"`
	IssueCount            int   `json:"issue_count"`
	ElapsedMs             int64 `json:"elapsed_ms"`
}

// MRPRun owns one planning computation
type MRPRun struct {
	ID         uuid.UUID     `json:"id"`
	Status     RunStatus     `json:"status"`
	Parameters RunOptions    `json:"parameters"`
	Statistics RunStatistics `json:"statistics"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
}

// NewMRPRun starts a run in the running state
func NewMRPRun(opts RunOptions, startedAt time.Time) *MRPRun {
	return &MRPRun{
		ID:         uuid.New(),
		Status:     RunRunning,
		Parameters: opts,
		StartedAt:  startedAt,
	}
}

// Complete moves a running run to completed
func (r *MRPRun) Complete(stats RunStatistics, finishedAt time.Time) error {
	if r.Status != RunRunning {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidRunTransition, r.Status, RunCompleted)
	}
	stats.ElapsedMs = finishedAt.Sub(r.StartedAt).Milliseconds()
	r.Status = RunCompleted
	r.Statistics = stats
	r.FinishedAt = &finishedAt
	return nil
}

// Fail moves a running run to failed, keeping the triggering message
func (r *MRPRun) Fail(message string, finishedAt time.Time) error {
	if r.Status != RunRunning {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidRunTransition, r.Status, RunFailed)
	}
	r.Status = RunFailed
	r.Error = message
	r.Statistics.ElapsedMs = finishedAt.Sub(r.StartedAt).Milliseconds()
	r.FinishedAt = &finishedAt
	return nil
}
