package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

// RunResult contains the complete output of an MRP run
type RunResult struct {
	Run         *entities.MRPRun         `json:"run"`
	Items       []ItemPlan               `json:"items"`
	Suggestions []*entities.PlannedOrder `json:"suggestions"`
	Issues      []entities.PlanningIssue `json:"issues"`
	Summary     RunSummary               `json:"summary"`
}

// ItemPlan is the time-phased plan of one item within a run
type ItemPlan struct {
	Item        entities.ItemRef         `json:"item"`
	Description string                   `json:"description"`
	OnHand      decimal.Decimal          `json:"on_hand"`
	Rows        []entities.TimePhasedRow `json:"rows"`
	Suggestions []*entities.PlannedOrder `json:"suggestions,omitempty"`
}

// RunSummary condenses a run for listings and API responses
type RunSummary struct {
	RunID          uuid.UUID              `json:"run_id"`
	Status         entities.RunStatus     `json:"status"`
	CanFulfill     bool                   `json:"can_fulfill"`
	Statistics     entities.RunStatistics `json:"statistics"`
	SupplierGroups []SupplierGroup        `json:"supplier_groups,omitempty"`
	Error          string                 `json:"error,omitempty"`
}

// SupplierGroup collects the purchase suggestions of one supplier
type SupplierGroup struct {
	SupplierID    string                   `json:"supplier_id"`
	Orders        []*entities.PlannedOrder `json:"orders"`
	TotalQuantity decimal.Decimal          `json:"total_quantity"`
}

// TimePhasedReport is a read-only recomputation of one item against the
// latest completed run
type TimePhasedReport struct {
	RunID       uuid.UUID                `json:"run_id"`
	Item        entities.ItemRef         `json:"item"`
	Description string                   `json:"description"`
	AsOf        time.Time                `json:"as_of"`
	OnHand      decimal.Decimal          `json:"on_hand"`
	Rows        []entities.TimePhasedRow `json:"rows"`
	Suggestions []*entities.PlannedOrder `json:"suggestions"`
	Issues      []entities.PlanningIssue `json:"issues,omitempty"`
}
