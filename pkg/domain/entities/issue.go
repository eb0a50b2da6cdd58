package entities

import (
	"errors"
	"fmt"
)

// IssueKind classifies recoverable planning problems
type IssueKind string

const (
	IssueDataGap    IssueKind = "data_gap"
	IssueValidation IssueKind = "validation"
	IssueCapacity   IssueKind = "capacity"
)

// Issue codes
const (
	CodeNoBOM                = "no_bom"
	CodeMissingItem          = "missing_item"
	CodeNoRouting            = "no_routing"
	CodeNoWorkCenter         = "no_work_center"
	CodeCapacityExhausted    = "capacity_exhausted"
	CodeNonPositiveQtyPer    = "non_positive_qty_per"
	CodeNonPositiveQuantity  = "non_positive_quantity"
	CodeNegativeScrap        = "negative_scrap"
	CodeDemandOutsidePeriods = "demand_outside_periods"
	CodeBOMCycle             = "bom_cycle"
	CodeDuplicateBOMLine     = "duplicate_bom_line"
	CodeNotProducible        = "not_producible"
	CodeInsufficientStock    = "insufficient_stock"
	CodeOrderNotFound        = "order_not_found"
	CodeOrderClosed          = "order_closed"
	CodeSchedulingFailed     = "scheduling_failed"
)

// PlanningIssue is a per-item or per-order problem that does not abort the batch
type PlanningIssue struct {
	Kind         IssueKind `json:"kind"`
	Code         string    `json:"code"`
	Item         ItemRef   `json:"item,omitempty"`
	Reference    string    `json:"reference,omitempty"`
	WorkCenterID string    `json:"work_center_id,omitempty"`
	Message      string    `json:"message"`
}

// String renders the issue for logs and text output
func (i PlanningIssue) String() string {
	return fmt.Sprintf("[%s/%s] %s", i.Kind, i.Code, i.Message)
}

// IssueFromSchedulingError maps a scheduling failure onto an issue
func IssueFromSchedulingError(reference string, item ItemRef, err error) PlanningIssue {
	issue := PlanningIssue{
		Kind:      IssueDataGap,
		Item:      item,
		Reference: reference,
		Message:   err.Error(),
	}
	var capErr *CapacityError
	switch {
	case errors.As(err, &capErr):
		issue.Kind = IssueCapacity
		issue.Code = CodeCapacityExhausted
		issue.WorkCenterID = capErr.WorkCenterID
	case errors.Is(err, ErrNoRouting):
		issue.Code = CodeNoRouting
	case errors.Is(err, ErrNoWorkCenter):
		issue.Code = CodeNoWorkCenter
	case errors.Is(err, ErrOrderClosed):
		issue.Kind = IssueValidation
		issue.Code = CodeOrderClosed
	default:
		issue.Code = CodeSchedulingFailed
	}
	return issue
}
