package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductionStatus is the lifecycle state of a production order
type ProductionStatus string

const (
	StatusPlanned    ProductionStatus = "planned"
	StatusReleased   ProductionStatus = "released"
	StatusInProgress ProductionStatus = "in_progress"
	StatusCompleted  ProductionStatus = "completed"
	StatusOnHold     ProductionStatus = "on_hold"
	StatusCancelled  ProductionStatus = "cancelled"
)

var productionTransitions = map[ProductionStatus][]ProductionStatus{
	StatusPlanned:    {StatusReleased, StatusOnHold, StatusCancelled},
	StatusReleased:   {StatusInProgress, StatusOnHold, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusOnHold, StatusCancelled},
	StatusOnHold:     {StatusReleased, StatusInProgress, StatusCancelled},
}

// ParseProductionStatus validates a status name
func ParseProductionStatus(s string) (ProductionStatus, error) {
	st := ProductionStatus(s)
	switch st {
	case StatusPlanned, StatusReleased, StatusInProgress, StatusCompleted, StatusOnHold, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown production status: %q", s)
	}
}

// Terminal reports whether no further transition is possible
func (s ProductionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether from -> to is a legal lifecycle step
func CanTransition(from, to ProductionStatus) bool {
	for _, next := range productionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ProductionOrder is a work order for a product
type ProductionOrder struct {
	ID              uuid.UUID        `json:"id"`
	CustomerOrderID string           `json:"customer_order_id"`
	Item            ItemRef          `json:"item"`
	Quantity        decimal.Decimal  `json:"quantity"`
	Priority        int              `json:"priority"`
	Status          ProductionStatus `json:"status"`
	DueDate         time.Time        `json:"due_date"`
	ScheduledStart  *time.Time       `json:"scheduled_start,omitempty"`
	ScheduledEnd    *time.Time       `json:"scheduled_end,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// NewProductionOrder creates a validated order in the planned state
func NewProductionOrder(customerOrderID string, item ItemRef, quantity decimal.Decimal, priority int, dueDate time.Time) (*ProductionOrder, error) {
	if item.Type != ProductItem {
		return nil, fmt.Errorf("production orders require a product, got %s", item)
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("quantity must be positive, got %s", quantity)
	}
	return &ProductionOrder{
		ID:              uuid.New(),
		CustomerOrderID: customerOrderID,
		Item:            item,
		Quantity:        quantity,
		Priority:        priority,
		Status:          StatusPlanned,
		DueDate:         dueDate,
	}, nil
}

// TransitionTo applies a lifecycle step
func (o *ProductionOrder) TransitionTo(to ProductionStatus) error {
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, o.Status, to)
	}
	o.Status = to
	return nil
}

// ProductionOperation is one scheduled routing step of a production order
type ProductionOperation struct {
	ID              uuid.UUID `json:"id"`
	OrderID         uuid.UUID `json:"order_id"`
	Sequence        int       `json:"sequence"`
	WorkCenterID    string    `json:"work_center_id"`
	// ScheduledDay is the shift date the operation occupies; a backward
	// operation longer than its shift starts on an earlier date
	ScheduledDay    time.Time `json:"scheduled_day"`
	ScheduledStart  time.Time `json:"scheduled_start"`
	ScheduledEnd    time.Time `json:"scheduled_end"`
	DurationMinutes float64   `json:"duration_minutes"`
}

// Day returns the work-center day the operation occupies
func (op *ProductionOperation) Day() time.Time {
	if op.ScheduledDay.IsZero() {
		return DateOf(op.ScheduledStart)
	}
	return DateOf(op.ScheduledDay)
}
