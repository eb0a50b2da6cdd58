package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

// ScheduledOrder is one production order placed on the work-center calendars
type ScheduledOrder struct {
	OrderID    uuid.UUID                       `json:"order_id"`
	Item       entities.ItemRef                `json:"item"`
	Start      time.Time                       `json:"start"`
	End        time.Time                       `json:"end"`
	Operations []*entities.ProductionOperation `json:"operations"`
}

// ScheduleResult is the outcome of a forward or backward scheduling batch
type ScheduleResult struct {
	Direction       string                   `json:"direction"`
	ScheduledOrders []ScheduledOrder         `json:"scheduled_orders"`
	Failures        []entities.PlanningIssue `json:"failures,omitempty"`
	StartDate       *time.Time               `json:"start_date,omitempty"`
	EndDate         *time.Time               `json:"end_date,omitempty"`
}

// Reservation records components reserved for a production order
type Reservation struct {
	OrderID   uuid.UUID        `json:"order_id"`
	Item      entities.ItemRef `json:"item"`
	Requested decimal.Decimal  `json:"requested"`
	Reserved  decimal.Decimal  `json:"reserved"`
}

// CreateOrdersResult is the outcome of turning a customer order into production orders
type CreateOrdersResult struct {
	CustomerOrderID string                      `json:"customer_order_id"`
	Orders          []*entities.ProductionOrder `json:"orders"`
	Reservations    []Reservation               `json:"reservations,omitempty"`
	Schedule        *ScheduleResult             `json:"schedule,omitempty"`
	Issues          []entities.PlanningIssue    `json:"issues,omitempty"`
}
