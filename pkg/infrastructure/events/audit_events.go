package events

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

const (
	RunStartedEvent   = "run.started"
	RunCompletedEvent = "run.completed"
	RunFailedEvent    = "run.failed"

	SuggestionPlannedEvent = "suggestion.planned"
	IssueReportedEvent     = "issue.reported"

	ProductionOrderCreatedEvent   = "production.order.created"
	ProductionStatusChangedEvent  = "production.status.changed"
	ProductionOrderScheduledEvent = "production.order.scheduled"

	InventoryReservedEvent = "inventory.reserved"
)

type RunStarted struct {
	Parameters entities.RunOptions `json:"parameters"`
}

type RunCompleted struct {
	Statistics entities.RunStatistics `json:"statistics"`
}

type RunFailed struct {
	Error     string `json:"error"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

type SuggestionPlanned struct {
	Order entities.PlannedOrder `json:"order"`
}

type IssueReported struct {
	Issue entities.PlanningIssue `json:"issue"`
}

type ProductionOrderCreated struct {
	CustomerOrderID string          `json:"customer_order_id"`
	Item            entities.ItemRef `json:"item"`
	Quantity        decimal.Decimal  `json:"quantity"`
}

type ProductionStatusChanged struct {
	From entities.ProductionStatus `json:"from"`
	To   entities.ProductionStatus `json:"to"`
}

type ProductionOrderScheduled struct {
	Direction  string                          `json:"direction"`
	Operations []*entities.ProductionOperation `json:"operations"`
}

type InventoryReserved struct {
	Item      entities.ItemRef `json:"item"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Reference string           `json:"reference"`
}

// RunStream is the stream id for one MRP run
func RunStream(runID uuid.UUID) string {
	return "run-" + runID.String()
}

// ProductionStream is the stream id for one production order
func ProductionStream(orderID uuid.UUID) string {
	return "production-" + orderID.String()
}

func NewRunStartedEvent(run *entities.MRPRun) Event {
	return NewEvent(RunStartedEvent, RunStream(run.ID), RunStarted{Parameters: run.Parameters})
}

func NewRunCompletedEvent(run *entities.MRPRun) Event {
	return NewEvent(RunCompletedEvent, RunStream(run.ID), RunCompleted{Statistics: run.Statistics})
}

func NewRunFailedEvent(run *entities.MRPRun) Event {
	return NewEvent(RunFailedEvent, RunStream(run.ID), RunFailed{Error: run.Error, ElapsedMs: run.Statistics.ElapsedMs})
}

func NewSuggestionPlannedEvent(order *entities.PlannedOrder) Event {
	return NewEvent(SuggestionPlannedEvent, RunStream(order.RunID), SuggestionPlanned{Order: *order})
}

func NewIssueReportedEvent(stream string, issue entities.PlanningIssue) Event {
	return NewEvent(IssueReportedEvent, stream, IssueReported{Issue: issue})
}

func NewProductionOrderCreatedEvent(order *entities.ProductionOrder) Event {
	return NewEvent(ProductionOrderCreatedEvent, ProductionStream(order.ID), ProductionOrderCreated{
		CustomerOrderID: order.CustomerOrderID,
		Item:            order.Item,
		Quantity:        order.Quantity,
	})
}

func NewProductionStatusChangedEvent(orderID uuid.UUID, from, to entities.ProductionStatus) Event {
	return NewEvent(ProductionStatusChangedEvent, ProductionStream(orderID), ProductionStatusChanged{From: from, To: to})
}

func NewProductionOrderScheduledEvent(orderID uuid.UUID, direction string, ops []*entities.ProductionOperation) Event {
	return NewEvent(ProductionOrderScheduledEvent, ProductionStream(orderID), ProductionOrderScheduled{
		Direction:  direction,
		Operations: ops,
	})
}

func NewInventoryReservedEvent(orderID uuid.UUID, item entities.ItemRef, qty decimal.Decimal, reference string) Event {
	return NewEvent(InventoryReservedEvent, ProductionStream(orderID), InventoryReserved{
		Item:      item,
		Quantity:  qty,
		Reference: reference,
	})
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(events ...Event) error { return nil }
