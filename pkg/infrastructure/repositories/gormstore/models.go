package gormstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"gorm.io/datatypes"
)

type RunModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RunType    string         `gorm:"column:run_type;not null" json:"run_type"`
	Status     string         `gorm:"column:status;not null;index" json:"status"`
	Parameters datatypes.JSON `gorm:"column:parameters" json:"parameters"`
	Statistics datatypes.JSON `gorm:"column:statistics" json:"statistics"`
	Error      string         `gorm:"column:error" json:"error,omitempty"`
	StartedAt  time.Time      `gorm:"column:started_at;not null;index" json:"started_at"`
	FinishedAt *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

func (RunModel) TableName() string { return "mrp_runs" }

type PlannedOrderModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RunID       uuid.UUID       `gorm:"type:uuid;column:run_id;not null;index" json:"run_id"`
	ItemType    string          `gorm:"column:item_type;not null" json:"item_type"`
	ItemID      string          `gorm:"column:item_id;not null;index" json:"item_id"`
	OrderType   string          `gorm:"column:order_type;not null" json:"order_type"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:decimal(20,6);not null" json:"quantity"`
	ReleaseDate time.Time       `gorm:"column:release_date;not null" json:"release_date"`
	NeedDate    time.Time       `gorm:"column:need_date;not null" json:"need_date"`
	Priority    string          `gorm:"column:priority;not null" json:"priority"`
	Status      string          `gorm:"column:status;not null" json:"status"`
	SupplierID  string          `gorm:"column:supplier_id" json:"supplier_id,omitempty"`
	PeriodID    string          `gorm:"column:period_id" json:"period_id"`
}

func (PlannedOrderModel) TableName() string { return "mrp_planned_orders" }

type ProductionOrderModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerOrderID string          `gorm:"column:customer_order_id;index" json:"customer_order_id"`
	ItemType        string          `gorm:"column:item_type;not null" json:"item_type"`
	ItemID          string          `gorm:"column:item_id;not null" json:"item_id"`
	Quantity        decimal.Decimal `gorm:"column:quantity;type:decimal(20,6);not null" json:"quantity"`
	Priority        int             `gorm:"column:priority;not null;default:0" json:"priority"`
	Status          string          `gorm:"column:status;not null;index" json:"status"`
	DueDate         time.Time       `gorm:"column:due_date" json:"due_date"`
	ScheduledStart  *time.Time      `gorm:"column:scheduled_start" json:"scheduled_start,omitempty"`
	ScheduledEnd    *time.Time      `gorm:"column:scheduled_end" json:"scheduled_end,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at;not null" json:"created_at"`
}

func (ProductionOrderModel) TableName() string { return "production_orders" }

type ProductionOperationModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID         uuid.UUID `gorm:"type:uuid;column:order_id;not null;index" json:"order_id"`
	Sequence        int       `gorm:"column:sequence;not null" json:"sequence"`
	WorkCenterID    string    `gorm:"column:work_center_id;not null;index:idx_operation_wc_day" json:"work_center_id"`
	ScheduledDay    string    `gorm:"column:scheduled_day;not null;index:idx_operation_wc_day" json:"scheduled_day"`
	ScheduledStart  time.Time `gorm:"column:scheduled_start;not null" json:"scheduled_start"`
	ScheduledEnd    time.Time `gorm:"column:scheduled_end;not null" json:"scheduled_end"`
	DurationMinutes float64   `gorm:"column:duration_minutes;not null" json:"duration_minutes"`
}

func (ProductionOperationModel) TableName() string { return "production_operations" }

type InventoryBalanceModel struct {
	ItemType string          `gorm:"column:item_type;primaryKey" json:"item_type"`
	ItemID   string          `gorm:"column:item_id;primaryKey" json:"item_id"`
	Location string          `gorm:"column:location;primaryKey" json:"location"`
	OnHand   decimal.Decimal `gorm:"column:on_hand;type:decimal(20,6);not null" json:"on_hand"`
}

func (InventoryBalanceModel) TableName() string { return "inventory_balances" }

type InventoryReservationModel struct {
	ItemType string          `gorm:"column:item_type;primaryKey" json:"item_type"`
	ItemID   string          `gorm:"column:item_id;primaryKey" json:"item_id"`
	Reserved decimal.Decimal `gorm:"column:reserved;type:decimal(20,6);not null" json:"reserved"`
}

func (InventoryReservationModel) TableName() string { return "inventory_reservations" }

type InventoryMovementModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ItemType     string          `gorm:"column:item_type;not null;index:idx_movement_item" json:"item_type"`
	ItemID       string          `gorm:"column:item_id;not null;index:idx_movement_item" json:"item_id"`
	Type         string          `gorm:"column:movement_type;not null" json:"movement_type"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:decimal(20,6);not null" json:"quantity"`
	Reference    string          `gorm:"column:reference" json:"reference,omitempty"`
	FromLocation string          `gorm:"column:from_location" json:"from_location,omitempty"`
	ToLocation   string          `gorm:"column:to_location" json:"to_location,omitempty"`
	At           time.Time       `gorm:"column:at;not null" json:"at"`
}

func (InventoryMovementModel) TableName() string { return "inventory_movements" }

// AllModels lists every table managed by the store
func AllModels() []interface{} {
	return []interface{}{
		&RunModel{},
		&PlannedOrderModel{},
		&ProductionOrderModel{},
		&ProductionOperationModel{},
		&InventoryBalanceModel{},
		&InventoryReservationModel{},
		&InventoryMovementModel{},
	}
}

func toRunModel(run *entities.MRPRun) (*RunModel, error) {
	params, err := json.Marshal(run.Parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to encode run parameters: %w", err)
	}
	stats, err := json.Marshal(run.Statistics)
	if err != nil {
		return nil, fmt.Errorf("failed to encode run statistics: %w", err)
	}
	return &RunModel{
		ID:         run.ID,
		RunType:    run.Parameters.RunType,
		Status:     string(run.Status),
		Parameters: datatypes.JSON(params),
		Statistics: datatypes.JSON(stats),
		Error:      run.Error,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}, nil
}

func (m *RunModel) toEntity() (*entities.MRPRun, error) {
	run := &entities.MRPRun{
		ID:         m.ID,
		Status:     entities.RunStatus(m.Status),
		Error:      m.Error,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
	}
	if len(m.Parameters) > 0 {
		if err := json.Unmarshal(m.Parameters, &run.Parameters); err != nil {
			return nil, fmt.Errorf("failed to decode run parameters: %w", err)
		}
	}
	if len(m.Statistics) > 0 {
		if err := json.Unmarshal(m.Statistics, &run.Statistics); err != nil {
			return nil, fmt.Errorf("failed to decode run statistics: %w", err)
		}
	}
	return run, nil
}

func toPlannedOrderModel(o *entities.PlannedOrder) PlannedOrderModel {
	return PlannedOrderModel{
		ID:          o.ID,
		RunID:       o.RunID,
		ItemType:    string(o.Item.Type),
		ItemID:      o.Item.ID,
		OrderType:   o.OrderType.String(),
		Quantity:    o.Quantity,
		ReleaseDate: o.ReleaseDate,
		NeedDate:    o.NeedDate,
		Priority:    string(o.Priority),
		Status:      o.Status,
		SupplierID:  o.SupplierID,
		PeriodID:    o.PeriodID,
	}
}

func (m *PlannedOrderModel) toEntity() (*entities.PlannedOrder, error) {
	orderType, err := entities.ParseOrderType(m.OrderType)
	if err != nil {
		return nil, err
	}
	return &entities.PlannedOrder{
		ID:          m.ID,
		RunID:       m.RunID,
		Item:        entities.ItemRef{Type: entities.ItemType(m.ItemType), ID: m.ItemID},
		OrderType:   orderType,
		Quantity:    m.Quantity,
		ReleaseDate: m.ReleaseDate,
		NeedDate:    m.NeedDate,
		Priority:    entities.Priority(m.Priority),
		Status:      m.Status,
		SupplierID:  m.SupplierID,
		PeriodID:    m.PeriodID,
	}, nil
}

func toProductionOrderModel(o *entities.ProductionOrder) *ProductionOrderModel {
	return &ProductionOrderModel{
		ID:              o.ID,
		CustomerOrderID: o.CustomerOrderID,
		ItemType:        string(o.Item.Type),
		ItemID:          o.Item.ID,
		Quantity:        o.Quantity,
		Priority:        o.Priority,
		Status:          string(o.Status),
		DueDate:         o.DueDate,
		ScheduledStart:  o.ScheduledStart,
		ScheduledEnd:    o.ScheduledEnd,
		CreatedAt:       o.CreatedAt,
	}
}

func (m *ProductionOrderModel) toEntity() *entities.ProductionOrder {
	return &entities.ProductionOrder{
		ID:              m.ID,
		CustomerOrderID: m.CustomerOrderID,
		Item:            entities.ItemRef{Type: entities.ItemType(m.ItemType), ID: m.ItemID},
		Quantity:        m.Quantity,
		Priority:        m.Priority,
		Status:          entities.ProductionStatus(m.Status),
		DueDate:         m.DueDate,
		ScheduledStart:  m.ScheduledStart,
		ScheduledEnd:    m.ScheduledEnd,
		CreatedAt:       m.CreatedAt,
	}
}

func toOperationModel(op *entities.ProductionOperation) ProductionOperationModel {
	return ProductionOperationModel{
		ID:              op.ID,
		OrderID:         op.OrderID,
		Sequence:        op.Sequence,
		WorkCenterID:    op.WorkCenterID,
		ScheduledDay:    dayString(op.Day()),
		ScheduledStart:  op.ScheduledStart,
		ScheduledEnd:    op.ScheduledEnd,
		DurationMinutes: op.DurationMinutes,
	}
}

func (m *ProductionOperationModel) toEntity() *entities.ProductionOperation {
	day, err := time.Parse(time.DateOnly, m.ScheduledDay)
	if err != nil {
		day = entities.DateOf(m.ScheduledStart)
	}
	return &entities.ProductionOperation{
		ID:              m.ID,
		OrderID:         m.OrderID,
		Sequence:        m.Sequence,
		WorkCenterID:    m.WorkCenterID,
		ScheduledDay:    day,
		ScheduledStart:  m.ScheduledStart,
		ScheduledEnd:    m.ScheduledEnd,
		DurationMinutes: m.DurationMinutes,
	}
}

func dayString(t time.Time) string {
	return t.Format(time.DateOnly)
}
