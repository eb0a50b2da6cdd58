package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderType represents the type of planned order
type OrderType int

const (
	PurchaseOrder OrderType = iota
	ProductionOrderType
)

// String method for OrderType enum
func (o OrderType) String() string {
	switch o {
	case PurchaseOrder:
		return "purchase"
	case ProductionOrderType:
		return "production"
	default:
		return "unknown"
	}
}

// ParseOrderType is the inverse of OrderType.String
func ParseOrderType(s string) (OrderType, error) {
	switch s {
	case "purchase":
		return PurchaseOrder, nil
	case "production":
		return ProductionOrderType, nil
	default:
		return 0, fmt.Errorf("unknown order type: %q", s)
	}
}

// MarshalText renders the order type by name
func (o OrderType) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses a named order type
func (o *OrderType) UnmarshalText(b []byte) error {
	parsed, err := ParseOrderType(string(b))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Priority ranks suggestions by how soon they are needed
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// PriorityFor tags a suggestion by days until its need date
func PriorityFor(daysUntilNeed int) Priority {
	switch {
	case daysUntilNeed <= 3:
		return PriorityUrgent
	case daysUntilNeed <= 7:
		return PriorityHigh
	default:
		return PriorityNormal
	}
}

// SuggestionStatus is always suggested for persisted MRP output
const SuggestionStatus = "suggested"

// PlannedOrder represents a planned purchase or production suggestion
type PlannedOrder struct {
	ID          uuid.UUID       `json:"id"`
	RunID       uuid.UUID       `json:"run_id"`
	Item        ItemRef         `json:"item"`
	OrderType   OrderType       `json:"order_type"`
	Quantity    decimal.Decimal `json:"quantity"`
	ReleaseDate time.Time       `json:"release_date"`
	NeedDate    time.Time       `json:"need_date"`
	Priority    Priority        `json:"priority"`
	Status      string          `json:"status"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	PeriodID    string          `json:"period_id"`
}

// NewPlannedOrder creates a validated PlannedOrder
func NewPlannedOrder(
	runID uuid.UUID,
	item ItemRef,
	orderType OrderType,
	quantity decimal.Decimal,
	releaseDate, needDate time.Time,
	priority Priority,
) (*PlannedOrder, error) {
	if item.ID == "" {
		return nil, fmt.Errorf("item cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("quantity must be positive, got %s", quantity)
	}
	if releaseDate.After(needDate) && !DateOf(releaseDate).Equal(DateOf(needDate)) {
		return nil, fmt.Errorf("release date %s cannot be after need date %s",
			releaseDate.Format(time.DateOnly), needDate.Format(time.DateOnly))
	}

	return &PlannedOrder{
		ID:          uuid.New(),
		RunID:       runID,
		Item:        item,
		OrderType:   orderType,
		Quantity:    quantity,
		ReleaseDate: releaseDate,
		NeedDate:    needDate,
		Priority:    priority,
		Status:      SuggestionStatus,
	}, nil
}
