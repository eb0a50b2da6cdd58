package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType represents the kind of inventory mutation
type MovementType int

const (
	MovementReserve MovementType = iota
	MovementIssue
	MovementTransfer
)

// String method for MovementType enum
func (m MovementType) String() string {
	switch m {
	case MovementReserve:
		return "reserve"
	case MovementIssue:
		return "issue"
	case MovementTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// InventoryMovement records one reserve, issue or transfer against the ledger
type InventoryMovement struct {
	Item         ItemRef
	Type         MovementType
	Quantity     decimal.Decimal
	Reference    string
	FromLocation string
	ToLocation   string
	At           time.Time
}

// NewInventoryMovement creates a validated InventoryMovement
func NewInventoryMovement(item ItemRef, movementType MovementType, quantity decimal.Decimal, reference string, at time.Time) (*InventoryMovement, error) {
	if item.ID == "" {
		return nil, fmt.Errorf("item cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("quantity must be positive, got %s", quantity)
	}
	return &InventoryMovement{
		Item:      item,
		Type:      movementType,
		Quantity:  quantity,
		Reference: reference,
		At:        at,
	}, nil
}
