package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RoutingOperation is one step of an item's manufacturing routing
type RoutingOperation struct {
	Item              ItemRef
	Sequence          int
	WorkCenterID      string
	SetupMinutes      decimal.Decimal
	RunSecondsPerUnit decimal.Decimal
	TeardownMinutes   decimal.Decimal
}

var sixty = decimal.NewFromInt(60)

// DurationMinutes is setup + run_time_per_unit × quantity / 60 + teardown
func (op RoutingOperation) DurationMinutes(quantity decimal.Decimal) decimal.Decimal {
	return op.SetupMinutes.
		Add(op.RunSecondsPerUnit.Mul(quantity).Div(sixty)).
		Add(op.TeardownMinutes)
}

// WorkCenter is a capacity resource with a default daily shift
type WorkCenter struct {
	ID               string
	Name             string
	ShiftStartMinute int // minutes after midnight
	ShiftEndMinute   int
	Active           bool
}

// NewWorkCenter creates a validated WorkCenter
func NewWorkCenter(id, name string, shiftStartMinute, shiftEndMinute int) (*WorkCenter, error) {
	if id == "" {
		return nil, fmt.Errorf("work center id cannot be empty")
	}
	if shiftStartMinute < 0 || shiftEndMinute > 24*60 || shiftEndMinute <= shiftStartMinute {
		return nil, fmt.Errorf("invalid shift %d-%d for work center %s", shiftStartMinute, shiftEndMinute, id)
	}
	return &WorkCenter{
		ID:               id,
		Name:             name,
		ShiftStartMinute: shiftStartMinute,
		ShiftEndMinute:   shiftEndMinute,
		Active:           true,
	}, nil
}

// ShiftOn returns the default shift for a day
func (w *WorkCenter) ShiftOn(day time.Time) Shift {
	d := DateOf(day)
	return Shift{
		Start: d.Add(time.Duration(w.ShiftStartMinute) * time.Minute),
		End:   d.Add(time.Duration(w.ShiftEndMinute) * time.Minute),
	}
}

// Shift is one working window on a work-center calendar
type Shift struct {
	Start time.Time
	End   time.Time
}
