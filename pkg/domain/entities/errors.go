package entities

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound                = errors.New("not found")
	ErrInvalidPeriods          = errors.New("invalid planning periods")
	ErrInvalidRunTransition    = errors.New("invalid run transition")
	ErrInvalidStatusTransition = errors.New("invalid production status transition")
	ErrNoRouting               = errors.New("no routing")
	ErrNoWorkCenter            = errors.New("no work center")
	ErrCapacityExhausted       = errors.New("capacity exhausted")
	ErrNoCompletedRun          = errors.New("no completed run")
	ErrInsufficientInventory   = errors.New("insufficient available inventory")
	ErrOrderClosed             = errors.New("production order is closed")
)

// CapacityError names the work center that had no free day within the search window
type CapacityError struct {
	WorkCenterID string
	From         time.Time
	Days         int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("no free slot on work center %s within %d days of %s",
		e.WorkCenterID, e.Days, e.From.Format(time.DateOnly))
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExhausted }
