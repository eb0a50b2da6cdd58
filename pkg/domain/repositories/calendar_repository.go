package repositories

//go:generate mockgen -source=calendar_repository.go -destination=mocks/calendar_repository.go -package=mock_repositories

import (
	"context"
	"time"

	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

// PlanningCalendar supplies planning buckets and working-day arithmetic
type PlanningCalendar interface {
	// Periods returns the planning periods covering [from, to], sorted ascending
	Periods(ctx context.Context, from, to time.Time) ([]entities.PlanningPeriod, error)
	// WorkingDate moves date by the given number of working days (negative moves back)
	WorkingDate(ctx context.Context, date time.Time, days int) (time.Time, error)
}
