package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
)

// Calendar is a Monday-to-Friday working calendar with holidays and fixed-length periods
type Calendar struct {
	periodDays int
	holidays   map[time.Time]bool
	periods    []entities.PlanningPeriod
}

// NewCalendar creates a calendar generating periods of periodDays
func NewCalendar(periodDays int) *Calendar {
	if periodDays <= 0 {
		periodDays = 7
	}
	return &Calendar{
		periodDays: periodDays,
		holidays:   make(map[time.Time]bool),
	}
}

// Verify interface compliance
var _ repositories.PlanningCalendar = (*Calendar)(nil)

// AddHoliday marks a day as non-working
func (c *Calendar) AddHoliday(day time.Time) {
	c.holidays[dayKey(day)] = true
}

// SetPeriods replaces generated periods with an explicit table
func (c *Calendar) SetPeriods(periods []entities.PlanningPeriod) {
	c.periods = periods
}

// IsWorkingDay reports whether the day is a weekday and not a holiday
func (c *Calendar) IsWorkingDay(day time.Time) bool {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.holidays[dayKey(day)]
}

// Periods returns the explicit periods overlapping [from, to], or generates them
func (c *Calendar) Periods(ctx context.Context, from, to time.Time) ([]entities.PlanningPeriod, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end %s before start %s", entities.ErrInvalidPeriods,
			to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	if c.periods == nil {
		return entities.BuildPeriods(from, to, c.periodDays), nil
	}
	var out []entities.PlanningPeriod
	for _, p := range c.periods {
		if entities.DateOf(p.End).Before(entities.DateOf(from)) || entities.DateOf(p.Start).After(entities.DateOf(to)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// WorkingDate moves date by days working days, skipping weekends and holidays
func (c *Calendar) WorkingDate(ctx context.Context, date time.Time, days int) (time.Time, error) {
	d := entities.DateOf(date)
	step := 1
	if days < 0 {
		step = -1
		days = -days
	}
	for days > 0 {
		d = d.AddDate(0, 0, step)
		if c.IsWorkingDay(d) {
			days--
		}
	}
	return d, nil
}

func dayKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
