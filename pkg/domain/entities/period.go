package entities

import (
	"fmt"
	"time"
)

// DateOf truncates a timestamp to midnight in its own location
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the whole calendar days from a to b
func DaysBetween(a, b time.Time) int {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	ua := time.Date(ya, ma, da, 0, 0, 0, 0, time.UTC)
	ub := time.Date(yb, mb, db, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// PlanningPeriod is a calendar bucket with an inclusive end date
type PlanningPeriod struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether the date falls inside [Start, End]
func (p PlanningPeriod) Contains(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(DateOf(p.Start)) && !d.After(DateOf(p.End))
}

// ValidatePeriods checks that periods are sorted ascending and contiguous
func ValidatePeriods(periods []PlanningPeriod) error {
	for i, p := range periods {
		if DateOf(p.End).Before(DateOf(p.Start)) {
			return fmt.Errorf("%w: period %s ends before it starts", ErrInvalidPeriods, p.ID)
		}
		if i == 0 {
			continue
		}
		prev := periods[i-1]
		want := DateOf(prev.End).AddDate(0, 0, 1)
		if !DateOf(p.Start).Equal(want) {
			return fmt.Errorf("%w: period %s starts %s, expected %s", ErrInvalidPeriods, p.ID,
				p.Start.Format(time.DateOnly), want.Format(time.DateOnly))
		}
	}
	return nil
}

// FindPeriod returns the index of the period containing the date, or -1
func FindPeriod(periods []PlanningPeriod, date time.Time) int {
	for i, p := range periods {
		if p.Contains(date) {
			return i
		}
	}
	return -1
}

// BuildPeriods splits [from, to] into contiguous buckets of lengthDays
func BuildPeriods(from, to time.Time, lengthDays int) []PlanningPeriod {
	if lengthDays <= 0 {
		lengthDays = 7
	}
	var periods []PlanningPeriod
	start := DateOf(from)
	last := DateOf(to)
	for n := 1; !start.After(last); n++ {
		end := start.AddDate(0, 0, lengthDays-1)
		if end.After(last) {
			end = last
		}
		periods = append(periods, PlanningPeriod{
			ID:    fmt.Sprintf("P%03d", n),
			Start: start,
			End:   end,
		})
		start = end.AddDate(0, 0, 1)
	}
	return periods
}
