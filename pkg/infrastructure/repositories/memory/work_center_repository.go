package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
)

// WorkCenterRepository provides in-memory work centers on a shared calendar
type WorkCenterRepository struct {
	centers  map[string]*entities.WorkCenter
	calendar *Calendar
	closed   map[string]map[time.Time]bool
}

// NewWorkCenterRepository creates a work center store whose shifts follow calendar
func NewWorkCenterRepository(calendar *Calendar) *WorkCenterRepository {
	return &WorkCenterRepository{
		centers:  make(map[string]*entities.WorkCenter),
		calendar: calendar,
		closed:   make(map[string]map[time.Time]bool),
	}
}

// Verify interface compliance
var _ repositories.WorkCenterRepository = (*WorkCenterRepository)(nil)

// AddWorkCenter registers a work center
func (r *WorkCenterRepository) AddWorkCenter(wc *entities.WorkCenter) error {
	if _, exists := r.centers[wc.ID]; exists {
		return fmt.Errorf("work center %s already exists", wc.ID)
	}
	r.centers[wc.ID] = wc
	return nil
}

// CloseDay marks a single day as non-working for one work center
func (r *WorkCenterRepository) CloseDay(workCenterID string, day time.Time) {
	if r.closed[workCenterID] == nil {
		r.closed[workCenterID] = make(map[time.Time]bool)
	}
	r.closed[workCenterID][dayKey(day)] = true
}

// GetWorkCenter returns an active work center
func (r *WorkCenterRepository) GetWorkCenter(ctx context.Context, id string) (*entities.WorkCenter, error) {
	wc, exists := r.centers[id]
	if !exists || !wc.Active {
		return nil, fmt.Errorf("%w: %s", entities.ErrNoWorkCenter, id)
	}
	return wc, nil
}

// ShiftFor returns the default shift on working days
func (r *WorkCenterRepository) ShiftFor(ctx context.Context, workCenterID string, day time.Time) (entities.Shift, bool, error) {
	wc, err := r.GetWorkCenter(ctx, workCenterID)
	if err != nil {
		return entities.Shift{}, false, err
	}
	if r.closed[workCenterID][dayKey(day)] {
		return entities.Shift{}, false, nil
	}
	if r.calendar != nil && !r.calendar.IsWorkingDay(day) {
		return entities.Shift{}, false, nil
	}
	return wc.ShiftOn(day), true, nil
}
