package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
)

// RunRepository keeps MRP runs and their suggestions in memory
type RunRepository struct {
	mu            sync.RWMutex
	runs          map[uuid.UUID]entities.MRPRun
	order         []uuid.UUID
	plannedOrders map[uuid.UUID][]entities.PlannedOrder
}

// NewRunRepository creates a new in-memory run repository
func NewRunRepository() *RunRepository {
	return &RunRepository{
		runs:          make(map[uuid.UUID]entities.MRPRun),
		plannedOrders: make(map[uuid.UUID][]entities.PlannedOrder),
	}
}

// Verify interface compliance
var _ repositories.RunRepository = (*RunRepository)(nil)

func (r *RunRepository) CreateRun(ctx context.Context, run *entities.MRPRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.runs[run.ID]; exists {
		return fmt.Errorf("run %s already exists", run.ID)
	}
	r.runs[run.ID] = *run
	r.order = append(r.order, run.ID)
	return nil
}

func (r *RunRepository) UpdateRun(ctx context.Context, run *entities.MRPRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.runs[run.ID]; !exists {
		return fmt.Errorf("run %s: %w", run.ID, entities.ErrNotFound)
	}
	r.runs[run.ID] = *run
	return nil
}

func (r *RunRepository) GetRun(ctx context.Context, id uuid.UUID) (*entities.MRPRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, exists := r.runs[id]
	if !exists {
		return nil, fmt.Errorf("run %s: %w", id, entities.ErrNotFound)
	}
	return &run, nil
}

// LatestCompletedRun returns the most recently created completed run
func (r *RunRepository) LatestCompletedRun(ctx context.Context) (*entities.MRPRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.order) - 1; i >= 0; i-- {
		run := r.runs[r.order[i]]
		if run.Status == entities.RunCompleted {
			return &run, nil
		}
	}
	return nil, entities.ErrNoCompletedRun
}

func (r *RunRepository) SavePlannedOrders(ctx context.Context, orders []*entities.PlannedOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range orders {
		if _, exists := r.runs[o.RunID]; !exists {
			return fmt.Errorf("planned order %s references run %s: %w", o.ID, o.RunID, entities.ErrNotFound)
		}
		r.plannedOrders[o.RunID] = append(r.plannedOrders[o.RunID], *o)
	}
	return nil
}

func (r *RunRepository) PlannedOrders(ctx context.Context, runID uuid.UUID) ([]*entities.PlannedOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.plannedOrders[runID]
	out := make([]*entities.PlannedOrder, len(stored))
	for i := range stored {
		o := stored[i]
		out[i] = &o
	}
	return out, nil
}

// Snapshot implements Snapshotter
func (r *RunRepository) Snapshot() func() {
	r.mu.RLock()
	runs := make(map[uuid.UUID]entities.MRPRun, len(r.runs))
	for k, v := range r.runs {
		runs[k] = v
	}
	order := append([]uuid.UUID(nil), r.order...)
	planned := make(map[uuid.UUID][]entities.PlannedOrder, len(r.plannedOrders))
	for k, v := range r.plannedOrders {
		planned[k] = append([]entities.PlannedOrder(nil), v...)
	}
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.runs, r.order, r.plannedOrders = runs, order, planned
	}
}
