package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
)

// ProductionRepository keeps production orders and scheduled operations in memory
type ProductionRepository struct {
	mu         sync.RWMutex
	orders     map[uuid.UUID]entities.ProductionOrder
	operations []entities.ProductionOperation
}

// NewProductionRepository creates a new in-memory production repository
func NewProductionRepository() *ProductionRepository {
	return &ProductionRepository{orders: make(map[uuid.UUID]entities.ProductionOrder)}
}

// Verify interface compliance
var _ repositories.ProductionRepository = (*ProductionRepository)(nil)

func (r *ProductionRepository) CreateOrder(ctx context.Context, order *entities.ProductionOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("production order %s already exists", order.ID)
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *ProductionRepository) GetOrder(ctx context.Context, id uuid.UUID) (*entities.ProductionOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, exists := r.orders[id]
	if !exists {
		return nil, fmt.Errorf("production order %s: %w", id, entities.ErrNotFound)
	}
	return &order, nil
}

func (r *ProductionRepository) UpdateOrder(ctx context.Context, order *entities.ProductionOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; !exists {
		return fmt.Errorf("production order %s: %w", order.ID, entities.ErrNotFound)
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *ProductionRepository) SaveOperations(ctx context.Context, ops []*entities.ProductionOperation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, op := range ops {
		if _, exists := r.orders[op.OrderID]; !exists {
			return fmt.Errorf("operation references production order %s: %w", op.OrderID, entities.ErrNotFound)
		}
		r.operations = append(r.operations, *op)
	}
	return nil
}

// OperationsForOrder returns an order's operations sorted by sequence
func (r *ProductionRepository) OperationsForOrder(ctx context.Context, orderID uuid.UUID) ([]*entities.ProductionOperation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entities.ProductionOperation
	for i := range r.operations {
		if r.operations[i].OrderID == orderID {
			op := r.operations[i]
			out = append(out, &op)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *ProductionRepository) DeleteOperations(ctx context.Context, orderID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := make([]entities.ProductionOperation, 0, len(r.operations))
	for _, op := range r.operations {
		if op.OrderID != orderID {
			kept = append(kept, op)
		}
	}
	r.operations = kept
	return nil
}

func (r *ProductionRepository) CountOperationsOn(ctx context.Context, workCenterID string, day time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	target := entities.DateOf(day)
	count := 0
	for _, op := range r.operations {
		if op.WorkCenterID == workCenterID && op.Day().Equal(target) {
			count++
		}
	}
	return count, nil
}

// Snapshot implements Snapshotter
func (r *ProductionRepository) Snapshot() func() {
	r.mu.RLock()
	orders := make(map[uuid.UUID]entities.ProductionOrder, len(r.orders))
	for k, v := range r.orders {
		orders[k] = v
	}
	ops := append([]entities.ProductionOperation(nil), r.operations...)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.orders = orders
		r.operations = ops
	}
}
