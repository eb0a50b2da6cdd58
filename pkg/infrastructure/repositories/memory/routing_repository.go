package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
)

// RoutingRepository provides in-memory routings keyed by item
type RoutingRepository struct {
	routings map[entities.ItemRef][]*entities.RoutingOperation
}

// NewRoutingRepository creates a new in-memory routing repository
func NewRoutingRepository() *RoutingRepository {
	return &RoutingRepository{routings: make(map[entities.ItemRef][]*entities.RoutingOperation)}
}

// Verify interface compliance
var _ repositories.RoutingRepository = (*RoutingRepository)(nil)

// AddOperation appends a routing step, keeping steps sorted by sequence
func (r *RoutingRepository) AddOperation(op *entities.RoutingOperation) error {
	for _, existing := range r.routings[op.Item] {
		if existing.Sequence == op.Sequence {
			return fmt.Errorf("routing for %s already has sequence %d", op.Item, op.Sequence)
		}
	}
	ops := append(r.routings[op.Item], op)
	sort.Slice(ops, func(i, j int) bool { return ops[i].Sequence < ops[j].Sequence })
	r.routings[op.Item] = ops
	return nil
}

// GetRouting returns the steps of an item sorted by sequence; empty when none
func (r *RoutingRepository) GetRouting(ctx context.Context, item entities.ItemRef) ([]*entities.RoutingOperation, error) {
	return append([]*entities.RoutingOperation(nil), r.routings[item]...), nil
}
