// Package netting nets bucketed gross demand against on-hand stock and safety
// stock for one item across chronological planning periods.
package netting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/application/services/lotsizing"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
)

// Result is the time-phased plan of one item
type Result struct {
	Item   entities.Item
	OnHand decimal.Decimal
	Rows   []entities.TimePhasedRow
	Issues []entities.PlanningIssue
}

// Shortages counts periods whose demand exceeds the incoming on-hand
func (r *Result) Shortages() int {
	n := 0
	for _, row := range r.Rows {
		if row.Short() {
			n++
		}
	}
	return n
}

// Engine computes time-phased rows. It holds no state between calls.
type Engine struct {
	items     repositories.ItemRepository
	inventory repositories.InventoryRepository
	log       *logger.Logger
}

// NewEngine creates a netting engine
func NewEngine(items repositories.ItemRepository, inventory repositories.InventoryRepository, log *logger.Logger) *Engine {
	return &Engine{
		items:     items,
		inventory: inventory,
		log:       logger.OrNop(log).With("service", "netting"),
	}
}

// Net buckets the item's demand by period and walks the periods in order:
//
//	projected = onHandIn - demand
//	if projected < safety: planned = lotsize(safety - projected + demand); projected += planned
//
// The reported net requirement is max(0, demand - onHandIn). Demand outside
// every period is dropped and reported.
func (e *Engine) Net(ctx context.Context, ref entities.ItemRef, demands []entities.Demand, periods []entities.PlanningPeriod) (*Result, error) {
	if err := entities.ValidatePeriods(periods); err != nil {
		return nil, err
	}

	item, err := e.items.GetItem(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get item %s: %w", ref, err)
	}
	onHand, err := e.inventory.GetAvailableQuantity(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get available quantity for %s: %w", ref, err)
	}

	result := &Result{Item: item, OnHand: onHand}

	buckets := make([]decimal.Decimal, len(periods))
	for _, d := range demands {
		idx := entities.FindPeriod(periods, d.NeedDate)
		if idx < 0 {
			result.Issues = append(result.Issues, entities.PlanningIssue{
				Kind:      entities.IssueValidation,
				Code:      entities.CodeDemandOutsidePeriods,
				Item:      ref,
				Reference: d.Reference,
				Message: fmt.Sprintf("%s demand of %s for %s on %s falls outside the planning periods",
					d.Source, d.Quantity, ref, d.NeedDate.Format(time.DateOnly)),
			})
			continue
		}
		buckets[idx] = buckets[idx].Add(d.Quantity)
	}

	attrs := item.Planning()
	projected := onHand
	result.Rows = make([]entities.TimePhasedRow, len(periods))
	for i, period := range periods {
		demand := buckets[i]
		onHandIn := projected
		projected = onHandIn.Sub(demand)

		planned := decimal.Zero
		if projected.LessThan(attrs.SafetyStock) {
			net := attrs.SafetyStock.Sub(projected).Add(demand)
			planned = lotsizing.Size(net, attrs)
			projected = projected.Add(planned)
		}

		result.Rows[i] = entities.TimePhasedRow{
			Item:               ref,
			Period:             period,
			GrossRequirement:   demand,
			OnHandIn:           onHandIn,
			ProjectedAvailable: projected,
			NetRequirement:     decimal.Max(decimal.Zero, demand.Sub(onHandIn)),
			PlannedOrderQty:    planned,
			PlannedReceipt:     planned,
		}
	}

	if len(result.Issues) > 0 {
		e.log.Warn("demand outside planning periods", "item", ref.String(), "dropped", len(result.Issues))
	}
	return result, nil
}
