// Package release dates planned orders and turns time-phased rows into
// purchase and production suggestions.
package release

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vsinha/tpmrp/pkg/application/dto"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
)

// Scheduler offsets need dates by lead time on the working calendar
type Scheduler struct {
	calendar repositories.PlanningCalendar
	log      *logger.Logger
}

// NewScheduler creates an order release scheduler
func NewScheduler(calendar repositories.PlanningCalendar, log *logger.Logger) *Scheduler {
	return &Scheduler{
		calendar: calendar,
		log:      logger.OrNop(log).With("service", "release"),
	}
}

// ReleaseDate moves needDate back by the item's lead time in working days.
// The result never precedes asOf.
func (s *Scheduler) ReleaseDate(ctx context.Context, item entities.Item, needDate, asOf time.Time) (time.Time, error) {
	need := entities.DateOf(needDate)
	release := need
	if lead := item.Planning().LeadTimeDays; lead > 0 {
		var err error
		release, err = s.calendar.WorkingDate(ctx, need, -lead)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to offset %s by %d working days: %w", need.Format(time.DateOnly), lead, err)
		}
	}
	if floor := entities.DateOf(asOf); release.Before(floor) {
		release = floor
	}
	return release, nil
}

// Suggest emits one planned order per row with a positive planned quantity,
// needed at the period start. Each such row gets its release date filled in.
func (s *Scheduler) Suggest(
	ctx context.Context,
	runID uuid.UUID,
	item entities.Item,
	rows []entities.TimePhasedRow,
	asOf time.Time,
) ([]*entities.PlannedOrder, error) {
	orderType := entities.OrderTypeFor(item)
	var supplier string
	if m, ok := item.(*entities.Material); ok {
		supplier = m.DefaultSupplierID
	}

	var orders []*entities.PlannedOrder
	for i := range rows {
		row := &rows[i]
		if !row.PlannedOrderQty.IsPositive() {
			continue
		}

		need := entities.DateOf(row.Period.Start)
		release, err := s.ReleaseDate(ctx, item, need, asOf)
		if err != nil {
			return nil, err
		}
		row.ReleaseDate = &release

		priority := entities.PriorityFor(entities.DaysBetween(asOf, need))
		order, err := entities.NewPlannedOrder(runID, item.Ref(), orderType, row.PlannedOrderQty, release, need, priority)
		if err != nil {
			return nil, fmt.Errorf("failed to create planned order for %s: %w", item.Ref(), err)
		}
		order.SupplierID = supplier
		order.PeriodID = row.Period.ID
		orders = append(orders, order)
	}

	if len(orders) > 0 {
		s.log.Debug("suggestions created", "item", item.Ref().String(), "count", len(orders))
	}
	return orders, nil
}

// GroupBySupplier groups purchase suggestions by supplier, sorted by supplier
// id. Orders without a supplier land in a group with an empty id.
func GroupBySupplier(orders []*entities.PlannedOrder) []dto.SupplierGroup {
	index := make(map[string]int)
	var groups []dto.SupplierGroup
	for _, o := range orders {
		if o.OrderType != entities.PurchaseOrder {
			continue
		}
		i, ok := index[o.SupplierID]
		if !ok {
			i = len(groups)
			index[o.SupplierID] = i
			groups = append(groups, dto.SupplierGroup{SupplierID: o.SupplierID})
		}
		groups[i].Orders = append(groups[i].Orders, o)
		groups[i].TotalQuantity = groups[i].TotalQuantity.Add(o.Quantity)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].SupplierID < groups[j].SupplierID })
	return groups
}
