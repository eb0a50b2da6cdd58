// Package production turns customer orders into production orders, reserves
// their components and hands them to the capacity scheduler.
package production

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/application/dto"
	"github.com/vsinha/tpmrp/pkg/application/services/capacity"
	"github.com/vsinha/tpmrp/pkg/application/services/explosion"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
	"github.com/vsinha/tpmrp/pkg/infrastructure/events"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
	"github.com/vsinha/tpmrp/pkg/infrastructure/metrics"
)

// OrderScheduler places the operations of one order. WithLock lets the
// caller hold the scheduler's lock across its own transaction.
type OrderScheduler interface {
	WithLock(ctx context.Context, fn func(ctx context.Context) error) error
	ScheduleOrder(ctx context.Context, order *entities.ProductionOrder, ref time.Time, direction capacity.Direction) ([]*entities.ProductionOperation, error)
}

// CreateOptions controls what happens after the orders are created
type CreateOptions struct {
	Reserve       bool
	Schedule      bool
	Direction     capacity.Direction
	ReferenceDate time.Time
}

// Deps are the collaborators of the production service
type Deps struct {
	Items      repositories.ItemRepository
	BOMs       repositories.BOMRepository
	Demand     repositories.DemandRepository
	Inventory  repositories.InventoryRepository
	Production repositories.ProductionRepository
	Tx         repositories.TxRunner
	Scheduler  OrderScheduler
	Publisher  events.Publisher
	Metrics    *metrics.Recorder
	Logger     *logger.Logger
}

// Service manages production orders
type Service struct {
	items      repositories.ItemRepository
	demand     repositories.DemandRepository
	inventory  repositories.InventoryRepository
	production repositories.ProductionRepository
	tx         repositories.TxRunner
	scheduler  OrderScheduler
	exploder   *explosion.Engine
	publisher  events.Publisher
	metrics    *metrics.Recorder
	log        *logger.Logger
	now        func() time.Time
}

func NewService(d Deps) *Service {
	log := logger.OrNop(d.Logger)
	publisher := d.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		items:      d.Items,
		demand:     d.Demand,
		inventory:  d.Inventory,
		production: d.Production,
		tx:         d.Tx,
		scheduler:  d.Scheduler,
		exploder:   explosion.NewEngine(d.BOMs, log),
		publisher:  publisher,
		metrics:    d.Metrics,
		log:        log.With("service", "production"),
		now:        time.Now,
	}
}

// WithClock replaces the wall clock used for the default reference date
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateProductionOrders creates one planned production order per product
// line of the customer order, all in one transaction. Lines that cannot be
// produced are reported as issues. Reservation shortfalls and scheduling
// failures are reported per order; storage errors roll everything back.
func (s *Service) CreateProductionOrders(ctx context.Context, customerOrderID string, opts CreateOptions) (*dto.CreateOrdersResult, error) {
	lines, err := s.demand.CustomerOrderLines(ctx, customerOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer order %s: %w", customerOrderID, err)
	}

	ref := opts.ReferenceDate
	if ref.IsZero() {
		ref = s.now()
	}
	if opts.Schedule && opts.Direction == "" {
		opts.Direction = capacity.Forward
	}

	log := s.log.With("customer_order_id", customerOrderID)
	var (
		result *dto.CreateOrdersResult
		evts   []events.Event
	)

	create := func(ctx context.Context) error {
		result = &dto.CreateOrdersResult{CustomerOrderID: customerOrderID}
		evts = nil
		if opts.Schedule {
			result.Schedule = &dto.ScheduleResult{Direction: string(opts.Direction)}
		}

		for _, line := range lines {
			lineRef := fmt.Sprintf("%s/%d", line.OrderID, line.LineNo)
			order, issue, err := s.createOrder(ctx, line, lineRef, ref)
			if err != nil {
				return err
			}
			if issue != nil {
				result.Issues = append(result.Issues, *issue)
				continue
			}
			result.Orders = append(result.Orders, order)
			evts = append(evts, events.NewProductionOrderCreatedEvent(order))

			if opts.Reserve {
				reservations, issues, err := s.reserve(ctx, order, ref)
				if err != nil {
					return err
				}
				result.Reservations = append(result.Reservations, reservations...)
				result.Issues = append(result.Issues, issues...)
				for _, r := range reservations {
					if r.Reserved.IsPositive() {
						evts = append(evts, events.NewInventoryReservedEvent(order.ID, r.Item, r.Reserved, lineRef))
					}
				}
			}

			if opts.Schedule {
				ops, err := s.schedule(ctx, order, ref, opts.Direction, result.Schedule)
				if err != nil {
					return err
				}
				if len(ops) > 0 {
					evts = append(evts, events.NewProductionOrderScheduledEvent(order.ID, string(opts.Direction), ops))
				}
			}
		}
		return nil
	}

	if opts.Schedule {
		// scheduler lock first, then the transaction, as the batch scheduler does
		err = s.scheduler.WithLock(ctx, func(ctx context.Context) error {
			return s.tx.InTx(ctx, create)
		})
	} else {
		err = s.tx.InTx(ctx, create)
	}
	if err != nil {
		log.Error("production order creation rolled back", "error", err)
		return nil, err
	}

	for _, issue := range result.Issues {
		s.metrics.RecordIssue(string(issue.Kind), issue.Code)
		log.Warn("production issue", "code", issue.Code, "message", issue.Message)
	}
	s.publish(log, evts...)

	log.Info("production orders created",
		"orders", len(result.Orders),
		"reservations", len(result.Reservations),
		"issues", len(result.Issues),
	)
	return result, nil
}

func (s *Service) createOrder(ctx context.Context, line *entities.CustomerOrderLine, lineRef string, ref time.Time) (*entities.ProductionOrder, *entities.PlanningIssue, error) {
	if !line.Quantity.IsPositive() {
		return nil, &entities.PlanningIssue{
			Kind:      entities.IssueValidation,
			Code:      entities.CodeNonPositiveQuantity,
			Item:      line.Item,
			Reference: lineRef,
			Message:   fmt.Sprintf("line %s has quantity %s", lineRef, line.Quantity),
		}, nil
	}

	item, err := s.items.GetItem(ctx, line.Item)
	if errors.Is(err, entities.ErrNotFound) {
		return nil, &entities.PlanningIssue{
			Kind:      entities.IssueDataGap,
			Code:      entities.CodeMissingItem,
			Item:      line.Item,
			Reference: lineRef,
			Message:   fmt.Sprintf("line %s references unknown item %s", lineRef, line.Item),
		}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get item %s: %w", line.Item, err)
	}

	switch item.(type) {
	case *entities.Product:
	case *entities.Material:
		return nil, &entities.PlanningIssue{
			Kind:      entities.IssueValidation,
			Code:      entities.CodeNotProducible,
			Item:      line.Item,
			Reference: lineRef,
			Message:   fmt.Sprintf("line %s is for material %s, which is purchased", lineRef, line.Item),
		}, nil
	default:
		return nil, nil, fmt.Errorf("unhandled item variant %T", item)
	}

	order, err := entities.NewProductionOrder(line.OrderID, line.Item, line.Quantity, priorityRank(ref, line.DueDate), line.DueDate)
	if err != nil {
		return nil, nil, err
	}
	if err := s.production.CreateOrder(ctx, order); err != nil {
		return nil, nil, fmt.Errorf("failed to create production order for %s: %w", lineRef, err)
	}
	return order, nil, nil
}

// reserve reserves what is available of each component, up to the requirement
func (s *Service) reserve(ctx context.Context, order *entities.ProductionOrder, asOf time.Time) ([]dto.Reservation, []entities.PlanningIssue, error) {
	exp, err := s.exploder.Explode(ctx, order.Item, order.Quantity, asOf)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to explode %s: %w", order.Item, err)
	}
	issues := append([]entities.PlanningIssue(nil), exp.Issues...)

	var reservations []dto.Reservation
	for _, req := range exp.Requirements {
		available, err := s.inventory.GetAvailableQuantity(ctx, req.Component)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get available quantity for %s: %w", req.Component, err)
		}
		qty := decimal.Min(req.TotalRequired, decimal.Max(available, decimal.Zero))
		if qty.IsPositive() {
			if err := s.inventory.Reserve(ctx, req.Component, qty, order.ID.String()); err != nil {
				return nil, nil, fmt.Errorf("failed to reserve %s for order %s: %w", req.Component, order.ID, err)
			}
		}
		reservations = append(reservations, dto.Reservation{
			OrderID:   order.ID,
			Item:      req.Component,
			Requested: req.TotalRequired,
			Reserved:  qty,
		})
		if qty.LessThan(req.TotalRequired) {
			issues = append(issues, entities.PlanningIssue{
				Kind:      entities.IssueDataGap,
				Code:      entities.CodeInsufficientStock,
				Item:      req.Component,
				Reference: order.ID.String(),
				Message: fmt.Sprintf("order %s needs %s of %s, only %s reserved",
					order.ID, req.TotalRequired, req.Component, qty),
			})
		}
	}
	return reservations, issues, nil
}

// schedule places one order, forward from ref or backward from its due date.
// A scheduling failure is recorded in out and returns no operations.
func (s *Service) schedule(ctx context.Context, order *entities.ProductionOrder, ref time.Time, direction capacity.Direction, out *dto.ScheduleResult) ([]*entities.ProductionOperation, error) {
	if direction == capacity.Backward {
		ref = order.DueDate
	}
	ops, err := s.scheduler.ScheduleOrder(ctx, order, ref, direction)
	if capacity.IsSchedulingFailure(err) {
		out.Failures = append(out.Failures, entities.IssueFromSchedulingError(order.ID.String(), order.Item, err))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	start, end := ops[0].ScheduledStart, ops[len(ops)-1].ScheduledEnd
	out.ScheduledOrders = append(out.ScheduledOrders, dto.ScheduledOrder{
		OrderID:    order.ID,
		Item:       order.Item,
		Start:      start,
		End:        end,
		Operations: ops,
	})
	if out.StartDate == nil || start.Before(*out.StartDate) {
		out.StartDate = &start
	}
	if out.EndDate == nil || end.After(*out.EndDate) {
		out.EndDate = &end
	}
	return ops, nil
}

// UpdateStatus moves an order along its lifecycle
func (s *Service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status entities.ProductionStatus) (*entities.ProductionOrder, error) {
	var (
		order *entities.ProductionOrder
		from  entities.ProductionStatus
	)
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.production.GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("failed to get production order %s: %w", orderID, err)
		}
		from = order.Status
		if err := order.TransitionTo(status); err != nil {
			return err
		}
		return s.production.UpdateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publish(s.log, events.NewProductionStatusChangedEvent(order.ID, from, status))
	s.log.Info("production order status changed", "order_id", orderID.String(), "from", string(from), "to", string(status))
	return order, nil
}

// priorityRank maps days until due onto 1 (urgent), 2 (high) or 3 (normal)
func priorityRank(ref, due time.Time) int {
	switch entities.PriorityFor(entities.DaysBetween(ref, due)) {
	case entities.PriorityUrgent:
		return 1
	case entities.PriorityHigh:
		return 2
	default:
		return 3
	}
}

func (s *Service) publish(log *logger.Logger, evts ...events.Event) {
	if len(evts) == 0 {
		return
	}
	if err := s.publisher.Publish(evts...); err != nil {
		log.Warn("failed to publish production events", "error", err)
	}
}
