// Package capacity places production-order operations onto work-center
// calendars, first fit, one operation per work center per day.
package capacity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/application/dto"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
	"github.com/vsinha/tpmrp/pkg/infrastructure/events"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
	"github.com/vsinha/tpmrp/pkg/infrastructure/metrics"
)

// Direction selects forward or backward scheduling
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// ParseDirection parses forward or backward
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Forward, Backward:
		return d, nil
	default:
		return "", fmt.Errorf("unknown scheduling direction: %q", s)
	}
}

// DefaultMaxSearchDays bounds the day-by-day search for a free slot
const DefaultMaxSearchDays = 365

// Config holds scheduler limits
type Config struct {
	MaxSearchDays int
}

// Scheduler allocates routing operations to work-center days. Search and
// commit run under one lock so concurrent callers in this process never
// claim the same day.
type Scheduler struct {
	production  repositories.ProductionRepository
	routings    repositories.RoutingRepository
	workCenters repositories.WorkCenterRepository
	tx          repositories.TxRunner
	publisher   events.Publisher
	metrics     *metrics.Recorder
	log         *logger.Logger
	cfg         Config

	mu sync.Mutex
}

// NewScheduler creates a capacity scheduler
func NewScheduler(
	production repositories.ProductionRepository,
	routings repositories.RoutingRepository,
	workCenters repositories.WorkCenterRepository,
	tx repositories.TxRunner,
	publisher events.Publisher,
	rec *metrics.Recorder,
	log *logger.Logger,
	cfg Config,
) *Scheduler {
	if cfg.MaxSearchDays <= 0 {
		cfg.MaxSearchDays = DefaultMaxSearchDays
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Scheduler{
		production:  production,
		routings:    routings,
		workCenters: workCenters,
		tx:          tx,
		publisher:   publisher,
		metrics:     rec,
		log:         logger.OrNop(log).With("service", "capacity"),
		cfg:         cfg,
	}
}

type lockKey struct{}

// WithLock runs fn holding the scheduler's search-and-commit lock. Calls made
// with the returned context, including ScheduleOrder, do not lock again, so a
// caller can hold the lock across its own transaction.
func (s *Scheduler) WithLock(ctx context.Context, fn func(ctx context.Context) error) error {
	if held, _ := ctx.Value(lockKey{}).(*Scheduler); held == s {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(context.WithValue(ctx, lockKey{}, s))
}

// ScheduleOrder schedules and persists the operations of one order from ref.
// Forward starts at ref and walks the routing in sequence order; backward
// ends at ref and walks it in reverse. Operations are returned by sequence.
// Inside a caller's WithLock the caller owns publishing the scheduled event.
// Completed and cancelled orders are rejected with ErrOrderClosed.
func (s *Scheduler) ScheduleOrder(ctx context.Context, order *entities.ProductionOrder, ref time.Time, direction Direction) ([]*entities.ProductionOperation, error) {
	if order.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s is %s", entities.ErrOrderClosed, order.ID, order.Status)
	}
	held, _ := ctx.Value(lockKey{}).(*Scheduler)
	nested := held == s

	var ops []*entities.ProductionOperation
	err := s.WithLock(ctx, func(ctx context.Context) error {
		return s.tx.InTx(ctx, func(ctx context.Context) error {
			var err error
			ops, err = s.scheduleAndSave(ctx, order, ref, direction)
			return err
		})
	})
	if err != nil {
		s.metrics.RecordOrder(string(direction), "failed")
		return nil, err
	}

	s.metrics.RecordOrder(string(direction), "scheduled")
	if !nested {
		s.publish(events.NewProductionOrderScheduledEvent(order.ID, string(direction), ops))
	}
	return ops, nil
}

// ForwardSchedule schedules orders one after another starting at start
func (s *Scheduler) ForwardSchedule(ctx context.Context, orderIDs []uuid.UUID, start time.Time) (*dto.ScheduleResult, error) {
	return s.scheduleBatch(ctx, orderIDs, start, Forward)
}

// BackwardSchedule schedules orders one before another ending at end
func (s *Scheduler) BackwardSchedule(ctx context.Context, orderIDs []uuid.UUID, end time.Time) (*dto.ScheduleResult, error) {
	return s.scheduleBatch(ctx, orderIDs, end, Backward)
}

// scheduleBatch runs every order in one transaction
func (s *Scheduler) scheduleBatch(ctx context.Context, orderIDs []uuid.UUID, ref time.Time, direction Direction) (*dto.ScheduleResult, error) {
	result := &dto.ScheduleResult{Direction: string(direction)}
	var scheduled []events.Event

	err := s.WithLock(ctx, func(ctx context.Context) error {
		return s.tx.InTx(ctx, func(ctx context.Context) error {
			return s.batch(ctx, orderIDs, ref, direction, result, &scheduled)
		})
	})
	if err != nil {
		s.log.Error("scheduling batch rolled back", "direction", string(direction), "error", err)
		return nil, err
	}

	for _, so := range result.ScheduledOrders {
		start, end := so.Start, so.End
		if result.StartDate == nil || start.Before(*result.StartDate) {
			result.StartDate = &start
		}
		if result.EndDate == nil || end.After(*result.EndDate) {
			result.EndDate = &end
		}
		s.metrics.RecordOrder(string(direction), "scheduled")
	}
	for range result.Failures {
		s.metrics.RecordOrder(string(direction), "failed")
	}
	s.publish(scheduled...)

	s.log.Info("scheduling batch complete",
		"direction", string(direction),
		"scheduled", len(result.ScheduledOrders),
		"failed", len(result.Failures),
	)
	return result, nil
}

// batch schedules orders one after another. A routing, work center or
// capacity problem fails only that order; the reference carries across
// successful orders only.
func (s *Scheduler) batch(ctx context.Context, orderIDs []uuid.UUID, ref time.Time, direction Direction, result *dto.ScheduleResult, scheduled *[]events.Event) error {
	cursor := ref

	for _, id := range orderIDs {
		order, err := s.production.GetOrder(ctx, id)
		if errors.Is(err, entities.ErrNotFound) {
			result.Failures = append(result.Failures, entities.PlanningIssue{
				Kind:      entities.IssueDataGap,
				Code:      entities.CodeOrderNotFound,
				Reference: id.String(),
				Message:   fmt.Sprintf("production order %s not found", id),
			})
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to get production order %s: %w", id, err)
		}
		if order.Status.Terminal() {
			result.Failures = append(result.Failures, entities.PlanningIssue{
				Kind:      entities.IssueValidation,
				Code:      entities.CodeOrderClosed,
				Item:      order.Item,
				Reference: id.String(),
				Message:   fmt.Sprintf("production order %s is %s", id, order.Status),
			})
			continue
		}

		ops, err := s.scheduleAndSave(ctx, order, cursor, direction)
		if IsSchedulingFailure(err) {
			issue := entities.IssueFromSchedulingError(id.String(), order.Item, err)
			s.log.Warn("order not scheduled", "order_id", id.String(), "reason", err.Error())
			s.metrics.RecordIssue(string(issue.Kind), issue.Code)
			result.Failures = append(result.Failures, issue)
			continue
		}
		if err != nil {
			return err
		}

		first, last := ops[0], ops[len(ops)-1]
		if direction == Forward {
			cursor = last.ScheduledEnd
		} else {
			cursor = first.ScheduledStart
		}
		result.ScheduledOrders = append(result.ScheduledOrders, dto.ScheduledOrder{
			OrderID:    order.ID,
			Item:       order.Item,
			Start:      first.ScheduledStart,
			End:        last.ScheduledEnd,
			Operations: ops,
		})
		*scheduled = append(*scheduled, events.NewProductionOrderScheduledEvent(order.ID, string(direction), ops))
	}
	return nil
}

// scheduleAndSave plans every operation of the order, then replaces any
// operations it already had and records its scheduled window. The order's
// own existing slots do not block the search. Nothing is written on failure.
func (s *Scheduler) scheduleAndSave(ctx context.Context, order *entities.ProductionOrder, ref time.Time, direction Direction) ([]*entities.ProductionOperation, error) {
	previous, err := s.production.OperationsForOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get operations of order %s: %w", order.ID, err)
	}
	own := make(occupancy)
	for _, op := range previous {
		own.add(op.WorkCenterID, op.Day())
	}

	ops, err := s.plan(ctx, order, ref, direction, own)
	if err != nil {
		return nil, err
	}
	if len(previous) > 0 {
		if err := s.production.DeleteOperations(ctx, order.ID); err != nil {
			return nil, fmt.Errorf("failed to replace operations of order %s: %w", order.ID, err)
		}
	}
	if err := s.production.SaveOperations(ctx, ops); err != nil {
		return nil, fmt.Errorf("failed to save operations for order %s: %w", order.ID, err)
	}

	start, end := ops[0].ScheduledStart, ops[len(ops)-1].ScheduledEnd
	order.ScheduledStart = &start
	order.ScheduledEnd = &end
	if err := s.production.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", order.ID, err)
	}
	for _, op := range ops {
		s.metrics.RecordOperation(op.WorkCenterID, string(direction))
	}
	return ops, nil
}

func (s *Scheduler) plan(ctx context.Context, order *entities.ProductionOrder, ref time.Time, direction Direction, own occupancy) ([]*entities.ProductionOperation, error) {
	routing, err := s.routings.GetRouting(ctx, order.Item)
	if err != nil {
		return nil, fmt.Errorf("failed to get routing for %s: %w", order.Item, err)
	}
	if len(routing) == 0 {
		return nil, fmt.Errorf("%w for %s", entities.ErrNoRouting, order.Item)
	}

	claimed := make(occupancy)
	ops := make([]*entities.ProductionOperation, len(routing))
	cursor := ref

	for n := range routing {
		i := n
		if direction == Backward {
			i = len(routing) - 1 - n
		}
		step := routing[i]

		minutes := step.DurationMinutes(order.Quantity)
		duration := time.Duration(minutes.Mul(decimal.NewFromInt(int64(time.Minute))).IntPart())

		slot, day, err := s.findSlot(ctx, step.WorkCenterID, cursor, duration, direction, claimed, own)
		if err != nil {
			return nil, err
		}
		claimed.add(step.WorkCenterID, day)

		ops[i] = &entities.ProductionOperation{
			ID:              uuid.New(),
			OrderID:         order.ID,
			Sequence:        step.Sequence,
			WorkCenterID:    step.WorkCenterID,
			ScheduledDay:    day,
			ScheduledStart:  slot.Start,
			ScheduledEnd:    slot.End,
			DurationMinutes: minutes.InexactFloat64(),
		}
		if direction == Forward {
			cursor = slot.End
		} else {
			cursor = slot.Start
		}
	}
	return ops, nil
}

// findSlot walks whole days from ref until it finds a working day with no
// operation on the work center and room to start (forward) or end (backward)
// within that day's shift relative to ref. Durations may run past the shift.
// It returns the slot and the shift day it occupies.
func (s *Scheduler) findSlot(
	ctx context.Context,
	workCenterID string,
	ref time.Time,
	duration time.Duration,
	direction Direction,
	claimed, own occupancy,
) (entities.Shift, time.Time, error) {
	if _, err := s.workCenters.GetWorkCenter(ctx, workCenterID); err != nil {
		return entities.Shift{}, time.Time{}, err
	}

	step := 1
	if direction == Backward {
		step = -1
	}
	day := entities.DateOf(ref)

	for searched := 0; searched < s.cfg.MaxSearchDays; searched++ {
		shift, working, err := s.workCenters.ShiftFor(ctx, workCenterID, day)
		if err != nil {
			return entities.Shift{}, time.Time{}, fmt.Errorf("failed to get shift of %s on %s: %w", workCenterID, day.Format(time.DateOnly), err)
		}

		if working {
			busy, err := s.occupied(ctx, workCenterID, day, claimed, own)
			if err != nil {
				return entities.Shift{}, time.Time{}, err
			}
			if !busy {
				if slot, ok := fit(shift, ref, duration, direction); ok {
					return slot, day, nil
				}
			} else {
				s.metrics.RecordRetry(workCenterID)
			}
		}
		day = day.AddDate(0, 0, step)
	}

	return entities.Shift{}, time.Time{}, &entities.CapacityError{
		WorkCenterID: workCenterID,
		From:         entities.DateOf(ref),
		Days:         s.cfg.MaxSearchDays,
	}
}

// fit places the operation in the shift without crossing ref
func fit(shift entities.Shift, ref time.Time, duration time.Duration, direction Direction) (entities.Shift, bool) {
	if direction == Forward {
		start := shift.Start
		if start.Before(ref) {
			start = ref
		}
		if !start.Before(shift.End) {
			return entities.Shift{}, false
		}
		return entities.Shift{Start: start, End: start.Add(duration)}, true
	}

	end := shift.End
	if end.After(ref) {
		end = ref
	}
	if !end.After(shift.Start) {
		return entities.Shift{}, false
	}
	return entities.Shift{Start: end.Add(-duration), End: end}, true
}

// occupied reports whether another operation holds the day. Operations the
// order is about to replace (own) do not count.
func (s *Scheduler) occupied(ctx context.Context, workCenterID string, day time.Time, claimed, own occupancy) (bool, error) {
	if claimed.count(workCenterID, day) > 0 {
		return true, nil
	}
	n, err := s.production.CountOperationsOn(ctx, workCenterID, day)
	if err != nil {
		return false, fmt.Errorf("failed to count operations on %s: %w", workCenterID, err)
	}
	return n-own.count(workCenterID, day) > 0, nil
}

func (s *Scheduler) publish(evts ...events.Event) {
	if len(evts) == 0 {
		return
	}
	if err := s.publisher.Publish(evts...); err != nil {
		s.log.Warn("failed to publish scheduling events", "error", err)
	}
}

// IsSchedulingFailure reports whether err fails a single order rather than the batch
func IsSchedulingFailure(err error) bool {
	return errors.Is(err, entities.ErrNoRouting) ||
		errors.Is(err, entities.ErrNoWorkCenter) ||
		errors.Is(err, entities.ErrCapacityExhausted) ||
		errors.Is(err, entities.ErrOrderClosed)
}

// occupancy counts operations per work-center day, keyed by calendar date
type occupancy map[string]map[string]int

func (o occupancy) add(workCenterID string, day time.Time) {
	if o[workCenterID] == nil {
		o[workCenterID] = make(map[string]int)
	}
	o[workCenterID][day.Format(time.DateOnly)]++
}

func (o occupancy) count(workCenterID string, day time.Time) int {
	return o[workCenterID][day.Format(time.DateOnly)]
}
