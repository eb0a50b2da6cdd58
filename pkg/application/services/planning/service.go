// Package planning runs time-phased MRP: demand collection, explosion,
// netting, lot sizing and release dating inside one transaction per run.
package planning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vsinha/tpmrp/pkg/application/dto"
	"github.com/vsinha/tpmrp/pkg/application/services/demand"
	"github.com/vsinha/tpmrp/pkg/application/services/explosion"
	"github.com/vsinha/tpmrp/pkg/application/services/netting"
	"github.com/vsinha/tpmrp/pkg/application/services/release"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
	domainservices "github.com/vsinha/tpmrp/pkg/domain/services"
	"github.com/vsinha/tpmrp/pkg/infrastructure/events"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
	"github.com/vsinha/tpmrp/pkg/infrastructure/metrics"
)

// Deps are the collaborators of the planning service
type Deps struct {
	Items     repositories.ItemRepository
	BOMs      repositories.BOMRepository
	Demand    repositories.DemandRepository
	Inventory repositories.InventoryRepository
	Calendar  repositories.PlanningCalendar
	Runs      repositories.RunRepository
	Tx        repositories.TxRunner
	Publisher events.Publisher
	Metrics   *metrics.Recorder
	Logger    *logger.Logger
}

// Service orchestrates MRP runs
type Service struct {
	items     repositories.ItemRepository
	boms      repositories.BOMRepository
	calendar  repositories.PlanningCalendar
	runs      repositories.RunRepository
	tx        repositories.TxRunner
	publisher events.Publisher
	metrics   *metrics.Recorder
	log       *logger.Logger

	aggregator *demand.Aggregator
	netting    *netting.Engine
	release    *release.Scheduler
	validator  *domainservices.BOMValidator

	now func() time.Time
}

// NewService wires the planning pipeline
func NewService(d Deps) *Service {
	log := logger.OrNop(d.Logger)
	publisher := d.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	exploder := explosion.NewEngine(d.BOMs, log)
	return &Service{
		items:      d.Items,
		boms:       d.BOMs,
		calendar:   d.Calendar,
		runs:       d.Runs,
		tx:         d.Tx,
		publisher:  publisher,
		metrics:    d.Metrics,
		log:        log.With("service", "planning"),
		aggregator: demand.NewAggregator(d.Demand, d.Items, d.Inventory, exploder, log),
		netting:    netting.NewEngine(d.Items, d.Inventory, log),
		release:    release.NewScheduler(d.Calendar, log),
		validator:  domainservices.NewBOMValidator(),
		now:        time.Now,
	}
}

// WithClock replaces the wall clock, used for run timestamps and the default as-of date
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type plan struct {
	items       []dto.ItemPlan
	suggestions []*entities.PlannedOrder
	issues      []entities.PlanningIssue
	stats       entities.RunStatistics
}

// RunTimePhasedMRP executes one regenerative run. The run record is created
// before the transaction so a failure leaves it behind as failed; everything
// computed inside the transaction is rolled back. A failed run returns both
// the result (with the failed run) and the error.
func (s *Service) RunTimePhasedMRP(ctx context.Context, opts entities.RunOptions) (*dto.RunResult, error) {
	opts = opts.Normalize(s.now())
	run := entities.NewMRPRun(opts, s.now())
	if err := s.runs.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	log := s.log.With("run_id", run.ID.String())
	log.Info("mrp run started",
		"as_of", opts.AsOf.Format(time.DateOnly),
		"horizon_days", opts.PlanningHorizon,
		"user", opts.User,
	)
	s.publish(log, events.NewRunStartedEvent(run))

	// completion is staged on a copy so a rollback leaves run still running
	var (
		p         *plan
		completed entities.MRPRun
	)
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.plan(ctx, run, opts)
		if err != nil {
			return err
		}
		if err := s.runs.SavePlannedOrders(ctx, p.suggestions); err != nil {
			return fmt.Errorf("failed to save planned orders: %w", err)
		}
		completed = *run
		if err := completed.Complete(p.stats, s.now()); err != nil {
			return err
		}
		if err := s.runs.UpdateRun(ctx, &completed); err != nil {
			return fmt.Errorf("failed to update run %s: %w", run.ID, err)
		}
		return nil
	})

	if err != nil {
		return s.fail(ctx, log, run, err)
	}
	*run = completed

	result := &dto.RunResult{
		Run:         run,
		Items:       p.items,
		Suggestions: p.suggestions,
		Issues:      p.issues,
		Summary:     Summarize(run, p.suggestions),
	}

	s.metrics.RecordRun(opts.RunType, string(run.Status), time.Duration(run.Statistics.ElapsedMs)*time.Millisecond)
	evts := []events.Event{events.NewRunCompletedEvent(run)}
	for _, o := range p.suggestions {
		s.metrics.RecordSuggestion(o.OrderType.String(), string(o.Priority))
		evts = append(evts, events.NewSuggestionPlannedEvent(o))
	}
	for _, issue := range p.issues {
		s.metrics.RecordIssue(string(issue.Kind), issue.Code)
		evts = append(evts, events.NewIssueReportedEvent(events.RunStream(run.ID), issue))
	}
	s.publish(log, evts...)

	log.Info("mrp run completed",
		"items", run.Statistics.ItemsPlanned,
		"suggestions", run.Statistics.SuggestionCount,
		"shortages", run.Statistics.ShortageCount,
		"issues", run.Statistics.IssueCount,
		"elapsed_ms", run.Statistics.ElapsedMs,
	)
	return result, nil
}

func (s *Service) fail(ctx context.Context, log *logger.Logger, run *entities.MRPRun, cause error) (*dto.RunResult, error) {
	if err := run.Fail(cause.Error(), s.now()); err != nil {
		return nil, err
	}
	if err := s.runs.UpdateRun(ctx, run); err != nil {
		log.Error("failed to record run failure", "error", err)
	}
	s.metrics.RecordRun(run.Parameters.RunType, string(run.Status), time.Duration(run.Statistics.ElapsedMs)*time.Millisecond)
	s.publish(log, events.NewRunFailedEvent(run))
	log.Error("mrp run failed", "error", cause, "elapsed_ms", run.Statistics.ElapsedMs)

	return &dto.RunResult{Run: run, Summary: Summarize(run, nil)}, fmt.Errorf("mrp run %s failed: %w", run.ID, cause)
}

func (s *Service) plan(ctx context.Context, run *entities.MRPRun, opts entities.RunOptions) (*plan, error) {
	periods, err := s.calendar.Periods(ctx, opts.AsOf, opts.HorizonEnd())
	if err != nil {
		return nil, fmt.Errorf("failed to get planning periods: %w", err)
	}
	if err := entities.ValidatePeriods(periods); err != nil {
		return nil, err
	}

	p := &plan{}

	warnings, err := s.validateBOMs(ctx)
	if err != nil {
		return nil, err
	}
	p.issues = append(p.issues, warnings...)

	collection, err := s.aggregator.Collect(ctx, demand.CollectOptions{
		AsOf:               opts.AsOf,
		HorizonDays:        opts.PlanningHorizon,
		IncludeOrders:      opts.IncludeOrders,
		IncludeMPS:         opts.IncludeMPS,
		IncludeSafetyStock: opts.IncludeSafetyStock,
	})
	if err != nil {
		return nil, err
	}
	p.issues = append(p.issues, collection.Issues...)
	p.stats.DemandCount = collection.DemandCount

	for _, ref := range collection.Items() {
		res, err := s.netting.Net(ctx, ref, collection.ByItem[ref], periods)
		if errors.Is(err, entities.ErrNotFound) {
			// components missing from the item master are a data gap
			p.issues = append(p.issues, entities.PlanningIssue{
				Kind:    entities.IssueDataGap,
				Code:    entities.CodeMissingItem,
				Item:    ref,
				Message: fmt.Sprintf("item %s has demand but no item master, not planned", ref),
			})
			continue
		}
		if err != nil {
			return nil, err
		}
		p.issues = append(p.issues, res.Issues...)

		orders, err := s.release.Suggest(ctx, run.ID, res.Item, res.Rows, opts.AsOf)
		if err != nil {
			return nil, err
		}

		p.items = append(p.items, dto.ItemPlan{
			Item:        ref,
			Description: res.Item.Name(),
			OnHand:      res.OnHand,
			Rows:        res.Rows,
			Suggestions: orders,
		})
		p.suggestions = append(p.suggestions, orders...)
		p.stats.ShortageCount += res.Shortages()

		for _, o := range orders {
			switch o.OrderType {
			case entities.PurchaseOrder:
				p.stats.PurchaseSuggestions++
			case entities.ProductionOrderType:
				p.stats.ProductionSuggestions++
			}
		}
	}

	p.stats.ItemsPlanned = len(p.items)
	p.stats.SuggestionCount = len(p.suggestions)
	p.stats.IssueCount = len(p.issues)

	for _, issue := range p.issues {
		s.log.Warn("planning issue", "run_id", run.ID.String(), "kind", string(issue.Kind), "code", issue.Code, "message", issue.Message)
	}
	return p, nil
}

// validateBOMs reports bill defects as warnings; they never fail the run
func (s *Service) validateBOMs(ctx context.Context) ([]entities.PlanningIssue, error) {
	lines, err := s.boms.GetAllBOMLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get BOM lines: %w", err)
	}
	items, err := s.items.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return s.validator.ValidateBOM(lines, items).Issues, nil
}

// GetTimePhasedReport recomputes one item with the options of the latest
// completed run. Nothing is persisted.
func (s *Service) GetTimePhasedReport(ctx context.Context, ref entities.ItemRef) (*dto.TimePhasedReport, error) {
	run, err := s.runs.LatestCompletedRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest completed run: %w", err)
	}
	item, err := s.items.GetItem(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get item %s: %w", ref, err)
	}

	opts := run.Parameters
	periods, err := s.calendar.Periods(ctx, opts.AsOf, opts.HorizonEnd())
	if err != nil {
		return nil, fmt.Errorf("failed to get planning periods: %w", err)
	}

	collection, err := s.aggregator.Collect(ctx, demand.CollectOptions{
		AsOf:               opts.AsOf,
		HorizonDays:        opts.PlanningHorizon,
		IncludeOrders:      opts.IncludeOrders,
		IncludeMPS:         opts.IncludeMPS,
		IncludeSafetyStock: opts.IncludeSafetyStock,
	})
	if err != nil {
		return nil, err
	}

	res, err := s.netting.Net(ctx, ref, collection.ByItem[ref], periods)
	if err != nil {
		return nil, err
	}
	for i := range res.Rows {
		if !res.Rows[i].PlannedOrderQty.IsPositive() {
			continue
		}
		date, err := s.release.ReleaseDate(ctx, item, res.Rows[i].Period.Start, opts.AsOf)
		if err != nil {
			return nil, err
		}
		res.Rows[i].ReleaseDate = &date
	}

	persisted, err := s.runs.PlannedOrders(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get planned orders of run %s: %w", run.ID, err)
	}
	var suggestions []*entities.PlannedOrder
	for _, o := range persisted {
		if o.Item == ref {
			suggestions = append(suggestions, o)
		}
	}

	issues := res.Issues
	for _, issue := range collection.Issues {
		if issue.Item == ref {
			issues = append(issues, issue)
		}
	}

	return &dto.TimePhasedReport{
		RunID:       run.ID,
		Item:        ref,
		Description: item.Name(),
		AsOf:        opts.AsOf,
		OnHand:      res.OnHand,
		Rows:        res.Rows,
		Suggestions: suggestions,
		Issues:      issues,
	}, nil
}

// Summarize condenses a run and its suggestions
func Summarize(run *entities.MRPRun, suggestions []*entities.PlannedOrder) dto.RunSummary {
	return dto.RunSummary{
		RunID:          run.ID,
		Status:         run.Status,
		CanFulfill:     run.Status == entities.RunCompleted && run.Statistics.ShortageCount == 0,
		Statistics:     run.Statistics,
		SupplierGroups: release.GroupBySupplier(suggestions),
		Error:          run.Error,
	}
}

func (s *Service) publish(log *logger.Logger, evts ...events.Event) {
	if err := s.publisher.Publish(evts...); err != nil {
		log.Warn("failed to publish run events", "error", err)
	}
}
