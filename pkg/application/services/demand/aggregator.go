// Package demand gathers customer orders, the master production schedule and
// safety-stock shortfalls into per-item demand for one planning run.
package demand

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/application/services/explosion"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
)

// Exploder expands a product quantity into component requirements
type Exploder interface {
	Explode(ctx context.Context, parent entities.ItemRef, quantity decimal.Decimal, asOf time.Time) (*explosion.Explosion, error)
}

// CollectOptions selects the demand sources of a run
type CollectOptions struct {
	AsOf               time.Time
	HorizonDays        int
	IncludeOrders      bool
	IncludeMPS         bool
	IncludeSafetyStock bool
}

// Collection is the demand of one run keyed by item
type Collection struct {
	ByItem      map[entities.ItemRef][]entities.Demand
	Issues      []entities.PlanningIssue
	DemandCount int
}

// Items returns every item with demand in a stable order
func (c *Collection) Items() []entities.ItemRef {
	refs := make([]entities.ItemRef, 0, len(c.ByItem))
	for ref := range c.ByItem {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Type != refs[j].Type {
			return refs[i].Type > refs[j].Type // products before materials
		}
		return refs[i].ID < refs[j].ID
	})
	return refs
}

func (c *Collection) add(d entities.Demand) {
	c.ByItem[d.Item] = append(c.ByItem[d.Item], d)
	c.DemandCount++
}

// Aggregator builds the demand collection of a run
type Aggregator struct {
	demand    repositories.DemandRepository
	items     repositories.ItemRepository
	inventory repositories.InventoryRepository
	exploder  Exploder
	log       *logger.Logger
}

// NewAggregator creates a demand aggregator
func NewAggregator(
	demand repositories.DemandRepository,
	items repositories.ItemRepository,
	inventory repositories.InventoryRepository,
	exploder Exploder,
	log *logger.Logger,
) *Aggregator {
	return &Aggregator{
		demand:    demand,
		items:     items,
		inventory: inventory,
		exploder:  exploder,
		log:       logger.OrNop(log).With("service", "demand"),
	}
}

// Collect gathers demand due within [AsOf, AsOf+HorizonDays]. Product demand
// is exploded one level; component need dates are offset back by the
// product's lead time in calendar days.
func (a *Aggregator) Collect(ctx context.Context, opts CollectOptions) (*Collection, error) {
	asOf := entities.DateOf(opts.AsOf)
	to := asOf.AddDate(0, 0, opts.HorizonDays)
	c := &Collection{ByItem: make(map[entities.ItemRef][]entities.Demand)}

	if opts.IncludeOrders {
		lines, err := a.demand.OpenOrderLines(ctx, asOf, to)
		if err != nil {
			return nil, fmt.Errorf("failed to load open order lines: %w", err)
		}
		for _, line := range lines {
			ref := fmt.Sprintf("%s/%d", line.OrderID, line.LineNo)
			if err := a.addTopLevel(ctx, c, line.Item, line.Quantity, line.DueDate, entities.SourceOrder, ref, asOf); err != nil {
				return nil, err
			}
		}
	}

	if opts.IncludeMPS {
		lines, err := a.demand.MPSLines(ctx, asOf, to)
		if err != nil {
			return nil, fmt.Errorf("failed to load MPS lines: %w", err)
		}
		for _, line := range lines {
			if !line.Plannable() {
				continue
			}
			if err := a.addTopLevel(ctx, c, line.Item, line.Quantity, line.Date, entities.SourceMPS, line.ID, asOf); err != nil {
				return nil, err
			}
		}
	}

	if opts.IncludeSafetyStock {
		if err := a.addSafetyStock(ctx, c, asOf); err != nil {
			return nil, err
		}
	}

	a.log.Debug("demand collected",
		"demands", c.DemandCount,
		"items", len(c.ByItem),
		"issues", len(c.Issues),
	)
	return c, nil
}

func (a *Aggregator) addTopLevel(
	ctx context.Context,
	c *Collection,
	ref entities.ItemRef,
	qty decimal.Decimal,
	needDate time.Time,
	source entities.DemandSource,
	reference string,
	asOf time.Time,
) error {
	if !qty.IsPositive() {
		c.Issues = append(c.Issues, entities.PlanningIssue{
			Kind:      entities.IssueValidation,
			Code:      entities.CodeNonPositiveQuantity,
			Item:      ref,
			Reference: reference,
			Message:   fmt.Sprintf("%s demand %s for %s has quantity %s, skipped", source, reference, ref, qty),
		})
		return nil
	}

	item, err := a.items.GetItem(ctx, ref)
	if errors.Is(err, entities.ErrNotFound) {
		c.Issues = append(c.Issues, entities.PlanningIssue{
			Kind:      entities.IssueDataGap,
			Code:      entities.CodeMissingItem,
			Item:      ref,
			Reference: reference,
			Message:   fmt.Sprintf("%s demand %s references unknown item %s", source, reference, ref),
		})
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get item %s: %w", ref, err)
	}

	c.add(entities.Demand{
		Item:      ref,
		Quantity:  qty,
		NeedDate:  entities.DateOf(needDate),
		Source:    source,
		Reference: reference,
	})

	switch product := item.(type) {
	case *entities.Material:
		return nil
	case *entities.Product:
		return a.explode(ctx, c, product, qty, needDate, reference, asOf)
	default:
		return fmt.Errorf("unhandled item variant %T", item)
	}
}

func (a *Aggregator) explode(
	ctx context.Context,
	c *Collection,
	product *entities.Product,
	qty decimal.Decimal,
	needDate time.Time,
	reference string,
	asOf time.Time,
) error {
	exp, err := a.exploder.Explode(ctx, product.Ref(), qty, asOf)
	if err != nil {
		return fmt.Errorf("failed to explode %s: %w", product.Ref(), err)
	}
	c.Issues = append(c.Issues, exp.Issues...)

	componentNeed := entities.DateOf(needDate).AddDate(0, 0, -product.LeadTimeDays)
	for _, req := range exp.Requirements {
		c.add(entities.Demand{
			Item:      req.Component,
			Quantity:  req.TotalRequired,
			NeedDate:  componentNeed,
			Source:    entities.SourceBOM,
			Reference: product.ID + ":" + reference,
		})
	}
	return nil
}

func (a *Aggregator) addSafetyStock(ctx context.Context, c *Collection, asOf time.Time) error {
	items, err := a.items.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}
	for _, item := range items {
		attrs := item.Planning()
		if !attrs.SafetyStock.IsPositive() {
			continue
		}
		available, err := a.inventory.GetAvailableQuantity(ctx, item.Ref())
		if err != nil {
			return fmt.Errorf("failed to get available quantity for %s: %w", item.Ref(), err)
		}
		if !available.LessThan(attrs.SafetyStock) {
			continue
		}
		c.add(entities.Demand{
			Item:      item.Ref(),
			Quantity:  attrs.SafetyStock.Sub(available),
			NeedDate:  asOf.AddDate(0, 0, attrs.LeadTimeDays),
			Source:    entities.SourceSafetyStock,
			Reference: "safety_stock",
		})
	}
	return nil
}
