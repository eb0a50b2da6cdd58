// Package explosion expands a product quantity into its direct component
// requirements using the bill of materials effective on a date.
package explosion

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
)

// Explosion is the single-level expansion of one parent quantity
type Explosion struct {
	Parent       entities.ItemRef                `json:"parent"`
	Quantity     decimal.Decimal                 `json:"quantity"`
	BOMID        string                          `json:"bom_id,omitempty"`
	Requirements []entities.ComponentRequirement `json:"requirements"`
	Issues       []entities.PlanningIssue        `json:"issues,omitempty"`
}

// Engine performs single-level BOM explosion
type Engine struct {
	boms repositories.BOMRepository
	log  *logger.Logger
}

// NewEngine creates an explosion engine over a BOM repository
func NewEngine(boms repositories.BOMRepository, log *logger.Logger) *Engine {
	return &Engine{
		boms: boms,
		log:  logger.OrNop(log).With("service", "explosion"),
	}
}

// Explode computes qty_per × quantity × (1 + scrap/100) for every line of the
// parent's active bill. A missing bill yields an empty result with a no_bom
// issue; lines with a non-positive qty per are skipped and reported.
func (e *Engine) Explode(ctx context.Context, parent entities.ItemRef, quantity decimal.Decimal, asOf time.Time) (*Explosion, error) {
	result := &Explosion{Parent: parent, Quantity: quantity}

	bom, err := e.boms.GetActiveBOM(ctx, parent, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to get active BOM for %s: %w", parent, err)
	}
	if bom == nil {
		e.log.Debug("no active BOM", "item", parent.String(), "as_of", asOf.Format(time.DateOnly))
		result.Issues = append(result.Issues, entities.PlanningIssue{
			Kind:    entities.IssueDataGap,
			Code:    entities.CodeNoBOM,
			Item:    parent,
			Message: fmt.Sprintf("no active BOM for %s on %s", parent, asOf.Format(time.DateOnly)),
		})
		return result, nil
	}
	result.BOMID = bom.ID

	lines, err := e.boms.GetBOMDetails(ctx, bom.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get BOM details for %s: %w", bom.ID, err)
	}

	for _, line := range lines {
		if !line.QtyPer.IsPositive() {
			result.Issues = append(result.Issues, entities.PlanningIssue{
				Kind:      entities.IssueValidation,
				Code:      entities.CodeNonPositiveQtyPer,
				Item:      line.Component,
				Reference: bom.ID,
				Message:   fmt.Sprintf("BOM %s line %s has qty per %s, skipped", bom.ID, line.Component, line.QtyPer),
			})
			continue
		}
		result.Requirements = append(result.Requirements, entities.ComponentRequirement{
			Component:     line.Component,
			QtyPer:        line.QtyPer,
			ScrapPct:      line.ScrapPct,
			TotalRequired: line.TotalRequired(quantity),
		})
	}

	return result, nil
}
