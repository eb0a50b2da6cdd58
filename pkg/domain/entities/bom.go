package entities

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BOM is a versioned bill of materials header for a product
type BOM struct {
	ID            string
	Parent        ItemRef
	Version       int
	EffectiveFrom time.Time
	ExpiryDate    *time.Time // nil = open ended
	Active        bool
}

// EffectiveOn reports whether the bill is active and its window contains the date
func (b *BOM) EffectiveOn(date time.Time) bool {
	if !b.Active {
		return false
	}
	day := DateOf(date)
	if !b.EffectiveFrom.IsZero() && day.Before(DateOf(b.EffectiveFrom)) {
		return false
	}
	if b.ExpiryDate != nil && day.After(DateOf(*b.ExpiryDate)) {
		return false
	}
	return true
}

// SelectActiveBOM picks the currently-effective bill, highest version wins ties
func SelectActiveBOM(boms []*BOM, asOf time.Time) *BOM {
	var candidates []*BOM
	for _, b := range boms {
		if b.EffectiveOn(asOf) {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Version > candidates[j].Version
	})
	return candidates[0]
}

// BOMLine represents a single line in a Bill of Materials
type BOMLine struct {
	BOMID     string
	Parent    ItemRef
	Component ItemRef
	QtyPer    decimal.Decimal
	ScrapPct  decimal.Decimal
}

// NewBOMLine creates a validated BOMLine
func NewBOMLine(bomID string, parent, component ItemRef, qtyPer, scrapPct decimal.Decimal) (*BOMLine, error) {
	if parent.ID == "" {
		return nil, fmt.Errorf("parent item cannot be empty")
	}
	if component.ID == "" {
		return nil, fmt.Errorf("component item cannot be empty")
	}
	if parent == component {
		return nil, fmt.Errorf("parent and component cannot be the same: %s", parent)
	}
	if scrapPct.IsNegative() {
		return nil, fmt.Errorf("scrap percentage cannot be negative, got %s", scrapPct)
	}

	// A non-positive qty-per is accepted here and reported as a data-quality
	// warning by the explosion engine and the BOM validator.
	return &BOMLine{
		BOMID:     bomID,
		Parent:    parent,
		Component: component,
		QtyPer:    qtyPer,
		ScrapPct:  scrapPct,
	}, nil
}

// TotalRequired computes qty_per × quantity × (1 + scrap/100)
func (l *BOMLine) TotalRequired(quantity decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(l.ScrapPct.Div(hundred))
	return l.QtyPer.Mul(quantity).Mul(factor)
}

// ComponentRequirement is one scrap-adjusted line of an explosion
type ComponentRequirement struct {
	Component     ItemRef         `json:"component"`
	QtyPer        decimal.Decimal `json:"qty_per"`
	ScrapPct      decimal.Decimal `json:"scrap_pct"`
	TotalRequired decimal.Decimal `json:"total_required"`
}
