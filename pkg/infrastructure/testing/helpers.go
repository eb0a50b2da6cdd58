package testing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/infrastructure/repositories/memory"
)

// Qty is a shorthand for whole-unit decimals in test data
func Qty(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// Date builds a UTC calendar date
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Material builds a lot-for-lot material
func Material(id string, leadDays int, supplierID string) *entities.Material {
	return &entities.Material{
		ID:                id,
		Description:       id,
		UnitOfMeasure:     "EA",
		DefaultSupplierID: supplierID,
		PlanningAttributes: entities.PlanningAttributes{
			LeadTimeDays: leadDays,
			LotSizeRule:  entities.LotForLot,
		},
	}
}

// Product builds a lot-for-lot product
func Product(id string, leadDays int) *entities.Product {
	return &entities.Product{
		ID:            id,
		Description:   id,
		UnitOfMeasure: "EA",
		PlanningAttributes: entities.PlanningAttributes{
			LeadTimeDays: leadDays,
			LotSizeRule:  entities.LotForLot,
		},
	}
}

// Component is one line handed to MustAddBOM
type Component struct {
	Item     entities.ItemRef
	QtyPer   decimal.Decimal
	ScrapPct decimal.Decimal
}

// NewStores creates empty in-memory stores with weekly periods
func NewStores() *memory.Stores {
	return memory.NewStores(7)
}

// MustAddItems is a helper for tests - panics on validation error
func MustAddItems(st *memory.Stores, items ...entities.Item) {
	for _, it := range items {
		if err := st.Items.AddItem(it); err != nil {
			panic(err)
		}
	}
}

// MustAddBOM adds an active version-1 bill effective from the given date
func MustAddBOM(st *memory.Stores, bomID string, parent entities.ItemRef, effectiveFrom time.Time, components ...Component) {
	bom := &entities.BOM{ID: bomID, Parent: parent, Version: 1, EffectiveFrom: effectiveFrom, Active: true}
	if err := st.BOMs.AddBOM(bom); err != nil {
		panic(err)
	}
	for _, c := range components {
		// struct literal so tests can load lines the constructor would reject
		if err := st.BOMs.AddLine(&entities.BOMLine{
			BOMID:     bomID,
			Parent:    parent,
			Component: c.Item,
			QtyPer:    c.QtyPer,
			ScrapPct:  c.ScrapPct,
		}); err != nil {
			panic(err)
		}
	}
}

// MustAddWorkCenter adds an active work center with a shift in minutes after midnight
func MustAddWorkCenter(st *memory.Stores, id string, shiftStart, shiftEnd int) {
	wc, err := entities.NewWorkCenter(id, id, shiftStart, shiftEnd)
	if err != nil {
		panic(err)
	}
	if err := st.WorkCenters.AddWorkCenter(wc); err != nil {
		panic(err)
	}
}

// MustAddRouting adds one routing operation
func MustAddRouting(st *memory.Stores, item entities.ItemRef, sequence int, workCenterID string, setupMin, runSecPerUnit, teardownMin int64) {
	if err := st.Routings.AddOperation(&entities.RoutingOperation{
		Item:              item,
		Sequence:          sequence,
		WorkCenterID:      workCenterID,
		SetupMinutes:      Qty(setupMin),
		RunSecondsPerUnit: Qty(runSecPerUnit),
		TeardownMinutes:   Qty(teardownMin),
	}); err != nil {
		panic(err)
	}
}

// MustSetOnHand sets stock at the default location
func MustSetOnHand(st *memory.Stores, item entities.ItemRef, qty int64) {
	if err := st.Inventory.SetOnHand(context.Background(), item, memory.DefaultLocation, Qty(qty)); err != nil {
		panic(err)
	}
}

// AddOrderLine adds an open customer-order line
func AddOrderLine(st *memory.Stores, orderID string, lineNo int, item entities.ItemRef, qty int64, due time.Time) {
	_ = st.Demand.LoadOrderLines([]*entities.CustomerOrderLine{{
		OrderID:  orderID,
		LineNo:   lineNo,
		Item:     item,
		Quantity: Qty(qty),
		DueDate:  due,
		Status:   "open",
	}})
}

// BuildBracketScenario builds a small two-level scenario planned as of asOf
// (expected to be a Monday):
//
//	P1 "bracket assembly", lead 2 days, BOM: 2 x M1 (10% scrap) + 1 x M2
//	M1 steel sheet from SUP-STEEL, lead 5, 20 on hand
//	M2 fastener kit from SUP-FAST, lead 3, 500 on hand
//	CO-1 line 1: 50 x P1 due asOf+14
//	WC-CUT 08:00-16:00 runs P1 op 10, WC-WELD 08:00-16:00 runs op 20
func BuildBracketScenario(asOf time.Time) *memory.Stores {
	st := NewStores()

	p1 := Product("P1", 2)
	m1 := Material("M1", 5, "SUP-STEEL")
	m2 := Material("M2", 3, "SUP-FAST")
	MustAddItems(st, p1, m1, m2)

	MustAddBOM(st, "BOM-P1", p1.Ref(), asOf.AddDate(0, -1, 0),
		Component{Item: m1.Ref(), QtyPer: Qty(2), ScrapPct: Qty(10)},
		Component{Item: m2.Ref(), QtyPer: Qty(1)},
	)

	MustSetOnHand(st, m1.Ref(), 20)
	MustSetOnHand(st, m2.Ref(), 500)

	AddOrderLine(st, "CO-1", 1, p1.Ref(), 50, asOf.AddDate(0, 0, 14))

	MustAddWorkCenter(st, "WC-CUT", 8*60, 16*60)
	MustAddWorkCenter(st, "WC-WELD", 8*60, 16*60)
	MustAddRouting(st, p1.Ref(), 10, "WC-CUT", 30, 36, 0)
	MustAddRouting(st, p1.Ref(), 20, "WC-WELD", 15, 72, 15)

	return st
}
