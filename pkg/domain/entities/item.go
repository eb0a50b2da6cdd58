package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ItemType discriminates the two item variants
type ItemType string

const (
	MaterialItem ItemType = "material"
	ProductItem  ItemType = "product"
)

// ParseItemType converts a stored discriminator into an ItemType
func ParseItemType(s string) (ItemType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(MaterialItem):
		return MaterialItem, nil
	case string(ProductItem):
		return ProductItem, nil
	default:
		return "", fmt.Errorf("unknown item type: %q", s)
	}
}

// ItemRef identifies an item regardless of its variant
type ItemRef struct {
	Type ItemType `json:"type"`
	ID   string   `json:"id"`
}

// String renders the ref as type:id
func (r ItemRef) String() string {
	return string(r.Type) + ":" + r.ID
}

// IsZero reports whether the ref is unset
func (r ItemRef) IsZero() bool {
	return r.Type == "" && r.ID == ""
}

// ParseItemRef reads a type:id pair such as "product:P1"
func ParseItemRef(s string) (ItemRef, error) {
	typ, id, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || strings.TrimSpace(id) == "" {
		return ItemRef{}, fmt.Errorf("item ref must look like type:id, got %q", s)
	}
	t, err := ParseItemType(typ)
	if err != nil {
		return ItemRef{}, err
	}
	return ItemRef{Type: t, ID: strings.TrimSpace(id)}, nil
}

// MaterialRef builds a ref to a material
func MaterialRef(id string) ItemRef { return ItemRef{Type: MaterialItem, ID: id} }

// ProductRef builds a ref to a product
func ProductRef(id string) ItemRef { return ItemRef{Type: ProductItem, ID: id} }

// LotSizeRule represents the lot sizing rule for an item
type LotSizeRule int

const (
	LotForLot LotSizeRule = iota
	FixedLot
	MinMax
	Economic
)

// String method for LotSizeRule enum
func (l LotSizeRule) String() string {
	switch l {
	case LotForLot:
		return "lot-for-lot"
	case FixedLot:
		return "fixed"
	case MinMax:
		return "min-max"
	case Economic:
		return "economic"
	default:
		return "unknown"
	}
}

// ParseLotSizeRule maps a rule identifier onto a LotSizeRule.
// Unknown identifiers fall back to lot-for-lot.
func ParseLotSizeRule(s string) LotSizeRule {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed":
		return FixedLot
	case "min-max", "minmax", "min_max":
		return MinMax
	case "economic", "eoq":
		return Economic
	default:
		return LotForLot
	}
}

// PlanningAttributes are the fields shared by every item variant
type PlanningAttributes struct {
	LeadTimeDays    int
	LotSizeRule     LotSizeRule
	FixedLotQty     decimal.Decimal
	LotMultiple     decimal.Decimal
	MinQty          decimal.Decimal
	MaxQty          decimal.Decimal
	OrderCost       decimal.Decimal
	CarryingCostPct decimal.Decimal
	SafetyStock     decimal.Decimal
	UnitCost        decimal.Decimal
}

// Item is implemented by *Material and *Product only
type Item interface {
	Ref() ItemRef
	Name() string
	Planning() PlanningAttributes
	item()
}

// Material is a purchased item
type Material struct {
	ID                string
	Description       string
	UnitOfMeasure     string
	DefaultSupplierID string
	PlanningAttributes
}

func (m *Material) Ref() ItemRef { return MaterialRef(m.ID) }
func (m *Material) Name() string { return m.Description }
func (m *Material) Planning() PlanningAttributes { return m.PlanningAttributes }
func (m *Material) item() {}

// Product is a manufactured item with a bill of materials and a routing
type Product struct {
	ID            string
	Description   string
	UnitOfMeasure string
	PlanningAttributes
}

func (p *Product) Ref() ItemRef { return ProductRef(p.ID) }
func (p *Product) Name() string { return p.Description }
func (p *Product) Planning() PlanningAttributes { return p.PlanningAttributes }
func (p *Product) item() {}

// ValidatePlanning checks the planning attributes of an item
func ValidatePlanning(it Item) error {
	ref := it.Ref()
	if ref.ID == "" {
		return fmt.Errorf("item id cannot be empty")
	}
	attrs := it.Planning()
	if attrs.LeadTimeDays < 0 {
		return fmt.Errorf("lead time cannot be negative, got %d", attrs.LeadTimeDays)
	}
	if attrs.SafetyStock.IsNegative() {
		return fmt.Errorf("safety stock cannot be negative, got %s", attrs.SafetyStock)
	}
	switch attrs.LotSizeRule {
	case FixedLot:
		if !attrs.FixedLotQty.IsPositive() {
			return fmt.Errorf("lot sizing rule fixed requires a positive fixed lot quantity")
		}
	case MinMax:
		if attrs.MaxQty.LessThan(attrs.MinQty) {
			return fmt.Errorf("maximum quantity (%s) cannot be less than minimum quantity (%s)", attrs.MaxQty, attrs.MinQty)
		}
	}
	return nil
}

// OrderTypeFor derives the suggestion type from the item variant
func OrderTypeFor(it Item) OrderType {
	switch it.(type) {
	case *Material:
		return PurchaseOrder
	case *Product:
		return ProductionOrderType
	default:
		panic(fmt.Sprintf("unhandled item variant %T", it))
	}
}
