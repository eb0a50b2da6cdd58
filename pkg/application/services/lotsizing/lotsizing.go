// Package lotsizing converts a net requirement into an order quantity
// according to an item's lot-sizing rule.
package lotsizing

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

var two = decimal.NewFromInt(2)

// Size returns the quantity to order for a net requirement. A non-positive
// requirement always sizes to zero.
func Size(net decimal.Decimal, attrs entities.PlanningAttributes) decimal.Decimal {
	if !net.IsPositive() {
		return decimal.Zero
	}

	switch attrs.LotSizeRule {
	case entities.FixedLot:
		return attrs.FixedLotQty
	case entities.MinMax:
		if net.LessThan(attrs.MinQty) {
			return attrs.MaxQty
		}
		return net
	case entities.Economic:
		return economic(net, attrs)
	default:
		return net
	}
}

// economic applies the EOQ formula with carrying cost taken as given, then
// rounds up to the lot multiple (whole units when none is configured)
func economic(net decimal.Decimal, attrs entities.PlanningAttributes) decimal.Decimal {
	if !attrs.OrderCost.IsPositive() || !attrs.CarryingCostPct.IsPositive() || !attrs.UnitCost.IsPositive() {
		return net
	}

	ratio := two.Mul(net).Mul(attrs.OrderCost).Div(attrs.CarryingCostPct.Mul(attrs.UnitCost))
	eoq := decimal.NewFromFloat(math.Sqrt(ratio.InexactFloat64()))

	return RoundUp(eoq, attrs.LotMultiple)
}

// RoundUp rounds qty up to the next multiple, or to a whole unit when the
// multiple is not positive
func RoundUp(qty, multiple decimal.Decimal) decimal.Decimal {
	if !multiple.IsPositive() {
		return qty.Ceil()
	}
	return qty.Div(multiple).Ceil().Mul(multiple)
}
