package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimePhasedRow is the netting result for one item in one planning period
type TimePhasedRow struct {
	Item               ItemRef         `json:"item"`
	Period             PlanningPeriod  `json:"period"`
	GrossRequirement   decimal.Decimal `json:"gross_requirement"`
	OnHandIn           decimal.Decimal `json:"on_hand_in"`
	ProjectedAvailable decimal.Decimal `json:"projected_available"`
	NetRequirement     decimal.Decimal `json:"net_requirement"`
	PlannedOrderQty    decimal.Decimal `json:"planned_order_qty"`
	PlannedReceipt     decimal.Decimal `json:"planned_receipt"`
	ReleaseDate        *time.Time      `json:"release_date,omitempty"`
}

// Short reports whether the period could not be covered from carried stock
func (r TimePhasedRow) Short() bool {
	return r.NetRequirement.IsPositive()
}
