package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemandSource tags where a demand record came from
type DemandSource string

const (
	SourceOrder       DemandSource = "order"
	SourceMPS         DemandSource = "mps"
	SourceSafetyStock DemandSource = "safety_stock"
	SourceBOM         DemandSource = "bom"
)

// Demand is a uniform gross requirement for one item
type Demand struct {
	Item      ItemRef         `json:"item"`
	Quantity  decimal.Decimal `json:"quantity"`
	NeedDate  time.Time       `json:"need_date"`
	Source    DemandSource    `json:"source"`
	Reference string          `json:"reference"`
}

// CustomerOrderLine is an open line of a customer order
type CustomerOrderLine struct {
	OrderID  string
	LineNo   int
	Item     ItemRef
	Quantity decimal.Decimal
	DueDate  time.Time
	Status   string
}

// MPSStatus is the firmness of a master-production-schedule line
type MPSStatus string

const (
	MPSPlanned  MPSStatus = "planned"
	MPSFirm     MPSStatus = "firm"
	MPSReleased MPSStatus = "released"
)

// MPSLine is one master-production-schedule entry
type MPSLine struct {
	ID       string
	Item     ItemRef
	Quantity decimal.Decimal
	Date     time.Time
	Status   MPSStatus
}

// Plannable reports whether the line feeds MRP demand
func (l MPSLine) Plannable() bool {
	return l.Status == MPSFirm || l.Status == MPSReleased
}
