package memory

// Stores bundles the in-memory repositories of one planning scenario. Tx
// covers every mutable store so a failed run or scheduling batch rolls back
// inventory, runs and production orders together.
type Stores struct {
	Items       *ItemRepository
	BOMs        *BOMRepository
	Demand      *DemandRepository
	Calendar    *Calendar
	Routings    *RoutingRepository
	WorkCenters *WorkCenterRepository
	Inventory   *InventoryRepository
	Runs        *RunRepository
	Production  *ProductionRepository
	Tx          *TxRunner
}

// NewStores creates empty stores with a calendar of periodDays-long periods
func NewStores(periodDays int) *Stores {
	cal := NewCalendar(periodDays)
	s := &Stores{
		Items:       NewItemRepository(0),
		BOMs:        NewBOMRepository(),
		Demand:      NewDemandRepository(),
		Calendar:    cal,
		Routings:    NewRoutingRepository(),
		WorkCenters: NewWorkCenterRepository(cal),
		Inventory:   NewInventoryRepository(),
		Runs:        NewRunRepository(),
		Production:  NewProductionRepository(),
	}
	s.Tx = NewTxRunner(s.Inventory, s.Runs, s.Production)
	return s
}
