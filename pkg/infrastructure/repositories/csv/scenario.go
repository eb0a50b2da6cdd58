package csv

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/infrastructure/repositories/memory"
)

// OnHandSetter receives the scenario's opening inventory
type OnHandSetter interface {
	SetOnHand(ctx context.Context, item entities.ItemRef, location string, quantity decimal.Decimal) error
}

// Populate loads the scenario's master data into in-memory stores
func (s *Scenario) Populate(st *memory.Stores) error {
	if err := st.Items.LoadItems(s.Items); err != nil {
		return fmt.Errorf("failed to load items into repository: %w", err)
	}
	if err := st.BOMs.LoadBOMs(s.BOMs, s.BOMLines); err != nil {
		return fmt.Errorf("failed to load BOMs into repository: %w", err)
	}
	if err := st.Demand.LoadOrderLines(s.CustomerOrders); err != nil {
		return fmt.Errorf("failed to load customer orders into repository: %w", err)
	}
	if err := st.Demand.LoadMPSLines(s.MPS); err != nil {
		return fmt.Errorf("failed to load MPS into repository: %w", err)
	}
	for _, day := range s.Holidays {
		st.Calendar.AddHoliday(day)
	}
	for _, wc := range s.WorkCenters {
		if err := st.WorkCenters.AddWorkCenter(wc); err != nil {
			return fmt.Errorf("failed to load work centers into repository: %w", err)
		}
	}
	for _, op := range s.Routings {
		if err := st.Routings.AddOperation(op); err != nil {
			return fmt.Errorf("failed to load routings into repository: %w", err)
		}
	}
	return nil
}

// SeedInventory writes opening balances into an inventory ledger
func (s *Scenario) SeedInventory(ctx context.Context, inv OnHandSetter) error {
	for _, b := range s.Inventory {
		if err := inv.SetOnHand(ctx, b.Item, b.Location, b.Quantity); err != nil {
			return fmt.Errorf("failed to seed inventory for %s: %w", b.Item, err)
		}
	}
	return nil
}
