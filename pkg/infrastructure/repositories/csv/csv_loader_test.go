package csv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/infrastructure/repositories/memory"
)

func writeFile(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func writeScenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, ItemsFile,
		"item_type,item_id,description,unit_of_measure,lead_time_days,lot_size_rule,fixed_lot_qty,lot_multiple,min_qty,max_qty,order_cost,carrying_cost_pct,safety_stock,unit_cost,supplier_id",
		"product,P1,Bracket assembly,EA,2,lot-for-lot,,,,,,,0,,",
		"material,M1,Steel sheet,KG,5,fixed,500,,,,,,100,2.5,SUP-1",
	)
	writeFile(t, dir, BOMsFile,
		"bom_id,parent_type,parent_id,version,effective_from,expiry_date,active",
		"BOM-P1,product,P1,1,2025-01-01,,true",
	)
	writeFile(t, dir, BOMLinesFile,
		"bom_id,component_type,component_id,qty_per,scrap_pct",
		"BOM-P1,material,M1,2,10",
	)
	writeFile(t, dir, InventoryFile,
		"item_type,item_id,location,quantity",
		"material,M1,MAIN,40",
		"material,M1,DOCK,10",
	)
	writeFile(t, dir, CustomerOrdersFile,
		"order_id,line_no,item_type,item_id,quantity,due_date,status",
		"CO-1,1,product,P1,50,2025-02-10,OPEN",
	)
	writeFile(t, dir, MPSFile,
		"mps_id,item_type,item_id,quantity,date,status",
		"MPS-1,product,P1,20,2025-02-17,firm",
	)
	writeFile(t, dir, WorkCentersFile,
		"work_center_id,name,shift_start,shift_end,active",
		"WC-1,Press,08:00,16:30,true",
	)
	writeFile(t, dir, RoutingsFile,
		"item_type,item_id,sequence,work_center_id,setup_minutes,run_seconds_per_unit,teardown_minutes",
		"product,P1,10,WC-1,30,90,15",
	)
	writeFile(t, dir, HolidaysFile, "date", "2025-02-14")
	return dir
}

func TestLoader_LoadScenario(t *testing.T) {
	scenario, err := NewLoader().LoadScenario(writeScenario(t))
	if err != nil {
		t.Fatalf("LoadScenario failed: %v", err)
	}

	if len(scenario.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(scenario.Items))
	}
	material, ok := scenario.Items[1].(*entities.Material)
	if !ok {
		t.Fatalf("Expected second item to be a material, got %T", scenario.Items[1])
	}
	if material.DefaultSupplierID != "SUP-1" || material.LotSizeRule != entities.FixedLot {
		t.Errorf("Expected fixed lot material from SUP-1, got %s from %s", material.LotSizeRule, material.DefaultSupplierID)
	}
	if !material.FixedLotQty.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected fixed lot 500, got %s", material.FixedLotQty)
	}

	if len(scenario.BOMLines) != 1 || scenario.BOMLines[0].Parent != entities.ProductRef("P1") {
		t.Fatalf("Expected one BOM line under P1, got %+v", scenario.BOMLines)
	}
	if len(scenario.Inventory) != 2 {
		t.Errorf("Expected 2 inventory balances, got %d", len(scenario.Inventory))
	}
	if scenario.CustomerOrders[0].Status != "open" {
		t.Errorf("Expected status lowercased to open, got %s", scenario.CustomerOrders[0].Status)
	}
	if scenario.MPS[0].Status != entities.MPSFirm {
		t.Errorf("Expected firm MPS line, got %s", scenario.MPS[0].Status)
	}
	wc := scenario.WorkCenters[0]
	if wc.ShiftStartMinute != 480 || wc.ShiftEndMinute != 990 {
		t.Errorf("Expected shift 480-990, got %d-%d", wc.ShiftStartMinute, wc.ShiftEndMinute)
	}
	if len(scenario.Holidays) != 1 {
		t.Errorf("Expected 1 holiday, got %d", len(scenario.Holidays))
	}
}

func TestScenario_PopulateStores(t *testing.T) {
	scenario, err := NewLoader().LoadScenario(writeScenario(t))
	if err != nil {
		t.Fatalf("LoadScenario failed: %v", err)
	}
	stores := memory.NewStores(7)
	if err := scenario.Populate(stores); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}
	ctx := context.Background()
	if err := scenario.SeedInventory(ctx, stores.Inventory); err != nil {
		t.Fatalf("SeedInventory failed: %v", err)
	}

	avail, _ := stores.Inventory.GetAvailableQuantity(ctx, entities.MaterialRef("M1"))
	if !avail.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected 50 available across locations, got %s", avail)
	}
	if stores.Calendar.IsWorkingDay(time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)) {
		t.Error("Expected holiday to be non-working")
	}
	routing, err := stores.Routings.GetRouting(ctx, entities.ProductRef("P1"))
	if err != nil || len(routing) != 1 {
		t.Errorf("Expected one routing operation, got %v (%v)", routing, err)
	}
	bom, _ := stores.BOMs.GetActiveBOM(ctx, entities.ProductRef("P1"), time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	if bom == nil || bom.ID != "BOM-P1" {
		t.Errorf("Expected BOM-P1 to be active, got %v", bom)
	}
}

func TestLoader_OptionalFilesMayBeAbsent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ItemsFile,
		"item_type,item_id,description,unit_of_measure,lead_time_days,lot_size_rule,fixed_lot_qty,lot_multiple,min_qty,max_qty,order_cost,carrying_cost_pct,safety_stock,unit_cost,supplier_id",
		"material,M1,Steel sheet,KG,5,lot-for-lot,,,,,,,0,,",
	)

	scenario, err := NewLoader().LoadScenario(dir)
	if err != nil {
		t.Fatalf("LoadScenario failed: %v", err)
	}
	if len(scenario.BOMs) != 0 || len(scenario.Routings) != 0 {
		t.Errorf("Expected empty optional data, got %d BOMs and %d routings", len(scenario.BOMs), len(scenario.Routings))
	}
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		file        string
		lines       []string
		load        func(l *Loader, path string) error
		expectError string
	}{
		{
			name:  "header mismatch",
			file:  InventoryFile,
			lines: []string{"item,location,quantity", "M1,MAIN,4"},
			load: func(l *Loader, p string) error {
				_, err := l.LoadInventory(p)
				return err
			},
			expectError: "inventory CSV header mismatch",
		},
		{
			name:  "bad quantity",
			file:  InventoryFile,
			lines: []string{"item_type,item_id,location,quantity", "material,M1,MAIN,lots"},
			load: func(l *Loader, p string) error {
				_, err := l.LoadInventory(p)
				return err
			},
			expectError: "inventory CSV row 2: invalid quantity: lots",
		},
		{
			name:  "unknown item type",
			file:  MPSFile,
			lines: []string{"mps_id,item_type,item_id,quantity,date,status", "MPS-1,widget,P1,20,2025-02-17,firm"},
			load: func(l *Loader, p string) error {
				_, err := l.LoadMPS(p)
				return err
			},
			expectError: `MPS CSV row 2: unknown item type: "widget"`,
		},
		{
			name:  "bad date",
			file:  HolidaysFile,
			lines: []string{"date", "14/02/2025"},
			load: func(l *Loader, p string) error {
				_, err := l.LoadHolidays(p)
				return err
			},
			expectError: "holidays CSV row 2: invalid date format: 14/02/2025 (expected YYYY-MM-DD)",
		},
		{
			name:  "invalid shift",
			file:  WorkCentersFile,
			lines: []string{"work_center_id,name,shift_start,shift_end,active", "WC-1,Press,16:00,08:00,true"},
			load: func(l *Loader, p string) error {
				_, err := l.LoadWorkCenters(p)
				return err
			},
			expectError: "work centers CSV row 2: invalid shift 960-480 for work center WC-1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tc.file, tc.lines...)
			err := tc.load(NewLoader(), filepath.Join(dir, tc.file))
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if !strings.HasPrefix(err.Error(), tc.expectError) {
				t.Errorf("Expected error starting with '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}
