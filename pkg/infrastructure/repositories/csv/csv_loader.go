package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

// Scenario file names inside a scenario directory
const (
	ItemsFile          = "items.csv"
	BOMsFile           = "boms.csv"
	BOMLinesFile       = "bom_lines.csv"
	InventoryFile      = "inventory.csv"
	CustomerOrdersFile = "customer_orders.csv"
	MPSFile            = "mps.csv"
	WorkCentersFile    = "work_centers.csv"
	RoutingsFile       = "routings.csv"
	HolidaysFile       = "holidays.csv"
)

var (
	itemsHeader = []string{"item_type", "item_id", "description", "unit_of_measure", "lead_time_days",
		"lot_size_rule", "fixed_lot_qty", "lot_multiple", "min_qty", "max_qty", "order_cost",
		"carrying_cost_pct", "safety_stock", "unit_cost", "supplier_id"}
	bomsHeader           = []string{"bom_id", "parent_type", "parent_id", "version", "effective_from", "expiry_date", "active"}
	bomLinesHeader       = []string{"bom_id", "component_type", "component_id", "qty_per", "scrap_pct"}
	inventoryHeader      = []string{"item_type", "item_id", "location", "quantity"}
	customerOrdersHeader = []string{"order_id", "line_no", "item_type", "item_id", "quantity", "due_date", "status"}
	mpsHeader            = []string{"mps_id", "item_type", "item_id", "quantity", "date", "status"}
	workCentersHeader    = []string{"work_center_id", "name", "shift_start", "shift_end", "active"}
	routingsHeader       = []string{"item_type", "item_id", "sequence", "work_center_id", "setup_minutes",
		"run_seconds_per_unit", "teardown_minutes"}
	holidaysHeader = []string{"date"}
)

// InventoryBalance is one on-hand quantity at a location
type InventoryBalance struct {
	Item     entities.ItemRef
	Location string
	Quantity decimal.Decimal
}

// Scenario holds everything read from a scenario directory
type Scenario struct {
	Items          []entities.Item
	BOMs           []*entities.BOM
	BOMLines       []*entities.BOMLine
	Inventory      []InventoryBalance
	CustomerOrders []*entities.CustomerOrderLine
	MPS            []*entities.MPSLine
	WorkCenters    []*entities.WorkCenter
	Routings       []*entities.RoutingOperation
	Holidays       []time.Time
}

// Loader handles loading planning master data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadScenario reads a scenario directory. items.csv is required, every other
// file is optional and treated as empty when absent.
func (l *Loader) LoadScenario(dir string) (*Scenario, error) {
	var s Scenario
	var err error

	if s.Items, err = l.LoadItems(filepath.Join(dir, ItemsFile)); err != nil {
		return nil, err
	}

	steps := []struct {
		file string
		load func(string) error
	}{
		{BOMsFile, func(p string) (err error) { s.BOMs, err = l.LoadBOMs(p); return }},
		{BOMLinesFile, func(p string) (err error) { s.BOMLines, err = l.LoadBOMLines(p, s.BOMs); return }},
		{InventoryFile, func(p string) (err error) { s.Inventory, err = l.LoadInventory(p); return }},
		{CustomerOrdersFile, func(p string) (err error) { s.CustomerOrders, err = l.LoadCustomerOrders(p); return }},
		{MPSFile, func(p string) (err error) { s.MPS, err = l.LoadMPS(p); return }},
		{WorkCentersFile, func(p string) (err error) { s.WorkCenters, err = l.LoadWorkCenters(p); return }},
		{RoutingsFile, func(p string) (err error) { s.Routings, err = l.LoadRoutings(p); return }},
		{HolidaysFile, func(p string) (err error) { s.Holidays, err = l.LoadHolidays(p); return }},
	}
	for _, step := range steps {
		path := filepath.Join(dir, step.file)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := step.load(path); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// LoadItems loads materials and products from a CSV file
func (l *Loader) LoadItems(filename string) ([]entities.Item, error) {
	records, err := readRecords(filename, "items", itemsHeader)
	if err != nil {
		return nil, err
	}

	items := make([]entities.Item, 0, len(records))
	for i, record := range records {
		item, err := parseItem(record)
		if err != nil {
			return nil, fmt.Errorf("items CSV row %d: %w", i+2, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// LoadBOMs loads bill of materials headers from a CSV file
func (l *Loader) LoadBOMs(filename string) ([]*entities.BOM, error) {
	records, err := readRecords(filename, "BOMs", bomsHeader)
	if err != nil {
		return nil, err
	}

	boms := make([]*entities.BOM, 0, len(records))
	for i, record := range records {
		bom, err := parseBOM(record)
		if err != nil {
			return nil, fmt.Errorf("BOMs CSV row %d: %w", i+2, err)
		}
		boms = append(boms, bom)
	}
	return boms, nil
}

// LoadBOMLines loads BOM lines, resolving each line's parent from its header
func (l *Loader) LoadBOMLines(filename string, boms []*entities.BOM) ([]*entities.BOMLine, error) {
	records, err := readRecords(filename, "BOM lines", bomLinesHeader)
	if err != nil {
		return nil, err
	}

	parents := make(map[string]entities.ItemRef, len(boms))
	for _, b := range boms {
		parents[b.ID] = b.Parent
	}

	lines := make([]*entities.BOMLine, 0, len(records))
	for i, record := range records {
		parent, ok := parents[record[0]]
		if !ok {
			return nil, fmt.Errorf("BOM lines CSV row %d: unknown bom_id %s", i+2, record[0])
		}
		line, err := parseBOMLine(record, parent)
		if err != nil {
			return nil, fmt.Errorf("BOM lines CSV row %d: %w", i+2, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// LoadInventory loads on-hand balances from a CSV file
func (l *Loader) LoadInventory(filename string) ([]InventoryBalance, error) {
	records, err := readRecords(filename, "inventory", inventoryHeader)
	if err != nil {
		return nil, err
	}

	balances := make([]InventoryBalance, 0, len(records))
	for i, record := range records {
		item, err := parseRef(record[0], record[1])
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: %w", i+2, err)
		}
		qty, err := parseDecimal("quantity", record[3])
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: %w", i+2, err)
		}
		if qty.IsNegative() {
			return nil, fmt.Errorf("inventory CSV row %d: quantity cannot be negative, got %s", i+2, qty)
		}
		balances = append(balances, InventoryBalance{Item: item, Location: record[2], Quantity: qty})
	}
	return balances, nil
}

// LoadCustomerOrders loads customer order lines from a CSV file
func (l *Loader) LoadCustomerOrders(filename string) ([]*entities.CustomerOrderLine, error) {
	records, err := readRecords(filename, "customer orders", customerOrdersHeader)
	if err != nil {
		return nil, err
	}

	lines := make([]*entities.CustomerOrderLine, 0, len(records))
	for i, record := range records {
		line, err := parseCustomerOrderLine(record)
		if err != nil {
			return nil, fmt.Errorf("customer orders CSV row %d: %w", i+2, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// LoadMPS loads master production schedule lines from a CSV file
func (l *Loader) LoadMPS(filename string) ([]*entities.MPSLine, error) {
	records, err := readRecords(filename, "MPS", mpsHeader)
	if err != nil {
		return nil, err
	}

	lines := make([]*entities.MPSLine, 0, len(records))
	for i, record := range records {
		line, err := parseMPSLine(record)
		if err != nil {
			return nil, fmt.Errorf("MPS CSV row %d: %w", i+2, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// LoadWorkCenters loads work centers from a CSV file
func (l *Loader) LoadWorkCenters(filename string) ([]*entities.WorkCenter, error) {
	records, err := readRecords(filename, "work centers", workCentersHeader)
	if err != nil {
		return nil, err
	}

	centers := make([]*entities.WorkCenter, 0, len(records))
	for i, record := range records {
		wc, err := parseWorkCenter(record)
		if err != nil {
			return nil, fmt.Errorf("work centers CSV row %d: %w", i+2, err)
		}
		centers = append(centers, wc)
	}
	return centers, nil
}

// LoadRoutings loads routing operations from a CSV file
func (l *Loader) LoadRoutings(filename string) ([]*entities.RoutingOperation, error) {
	records, err := readRecords(filename, "routings", routingsHeader)
	if err != nil {
		return nil, err
	}

	ops := make([]*entities.RoutingOperation, 0, len(records))
	for i, record := range records {
		op, err := parseRoutingOperation(record)
		if err != nil {
			return nil, fmt.Errorf("routings CSV row %d: %w", i+2, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// LoadHolidays loads non-working dates from a CSV file
func (l *Loader) LoadHolidays(filename string) ([]time.Time, error) {
	records, err := readRecords(filename, "holidays", holidaysHeader)
	if err != nil {
		return nil, err
	}

	days := make([]time.Time, 0, len(records))
	for i, record := range records {
		day, err := parseDate("date", record[0])
		if err != nil {
			return nil, fmt.Errorf("holidays CSV row %d: %w", i+2, err)
		}
		days = append(days, day)
	}
	return days, nil
}

// readRecords opens a CSV file, checks its header and returns the data rows
func readRecords(filename, name string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", name, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", name, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s CSV must have a header row", name)
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", name, expectedHeader, records[0])
	}
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", name, i+2, len(expectedHeader), len(record))
		}
	}
	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseItem(record []string) (entities.Item, error) {
	leadTimeDays, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid lead_time_days: %s", record[4])
	}

	attrs := entities.PlanningAttributes{
		LeadTimeDays: leadTimeDays,
		LotSizeRule:  entities.ParseLotSizeRule(record[5]),
	}
	decimals := []struct {
		field  string
		raw    string
		target *decimal.Decimal
	}{
		{"fixed_lot_qty", record[6], &attrs.FixedLotQty},
		{"lot_multiple", record[7], &attrs.LotMultiple},
		{"min_qty", record[8], &attrs.MinQty},
		{"max_qty", record[9], &attrs.MaxQty},
		{"order_cost", record[10], &attrs.OrderCost},
		{"carrying_cost_pct", record[11], &attrs.CarryingCostPct},
		{"safety_stock", record[12], &attrs.SafetyStock},
		{"unit_cost", record[13], &attrs.UnitCost},
	}
	for _, d := range decimals {
		if *d.target, err = parseDecimal(d.field, d.raw); err != nil {
			return nil, err
		}
	}

	itemType, err := entities.ParseItemType(record[0])
	if err != nil {
		return nil, err
	}

	var item entities.Item
	switch itemType {
	case entities.MaterialItem:
		item = &entities.Material{
			ID:                 record[1],
			Description:        record[2],
			UnitOfMeasure:      record[3],
			DefaultSupplierID:  record[14],
			PlanningAttributes: attrs,
		}
	case entities.ProductItem:
		if record[14] != "" {
			return nil, fmt.Errorf("product %s cannot have a supplier", record[1])
		}
		item = &entities.Product{
			ID:                 record[1],
			Description:        record[2],
			UnitOfMeasure:      record[3],
			PlanningAttributes: attrs,
		}
	}

	if err := entities.ValidatePlanning(item); err != nil {
		return nil, err
	}
	return item, nil
}

func parseBOM(record []string) (*entities.BOM, error) {
	if record[0] == "" {
		return nil, fmt.Errorf("bom_id cannot be empty")
	}
	parent, err := parseRef(record[1], record[2])
	if err != nil {
		return nil, err
	}
	if parent.Type != entities.ProductItem {
		return nil, fmt.Errorf("BOM %s parent must be a product, got %s", record[0], parent)
	}

	version, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid version: %s", record[3])
	}

	bom := &entities.BOM{ID: record[0], Parent: parent, Version: version}
	if record[4] != "" {
		if bom.EffectiveFrom, err = parseDate("effective_from", record[4]); err != nil {
			return nil, err
		}
	}
	if record[5] != "" {
		expiry, err := parseDate("expiry_date", record[5])
		if err != nil {
			return nil, err
		}
		bom.ExpiryDate = &expiry
	}
	if bom.Active, err = parseBool("active", record[6]); err != nil {
		return nil, err
	}
	return bom, nil
}

func parseBOMLine(record []string, parent entities.ItemRef) (*entities.BOMLine, error) {
	component, err := parseRef(record[1], record[2])
	if err != nil {
		return nil, err
	}
	qtyPer, err := parseDecimal("qty_per", record[3])
	if err != nil {
		return nil, err
	}
	scrap, err := parseDecimal("scrap_pct", record[4])
	if err != nil {
		return nil, err
	}
	return entities.NewBOMLine(record[0], parent, component, qtyPer, scrap)
}

func parseCustomerOrderLine(record []string) (*entities.CustomerOrderLine, error) {
	if record[0] == "" {
		return nil, fmt.Errorf("order_id cannot be empty")
	}
	lineNo, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid line_no: %s", record[1])
	}
	item, err := parseRef(record[2], record[3])
	if err != nil {
		return nil, err
	}
	qty, err := parseDecimal("quantity", record[4])
	if err != nil {
		return nil, err
	}
	due, err := parseDate("due_date", record[5])
	if err != nil {
		return nil, err
	}
	return &entities.CustomerOrderLine{
		OrderID:  record[0],
		LineNo:   lineNo,
		Item:     item,
		Quantity: qty,
		DueDate:  due,
		Status:   strings.ToLower(record[6]),
	}, nil
}

func parseMPSLine(record []string) (*entities.MPSLine, error) {
	item, err := parseRef(record[1], record[2])
	if err != nil {
		return nil, err
	}
	qty, err := parseDecimal("quantity", record[3])
	if err != nil {
		return nil, err
	}
	date, err := parseDate("date", record[4])
	if err != nil {
		return nil, err
	}

	status := entities.MPSStatus(strings.ToLower(record[5]))
	switch status {
	case entities.MPSPlanned, entities.MPSFirm, entities.MPSReleased:
	default:
		return nil, fmt.Errorf("invalid status: %s (expected: planned, firm, or released)", record[5])
	}

	return &entities.MPSLine{ID: record[0], Item: item, Quantity: qty, Date: date, Status: status}, nil
}

func parseWorkCenter(record []string) (*entities.WorkCenter, error) {
	start, err := parseClock("shift_start", record[2])
	if err != nil {
		return nil, err
	}
	end, err := parseClock("shift_end", record[3])
	if err != nil {
		return nil, err
	}
	wc, err := entities.NewWorkCenter(record[0], record[1], start, end)
	if err != nil {
		return nil, err
	}
	if wc.Active, err = parseBool("active", record[4]); err != nil {
		return nil, err
	}
	return wc, nil
}

func parseRoutingOperation(record []string) (*entities.RoutingOperation, error) {
	item, err := parseRef(record[0], record[1])
	if err != nil {
		return nil, err
	}
	seq, err := strconv.Atoi(strings.TrimSpace(record[2]))
	if err != nil {
		return nil, fmt.Errorf("invalid sequence: %s", record[2])
	}
	if record[3] == "" {
		return nil, fmt.Errorf("work_center_id cannot be empty")
	}

	op := &entities.RoutingOperation{Item: item, Sequence: seq, WorkCenterID: record[3]}
	if op.SetupMinutes, err = parseDecimal("setup_minutes", record[4]); err != nil {
		return nil, err
	}
	if op.RunSecondsPerUnit, err = parseDecimal("run_seconds_per_unit", record[5]); err != nil {
		return nil, err
	}
	if op.TeardownMinutes, err = parseDecimal("teardown_minutes", record[6]); err != nil {
		return nil, err
	}
	return op, nil
}

func parseRef(itemType, id string) (entities.ItemRef, error) {
	t, err := entities.ParseItemType(itemType)
	if err != nil {
		return entities.ItemRef{}, err
	}
	if strings.TrimSpace(id) == "" {
		return entities.ItemRef{}, fmt.Errorf("item id cannot be empty")
	}
	return entities.ItemRef{Type: t, ID: strings.TrimSpace(id)}, nil
}

// parseDecimal treats an empty cell as zero
func parseDecimal(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", field, s)
	}
	return d, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format: %s (expected YYYY-MM-DD)", field, s)
	}
	return t, nil
}

// parseClock converts HH:MM to minutes after midnight
func parseClock(field, s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		if strings.TrimSpace(s) == "24:00" {
			return 24 * 60, nil
		}
		return 0, fmt.Errorf("invalid %s: %s (expected HH:MM)", field, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// parseBool treats an empty cell as true
func parseBool(field, s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", field, s)
	}
	return b, nil
}
