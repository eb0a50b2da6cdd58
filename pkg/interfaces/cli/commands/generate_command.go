package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	csvrepo "github.com/vsinha/tpmrp/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Products    int       // Number of products, each with one bill
	Materials   int       // Number of purchased materials shared across bills
	Orders      int       // Number of customer-order lines
	WorkCenters int       // Number of work centers routings are spread over
	Inventory   float64   // Stock multiplier against first-period demand (0.5 = half coverage)
	StartDate   time.Time // First day orders can fall due
	OutputDir   string
	Seed        int64
	Help        bool
	Verbose     bool
}

// GenerateCommand writes a random scenario directory for load tests
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if config.StartDate.IsZero() {
		y, m, d := time.Now().Date()
		config.StartDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

type generatedBOM struct {
	product    string
	components map[string]int
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}
	if err := cmd.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Printf("🔧 Generating scenario with %d products, %d materials, %d order lines, %.1fx inventory\n",
			cmd.config.Products, cmd.config.Materials, cmd.config.Orders, cmd.config.Inventory)
		fmt.Printf("📁 Output directory: %s\n", cmd.config.OutputDir)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	boms := cmd.generateBOMs()
	orders := cmd.generateOrders()

	steps := []struct {
		file    string
		records [][]string
	}{
		{csvrepo.ItemsFile, cmd.itemRecords()},
		{csvrepo.BOMsFile, cmd.bomRecords(boms)},
		{csvrepo.BOMLinesFile, bomLineRecords(boms)},
		{csvrepo.CustomerOrdersFile, orders},
		{csvrepo.InventoryFile, cmd.inventoryRecords(boms, orders)},
		{csvrepo.WorkCentersFile, cmd.workCenterRecords()},
		{csvrepo.RoutingsFile, cmd.routingRecords()},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeCSVFile(filepath.Join(cmd.config.OutputDir, step.file), step.records); err != nil {
			return fmt.Errorf("failed to write %s: %w", step.file, err)
		}
		if cmd.config.Verbose {
			fmt.Printf("  %-20s %d rows\n", step.file, len(step.records)-1)
		}
	}

	if cmd.config.Verbose {
		fmt.Printf("✅ Scenario generated successfully in %s\n", cmd.config.OutputDir)
	}
	return nil
}

func (cmd *GenerateCommand) validate() error {
	switch {
	case cmd.config.OutputDir == "":
		return fmt.Errorf("output directory is required (-output)")
	case cmd.config.Products <= 0:
		return fmt.Errorf("products must be positive, got %d", cmd.config.Products)
	case cmd.config.Materials <= 0:
		return fmt.Errorf("materials must be positive, got %d", cmd.config.Materials)
	case cmd.config.WorkCenters <= 0:
		return fmt.Errorf("work centers must be positive, got %d", cmd.config.WorkCenters)
	case cmd.config.Orders < 0 || cmd.config.Inventory < 0:
		return fmt.Errorf("orders and inventory cannot be negative")
	}
	return nil
}

func productID(i int) string    { return fmt.Sprintf("P%04d", i+1) }
func materialID(i int) string   { return fmt.Sprintf("M%05d", i+1) }
func workCenterID(i int) string { return fmt.Sprintf("WC-%02d", i+1) }

var lotRules = []string{"lot-for-lot", "lot-for-lot", "fixed", "min-max", "economic"}

func (cmd *GenerateCommand) itemRecords() [][]string {
	records := [][]string{{"item_type", "item_id", "description", "unit_of_measure", "lead_time_days",
		"lot_size_rule", "fixed_lot_qty", "lot_multiple", "min_qty", "max_qty", "order_cost",
		"carrying_cost_pct", "safety_stock", "unit_cost", "supplier_id"}}

	for i := 0; i < cmd.config.Products; i++ {
		records = append(records, []string{"product", productID(i), productID(i) + " Assembly", "EA",
			strconv.Itoa(1 + cmd.rand.Intn(5)), "lot-for-lot", "", "", "", "", "", "", "0", "", ""})
	}
	for i := 0; i < cmd.config.Materials; i++ {
		rule := lotRules[cmd.rand.Intn(len(lotRules))]
		row := []string{"material", materialID(i), materialID(i) + " Component", "EA",
			strconv.Itoa(2 + cmd.rand.Intn(20)), rule, "", "", "", "", "", "",
			strconv.Itoa(cmd.rand.Intn(3) * 10), strconv.Itoa(1 + cmd.rand.Intn(50)),
			fmt.Sprintf("SUP-%02d", 1+cmd.rand.Intn(10))}
		switch rule {
		case "fixed":
			row[6] = strconv.Itoa(50 * (1 + cmd.rand.Intn(4)))
		case "min-max":
			row[8] = strconv.Itoa(25 * (1 + cmd.rand.Intn(4)))
			row[9] = strconv.Itoa(500 + 100*cmd.rand.Intn(5))
		case "economic":
			row[7] = "10"
			row[10] = strconv.Itoa(20 + cmd.rand.Intn(80))
			row[11] = "0.2"
		}
		records = append(records, row)
	}
	return records
}

// generateBOMs gives every product two to five distinct materials
func (cmd *GenerateCommand) generateBOMs() []generatedBOM {
	boms := make([]generatedBOM, 0, cmd.config.Products)
	for i := 0; i < cmd.config.Products; i++ {
		n := 2 + cmd.rand.Intn(4)
		if n > cmd.config.Materials {
			n = cmd.config.Materials
		}
		components := make(map[string]int, n)
		for _, m := range cmd.rand.Perm(cmd.config.Materials)[:n] {
			components[materialID(m)] = 1 + cmd.rand.Intn(4)
		}
		boms = append(boms, generatedBOM{product: productID(i), components: components})
	}
	return boms
}

func (cmd *GenerateCommand) bomRecords(boms []generatedBOM) [][]string {
	records := [][]string{{"bom_id", "parent_type", "parent_id", "version", "effective_from", "expiry_date", "active"}}
	from := cmd.config.StartDate.AddDate(-1, 0, 0).Format(time.DateOnly)
	for _, b := range boms {
		records = append(records, []string{"BOM-" + b.product, "product", b.product, "1", from, "", "true"})
	}
	return records
}

func bomLineRecords(boms []generatedBOM) [][]string {
	records := [][]string{{"bom_id", "component_type", "component_id", "qty_per", "scrap_pct"}}
	for _, b := range boms {
		for id, qty := range b.components {
			records = append(records, []string{"BOM-" + b.product, "material", id, strconv.Itoa(qty), "0"})
		}
	}
	return records
}

// generateOrders spreads order lines over twelve weeks from the start date
func (cmd *GenerateCommand) generateOrders() [][]string {
	records := [][]string{{"order_id", "line_no", "item_type", "item_id", "quantity", "due_date", "status"}}
	for i := 0; i < cmd.config.Orders; i++ {
		due := cmd.config.StartDate.AddDate(0, 0, 7+cmd.rand.Intn(77))
		records = append(records, []string{
			fmt.Sprintf("CO-%d", i/3+1),
			strconv.Itoa(i%3 + 1),
			"product",
			productID(cmd.rand.Intn(cmd.config.Products)),
			strconv.Itoa(5 * (1 + cmd.rand.Intn(20))),
			due.Format(time.DateOnly),
			"open",
		})
	}
	return records
}

// inventoryRecords stocks each material at a multiple of its total order demand
func (cmd *GenerateCommand) inventoryRecords(boms []generatedBOM, orders [][]string) [][]string {
	perProduct := make(map[string]map[string]int, len(boms))
	for _, b := range boms {
		perProduct[b.product] = b.components
	}
	need := make(map[string]int)
	for _, o := range orders[1:] {
		qty, _ := strconv.Atoi(o[4])
		for id, per := range perProduct[o[3]] {
			need[id] += qty * per
		}
	}

	records := [][]string{{"item_type", "item_id", "location", "quantity"}}
	for i := 0; i < cmd.config.Materials; i++ {
		id := materialID(i)
		onHand := int(float64(need[id]) * cmd.config.Inventory)
		records = append(records, []string{"material", id, "MAIN", strconv.Itoa(onHand)})
	}
	return records
}

func (cmd *GenerateCommand) workCenterRecords() [][]string {
	records := [][]string{{"work_center_id", "name", "shift_start", "shift_end", "active"}}
	for i := 0; i < cmd.config.WorkCenters; i++ {
		start := 6 + cmd.rand.Intn(3)
		records = append(records, []string{workCenterID(i), "Work center " + strconv.Itoa(i+1),
			fmt.Sprintf("%02d:00", start), fmt.Sprintf("%02d:00", start+8), "true"})
	}
	return records
}

// routingRecords gives every product one to three sequential operations
func (cmd *GenerateCommand) routingRecords() [][]string {
	records := [][]string{{"item_type", "item_id", "sequence", "work_center_id", "setup_minutes",
		"run_seconds_per_unit", "teardown_minutes"}}
	for i := 0; i < cmd.config.Products; i++ {
		ops := 1 + cmd.rand.Intn(3)
		for op := 0; op < ops; op++ {
			records = append(records, []string{"product", productID(i), strconv.Itoa(10 * (op + 1)),
				workCenterID(cmd.rand.Intn(cmd.config.WorkCenters)),
				strconv.Itoa(5 * cmd.rand.Intn(7)), strconv.Itoa(10 + cmd.rand.Intn(90)), strconv.Itoa(5 * cmd.rand.Intn(4))})
		}
	}
	return records
}

func writeCSVFile(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printHelp shows usage information
func (cmd *GenerateCommand) printHelp() {
	fmt.Println(`MRP Scenario Generator

USAGE:
    mrp generate -output <dir> [OPTIONS]

OPTIONS:
    -products <N>       Number of products (default 20)
    -materials <N>      Number of purchased materials (default 100)
    -orders <N>         Number of customer-order lines (default 50)
    -work-centers <N>   Number of work centers (default 5)
    -inventory <F>      Stock multiplier against order demand, e.g. 0.5 or 2.0 (default 0.5)
    -start <date>       First day orders can fall due (default today)
    -output <DIR>       Output directory for generated files (required)
    -seed <N>           Random seed for reproducible generation
    -verbose            Enable verbose output

EXAMPLES:
    # Small test scenario
    mrp generate -products 5 -materials 20 -orders 10 -output ./small_scenario

    # Reproducible load-test scenario
    mrp generate -products 500 -materials 5000 -orders 2000 -work-centers 40 -seed 12345 -output ./large_scenario`)
}
