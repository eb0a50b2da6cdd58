package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vsinha/tpmrp/pkg/application/dto"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

// generateCSVOutput writes planned_orders.csv and time_phased.csv for a run
func generateCSVOutput(w io.Writer, result any, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}
	var (
		suggestions []*entities.PlannedOrder
		rows        []entities.TimePhasedRow
	)
	switch r := result.(type) {
	case *dto.RunResult:
		suggestions = r.Suggestions
		for _, it := range r.Items {
			rows = append(rows, it.Rows...)
		}
	case *dto.TimePhasedReport:
		suggestions = r.Suggestions
		rows = r.Rows
	default:
		return fmt.Errorf("CSV output is only available for runs and reports, got %T", result)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ordersFile := filepath.Join(config.OutputDir, "planned_orders.csv")
	if err := writeOrdersCSV(suggestions, ordersFile); err != nil {
		return fmt.Errorf("failed to write planned orders CSV: %w", err)
	}
	rowsFile := filepath.Join(config.OutputDir, "time_phased.csv")
	if err := writeRowsCSV(rows, rowsFile); err != nil {
		return fmt.Errorf("failed to write time-phased CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(w, "💾 CSV results saved to:\n")
		fmt.Fprintf(w, "  Planned Orders: %s\n", ordersFile)
		fmt.Fprintf(w, "  Time-Phased Rows: %s\n", rowsFile)
	}
	return nil
}

func writeOrdersCSV(orders []*entities.PlannedOrder, filename string) error {
	records := [][]string{{
		"id", "run_id", "item_type", "item_id", "order_type", "quantity",
		"release_date", "need_date", "priority", "supplier_id", "period_id",
	}}
	for _, o := range orders {
		records = append(records, []string{
			o.ID.String(),
			o.RunID.String(),
			string(o.Item.Type),
			o.Item.ID,
			o.OrderType.String(),
			o.Quantity.String(),
			day(o.ReleaseDate),
			day(o.NeedDate),
			string(o.Priority),
			o.SupplierID,
			o.PeriodID,
		})
	}
	return writeCSV(filename, records)
}

func writeRowsCSV(rows []entities.TimePhasedRow, filename string) error {
	records := [][]string{{
		"item_type", "item_id", "period_id", "period_start", "period_end", "gross_requirement",
		"on_hand_in", "projected_available", "net_requirement", "planned_order_qty", "release_date",
	}}
	for _, r := range rows {
		release := ""
		if r.ReleaseDate != nil {
			release = day(*r.ReleaseDate)
		}
		records = append(records, []string{
			string(r.Item.Type),
			r.Item.ID,
			r.Period.ID,
			day(r.Period.Start),
			day(r.Period.End),
			r.GrossRequirement.String(),
			r.OnHandIn.String(),
			r.ProjectedAvailable.String(),
			r.NetRequirement.String(),
			r.PlannedOrderQty.String(),
			release,
		})
	}
	return writeCSV(filename, records)
}

func writeCSV(filename string, records [][]string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(f)
	if err := cw.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
