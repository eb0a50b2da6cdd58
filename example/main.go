package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vsinha/tpmrp/pkg/application/services/capacity"
	"github.com/vsinha/tpmrp/pkg/application/services/production"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/infrastructure/config"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
	"github.com/vsinha/tpmrp/pkg/interfaces/bootstrap"
)

func main() {
	scenario := flag.String("scenario", "example/bracket", "Scenario directory")
	flag.Parse()

	if err := run(context.Background(), *scenario); err != nil {
		fmt.Printf("❌ Demo failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, scenario string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app, err := bootstrap.New(ctx, cfg, logger.NewNop(), bootstrap.Options{
		ScenarioDir: scenario,
		Persistence: bootstrap.InMemory,
	})
	if err != nil {
		return err
	}
	defer app.Close()

	asOf := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	opts := app.DefaultRunOptions()
	opts.AsOf = asOf

	fmt.Println("🔄 Running MRP for the bracket line...")
	fmt.Printf("As of %s over %d days\n\n", asOf.Format(time.DateOnly), opts.PlanningHorizon)

	result, err := app.Planning.RunTimePhasedMRP(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Println("📊 MRP Results:")
	fmt.Printf("  Suggestions: %d\n", result.Summary.Statistics.SuggestionCount)
	fmt.Printf("  Shortages: %d\n", result.Summary.Statistics.ShortageCount)
	fmt.Printf("  Can fulfill from stock: %v\n", result.Summary.CanFulfill)
	fmt.Println()

	if len(result.Suggestions) > 0 {
		fmt.Println("📝 Planned Orders:")
		for _, o := range result.Suggestions {
			fmt.Printf("  %s: %s units (release %s, need %s)\n",
				o.Item, o.Quantity, o.ReleaseDate.Format(time.DateOnly), o.NeedDate.Format(time.DateOnly))
			fmt.Printf("    Type: %s | Priority: %s\n", o.OrderType, o.Priority)
		}
		fmt.Println()
	}

	for _, g := range result.Summary.SupplierGroups {
		fmt.Printf("🚚 %s: %d orders, %s units\n", g.SupplierID, len(g.Orders), g.TotalQuantity)
	}
	fmt.Println()

	report, err := app.Planning.GetTimePhasedReport(ctx, entities.MaterialRef("M1"))
	if err != nil {
		return err
	}
	fmt.Printf("📈 %s by period:\n", report.Item)
	for _, row := range report.Rows {
		if row.GrossRequirement.IsZero() && row.PlannedOrderQty.IsZero() {
			continue
		}
		fmt.Printf("  %s gross %s, projected %s, planned %s\n",
			row.Period.Start.Format(time.DateOnly), row.GrossRequirement, row.ProjectedAvailable, row.PlannedOrderQty)
	}
	fmt.Println()

	fmt.Println("🏭 Releasing CO-1 to production...")
	created, err := app.Orders.CreateProductionOrders(ctx, "CO-1", production.CreateOptions{
		Reserve:       true,
		Schedule:      true,
		Direction:     capacity.Forward,
		ReferenceDate: asOf,
	})
	if err != nil {
		return err
	}
	for _, r := range created.Reservations {
		fmt.Printf("  Reserved %s of %s requested %s\n", r.Reserved, r.Item, r.Requested)
	}
	for _, so := range created.Schedule.ScheduledOrders {
		for _, op := range so.Operations {
			fmt.Printf("  op %d on %s: %s -> %s\n", op.Sequence, op.WorkCenterID,
				op.ScheduledStart.Format("Mon 15:04"), op.ScheduledEnd.Format("Mon 15:04"))
		}
	}
	for _, issue := range created.Issues {
		fmt.Printf("  ⚠️  %s\n", issue)
	}
	return nil
}
