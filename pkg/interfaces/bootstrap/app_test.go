package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/vsinha/tpmrp/pkg/application/services/capacity"
	"github.com/vsinha/tpmrp/pkg/application/services/production"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/infrastructure/config"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
	testhelpers "github.com/vsinha/tpmrp/pkg/infrastructure/testing"
)

const scenarioDir = "../../../example/bracket"

func testConfig() *config.Config {
	return &config.Config{
		Env:                 "test",
		DBDriver:            "sqlite",
		DBDSN:               ":memory:",
		PlanningHorizonDays: 90,
		PeriodDays:          7,
		MaxSearchDays:       30,
	}
}

func TestNew_PlansAndSchedulesTheExampleScenario(t *testing.T) {
	for _, persistence := range []Persistence{InMemory, Database} {
		t.Run(string(persistence), func(t *testing.T) {
			ctx := context.Background()
			app, err := New(ctx, testConfig(), logger.NewNop(), Options{ScenarioDir: scenarioDir, Persistence: persistence})
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			defer app.Close()

			available, err := app.Inventory.GetAvailableQuantity(ctx, entities.MaterialRef("M2"))
			if err != nil || !available.Equal(testhelpers.Qty(500)) {
				t.Fatalf("Expected seeded M2 stock of 500, got %s (%v)", available, err)
			}

			opts := entities.DefaultRunOptions()
			opts.AsOf = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
			result, err := app.Planning.RunTimePhasedMRP(ctx, opts)
			if err != nil {
				t.Fatalf("RunTimePhasedMRP failed: %v", err)
			}
			if result.Run.Status != entities.RunCompleted {
				t.Fatalf("Expected completed run, got %s", result.Run.Status)
			}

			var m1 *entities.PlannedOrder
			for _, o := range result.Suggestions {
				if o.Item == entities.MaterialRef("M1") {
					m1 = o
					break
				}
			}
			if m1 == nil || !m1.Quantity.Equal(testhelpers.Qty(90)) {
				t.Errorf("Expected first M1 suggestion of 90, got %+v", m1)
			}

			stored, err := app.Runs.GetRun(ctx, result.Run.ID)
			if err != nil || stored.Status != entities.RunCompleted {
				t.Errorf("Expected completed run to be persisted, got %+v (%v)", stored, err)
			}

			created, err := app.Orders.CreateProductionOrders(ctx, "CO-1", production.CreateOptions{
				Reserve:       true,
				Schedule:      true,
				Direction:     capacity.Forward,
				ReferenceDate: opts.AsOf,
			})
			if err != nil {
				t.Fatalf("CreateProductionOrders failed: %v", err)
			}
			if len(created.Schedule.ScheduledOrders) != 1 {
				t.Fatalf("Expected one scheduled order, got %+v", created.Schedule)
			}

			available, _ = app.Inventory.GetAvailableQuantity(ctx, entities.MaterialRef("M2"))
			if !available.Equal(testhelpers.Qty(450)) {
				t.Errorf("Expected 450 of M2 after reservation, got %s", available)
			}
			ops, err := app.Production.OperationsForOrder(ctx, created.Orders[0].ID)
			if err != nil || len(ops) != 2 {
				t.Errorf("Expected 2 persisted operations, got %d (%v)", len(ops), err)
			}
		})
	}
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, testConfig(), nil, Options{ScenarioDir: t.TempDir()}); err == nil {
		t.Error("Expected error for a directory without items.csv")
	}
	if _, err := New(ctx, testConfig(), nil, Options{ScenarioDir: scenarioDir, Persistence: "cloud"}); err == nil {
		t.Error("Expected error for unknown persistence")
	}
}
