package gormstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

func testStore(tb testing.TB) *Store {
	tb.Helper()
	db, err := Open("sqlite", ":memory:")
	if err != nil {
		tb.Fatalf("failed to open sqlite: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewStore(db, nil)
}

func TestRunRepository_Lifecycle(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	start := time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC)

	if _, err := store.Runs.LatestCompletedRun(ctx); !errors.Is(err, entities.ErrNoCompletedRun) {
		t.Fatalf("Expected ErrNoCompletedRun on empty store, got %v", err)
	}

	opts := entities.DefaultRunOptions().Normalize(start)
	opts.User = "planner"
	run := entities.NewMRPRun(opts, start)
	if err := store.Runs.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	orders := []*entities.PlannedOrder{
		mustPlannedOrder(t, run, entities.MaterialRef("M1"), 400, start),
		mustPlannedOrder(t, run, entities.ProductRef("P1"), 50, start.AddDate(0, 0, 7)),
	}
	orders[0].SupplierID = "SUP-1"
	if err := store.Runs.SavePlannedOrders(ctx, orders); err != nil {
		t.Fatalf("SavePlannedOrders failed: %v", err)
	}

	if err := run.Complete(entities.RunStatistics{SuggestionCount: 2, ItemsPlanned: 2}, start.Add(2*time.Second)); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if err := store.Runs.UpdateRun(ctx, run); err != nil {
		t.Fatalf("UpdateRun failed: %v", err)
	}

	latest, err := store.Runs.LatestCompletedRun(ctx)
	if err != nil {
		t.Fatalf("LatestCompletedRun failed: %v", err)
	}
	if latest.ID != run.ID {
		t.Errorf("Expected run %s, got %s", run.ID, latest.ID)
	}
	if latest.Parameters.User != "planner" || latest.Parameters.PlanningHorizon != 90 {
		t.Errorf("Expected parameters to round-trip, got %+v", latest.Parameters)
	}
	if latest.Statistics.SuggestionCount != 2 || latest.Statistics.ElapsedMs != 2000 {
		t.Errorf("Expected statistics to round-trip, got %+v", latest.Statistics)
	}

	saved, err := store.Runs.PlannedOrders(ctx, run.ID)
	if err != nil {
		t.Fatalf("PlannedOrders failed: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("Expected 2 planned orders, got %d", len(saved))
	}
	if !saved[0].Quantity.Equal(decimal.NewFromInt(400)) || saved[0].SupplierID != "SUP-1" {
		t.Errorf("Expected first order 400 from SUP-1, got %s from %s", saved[0].Quantity, saved[0].SupplierID)
	}
	if saved[1].OrderType != entities.ProductionOrderType {
		t.Errorf("Expected production order type, got %s", saved[1].OrderType)
	}

	missing := entities.NewMRPRun(opts, start)
	if err := store.Runs.UpdateRun(ctx, missing); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound updating unknown run, got %v", err)
	}
}

func TestTxRunner_RollsBack(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	run := entities.NewMRPRun(entities.DefaultRunOptions(), time.Now())
	boom := errors.New("boom")

	err := store.Tx.InTx(ctx, func(ctx context.Context) error {
		if err := store.Runs.CreateRun(ctx, run); err != nil {
			return err
		}
		return store.Tx.InTx(ctx, func(ctx context.Context) error { return boom })
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	if _, err := store.Runs.GetRun(ctx, run.ID); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected run to be rolled back, got %v", err)
	}
}

func TestProductionRepository_OrdersAndOperations(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

	order, _ := entities.NewProductionOrder("CO-1", entities.ProductRef("P1"), decimal.NewFromInt(10), 2, day.AddDate(0, 0, 10))
	order.CreatedAt = day
	if err := store.Production.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	ops := []*entities.ProductionOperation{
		{ID: uuid.New(), OrderID: order.ID, Sequence: 20, WorkCenterID: "WC-2", ScheduledStart: day.Add(10 * time.Hour), ScheduledEnd: day.Add(11 * time.Hour), DurationMinutes: 60},
		{ID: uuid.New(), OrderID: order.ID, Sequence: 10, WorkCenterID: "WC-1", ScheduledStart: day.Add(8 * time.Hour), ScheduledEnd: day.Add(10 * time.Hour), DurationMinutes: 120},
	}
	if err := store.Production.SaveOperations(ctx, ops); err != nil {
		t.Fatalf("SaveOperations failed: %v", err)
	}

	got, err := store.Production.OperationsForOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("OperationsForOrder failed: %v", err)
	}
	if len(got) != 2 || got[0].Sequence != 10 {
		t.Fatalf("Expected 2 operations sorted by sequence, got %v", got)
	}

	count, err := store.Production.CountOperationsOn(ctx, "WC-1", day.Add(15*time.Hour))
	if err != nil {
		t.Fatalf("CountOperationsOn failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 operation on WC-1, got %d", count)
	}
	if count, _ := store.Production.CountOperationsOn(ctx, "WC-1", day.AddDate(0, 0, 1)); count != 0 {
		t.Errorf("Expected no operations the next day, got %d", count)
	}

	// an operation that starts the evening before still occupies its shift day
	next := day.AddDate(0, 0, 1)
	overnight := &entities.ProductionOperation{ID: uuid.New(), OrderID: order.ID, Sequence: 30, WorkCenterID: "WC-3",
		ScheduledDay: next, ScheduledStart: day.Add(22 * time.Hour), ScheduledEnd: next.Add(16 * time.Hour), DurationMinutes: 1080}
	if err := store.Production.SaveOperations(ctx, []*entities.ProductionOperation{overnight}); err != nil {
		t.Fatalf("SaveOperations failed: %v", err)
	}
	if count, _ := store.Production.CountOperationsOn(ctx, "WC-3", next); count != 1 {
		t.Errorf("Expected the overnight operation on its shift day, got %d", count)
	}
	if count, _ := store.Production.CountOperationsOn(ctx, "WC-3", day); count != 0 {
		t.Errorf("Expected the start day to stay free, got %d", count)
	}
	got, _ = store.Production.OperationsForOrder(ctx, order.ID)
	if len(got) != 3 || !got[2].ScheduledDay.Equal(next) {
		t.Errorf("Expected scheduled day %s to round-trip, got %v", next.Format(time.DateOnly), got)
	}

	if err := store.Production.DeleteOperations(ctx, order.ID); err != nil {
		t.Fatalf("DeleteOperations failed: %v", err)
	}
	if got, _ := store.Production.OperationsForOrder(ctx, order.ID); len(got) != 0 {
		t.Errorf("Expected no operations after delete, got %d", len(got))
	}

	if err := order.TransitionTo(entities.StatusReleased); err != nil {
		t.Fatalf("TransitionTo failed: %v", err)
	}
	start, end := ops[1].ScheduledStart, ops[0].ScheduledEnd
	order.ScheduledStart, order.ScheduledEnd = &start, &end
	if err := store.Production.UpdateOrder(ctx, order); err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}
	reloaded, err := store.Production.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if reloaded.Status != entities.StatusReleased {
		t.Errorf("Expected released, got %s", reloaded.Status)
	}
	if reloaded.ScheduledEnd == nil || !reloaded.ScheduledEnd.Equal(end) {
		t.Errorf("Expected scheduled end %s, got %v", end, reloaded.ScheduledEnd)
	}
}

func TestInventoryRepository_Ledger(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	item := entities.MaterialRef("M1")

	if err := store.Inventory.SetOnHand(ctx, item, "A", decimal.NewFromInt(60)); err != nil {
		t.Fatalf("SetOnHand failed: %v", err)
	}
	if err := store.Inventory.SetOnHand(ctx, item, "B", decimal.NewFromInt(40)); err != nil {
		t.Fatalf("SetOnHand failed: %v", err)
	}

	if err := store.Inventory.Reserve(ctx, item, decimal.NewFromInt(30), "PO-1"); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	assertAvailable(t, store, item, 70)

	if err := store.Inventory.Reserve(ctx, item, decimal.NewFromInt(100), "PO-2"); !errors.Is(err, entities.ErrInsufficientInventory) {
		t.Errorf("Expected ErrInsufficientInventory, got %v", err)
	}

	if err := store.Inventory.Issue(ctx, item, decimal.NewFromInt(50), "PO-1"); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	assertAvailable(t, store, item, 50)

	if err := store.Inventory.Transfer(ctx, item, decimal.NewFromInt(10), "A", "C"); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	assertAvailable(t, store, item, 50)

	var movements int64
	store.DB.Model(&InventoryMovementModel{}).Count(&movements)
	if movements != 3 {
		t.Errorf("Expected 3 movements, got %d", movements)
	}
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "dsn"); err == nil {
		t.Error("Expected error for unsupported driver")
	}
}

func assertAvailable(t *testing.T, store *Store, item entities.ItemRef, expected int64) {
	t.Helper()
	got, err := store.Inventory.GetAvailableQuantity(context.Background(), item)
	if err != nil {
		t.Fatalf("GetAvailableQuantity failed: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(expected)) {
		t.Errorf("Expected available %d, got %s", expected, got)
	}
}

func mustPlannedOrder(t *testing.T, run *entities.MRPRun, item entities.ItemRef, qty int64, need time.Time) *entities.PlannedOrder {
	t.Helper()
	orderType := entities.PurchaseOrder
	if item.Type == entities.ProductItem {
		orderType = entities.ProductionOrderType
	}
	o, err := entities.NewPlannedOrder(run.ID, item, orderType, decimal.NewFromInt(qty), need, need, entities.PriorityUrgent)
	if err != nil {
		t.Fatalf("NewPlannedOrder failed: %v", err)
	}
	return o
}
