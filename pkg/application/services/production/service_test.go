package production

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/application/services/capacity"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
	mock_repositories "github.com/vsinha/tpmrp/pkg/domain/repositories/mocks"
	"github.com/vsinha/tpmrp/pkg/infrastructure/events"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
	"github.com/vsinha/tpmrp/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/tpmrp/pkg/infrastructure/testing"
	"go.uber.org/mock/gomock"
)

// Monday
var asOf = testhelpers.Date(2025, 1, 6)

func newTestService(st *memory.Stores, inventory repositories.InventoryRepository, publisher events.Publisher) *Service {
	scheduler := capacity.NewScheduler(st.Production, st.Routings, st.WorkCenters, st.Tx, publisher, nil, logger.NewNop(), capacity.Config{MaxSearchDays: 30})
	return NewService(Deps{
		Items:      st.Items,
		BOMs:       st.BOMs,
		Demand:     st.Demand,
		Inventory:  inventory,
		Production: st.Production,
		Tx:         st.Tx,
		Scheduler:  scheduler,
		Publisher:  publisher,
		Logger:     logger.NewNop(),
	}).WithClock(func() time.Time { return asOf })
}

func TestCreateProductionOrders_ReserveAndScheduleForward(t *testing.T) {
	st := testhelpers.BuildBracketScenario(asOf)
	store := events.NewInMemoryEventStore(logger.NewNop())
	svc := newTestService(st, st.Inventory, store)

	result, err := svc.CreateProductionOrders(context.Background(), "CO-1", CreateOptions{
		Reserve:       true,
		Schedule:      true,
		Direction:     capacity.Forward,
		ReferenceDate: asOf,
	})
	if err != nil {
		t.Fatalf("CreateProductionOrders failed: %v", err)
	}

	if len(result.Orders) != 1 {
		t.Fatalf("Expected 1 production order, got %d", len(result.Orders))
	}
	order := result.Orders[0]
	if order.Status != entities.StatusPlanned || order.Priority != 3 {
		t.Errorf("Expected planned order with priority 3, got %s with %d", order.Status, order.Priority)
	}

	reserved := map[string]decimal.Decimal{}
	for _, r := range result.Reservations {
		reserved[r.Item.ID] = r.Reserved
	}
	// M1 needs 110 with 20 on hand, M2 needs 50 of 500
	if !reserved["M1"].Equal(testhelpers.Qty(20)) || !reserved["M2"].Equal(testhelpers.Qty(50)) {
		t.Errorf("Expected 20 of M1 and 50 of M2 reserved, got %v", reserved)
	}
	if len(result.Issues) != 1 || result.Issues[0].Code != entities.CodeInsufficientStock || result.Issues[0].Item.ID != "M1" {
		t.Errorf("Expected one insufficient_stock issue for M1, got %v", result.Issues)
	}

	available, _ := st.Inventory.GetAvailableQuantity(context.Background(), entities.MaterialRef("M2"))
	if !available.Equal(testhelpers.Qty(450)) {
		t.Errorf("Expected 450 of M2 left available, got %s", available)
	}

	if result.Schedule == nil || len(result.Schedule.ScheduledOrders) != 1 {
		t.Fatalf("Expected one scheduled order, got %+v", result.Schedule)
	}
	so := result.Schedule.ScheduledOrders[0]
	if !so.Start.Equal(asOf.Add(8*time.Hour)) || !so.End.Equal(asOf.Add(10*time.Hour+30*time.Minute)) {
		t.Errorf("Expected Mon 08:00 to 10:30, got %s to %s", so.Start, so.End)
	}

	store.Wait()
	stream, _ := store.ReadEvents(events.ProductionStream(order.ID), 0)
	types := map[string]int{}
	for _, e := range stream {
		types[e.Type()]++
	}
	if types[events.ProductionOrderCreatedEvent] != 1 || types[events.InventoryReservedEvent] != 2 || types[events.ProductionOrderScheduledEvent] != 1 {
		t.Errorf("Expected created, two reserved and one scheduled event, got %v", types)
	}
}

func TestCreateProductionOrders_BackwardFromDueDate(t *testing.T) {
	st := testhelpers.BuildBracketScenario(asOf)
	svc := newTestService(st, st.Inventory, nil)

	result, err := svc.CreateProductionOrders(context.Background(), "CO-1", CreateOptions{
		Schedule:  true,
		Direction: capacity.Backward,
	})
	if err != nil {
		t.Fatalf("CreateProductionOrders failed: %v", err)
	}

	// due Monday Jan 20 at midnight, so the work lands on Friday Jan 17
	friday := testhelpers.Date(2025, 1, 17)
	ops := result.Schedule.ScheduledOrders[0].Operations
	if !ops[0].ScheduledStart.Equal(friday.Add(13*time.Hour+30*time.Minute)) {
		t.Errorf("Expected cut at Fri 13:30, got %s", ops[0].ScheduledStart)
	}
	if !ops[1].ScheduledEnd.Equal(friday.Add(16 * time.Hour)) {
		t.Errorf("Expected weld to end Fri 16:00, got %s", ops[1].ScheduledEnd)
	}
	if len(result.Reservations) != 0 {
		t.Errorf("Expected no reservations without the reserve option, got %d", len(result.Reservations))
	}
}

func TestCreateProductionOrders_ReportsLinesItCannotProduce(t *testing.T) {
	st := testhelpers.BuildBracketScenario(asOf)
	due := asOf.AddDate(0, 0, 2)
	testhelpers.AddOrderLine(st, "CO-7", 1, entities.MaterialRef("M1"), 10, due)
	testhelpers.AddOrderLine(st, "CO-7", 2, entities.ProductRef("GHOST"), 10, due)
	testhelpers.AddOrderLine(st, "CO-7", 3, entities.ProductRef("P1"), 0, due)
	testhelpers.AddOrderLine(st, "CO-7", 4, entities.ProductRef("P1"), 10, due)
	svc := newTestService(st, st.Inventory, nil)

	result, err := svc.CreateProductionOrders(context.Background(), "CO-7", CreateOptions{})
	if err != nil {
		t.Fatalf("CreateProductionOrders failed: %v", err)
	}

	if len(result.Orders) != 1 || result.Orders[0].Priority != 1 {
		t.Fatalf("Expected one urgent order, got %+v", result.Orders)
	}
	expected := []string{entities.CodeNotProducible, entities.CodeMissingItem, entities.CodeNonPositiveQuantity}
	if len(result.Issues) != len(expected) {
		t.Fatalf("Expected %d issues, got %v", len(expected), result.Issues)
	}
	for i, code := range expected {
		if result.Issues[i].Code != code {
			t.Errorf("Issue %d: expected %s, got %s", i, code, result.Issues[i].Code)
		}
	}
	if result.Schedule != nil {
		t.Error("Expected no schedule without the schedule option")
	}
}

func TestCreateProductionOrders_RollsBackOnReservationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := testhelpers.BuildBracketScenario(asOf)

	var orderRef string
	inventory := mock_repositories.NewMockInventoryRepository(ctrl)
	inventory.EXPECT().GetAvailableQuantity(gomock.Any(), gomock.Any()).Return(testhelpers.Qty(1000), nil)
	inventory.EXPECT().Reserve(gomock.Any(), entities.MaterialRef("M1"), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ entities.ItemRef, _ decimal.Decimal, reference string) error {
			orderRef = reference
			return errors.New("ledger locked")
		})

	store := events.NewInMemoryEventStore(logger.NewNop())
	svc := newTestService(st, inventory, store)

	if _, err := svc.CreateProductionOrders(context.Background(), "CO-1", CreateOptions{Reserve: true, Schedule: true}); err == nil {
		t.Fatal("Expected reservation failure to fail the call")
	}

	id, err := uuid.Parse(orderRef)
	if err != nil {
		t.Fatalf("Expected reservation reference to be the order id, got %q", orderRef)
	}
	if _, err := st.Production.GetOrder(context.Background(), id); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected order to be rolled back, got %v", err)
	}
	store.Wait()
	if all, _ := store.ReadAllEvents(0); len(all) != 0 {
		t.Errorf("Expected no events after rollback, got %d", len(all))
	}
}

func TestCreateProductionOrders_UnknownCustomerOrder(t *testing.T) {
	st := testhelpers.BuildBracketScenario(asOf)
	svc := newTestService(st, st.Inventory, nil)

	if _, err := svc.CreateProductionOrders(context.Background(), "CO-404", CreateOptions{}); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	st := testhelpers.BuildBracketScenario(asOf)
	store := events.NewInMemoryEventStore(logger.NewNop())
	svc := newTestService(st, st.Inventory, store)

	created, err := svc.CreateProductionOrders(context.Background(), "CO-1", CreateOptions{})
	if err != nil {
		t.Fatalf("CreateProductionOrders failed: %v", err)
	}
	id := created.Orders[0].ID

	order, err := svc.UpdateStatus(context.Background(), id, entities.StatusReleased)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if order.Status != entities.StatusReleased {
		t.Errorf("Expected released, got %s", order.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), id, entities.StatusPlanned); !errors.Is(err, entities.ErrInvalidStatusTransition) {
		t.Errorf("Expected ErrInvalidStatusTransition, got %v", err)
	}
	stored, _ := st.Production.GetOrder(context.Background(), id)
	if stored.Status != entities.StatusReleased {
		t.Errorf("Expected stored status to stay released, got %s", stored.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), uuid.New(), entities.StatusReleased); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	store.Wait()
	changed := 0
	stream, _ := store.ReadEvents(events.ProductionStream(id), 0)
	for _, e := range stream {
		if e.Type() == events.ProductionStatusChangedEvent {
			changed++
		}
	}
	if changed != 1 {
		t.Errorf("Expected one status change event, got %d", changed)
	}
}
