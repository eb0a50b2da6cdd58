package planning

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vsinha/tpmrp/pkg/domain/entities"
	mock_repositories "github.com/vsinha/tpmrp/pkg/domain/repositories/mocks"
	"github.com/vsinha/tpmrp/pkg/infrastructure/events"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
	"github.com/vsinha/tpmrp/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/tpmrp/pkg/infrastructure/testing"
	"go.uber.org/mock/gomock"
)

// Monday
var asOf = testhelpers.Date(2025, 1, 6)

func fixedClock() time.Time { return asOf.Add(9 * time.Hour) }

func newTestService(st *memory.Stores, publisher events.Publisher) *Service {
	return NewService(Deps{
		Items:     st.Items,
		BOMs:      st.BOMs,
		Demand:    st.Demand,
		Inventory: st.Inventory,
		Calendar:  st.Calendar,
		Runs:      st.Runs,
		Tx:        st.Tx,
		Publisher: publisher,
		Logger:    logger.NewNop(),
	}).WithClock(fixedClock)
}

func runOptions() entities.RunOptions {
	opts := entities.DefaultRunOptions()
	opts.AsOf = asOf
	opts.User = "planner"
	return opts
}

func TestRunTimePhasedMRP_SafetyStockExample(t *testing.T) {
	st := testhelpers.NewStores()
	m := testhelpers.Material("M", 5, "SUP-1")
	m.SafetyStock = testhelpers.Qty(100)
	testhelpers.MustAddItems(st, m)
	testhelpers.AddOrderLine(st, "CO-9", 1, m.Ref(), 150, asOf)

	opts := runOptions()
	opts.IncludeSafetyStock = false

	result, err := newTestService(st, nil).RunTimePhasedMRP(context.Background(), opts)
	if err != nil {
		t.Fatalf("RunTimePhasedMRP failed: %v", err)
	}

	if len(result.Items) != 1 {
		t.Fatalf("Expected 1 planned item, got %d", len(result.Items))
	}
	row := result.Items[0].Rows[0]
	if !row.PlannedOrderQty.Equal(testhelpers.Qty(400)) {
		t.Errorf("Expected planned quantity 400, got %s", row.PlannedOrderQty)
	}
	if !row.NetRequirement.Equal(testhelpers.Qty(150)) {
		t.Errorf("Expected reported net requirement 150, got %s", row.NetRequirement)
	}
	if !row.ProjectedAvailable.Equal(testhelpers.Qty(250)) {
		t.Errorf("Expected projected available 250, got %s", row.ProjectedAvailable)
	}
	if row.ReleaseDate == nil || !row.ReleaseDate.Equal(asOf) {
		t.Errorf("Expected release clipped to %s, got %v", asOf, row.ReleaseDate)
	}

	if len(result.Suggestions) != 1 {
		t.Fatalf("Expected 1 suggestion, got %d", len(result.Suggestions))
	}
	s := result.Suggestions[0]
	if s.OrderType != entities.PurchaseOrder || s.Priority != entities.PriorityUrgent || s.SupplierID != "SUP-1" {
		t.Errorf("Expected urgent purchase from SUP-1, got %s %s %s", s.OrderType, s.Priority, s.SupplierID)
	}
	if result.Summary.CanFulfill {
		t.Error("Expected a run with shortages not to fulfil")
	}
	if result.Run.Status != entities.RunCompleted {
		t.Errorf("Expected completed run, got %s", result.Run.Status)
	}
}

func TestRunTimePhasedMRP_BracketScenario(t *testing.T) {
	st := testhelpers.BuildBracketScenario(asOf)
	store := events.NewInMemoryEventStore(logger.NewNop())

	result, err := newTestService(st, store).RunTimePhasedMRP(context.Background(), runOptions())
	if err != nil {
		t.Fatalf("RunTimePhasedMRP failed: %v", err)
	}

	stats := result.Run.Statistics
	if stats.ItemsPlanned != 3 || stats.SuggestionCount != 2 {
		t.Errorf("Expected 3 items and 2 suggestions, got %d and %d", stats.ItemsPlanned, stats.SuggestionCount)
	}
	if stats.PurchaseSuggestions != 1 || stats.ProductionSuggestions != 1 {
		t.Errorf("Expected one purchase and one production suggestion, got %d and %d",
			stats.PurchaseSuggestions, stats.ProductionSuggestions)
	}
	if stats.ShortageCount != 2 {
		t.Errorf("Expected 2 shortages, got %d", stats.ShortageCount)
	}

	byItem := map[string]*entities.PlannedOrder{}
	for _, o := range result.Suggestions {
		byItem[o.Item.ID] = o
	}

	tests := []struct {
		item     string
		qty      int64
		need     time.Time
		release  time.Time
		priority entities.Priority
	}{
		// P1 due Jan 20, lead 2 working days
		{"P1", 50, testhelpers.Date(2025, 1, 20), testhelpers.Date(2025, 1, 16), entities.PriorityNormal},
		// 2 x 50 x 1.10 = 110 less 20 on hand, needed in the week of Jan 13
		{"M1", 90, testhelpers.Date(2025, 1, 13), testhelpers.Date(2025, 1, 6), entities.PriorityHigh},
	}
	for _, tt := range tests {
		o, ok := byItem[tt.item]
		if !ok {
			t.Errorf("Expected a suggestion for %s", tt.item)
			continue
		}
		if !o.Quantity.Equal(testhelpers.Qty(tt.qty)) {
			t.Errorf("%s: expected quantity %d, got %s", tt.item, tt.qty, o.Quantity)
		}
		if !o.NeedDate.Equal(tt.need) || !o.ReleaseDate.Equal(tt.release) {
			t.Errorf("%s: expected need %s release %s, got %s and %s", tt.item,
				tt.need.Format(time.DateOnly), tt.release.Format(time.DateOnly),
				o.NeedDate.Format(time.DateOnly), o.ReleaseDate.Format(time.DateOnly))
		}
		if o.Priority != tt.priority {
			t.Errorf("%s: expected priority %s, got %s", tt.item, tt.priority, o.Priority)
		}
	}
	if _, ok := byItem["M2"]; ok {
		t.Error("Expected no suggestion for M2, it is covered by stock")
	}

	groups := result.Summary.SupplierGroups
	if len(groups) != 1 || groups[0].SupplierID != "SUP-STEEL" || !groups[0].TotalQuantity.Equal(testhelpers.Qty(90)) {
		t.Errorf("Expected one SUP-STEEL group of 90, got %+v", groups)
	}

	saved, err := st.Runs.PlannedOrders(context.Background(), result.Run.ID)
	if err != nil || len(saved) != 2 {
		t.Errorf("Expected 2 persisted suggestions, got %d (%v)", len(saved), err)
	}

	store.Wait()
	stream, _ := store.ReadEvents(events.RunStream(result.Run.ID), 0)
	if len(stream) < 2 || stream[0].Type() != events.RunStartedEvent || stream[1].Type() != events.RunCompletedEvent {
		t.Errorf("Expected run started then completed events, got %d events", len(stream))
	}
}

func TestRunTimePhasedMRP_CanFulfillFromStock(t *testing.T) {
	st := testhelpers.NewStores()
	m := testhelpers.Material("M", 3, "SUP-1")
	testhelpers.MustAddItems(st, m)
	testhelpers.MustSetOnHand(st, m.Ref(), 500)
	testhelpers.AddOrderLine(st, "CO-1", 1, m.Ref(), 50, asOf.AddDate(0, 0, 10))

	result, err := newTestService(st, nil).RunTimePhasedMRP(context.Background(), runOptions())
	if err != nil {
		t.Fatalf("RunTimePhasedMRP failed: %v", err)
	}
	if !result.Summary.CanFulfill {
		t.Error("Expected run to fulfil from stock")
	}
	if len(result.Suggestions) != 0 {
		t.Errorf("Expected no suggestions, got %d", len(result.Suggestions))
	}
}

func TestRunTimePhasedMRP_ItemOrderDoesNotMatter(t *testing.T) {
	build := func(reverse bool) *memory.Stores {
		st := testhelpers.NewStores()
		items := []entities.Item{
			testhelpers.Material("A", 2, "S1"),
			testhelpers.Material("B", 4, "S2"),
			testhelpers.Material("C", 1, "S3"),
		}
		if reverse {
			items[0], items[2] = items[2], items[0]
		}
		testhelpers.MustAddItems(st, items...)
		for i, id := range []string{"A", "B", "C"} {
			testhelpers.AddOrderLine(st, "CO-"+id, 1, entities.MaterialRef(id), int64(10*(i+1)), asOf.AddDate(0, 0, 8+i*7))
		}
		return st
	}

	first, err := newTestService(build(false), nil).RunTimePhasedMRP(context.Background(), runOptions())
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := newTestService(build(true), nil).RunTimePhasedMRP(context.Background(), runOptions())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	key := func(o *entities.PlannedOrder) string {
		return o.Item.String() + "|" + o.Quantity.String() + "|" + o.ReleaseDate.Format(time.DateOnly) + "|" + o.NeedDate.Format(time.DateOnly)
	}
	got := map[string]bool{}
	for _, o := range first.Suggestions {
		got[key(o)] = true
	}
	if len(second.Suggestions) != len(first.Suggestions) {
		t.Fatalf("Expected %d suggestions, got %d", len(first.Suggestions), len(second.Suggestions))
	}
	for _, o := range second.Suggestions {
		if !got[key(o)] {
			t.Errorf("Suggestion %s differs between item orders", key(o))
		}
	}
}

func TestRunTimePhasedMRP_ReportsDataGaps(t *testing.T) {
	st := testhelpers.NewStores()
	p := testhelpers.Product("P9", 1)
	testhelpers.MustAddItems(st, p)
	testhelpers.AddOrderLine(st, "CO-1", 1, p.Ref(), 5, asOf.AddDate(0, 0, 3))
	testhelpers.AddOrderLine(st, "CO-1", 2, entities.MaterialRef("GHOST"), 5, asOf.AddDate(0, 0, 3))

	result, err := newTestService(st, nil).RunTimePhasedMRP(context.Background(), runOptions())
	if err != nil {
		t.Fatalf("Expected data gaps not to fail the run, got %v", err)
	}

	codes := map[string]bool{}
	for _, issue := range result.Issues {
		codes[issue.Code] = true
	}
	for _, code := range []string{entities.CodeNoBOM, entities.CodeMissingItem} {
		if !codes[code] {
			t.Errorf("Expected issue %s, got %v", code, result.Issues)
		}
	}
	if result.Run.Statistics.IssueCount != len(result.Issues) {
		t.Errorf("Expected issue count %d, got %d", len(result.Issues), result.Run.Statistics.IssueCount)
	}
}

func TestRunTimePhasedMRP_FailsAndRecordsError(t *testing.T) {
	t.Run("suggestions cannot be saved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		st := testhelpers.BuildBracketScenario(asOf)

		runs := mock_repositories.NewMockRunRepository(ctrl)
		var recorded *entities.MRPRun
		runs.EXPECT().CreateRun(gomock.Any(), gomock.Any()).Return(nil)
		runs.EXPECT().SavePlannedOrders(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
		runs.EXPECT().UpdateRun(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, run *entities.MRPRun) error {
				recorded = run
				return nil
			})

		svc := NewService(Deps{
			Items: st.Items, BOMs: st.BOMs, Demand: st.Demand, Inventory: st.Inventory,
			Calendar: st.Calendar, Runs: runs, Tx: st.Tx,
		}).WithClock(fixedClock)

		result, err := svc.RunTimePhasedMRP(context.Background(), runOptions())
		if err == nil {
			t.Fatal("Expected run to fail")
		}
		if !strings.Contains(err.Error(), "connection reset") {
			t.Errorf("Expected cause in error, got %v", err)
		}
		if result == nil || result.Run.Status != entities.RunFailed {
			t.Fatalf("Expected failed run in result, got %+v", result)
		}
		if recorded == nil || recorded.Status != entities.RunFailed || !strings.Contains(recorded.Error, "connection reset") {
			t.Errorf("Expected failed run with message to be persisted, got %+v", recorded)
		}
		if result.Summary.CanFulfill {
			t.Error("Expected failed run not to fulfil")
		}
	})

	t.Run("completion cannot be recorded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		st := testhelpers.BuildBracketScenario(asOf)

		runs := mock_repositories.NewMockRunRepository(ctrl)
		var statuses []entities.RunStatus
		var recorded *entities.MRPRun
		runs.EXPECT().CreateRun(gomock.Any(), gomock.Any()).Return(nil)
		runs.EXPECT().SavePlannedOrders(gomock.Any(), gomock.Any()).Return(nil)
		runs.EXPECT().UpdateRun(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(
			func(_ context.Context, run *entities.MRPRun) error {
				statuses = append(statuses, run.Status)
				if run.Status == entities.RunCompleted {
					return errors.New("disk full")
				}
				recorded = run
				return nil
			})

		svc := NewService(Deps{
			Items: st.Items, BOMs: st.BOMs, Demand: st.Demand, Inventory: st.Inventory,
			Calendar: st.Calendar, Runs: runs, Tx: st.Tx,
		}).WithClock(fixedClock)

		result, err := svc.RunTimePhasedMRP(context.Background(), runOptions())
		if err == nil || !strings.Contains(err.Error(), "disk full") {
			t.Fatalf("Expected run to fail with the update error, got %v", err)
		}
		if result == nil || result.Run.Status != entities.RunFailed {
			t.Fatalf("Expected failed run in result, got %+v", result)
		}
		if len(statuses) != 2 || statuses[0] != entities.RunCompleted || statuses[1] != entities.RunFailed {
			t.Errorf("Expected completed then failed updates, got %v", statuses)
		}
		if recorded == nil || !strings.Contains(recorded.Error, "disk full") {
			t.Errorf("Expected failed run with message to be persisted, got %+v", recorded)
		}
	})

	t.Run("calendar unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		st := testhelpers.BuildBracketScenario(asOf)

		calendar := mock_repositories.NewMockPlanningCalendar(ctrl)
		calendar.EXPECT().Periods(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("calendar offline"))

		svc := NewService(Deps{
			Items: st.Items, BOMs: st.BOMs, Demand: st.Demand, Inventory: st.Inventory,
			Calendar: calendar, Runs: st.Runs, Tx: st.Tx,
		}).WithClock(fixedClock)

		result, err := svc.RunTimePhasedMRP(context.Background(), runOptions())
		if err == nil {
			t.Fatal("Expected run to fail")
		}
		stored, gerr := st.Runs.GetRun(context.Background(), result.Run.ID)
		if gerr != nil {
			t.Fatalf("Expected failed run to stay recorded: %v", gerr)
		}
		if stored.Status != entities.RunFailed {
			t.Errorf("Expected stored run failed, got %s", stored.Status)
		}
		if _, err := st.Runs.LatestCompletedRun(context.Background()); !errors.Is(err, entities.ErrNoCompletedRun) {
			t.Errorf("Expected no completed run, got %v", err)
		}
	})
}

func TestGetTimePhasedReport(t *testing.T) {
	st := testhelpers.BuildBracketScenario(asOf)
	svc := newTestService(st, nil)

	if _, err := svc.GetTimePhasedReport(context.Background(), entities.MaterialRef("M1")); !errors.Is(err, entities.ErrNoCompletedRun) {
		t.Fatalf("Expected ErrNoCompletedRun before any run, got %v", err)
	}

	run, err := svc.RunTimePhasedMRP(context.Background(), runOptions())
	if err != nil {
		t.Fatalf("RunTimePhasedMRP failed: %v", err)
	}

	report, err := svc.GetTimePhasedReport(context.Background(), entities.MaterialRef("M1"))
	if err != nil {
		t.Fatalf("GetTimePhasedReport failed: %v", err)
	}
	if report.RunID != run.Run.ID {
		t.Errorf("Expected report against run %s, got %s", run.Run.ID, report.RunID)
	}
	if len(report.Suggestions) != 1 || !report.Suggestions[0].Quantity.Equal(testhelpers.Qty(90)) {
		t.Errorf("Expected the persisted suggestion of 90, got %+v", report.Suggestions)
	}
	if !report.Rows[1].PlannedOrderQty.Equal(testhelpers.Qty(90)) {
		t.Errorf("Expected recomputed planned quantity 90 in week 2, got %s", report.Rows[1].PlannedOrderQty)
	}
	if report.Rows[1].ReleaseDate == nil || !report.Rows[1].ReleaseDate.Equal(asOf) {
		t.Errorf("Expected release on %s, got %v", asOf, report.Rows[1].ReleaseDate)
	}

	if _, err := svc.GetTimePhasedReport(context.Background(), entities.MaterialRef("NOPE")); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown item, got %v", err)
	}
}
