package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/vsinha/tpmrp/pkg/application/dto"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

const rule = "────────────────────────────────────────────────────────────────────────"

func writeRun(w io.Writer, r *dto.RunResult) {
	s := r.Summary
	fmt.Fprintf(w, "📊 MRP Run %s\n", s.RunID)
	fmt.Fprintf(w, "======================\n\n")
	fmt.Fprintf(w, "Status: %s\n", s.Status)
	if s.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", s.Error)
	}
	if r.Run != nil {
		fmt.Fprintf(w, "As Of: %s  Horizon: %d days\n", day(r.Run.Parameters.AsOf), r.Run.Parameters.PlanningHorizon)
	}
	fmt.Fprintf(w, "Demands: %d  Items Planned: %d\n", s.Statistics.DemandCount, s.Statistics.ItemsPlanned)
	fmt.Fprintf(w, "Suggestions: %d (purchase %d, production %d)\n",
		s.Statistics.SuggestionCount, s.Statistics.PurchaseSuggestions, s.Statistics.ProductionSuggestions)
	fmt.Fprintf(w, "Shortages: %d  Issues: %d  Elapsed: %dms\n",
		s.Statistics.ShortageCount, s.Statistics.IssueCount, s.Statistics.ElapsedMs)
	fmt.Fprintf(w, "Can Fulfill From Stock: %v\n\n", s.CanFulfill)

	if len(r.Suggestions) > 0 {
		fmt.Fprintf(w, "📋 Planned Orders:\n")
		writeSuggestions(w, r.Suggestions)
		fmt.Fprintln(w)
	}

	if len(s.SupplierGroups) > 0 {
		fmt.Fprintf(w, "🚚 Purchases By Supplier:\n")
		for _, g := range s.SupplierGroups {
			fmt.Fprintf(w, "  %-15s %3d orders  total %s\n", g.SupplierID, len(g.Orders), g.TotalQuantity)
		}
		fmt.Fprintln(w)
	}

	writeIssues(w, r.Issues)
}

func writeSuggestions(w io.Writer, orders []*entities.PlannedOrder) {
	fmt.Fprintf(w, "%-20s %-11s %10s %-12s %-12s %-8s %-12s\n",
		"Item", "Type", "Qty", "Release", "Need", "Priority", "Supplier")
	fmt.Fprintf(w, "%-20s %-11s %10s %-12s %-12s %-8s %-12s\n",
		strings.Repeat("-", 20), strings.Repeat("-", 11), strings.Repeat("-", 10),
		strings.Repeat("-", 12), strings.Repeat("-", 12), strings.Repeat("-", 8), strings.Repeat("-", 12))
	for _, o := range orders {
		fmt.Fprintf(w, "%-20s %-11s %10s %-12s %-12s %-8s %-12s\n",
			o.Item,
			o.OrderType,
			o.Quantity,
			day(o.ReleaseDate),
			day(o.NeedDate),
			o.Priority,
			o.SupplierID)
	}
}

func writeReport(w io.Writer, r *dto.TimePhasedReport) {
	fmt.Fprintf(w, "📈 Time-Phased Plan: %s %s\n", r.Item, r.Description)
	fmt.Fprintf(w, "Run: %s  As Of: %s  On Hand: %s\n", r.RunID, day(r.AsOf), r.OnHand)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-12s %-12s %10s %10s %10s %10s %10s %-12s\n",
		"Period", "Start", "Gross", "On Hand", "Projected", "Net", "Planned", "Release")
	for _, row := range r.Rows {
		release := ""
		if row.ReleaseDate != nil {
			release = day(*row.ReleaseDate)
		}
		fmt.Fprintf(w, "%-12s %-12s %10s %10s %10s %10s %10s %-12s\n",
			row.Period.ID,
			day(row.Period.Start),
			row.GrossRequirement,
			row.OnHandIn,
			row.ProjectedAvailable,
			row.NetRequirement,
			row.PlannedOrderQty,
			release)
	}
	fmt.Fprintln(w)

	if len(r.Suggestions) > 0 {
		fmt.Fprintf(w, "📋 Planned Orders:\n")
		writeSuggestions(w, r.Suggestions)
		fmt.Fprintln(w)
	}
	writeIssues(w, r.Issues)
}

func writeOrders(w io.Writer, r *dto.CreateOrdersResult) {
	fmt.Fprintf(w, "🏭 Production Orders For %s\n", r.CustomerOrderID)
	fmt.Fprintln(w, rule)
	for _, o := range r.Orders {
		fmt.Fprintf(w, "%s  %-15s qty %-8s priority %d  due %s  %s\n",
			o.ID, o.Item.ID, o.Quantity, o.Priority, day(o.DueDate), o.Status)
		if o.ScheduledStart != nil && o.ScheduledEnd != nil {
			fmt.Fprintf(w, "  Scheduled: %s -> %s\n", clock(*o.ScheduledStart), clock(*o.ScheduledEnd))
		}
	}
	fmt.Fprintln(w)

	if len(r.Reservations) > 0 {
		fmt.Fprintf(w, "📦 Reservations:\n")
		for _, res := range r.Reservations {
			fmt.Fprintf(w, "  %-20s requested %-8s reserved %s\n", res.Item, res.Requested, res.Reserved)
		}
		fmt.Fprintln(w)
	}

	if r.Schedule != nil {
		writeSchedule(w, r.Schedule)
	}
	writeIssues(w, r.Issues)
}

func writeSchedule(w io.Writer, r *dto.ScheduleResult) {
	fmt.Fprintf(w, "🗓  Schedule (%s)\n", r.Direction)
	if r.StartDate != nil && r.EndDate != nil {
		fmt.Fprintf(w, "Window: %s -> %s\n", clock(*r.StartDate), clock(*r.EndDate))
	}
	fmt.Fprintln(w, rule)
	for _, so := range r.ScheduledOrders {
		fmt.Fprintf(w, "%s  %s  %s -> %s\n", so.OrderID, so.Item.ID, clock(so.Start), clock(so.End))
		for _, op := range so.Operations {
			fmt.Fprintf(w, "  op %-4d %-12s %s -> %s  (%.1f min)\n",
				op.Sequence, op.WorkCenterID, clock(op.ScheduledStart), clock(op.ScheduledEnd), op.DurationMinutes)
		}
	}
	fmt.Fprintln(w)
	if len(r.Failures) > 0 {
		fmt.Fprintf(w, "❌ Failures:\n")
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  %s %s\n", f.Reference, f)
		}
		fmt.Fprintln(w)
	}
}

func writeIssues(w io.Writer, issues []entities.PlanningIssue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(w, "⚠️  Issues:\n")
	for _, i := range issues {
		if i.Item.IsZero() {
			fmt.Fprintf(w, "  %s\n", i)
			continue
		}
		fmt.Fprintf(w, "  %-20s %s\n", i.Item, i)
	}
	fmt.Fprintln(w)
}
