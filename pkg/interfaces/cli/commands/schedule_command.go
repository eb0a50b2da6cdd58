package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vsinha/tpmrp/pkg/application/dto"
	"github.com/vsinha/tpmrp/pkg/application/services/capacity"
	"github.com/vsinha/tpmrp/pkg/application/services/production"
)

// ScheduleConfig holds the flags of the schedule subcommand
type ScheduleConfig struct {
	Config
	IDs       string
	Order     string
	Direction string
	Date      string
}

// ScheduleCommand runs a forward or backward scheduling batch
type ScheduleCommand struct {
	config ScheduleConfig
}

func NewScheduleCommand(config ScheduleConfig) *ScheduleCommand {
	return &ScheduleCommand{config: config}
}

// Execute schedules the orders named by -ids, or first creates unscheduled
// production orders for -order and schedules those.
func (c *ScheduleCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	ids, err := parseIDs(c.config.IDs)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if len(ids) == 0 && strings.TrimSpace(c.config.Order) == "" {
		return fmt.Errorf("validation error: either -ids or -order is required")
	}
	direction, err := parseDirection(c.config.Direction)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	ref, err := parseDate(c.config.Date)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	app, err := c.config.open(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if c.config.Order != "" {
		created, err := app.Orders.CreateProductionOrders(ctx, c.config.Order, production.CreateOptions{})
		if err != nil {
			return fmt.Errorf("failed to create production orders: %w", err)
		}
		for _, o := range created.Orders {
			ids = append(ids, o.ID)
			if direction == capacity.Backward && ref.IsZero() {
				ref = o.DueDate
			}
		}
		if c.config.Verbose {
			fmt.Fprintf(c.config.out(), "🏭 Created %d production orders for %s\n", len(created.Orders), c.config.Order)
		}
	}
	if ref.IsZero() {
		ref = time.Now()
	}

	var result *dto.ScheduleResult
	if direction == capacity.Backward {
		result, err = app.Scheduler.BackwardSchedule(ctx, ids, ref)
	} else {
		result, err = app.Scheduler.ForwardSchedule(ctx, ids, ref)
	}
	if err != nil {
		return fmt.Errorf("failed to schedule: %w", err)
	}
	return c.config.render(result)
}

func parseIDs(s string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("invalid order id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *ScheduleCommand) showHelp() {
	fmt.Fprint(c.config.out(), `Schedule production orders on work-center calendars

USAGE:
    mrp schedule -scenario <dir> (-ids <uuid,...> | -order <id>) [options]

OPTIONS:
    -ids string         Comma-separated production order ids (needs -persistence db)
    -order string       Create production orders for this customer order, then schedule them
    -direction string   forward or backward (default forward)
    -date string        Start for forward scheduling or end for backward scheduling.
                        Backward scheduling of -order defaults to the first due date.

Operations run in routing sequence, one per work center per day. Orders
that cannot be placed are listed as failures; the rest are still scheduled.
`)
}
