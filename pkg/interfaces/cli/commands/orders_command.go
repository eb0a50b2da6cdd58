package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vsinha/tpmrp/pkg/application/services/production"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

// OrdersConfig holds the flags of the create-orders subcommand
type OrdersConfig struct {
	Config
	Order     string
	Reserve   bool
	Schedule  bool
	Direction string
	Date      string
}

// CreateOrdersCommand turns one customer order into production orders
type CreateOrdersCommand struct {
	config OrdersConfig
}

func NewCreateOrdersCommand(config OrdersConfig) *CreateOrdersCommand {
	return &CreateOrdersCommand{config: config}
}

func (c *CreateOrdersCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if strings.TrimSpace(c.config.Order) == "" {
		return fmt.Errorf("validation error: customer order is required (-order)")
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

	result, err := app.Orders.CreateProductionOrders(ctx, c.config.Order, production.CreateOptions{
		Reserve:       c.config.Reserve,
		Schedule:      c.config.Schedule,
		Direction:     direction,
		ReferenceDate: ref,
	})
	if err != nil {
		return fmt.Errorf("failed to create production orders: %w", err)
	}
	return c.config.render(result)
}

func (c *CreateOrdersCommand) showHelp() {
	fmt.Fprint(c.config.out(), `Create production orders from a customer order

USAGE:
    mrp create-orders -scenario <dir> -order <id> [options]

OPTIONS:
    -order string       Customer order id
    -reserve            Reserve component stock for each order
    -schedule           Schedule each order on its routing's work centers
    -direction string   forward or backward (default forward)
    -date string        Reference date: start for forward, due date is used
                        for backward (default today)

Every product line becomes one production order. Lines for materials,
unknown items or non-positive quantities are reported and skipped.
`)
}

// StatusConfig holds the flags of the status subcommand
type StatusConfig struct {
	Config
	ID     string
	Status string
}

// StatusCommand moves a persisted production order to a new status
type StatusCommand struct {
	config StatusConfig
}

func NewStatusCommand(config StatusConfig) *StatusCommand {
	return &StatusCommand{config: config}
}

func (c *StatusCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		fmt.Fprint(c.config.out(), `Change the status of a production order

USAGE:
    mrp status -scenario <dir> -persistence db -id <uuid> -status <status>

Allowed transitions: planned -> released -> in_progress -> completed, any
open status -> on_hold or cancelled, on_hold -> released or in_progress.
`)
		return nil
	}

	id, err := uuid.Parse(strings.TrimSpace(c.config.ID))
	if err != nil {
		return fmt.Errorf("validation error: invalid order id %q: %w", c.config.ID, err)
	}
	status, err := entities.ParseProductionStatus(c.config.Status)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	app, err := c.config.open(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	order, err := app.Orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", id, err)
	}
	fmt.Fprintf(c.config.out(), "Order %s is now %s\n", order.ID, order.Status)
	return nil
}
