package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vsinha/tpmrp/pkg/interfaces/cli/commands"
)

func main() {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		commands.Usage(os.Stderr)
		os.Exit(2)
	}

	cmd, err := parse(os.Args[1], os.Args[2:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if cmd == nil {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// parse builds the subcommand named by name from its flags
func parse(name string, args []string) (commands.Command, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	var common commands.Config
	shared := func() {
		fs.StringVar(&common.ScenarioDir, "scenario", "", "Path to scenario directory containing CSV files")
		fs.StringVar(&common.Persistence, "persistence", "memory", "Where runs and orders are stored: memory or db")
		fs.StringVar(&common.Format, "format", "text", "Output format: text, json, csv, svg")
		fs.StringVar(&common.OutputDir, "output", "", "Output directory for results (optional)")
		fs.BoolVar(&common.Verbose, "verbose", false, "Enable verbose output")
		fs.BoolVar(&common.Help, "help", false, "Show help message")
	}

	switch name {
	case "run":
		var c commands.RunConfig
		shared()
		fs.StringVar(&c.AsOf, "as-of", "", "Planning date (YYYY-MM-DD)")
		fs.IntVar(&c.Horizon, "horizon", 0, "Planning horizon in days")
		fs.BoolVar(&c.SkipSafetyStock, "no-safety-stock", false, "Do not plan safety stock")
		fs.BoolVar(&c.SkipOrders, "no-orders", false, "Ignore customer orders")
		fs.BoolVar(&c.SkipMPS, "no-mps", false, "Ignore the master production schedule")
		fs.StringVar(&c.User, "user", os.Getenv("USER"), "User recorded on the run")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		c.Config = common
		return commands.NewRunCommand(c), nil

	case "report":
		var c commands.ReportConfig
		shared()
		fs.StringVar(&c.Item, "item", "", "Item as type:id, e.g. material:M1")
		fs.StringVar(&c.AsOf, "as-of", "", "Planning date used when no run exists yet")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		c.Config = common
		return commands.NewReportCommand(c), nil

	case "create-orders":
		var c commands.OrdersConfig
		shared()
		fs.StringVar(&c.Order, "order", "", "Customer order id")
		fs.BoolVar(&c.Reserve, "reserve", false, "Reserve component stock")
		fs.BoolVar(&c.Schedule, "schedule", false, "Schedule the new orders")
		fs.StringVar(&c.Direction, "direction", "forward", "Scheduling direction: forward or backward")
		fs.StringVar(&c.Date, "date", "", "Reference date (YYYY-MM-DD or RFC 3339)")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		c.Config = common
		return commands.NewCreateOrdersCommand(c), nil

	case "schedule":
		var c commands.ScheduleConfig
		shared()
		fs.StringVar(&c.IDs, "ids", "", "Comma-separated production order ids")
		fs.StringVar(&c.Order, "order", "", "Customer order to create and schedule")
		fs.StringVar(&c.Direction, "direction", "forward", "Scheduling direction: forward or backward")
		fs.StringVar(&c.Date, "date", "", "Start or end date (YYYY-MM-DD or RFC 3339)")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		c.Config = common
		return commands.NewScheduleCommand(c), nil

	case "status":
		var c commands.StatusConfig
		shared()
		fs.StringVar(&c.ID, "id", "", "Production order id")
		fs.StringVar(&c.Status, "status", "", "New status")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		c.Config = common
		return commands.NewStatusCommand(c), nil

	case "generate":
		var (
			c     commands.GenerateConfig
			start string
		)
		fs.IntVar(&c.Products, "products", 20, "Number of products")
		fs.IntVar(&c.Materials, "materials", 100, "Number of materials")
		fs.IntVar(&c.Orders, "orders", 50, "Number of customer-order lines")
		fs.IntVar(&c.WorkCenters, "work-centers", 5, "Number of work centers")
		fs.Float64Var(&c.Inventory, "inventory", 0.5, "Stock multiplier against order demand")
		fs.StringVar(&start, "start", "", "First due date (YYYY-MM-DD)")
		fs.StringVar(&c.OutputDir, "output", "", "Output directory")
		fs.Int64Var(&c.Seed, "seed", 0, "Random seed")
		fs.BoolVar(&c.Verbose, "verbose", false, "Enable verbose output")
		fs.BoolVar(&c.Help, "help", false, "Show help message")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if start != "" {
			t, err := time.Parse(time.DateOnly, start)
			if err != nil {
				return nil, fmt.Errorf("invalid -start %q: %w", start, err)
			}
			c.StartDate = t
		}
		return commands.NewGenerateCommand(c), nil

	case "help", "-h", "-help", "--help":
		commands.Usage(os.Stdout)
		return nil, nil

	default:
		commands.Usage(os.Stderr)
		return nil, fmt.Errorf("unknown command %q", name)
	}
}
