package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vsinha/tpmrp/pkg/application/services/capacity"
	"github.com/vsinha/tpmrp/pkg/infrastructure/config"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
	"github.com/vsinha/tpmrp/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/tpmrp/pkg/interfaces/bootstrap"
	"github.com/vsinha/tpmrp/pkg/interfaces/cli/output"
)

// Config holds the flags shared by every subcommand
type Config struct {
	ScenarioDir string
	Persistence string
	Format      string
	OutputDir   string
	Verbose     bool
	Help        bool

	// Settings and Logger default to the environment and a development logger
	Settings *config.Config
	Logger   *logger.Logger
	Stdout   io.Writer
}

// Command is one CLI subcommand
type Command interface {
	Execute(ctx context.Context) error
}

func (c Config) out() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

func (c Config) validate() error {
	if c.ScenarioDir == "" {
		return fmt.Errorf("scenario directory is required (-scenario)")
	}
	info, err := os.Stat(c.ScenarioDir)
	if err != nil {
		return fmt.Errorf("scenario directory %s: %w", c.ScenarioDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("scenario path %s is not a directory", c.ScenarioDir)
	}
	if _, err := os.Stat(filepath.Join(c.ScenarioDir, csv.ItemsFile)); err != nil {
		return fmt.Errorf("scenario is missing %s", csv.ItemsFile)
	}
	switch c.Format {
	case "", "text", "json", "csv", "svg":
	default:
		return fmt.Errorf("unsupported output format: %s", c.Format)
	}
	switch bootstrap.Persistence(c.Persistence) {
	case "", bootstrap.InMemory, bootstrap.Database:
	default:
		return fmt.Errorf("unknown persistence %q (expected memory or db)", c.Persistence)
	}
	return nil
}

// open validates the shared flags and assembles the services
func (c Config) open(ctx context.Context) (*bootstrap.App, error) {
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	settings := c.Settings
	if settings == nil {
		var err error
		if settings, err = config.Load(); err != nil {
			return nil, err
		}
	}
	log := c.Logger
	if log == nil {
		var err error
		if log, err = logger.New(settings.Env); err != nil {
			return nil, err
		}
	}

	if c.Verbose {
		fmt.Fprintf(c.out(), "📂 Loading scenario from %s (%s persistence)\n", c.ScenarioDir, c.persistence())
	}
	app, err := bootstrap.New(ctx, settings, log, bootstrap.Options{
		ScenarioDir: c.ScenarioDir,
		Persistence: c.persistence(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}
	return app, nil
}

func (c Config) persistence() bootstrap.Persistence {
	if c.Persistence == "" {
		return bootstrap.InMemory
	}
	return bootstrap.Persistence(c.Persistence)
}

func (c Config) render(result any) error {
	return output.Generate(c.out(), result, output.Config{
		Format:    c.Format,
		OutputDir: c.OutputDir,
		Verbose:   c.Verbose,
	})
}

// parseDate accepts a calendar date or an RFC 3339 timestamp
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or RFC 3339)", s)
	}
	return t, nil
}

func parseDirection(s string) (capacity.Direction, error) {
	if strings.TrimSpace(s) == "" {
		return capacity.Forward, nil
	}
	return capacity.ParseDirection(strings.ToLower(strings.TrimSpace(s)))
}

// Usage prints the top-level help
func Usage(w io.Writer) {
	fmt.Fprint(w, `Time-Phased MRP and Production Scheduling

USAGE:
    mrp <command> -scenario <dir> [options]

COMMANDS:
    run             Run time-phased MRP and print suggestions
    report          Show the time-phased plan of one item
    create-orders   Turn a customer order into production orders
    schedule        Forward or backward schedule production orders
    status          Move a production order through its lifecycle

COMMON OPTIONS:
    -scenario string      Scenario directory with items.csv and optional boms.csv,
                          bom_lines.csv, inventory.csv, customer_orders.csv, mps.csv,
                          work_centers.csv, routings.csv, holidays.csv
    -persistence string   memory or db (default memory)
    -format string        text, json, csv or svg (default text)
    -output string        Write results to this directory instead of stdout
    -verbose              Print progress information
    -help                 Show help for the command

ENVIRONMENT:
    MRP_ENV, MRP_DB_DRIVER, MRP_DB_DSN, MRP_PERIOD_DAYS, MRP_PLANNING_HORIZON_DAYS,
    MRP_MAX_SEARCH_DAYS, MRP_METRICS_ENABLED (a .env file is read when present)

EXAMPLES:
    mrp run -scenario ./example/bracket -as-of 2025-01-06
    mrp report -scenario ./example/bracket -item material:M1 -as-of 2025-01-06
    mrp create-orders -scenario ./example/bracket -order CO-1 -reserve -schedule -date 2025-01-06
    mrp schedule -scenario ./example/bracket -order CO-1 -direction backward
    mrp schedule -scenario ./example/bracket -persistence db -ids <uuid>,<uuid> -date 2025-01-06
`)
}
