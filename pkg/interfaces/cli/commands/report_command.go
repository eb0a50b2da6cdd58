package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

// ReportConfig holds the flags of the report subcommand
type ReportConfig struct {
	Config
	Item string
	AsOf string
}

// ReportCommand prints the time-phased plan of one item
type ReportCommand struct {
	config ReportConfig
}

func NewReportCommand(config ReportConfig) *ReportCommand {
	return &ReportCommand{config: config}
}

// Execute reports against the latest completed run. When persistence holds
// no completed run yet, one is run first with the given as-of date.
func (c *ReportCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	item, err := entities.ParseItemRef(c.config.Item)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	asOf, err := parseDate(c.config.AsOf)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	app, err := c.config.open(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.Planning.GetTimePhasedReport(ctx, item)
	if errors.Is(err, entities.ErrNoCompletedRun) {
		if c.config.Verbose {
			fmt.Fprintln(c.config.out(), "🔄 No completed run found, running MRP first...")
		}
		opts := app.DefaultRunOptions()
		opts.AsOf = asOf
		if _, err := app.Planning.RunTimePhasedMRP(ctx, opts); err != nil {
			return fmt.Errorf("error running MRP: %w", err)
		}
		report, err = app.Planning.GetTimePhasedReport(ctx, item)
	}
	if err != nil {
		return fmt.Errorf("failed to build report for %s: %w", item, err)
	}
	return c.config.render(report)
}

func (c *ReportCommand) showHelp() {
	fmt.Fprint(c.config.out(), `Show the time-phased plan of one item

USAGE:
    mrp report -scenario <dir> -item <type:id> [options]

OPTIONS:
    -item string     Item to report, e.g. product:P1 or material:M1
    -as-of string    Planning date used when a run has to be made first

The report recomputes gross requirements, projected stock and planned
orders for each period against the latest completed run.
`)
}
