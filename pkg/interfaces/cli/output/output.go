package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vsinha/tpmrp/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
}

// Generate renders one command result in the configured format. Text, JSON
// and SVG go to w unless OutputDir is set; CSV always needs OutputDir.
func Generate(w io.Writer, result any, config Config) error {
	switch config.Format {
	case "text", "":
		return toTarget(w, config, baseName(result)+".txt", func(out io.Writer) error {
			return writeText(out, result)
		})
	case "json":
		return toTarget(w, config, baseName(result)+".json", func(out io.Writer) error {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		})
	case "csv":
		return generateCSVOutput(w, result, config)
	case "svg":
		schedule := scheduleOf(result)
		if schedule == nil {
			return fmt.Errorf("SVG output is only available for schedules, got %T", result)
		}
		return toTarget(w, config, baseName(result)+".svg", func(out io.Writer) error {
			_, err := io.WriteString(out, NewGanttChart(schedule).GenerateSVG(schedule))
			return err
		})
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func toTarget(w io.Writer, config Config, filename string, render func(io.Writer) error) error {
	if config.OutputDir == "" {
		return render(w)
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(config.OutputDir, filename)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(w, "💾 Results saved to: %s\n", path)
	}
	return nil
}

func baseName(result any) string {
	switch result.(type) {
	case *dto.RunResult:
		return "mrp_run"
	case *dto.TimePhasedReport:
		return "time_phased_report"
	case *dto.CreateOrdersResult:
		return "production_orders"
	case *dto.ScheduleResult:
		return "schedule"
	default:
		return "result"
	}
}

func scheduleOf(result any) *dto.ScheduleResult {
	switch r := result.(type) {
	case *dto.ScheduleResult:
		return r
	case *dto.CreateOrdersResult:
		return r.Schedule
	default:
		return nil
	}
}

func writeText(w io.Writer, result any) error {
	switch r := result.(type) {
	case *dto.RunResult:
		writeRun(w, r)
	case *dto.TimePhasedReport:
		writeReport(w, r)
	case *dto.CreateOrdersResult:
		writeOrders(w, r)
	case *dto.ScheduleResult:
		writeSchedule(w, r)
	default:
		return fmt.Errorf("no text layout for %T", result)
	}
	return nil
}

func day(t time.Time) string {
	return t.Format(time.DateOnly)
}

func clock(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
