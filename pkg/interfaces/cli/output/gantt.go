package output

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vsinha/tpmrp/pkg/application/dto"
)

// GanttChart lays out scheduled operations with one row per work center
type GanttChart struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	RowHeight    int
	StartTime    time.Time
	EndTime      time.Time
}

// GanttBar is one operation on a work-center row
type GanttBar struct {
	WorkCenterID string
	OrderID      uuid.UUID
	ItemID       string
	Sequence     int
	Start        time.Time
	End          time.Time
	X            int
	Width        int
	Color        string
}

var orderPalette = []string{"#4CAF50", "#2196F3", "#FF9800", "#9C27B0", "#009688", "#795548"}

// NewGanttChart sizes a chart to the schedule's operations
func NewGanttChart(result *dto.ScheduleResult) *GanttChart {
	gc := &GanttChart{
		Width:        1200,
		Height:       200,
		MarginLeft:   150,
		MarginTop:    60,
		MarginRight:  50,
		MarginBottom: 60,
		RowHeight:    30,
	}

	centers := make(map[string]bool)
	for _, so := range result.ScheduledOrders {
		for _, op := range so.Operations {
			centers[op.WorkCenterID] = true
			if gc.StartTime.IsZero() || op.ScheduledStart.Before(gc.StartTime) {
				gc.StartTime = op.ScheduledStart
			}
			if op.ScheduledEnd.After(gc.EndTime) {
				gc.EndTime = op.ScheduledEnd
			}
		}
	}
	if len(centers) == 0 {
		return gc
	}

	// whole days either side keeps the axis on midnight boundaries
	gc.StartTime = time.Date(gc.StartTime.Year(), gc.StartTime.Month(), gc.StartTime.Day(), 0, 0, 0, 0, gc.StartTime.Location())
	gc.EndTime = time.Date(gc.EndTime.Year(), gc.EndTime.Month(), gc.EndTime.Day()+1, 0, 0, 0, 0, gc.EndTime.Location())
	gc.Height = len(centers)*gc.RowHeight + gc.MarginTop + gc.MarginBottom
	return gc
}

// GenerateSVG renders the chart
func (gc *GanttChart) GenerateSVG(result *dto.ScheduleResult) string {
	bars := gc.createBars(result)
	if len(bars) == 0 {
		return gc.generateEmptyChart()
	}
	rows := gc.organizeBars(bars)

	var svg strings.Builder
	fmt.Fprintf(&svg, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, gc.Width, gc.Height)
	svg.WriteString(`<defs><style>`)
	svg.WriteString(`.wc-label { font-family: Arial, sans-serif; font-size: 12px; fill: #333; }`)
	svg.WriteString(`.time-label { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; }`)
	svg.WriteString(`.op-bar { stroke: #333; stroke-width: 1; }`)
	svg.WriteString(`.op-text { font-family: Arial, sans-serif; font-size: 9px; fill: white; }`)
	svg.WriteString(`</style></defs>`)
	fmt.Fprintf(&svg, `<rect width="%d" height="%d" fill="white"/>`, gc.Width, gc.Height)
	fmt.Fprintf(&svg, `<text x="%d" y="30" class="title" text-anchor="middle">Work Center Schedule - %s</text>`,
		gc.Width/2, html.EscapeString(result.Direction))

	gc.drawTimeAxis(&svg, len(rows))
	gc.drawRows(&svg, rows)

	svg.WriteString(`</svg>`)
	return svg.String()
}

func (gc *GanttChart) x(t time.Time) int {
	chartWidth := gc.Width - gc.MarginLeft - gc.MarginRight
	total := gc.EndTime.Sub(gc.StartTime)
	return gc.MarginLeft + int(float64(t.Sub(gc.StartTime))/float64(total)*float64(chartWidth))
}

func (gc *GanttChart) createBars(result *dto.ScheduleResult) []GanttBar {
	var bars []GanttBar
	for i, so := range result.ScheduledOrders {
		color := orderPalette[i%len(orderPalette)]
		for _, op := range so.Operations {
			x := gc.x(op.ScheduledStart)
			width := gc.x(op.ScheduledEnd) - x
			if width < 2 {
				width = 2
			}
			bars = append(bars, GanttBar{
				WorkCenterID: op.WorkCenterID,
				OrderID:      so.OrderID,
				ItemID:       so.Item.ID,
				Sequence:     op.Sequence,
				Start:        op.ScheduledStart,
				End:          op.ScheduledEnd,
				X:            x,
				Width:        width,
				Color:        color,
			})
		}
	}
	return bars
}

// organizeBars groups bars by work center in start order
func (gc *GanttChart) organizeBars(bars []GanttBar) map[string][]GanttBar {
	rows := make(map[string][]GanttBar)
	for _, bar := range bars {
		rows[bar.WorkCenterID] = append(rows[bar.WorkCenterID], bar)
	}
	for wc := range rows {
		sort.Slice(rows[wc], func(i, j int) bool {
			return rows[wc][i].Start.Before(rows[wc][j].Start)
		})
	}
	return rows
}

func (gc *GanttChart) drawTimeAxis(svg *strings.Builder, numRows int) {
	axisY := gc.MarginTop + numRows*gc.RowHeight
	for t := gc.StartTime; t.Before(gc.EndTime); t = t.AddDate(0, 0, 1) {
		x := gc.x(t)
		fmt.Fprintf(svg, `<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`, x, gc.MarginTop, x, axisY)
		fmt.Fprintf(svg, `<text x="%d" y="%d" class="time-label">%s</text>`, x+2, axisY+15, t.Format("Mon Jan 2"))
	}
	fmt.Fprintf(svg, `<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
		gc.MarginLeft, axisY, gc.Width-gc.MarginRight, axisY)
}

func (gc *GanttChart) drawRows(svg *strings.Builder, rows map[string][]GanttBar) {
	centers := make([]string, 0, len(rows))
	for wc := range rows {
		centers = append(centers, wc)
	}
	sort.Strings(centers)

	for i, wc := range centers {
		y := gc.MarginTop + i*gc.RowHeight
		fmt.Fprintf(svg, `<text x="%d" y="%d" class="wc-label" text-anchor="end">%s</text>`,
			gc.MarginLeft-15, y+gc.RowHeight/2+4, html.EscapeString(wc))
		fmt.Fprintf(svg, `<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			gc.MarginLeft, y+gc.RowHeight, gc.Width-gc.MarginRight, y+gc.RowHeight)
		for _, bar := range rows[wc] {
			gc.drawBar(svg, bar, y)
		}
	}
}

func (gc *GanttChart) drawBar(svg *strings.Builder, bar GanttBar, rowY int) {
	barHeight := gc.RowHeight - 4
	barY := rowY + 2
	fmt.Fprintf(svg, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="op-bar">`,
		bar.X, barY, bar.Width, barHeight, bar.Color)
	fmt.Fprintf(svg, `<title>%s op %d on %s: %s - %s (order %s)</title></rect>`,
		html.EscapeString(bar.ItemID), bar.Sequence, html.EscapeString(bar.WorkCenterID),
		bar.Start.Format("Jan 2 15:04"), bar.End.Format("Jan 2 15:04"), bar.OrderID)
	if bar.Width > 40 {
		fmt.Fprintf(svg, `<text x="%d" y="%d" class="op-text" text-anchor="middle">%s/%d</text>`,
			bar.X+bar.Width/2, barY+barHeight/2+3, html.EscapeString(bar.ItemID), bar.Sequence)
	}
}

func (gc *GanttChart) generateEmptyChart() string {
	return fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+
		`<rect width="%d" height="%d" fill="white"/>`+
		`<text x="%d" y="%d" font-family="Arial, sans-serif" font-size="16" fill="#666" text-anchor="middle">No Operations Scheduled</text>`+
		`</svg>`, gc.Width, gc.Height, gc.Width, gc.Height, gc.Width/2, gc.Height/2)
}
