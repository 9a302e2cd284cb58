package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/timeline"
)

const (
	DefaultLabelWidth = 18
	// GanttHeaderLines is the number of header rows above the first bar.
	GanttHeaderLines = 2
	maxCellsPerWeek  = 6
)

// GanttGeometry fixes the column layout of a rendered chart so terminal
// positions can be mapped back onto bars.
type GanttGeometry struct {
	LabelWidth   int
	CellsPerWeek int
	Weeks        int
}

// NewGanttGeometry fits weeks into width terminal columns, leaving room for
// the label column and one separator.
func NewGanttGeometry(width, weeks, labelWidth int) GanttGeometry {
	if labelWidth <= 0 {
		labelWidth = DefaultLabelWidth
	}
	cpw := 1
	if weeks > 0 {
		cpw = (width - labelWidth - 1) / weeks
	}
	cpw = max(1, min(cpw, maxCellsPerWeek))
	return GanttGeometry{LabelWidth: labelWidth, CellsPerWeek: cpw, Weeks: weeks}
}

func (g GanttGeometry) GridWidth() int { return g.CellsPerWeek * g.Weeks }

// GridX converts a terminal column to a grid column. The result may fall
// outside the grid; pointer moves beyond its edges still count.
func (g GanttGeometry) GridX(col int) int { return col - g.LabelWidth - 1 }

// Hit reports whether grid column x lies on bar b, and whether it is the
// bar's trailing handle. Bars one cell wide have no handle.
func (g GanttGeometry) Hit(b timeline.Bar, x int) (handle, ok bool) {
	start, end := BarColumns(b, g.GridWidth())
	if x < start || x >= end {
		return false, false
	}
	return end-start > 1 && x == end-1, true
}

// BarColumns maps a bar's percentages onto [start, end) grid columns. Every
// bar covers at least one column.
func BarColumns(b timeline.Bar, gridWidth int) (start, end int) {
	if gridWidth <= 0 {
		return 0, 0
	}
	start = int(math.Floor(b.Left / 100 * float64(gridWidth)))
	end = int(math.Ceil(b.Right() / 100 * float64(gridWidth)))
	start = max(0, min(start, gridWidth-1))
	end = max(start+1, min(end, gridWidth))
	return start, end
}

// GanttOptions controls chart rendering.
type GanttOptions struct {
	Width      int
	LabelWidth int
	// Selected highlights one row when ShowCursor is set.
	Selected   int
	ShowCursor bool
	// Now draws a today marker when it falls inside the grid.
	Now time.Time
	// Severity colors bars by their risk alert, keyed by item index.
	Severity map[int]domain.AlertSeverity
}

// RenderGantt draws the month and week headers followed by one bar per item.
func RenderGantt(layout timeline.Layout, items []domain.ScheduleItem, opts GanttOptions) string {
	if layout.Empty() {
		return Dim("No schedule items.")
	}
	geo := NewGanttGeometry(opts.Width, len(layout.Grid.Weeks), opts.LabelWidth)
	gw := geo.GridWidth()

	today := -1
	if !opts.Now.IsZero() {
		if w, ok := layout.Grid.WeekAt(opts.Now); ok {
			today = (w.Number - 1) * geo.CellsPerWeek
		}
	}

	var b strings.Builder
	gutter := strings.Repeat(" ", geo.LabelWidth+1)

	b.WriteString(gutter)
	for _, m := range layout.Grid.Months {
		b.WriteString(StyleHeader.Render(PadRight(m.Label(), len(m.Weeks)*geo.CellsPerWeek)))
	}
	b.WriteString("\n")

	b.WriteString(gutter)
	for _, w := range layout.Grid.Weeks {
		b.WriteString(Dim(weekCell(w, geo.CellsPerWeek)))
	}
	b.WriteString("\n")

	for i, item := range items {
		if i >= len(layout.Bars) {
			break
		}
		label := PadRight(item.Label(), geo.LabelWidth-2)
		if opts.ShowCursor && i == opts.Selected {
			b.WriteString(StyleGreen.Render("▸ ") + Bold(label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteString(" ")
		b.WriteString(barRow(layout.Bars[i], gw, today, SeverityStyle(opts.Severity[i]).Render))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func weekCell(w timeline.WeekCell, width int) string {
	label := fmt.Sprintf("S%d", w.WeekOfMonth)
	if width < len(label) {
		label = label[len(label)-width:]
	}
	return PadRight(label, width)
}

func barRow(bar timeline.Bar, gridWidth, today int, paint func(...string) string) string {
	start, end := BarColumns(bar, gridWidth)
	var b strings.Builder
	for x := 0; x < gridWidth; x++ {
		switch {
		case x == end-1 && end-start > 1:
			b.WriteString(paint("▐"))
		case x >= start && x < end:
			b.WriteString(paint("█"))
		case x == today:
			b.WriteString(StyleRed.Render("│"))
		default:
			b.WriteString(Dim("·"))
		}
	}
	return b.String()
}
