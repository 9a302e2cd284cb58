package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// twoBars spans exactly eight weeks starting on 2025-01-06.
func twoBars() []domain.ScheduleItem {
	return []domain.ScheduleItem{
		{CategoryID: "c1", CategoryName: "Foundation", StartDate: day(2025, 1, 6), EndDate: day(2025, 1, 19)},
		{CategoryID: "c2", CategoryName: "Framing", StartDate: day(2025, 1, 20), EndDate: day(2025, 3, 2)},
	}
}

func TestNewGanttGeometry(t *testing.T) {
	g := NewGanttGeometry(51, 8, 0)
	assert.Equal(t, DefaultLabelWidth, g.LabelWidth)
	assert.Equal(t, 4, g.CellsPerWeek)
	assert.Equal(t, 32, g.GridWidth())
	assert.Equal(t, 0, g.GridX(19))

	assert.Equal(t, 1, NewGanttGeometry(10, 8, 0).CellsPerWeek)
	assert.Equal(t, maxCellsPerWeek, NewGanttGeometry(500, 2, 0).CellsPerWeek)
}

func TestBarColumns(t *testing.T) {
	start, end := BarColumns(timeline.Bar{Left: 0, Width: 25}, 32)
	assert.Equal(t, 0, start)
	assert.Equal(t, 8, end)

	start, end = BarColumns(timeline.Bar{Left: 98, Width: 2}, 10)
	assert.Equal(t, 9, start)
	assert.Equal(t, 10, end)

	start, end = BarColumns(timeline.Bar{Left: 50, Width: 0.1}, 10)
	assert.Equal(t, 1, end-start, "every bar covers a column")
}

func TestGanttGeometry_Hit(t *testing.T) {
	g := NewGanttGeometry(51, 8, 0)
	bar := timeline.Bar{Left: 0, Width: 25}

	handle, ok := g.Hit(bar, 0)
	assert.True(t, ok)
	assert.False(t, handle)

	handle, ok = g.Hit(bar, 7)
	assert.True(t, ok)
	assert.True(t, handle)

	_, ok = g.Hit(bar, 8)
	assert.False(t, ok)
	_, ok = g.Hit(bar, -1)
	assert.False(t, ok)
}

func TestRenderGantt(t *testing.T) {
	items := twoBars()
	layout, err := timeline.LayoutItems(items)
	require.NoError(t, err)

	out := stripANSI(RenderGantt(layout, items, GanttOptions{
		Width:      51,
		Selected:   1,
		ShowCursor: true,
		Now:        day(2025, 1, 27),
	}))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, GanttHeaderLines+2)

	gutter := strings.Repeat(" ", DefaultLabelWidth+1)
	assert.Equal(t, gutter+"Jan 2025        Feb 2025        ", lines[0])
	assert.Equal(t, gutter+strings.Repeat("S1  S2  S3  S4  ", 2), lines[1])

	assert.Equal(t, "  Foundation       ███████▐····│···················", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "▸ Framing"))
	assert.True(t, strings.HasSuffix(lines[3], "········"+strings.Repeat("█", 23)+"▐"))
}

func TestRenderGantt_Empty(t *testing.T) {
	out := RenderGantt(timeline.Layout{}, nil, GanttOptions{Width: 80})
	assert.Contains(t, stripANSI(out), "No schedule items.")
}

func TestFormatSchedule(t *testing.T) {
	project := &domain.Project{ShortID: "CASA01", Name: "Casa Norte"}
	s := &domain.Schedule{
		Plan:  domain.SchedulePlan{ID: "p1", Type: domain.PlanExecutive, Shared: true},
		Items: twoBars(),
		Milestones: []domain.Milestone{
			{Label: "Advance", Percentage: 30, Accumulated: 30},
			{Label: "Structure", Percentage: 40, Accumulated: 70},
		},
	}
	out, err := FormatSchedule(project, s, 80, time.Time{}, nil)
	require.NoError(t, err)
	out = stripANSI(out)

	assert.Contains(t, out, "CASA01")
	assert.Contains(t, out, "EXECUTIVE")
	assert.Contains(t, out, "● shared")
	assert.Contains(t, out, "2 items  2025-01-06 → 2025-03-02  8 weeks")
	assert.Contains(t, out, "Foundation")
	assert.Contains(t, out, "MILESTONES")
	assert.Contains(t, out, "70%")
}
