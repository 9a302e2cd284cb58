package timeline

import (
	"testing"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapBar_MiddleWeekOfThree(t *testing.T) {
	span := NewSpan(date(2025, 1, 1), date(2025, 1, 21))
	bar := MapBar(date(2025, 1, 8), date(2025, 1, 14), span)

	assert.InDelta(t, 33.33, bar.Left, 0.01)
	assert.InDelta(t, 33.33, bar.Width, 0.01)
}

func TestMapBar_FullSpan(t *testing.T) {
	span := NewSpan(date(2025, 1, 1), date(2025, 1, 21))
	bar := MapBar(span.Start, span.End, span)
	assert.InDelta(t, 0, bar.Left, 1e-9)
	assert.InDelta(t, 100, bar.Width, 1e-9)
}

func TestMapBar_ZeroDurationTimeline(t *testing.T) {
	span := NewSpan(date(2025, 1, 1), date(2025, 1, 1))
	bar := MapBar(date(2025, 1, 1), date(2025, 1, 1), span)
	assert.Equal(t, Bar{Left: 0, Width: 100}, bar)
}

func TestMapBar_SingleDayGetsFloor(t *testing.T) {
	span := NewSpan(date(2025, 1, 1), date(2025, 12, 31))
	bar := MapBar(date(2025, 6, 1), date(2025, 6, 1), span)
	assert.Equal(t, MinBarWidthPct, bar.Width)
}

func TestMapBar_FloorAtTrailingEdgePullsLeft(t *testing.T) {
	span := NewSpan(date(2025, 1, 1), date(2025, 12, 31))
	bar := MapBar(date(2025, 12, 31), date(2025, 12, 31), span)
	assert.InDelta(t, 100, bar.Right(), 1e-9)
	assert.Equal(t, MinBarWidthPct, bar.Width)
}

func TestMapBar_ClampsOutsideSpan(t *testing.T) {
	span := NewSpan(date(2025, 3, 1), date(2025, 3, 31))
	bar := MapBar(date(2025, 2, 1), date(2025, 4, 30), span)
	assert.Equal(t, 0.0, bar.Left)
	assert.InDelta(t, 100, bar.Width, 1e-9)
}

func TestMapBar_Invariants(t *testing.T) {
	span := NewSpan(date(2025, 1, 1), date(2025, 4, 10))
	for offset := 0; offset < span.Days(); offset += 3 {
		for length := 0; length < 40; length += 5 {
			start := span.Start.AddDate(0, 0, offset)
			end := start.AddDate(0, 0, length)
			if !Intersects(start, end, span) {
				continue
			}
			bar := MapBar(start, end, span)
			assert.GreaterOrEqual(t, bar.Left, 0.0)
			assert.LessOrEqual(t, bar.Right(), 100.0+1e-9)
			assert.GreaterOrEqual(t, bar.Width, MinBarWidthPct)
		}
	}
}

func TestLayoutItems_AlignsToGridSpan(t *testing.T) {
	items := []domain.ScheduleItem{
		{CategoryID: "a", StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 7)},
		{CategoryID: "b", StartDate: date(2025, 1, 8), EndDate: date(2025, 1, 20)},
	}
	layout, err := LayoutItems(items)
	require.NoError(t, err)

	require.Len(t, layout.Grid.Weeks, 3)
	assert.Equal(t, date(2025, 1, 21), layout.Span.End)
	require.Len(t, layout.Bars, 2)
	assert.InDelta(t, 0, layout.Bars[0].Left, 1e-9)
	assert.InDelta(t, 33.33, layout.Bars[0].Width, 0.01)
	assert.InDelta(t, 33.33, layout.Bars[1].Left, 0.01)
}

func TestLayoutItems_Empty(t *testing.T) {
	layout, err := LayoutItems(nil)
	require.NoError(t, err)
	assert.True(t, layout.Empty())
}
