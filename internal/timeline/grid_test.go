package timeline

import (
	"testing"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildGrid_ThreeWeeksInJanuary(t *testing.T) {
	grid, err := BuildGrid(date(2025, 1, 1), date(2025, 1, 21))
	require.NoError(t, err)

	require.Len(t, grid.Weeks, 3)
	require.Len(t, grid.Months, 1)
	assert.Equal(t, time.January, grid.Months[0].Month)
	assert.Equal(t, date(2025, 1, 1), grid.Weeks[0].Start)
	assert.Equal(t, date(2025, 1, 21), grid.Weeks[2].End)
}

func TestBuildGrid_SplitsMonthsByWeekStart(t *testing.T) {
	grid, err := BuildGrid(date(2025, 1, 20), date(2025, 2, 9))
	require.NoError(t, err)

	require.Len(t, grid.Weeks, 3)
	require.Len(t, grid.Months, 2)
	assert.Equal(t, time.January, grid.Months[0].Month)
	assert.Len(t, grid.Months[0].Weeks, 2)
	assert.Equal(t, time.February, grid.Months[1].Month)
	assert.Len(t, grid.Months[1].Weeks, 1)
	assert.Equal(t, 1, grid.Months[1].Weeks[0].WeekOfMonth)
	assert.Equal(t, 3, grid.Months[1].Weeks[0].Number)
}

func TestBuildGrid_EqualInstantsSingleWeek(t *testing.T) {
	grid, err := BuildGrid(date(2025, 5, 31), date(2025, 5, 31))
	require.NoError(t, err)
	require.Len(t, grid.Weeks, 1)
	require.Len(t, grid.Months, 1)
	assert.Equal(t, time.May, grid.Months[0].Month)
}

func TestBuildGrid_StartAfterEnd(t *testing.T) {
	_, err := BuildGrid(date(2025, 2, 1), date(2025, 1, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestBuildGrid_RoundsFinalWeekOutward(t *testing.T) {
	grid, err := BuildGrid(date(2025, 1, 1), date(2025, 1, 22))
	require.NoError(t, err)
	require.Len(t, grid.Weeks, 4)
	assert.Equal(t, date(2025, 1, 28), grid.Span().End)
}

func TestBuildGrid_Invariants(t *testing.T) {
	start := date(2024, 11, 13)
	for days := 1; days <= 400; days += 17 {
		end := start.AddDate(0, 0, days-1)
		grid, err := BuildGrid(start, end)
		require.NoError(t, err)

		assert.Equal(t, (days+6)/7, len(grid.Weeks), "days=%d", days)
		assert.Equal(t, start, grid.Weeks[0].Start)

		for i, w := range grid.Weeks {
			assert.Equal(t, i+1, w.Number)
			assert.Equal(t, w.Start.AddDate(0, 0, 6), w.End)
			if i > 0 {
				assert.Equal(t, grid.Weeks[i-1].End.AddDate(0, 0, 1), w.Start, "weeks must be contiguous")
			}
		}

		total := 0
		for _, g := range grid.Months {
			for j, w := range g.Weeks {
				assert.Equal(t, j+1, w.WeekOfMonth)
				assert.Equal(t, g.Month, w.Month)
			}
			total += len(g.Weeks)
		}
		assert.Equal(t, len(grid.Weeks), total, "every week belongs to exactly one month")
	}
}

func TestBuildGrid_NormalizesTimeOfDay(t *testing.T) {
	grid, err := BuildGrid(time.Date(2025, 1, 1, 18, 30, 0, 0, time.UTC), time.Date(2025, 1, 7, 3, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, grid.Weeks, 1)
}

func TestGridWeekAt(t *testing.T) {
	grid, err := BuildGrid(date(2025, 1, 1), date(2025, 1, 21))
	require.NoError(t, err)

	w, ok := grid.WeekAt(date(2025, 1, 9))
	require.True(t, ok)
	assert.Equal(t, 2, w.Number)

	_, ok = grid.WeekAt(date(2025, 2, 9))
	assert.False(t, ok)
}

func TestMonthGroupLabel(t *testing.T) {
	assert.Equal(t, "Mar 2025", MonthGroup{Year: 2025, Month: time.March}.Label())
}
