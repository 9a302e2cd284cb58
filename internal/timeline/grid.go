// Package timeline derives the week-granular rendering grid of a schedule
// and maps date ranges onto proportional bar geometry.
package timeline

import (
	"fmt"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
)

const (
	Day  = 24 * time.Hour
	Week = 7 * Day
)

// Span is an inclusive range of civil dates.
type Span struct {
	Start time.Time
	End   time.Time
}

// NewSpan normalizes both ends to UTC midnight.
func NewSpan(start, end time.Time) Span {
	return Span{Start: domain.Day(start), End: domain.Day(end)}
}

// Days returns the number of calendar days covered, counting both ends.
func (s Span) Days() int {
	return daysBetween(s.Start, s.End) + 1
}

// Duration returns the wall-clock length of the span including its last day.
func (s Span) Duration() time.Duration {
	return time.Duration(s.Days()) * Day
}

// WeekCell is one 7-day column of the grid.
type WeekCell struct {
	Number      int // global, 1-based
	WeekOfMonth int // 1-based within its month group
	Year        int
	Month       time.Month
	Start       time.Time
	End         time.Time // inclusive
}

// MonthGroup holds the consecutive cells whose first day falls in one month.
type MonthGroup struct {
	Year  int
	Month time.Month
	Weeks []WeekCell
}

// Label returns a short header label such as "Jan 2025".
func (g MonthGroup) Label() string {
	return fmt.Sprintf("%s %d", g.Month.String()[:3], g.Year)
}

// Grid is the ordered week sequence covering a timeline span.
type Grid struct {
	Weeks  []WeekCell
	Months []MonthGroup
}

// BuildGrid produces contiguous week cells covering [start, end]. The first
// week starts on start itself; the last week is rounded outward. Equal
// instants yield a single week in a single month.
func BuildGrid(start, end time.Time) (Grid, error) {
	span := NewSpan(start, end)
	if span.End.Before(span.Start) {
		return Grid{}, fmt.Errorf("building grid %s..%s: %w",
			span.Start.Format("2006-01-02"), span.End.Format("2006-01-02"), domain.ErrInvalidRange)
	}

	count := (span.Days() + 6) / 7
	grid := Grid{Weeks: make([]WeekCell, 0, count)}

	for i := 0; i < count; i++ {
		ws := span.Start.AddDate(0, 0, 7*i)
		cell := WeekCell{
			Number: i + 1,
			Year:   ws.Year(),
			Month:  ws.Month(),
			Start:  ws,
			End:    ws.AddDate(0, 0, 6),
		}

		n := len(grid.Months)
		if n == 0 || grid.Months[n-1].Year != cell.Year || grid.Months[n-1].Month != cell.Month {
			grid.Months = append(grid.Months, MonthGroup{Year: cell.Year, Month: cell.Month})
			n++
		}
		cell.WeekOfMonth = len(grid.Months[n-1].Weeks) + 1
		grid.Months[n-1].Weeks = append(grid.Months[n-1].Weeks, cell)
		grid.Weeks = append(grid.Weeks, cell)
	}
	return grid, nil
}

// Span returns the rounded range covered by the grid's weeks.
func (g Grid) Span() Span {
	if len(g.Weeks) == 0 {
		return Span{}
	}
	return Span{Start: g.Weeks[0].Start, End: g.Weeks[len(g.Weeks)-1].End}
}

// WeekAt returns the cell containing t, if any.
func (g Grid) WeekAt(t time.Time) (WeekCell, bool) {
	d := domain.Day(t)
	for _, w := range g.Weeks {
		if !d.Before(w.Start) && !d.After(w.End) {
			return w, true
		}
	}
	return WeekCell{}, false
}

func daysBetween(a, b time.Time) int {
	return int(domain.Day(b).Sub(domain.Day(a)) / Day)
}
