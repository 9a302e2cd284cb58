package timeline

import (
	"time"

	"github.com/alexanderramin/obra/internal/domain"
)

// MinBarWidthPct is the visibility floor for any mapped bar, so single-day
// items stay visible and clickable.
const MinBarWidthPct = 2.0

// Bar is the horizontal geometry of one item, in percent of the timeline.
type Bar struct {
	Left  float64
	Width float64
}

// Right returns the bar's trailing edge.
func (b Bar) Right() float64 { return b.Left + b.Width }

// MapBar positions the inclusive range [start, end] within span.
// A zero-duration span maps every item to the full width.
func MapBar(start, end time.Time, span Span) Bar {
	if !span.End.After(span.Start) {
		return Bar{Left: 0, Width: 100}
	}

	total := float64(span.Days())
	left := float64(daysBetween(span.Start, start)) / total * 100
	right := float64(daysBetween(span.Start, end)+1) / total * 100

	left = clamp(left, 0, 100)
	right = clamp(right, 0, 100)

	width := right - left
	if width < MinBarWidthPct {
		width = MinBarWidthPct
	}
	if left+width > 100 {
		left = 100 - width
	}
	return Bar{Left: left, Width: width}
}

// MapItem is MapBar over a schedule item's dates.
func MapItem(item domain.ScheduleItem, span Span) Bar {
	return MapBar(item.StartDate, item.EndDate, span)
}

// Intersects reports whether [start, end] overlaps span.
func Intersects(start, end time.Time, span Span) bool {
	return !domain.Day(end).Before(span.Start) && !domain.Day(start).After(span.End)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
