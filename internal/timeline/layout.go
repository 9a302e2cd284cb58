package timeline

import (
	"github.com/alexanderramin/obra/internal/domain"
)

// Layout is the rendering input for a schedule: its grid and one bar per item,
// in item order.
type Layout struct {
	Grid Grid
	Span Span
	Bars []Bar
}

// Empty reports whether there is nothing to draw.
func (l Layout) Empty() bool { return len(l.Grid.Weeks) == 0 }

// SpanOf returns the extent of items: earliest start to latest end.
func SpanOf(items []domain.ScheduleItem) (Span, bool) {
	s := domain.Schedule{Items: items}
	start, end, ok := s.Extent()
	if !ok {
		return Span{}, false
	}
	return NewSpan(start, end), true
}

// LayoutItems builds the grid from the item extent and maps each item's bar
// against the grid's rounded span so bars line up with week columns.
func LayoutItems(items []domain.ScheduleItem) (Layout, error) {
	extent, ok := SpanOf(items)
	if !ok {
		return Layout{}, nil
	}
	grid, err := BuildGrid(extent.Start, extent.End)
	if err != nil {
		return Layout{}, err
	}
	span := grid.Span()
	bars := make([]Bar, len(items))
	for i, item := range items {
		bars[i] = MapItem(item, span)
	}
	return Layout{Grid: grid, Span: span, Bars: bars}, nil
}
