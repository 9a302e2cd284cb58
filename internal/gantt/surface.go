package gantt

import (
	"math"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/timeline"
)

// Rows is the read side of the surface: the items currently drawn.
type Rows interface {
	Items() []domain.ScheduleItem
}

// IntentHandler receives the edits a surface proposes. The surface never
// changes rows itself; the handler decides what to apply and when to save.
type IntentHandler interface {
	UpdateItem(index int, item domain.ScheduleItem)
	RemoveItem(index int)
}

// Surface is the drag/resize state machine of one timeline. Only one item can
// be dragged or resized at a time, and the surface always returns to Idle.
type Surface struct {
	doc     *Document
	rows    Rows
	handler IntentHandler

	readOnly bool
	busy     bool
	width    float64

	state   Interaction
	lastX   float64
	total   time.Duration
	release func()
}

// NewSurface creates an editable surface. A nil handler makes it inert.
func NewSurface(doc *Document, rows Rows, handler IntentHandler) *Surface {
	return &Surface{doc: doc, rows: rows, handler: handler}
}

// NewReadOnlySurface creates a surface that renders but accepts no edits.
func NewReadOnlySurface(doc *Document, rows Rows) *Surface {
	return &Surface{doc: doc, rows: rows, readOnly: true}
}

func (s *Surface) State() Interaction { return s.state }
func (s *Surface) ReadOnly() bool     { return s.readOnly }
func (s *Surface) Busy() bool         { return s.busy }

// SetWidth sets the grid's drawn width, in the unit pointer X uses.
func (s *Surface) SetWidth(w float64) { s.width = w }

func (s *Surface) Width() float64 { return s.width }

// SetBusy disables the surface while a load or save is in flight. Any gesture
// in progress is abandoned.
func (s *Surface) SetBusy(busy bool) {
	s.busy = busy
	if busy {
		s.Cancel()
	}
}

func (s *Surface) SetReadOnly(ro bool) {
	s.readOnly = ro
	if ro {
		s.Cancel()
	}
}

// Editable reports whether gestures and removals are accepted right now.
func (s *Surface) Editable() bool {
	return !s.readOnly && !s.busy && s.handler != nil
}

// Layout computes the grid and bars for the current rows.
func (s *Surface) Layout() (timeline.Layout, error) {
	return timeline.LayoutItems(s.rows.Items())
}

// PointerDown starts dragging (body) or resizing (handle) item index at x.
// It reports whether an interaction started.
func (s *Surface) PointerDown(x float64, index int, zone Zone) bool {
	if !s.Editable() || !s.state.IsIdle() || s.width <= 0 {
		return false
	}
	items := s.rows.Items()
	if index < 0 || index >= len(items) {
		return false
	}
	layout, err := timeline.LayoutItems(items)
	if err != nil || layout.Empty() {
		return false
	}

	s.total = layout.Span.Duration()
	s.lastX = x
	if zone.mode() == ModeResizing {
		s.state = Resizing(index)
	} else {
		s.state = Dragging(index)
	}
	s.release = s.doc.Listen(s.onPointer)
	return true
}

// Cancel returns to Idle without emitting anything.
func (s *Surface) Cancel() {
	s.state = Idle()
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

func (s *Surface) onPointer(ev PointerEvent) {
	switch ev.Kind {
	case PointerMove:
		s.move(ev.X)
	case PointerUp:
		s.Cancel()
	}
}

func (s *Surface) move(x float64) {
	index, ok := s.state.Index()
	if !ok {
		return
	}
	weeks := s.weeksFor(x - s.lastX)
	if weeks == 0 {
		return
	}
	if s.apply(index, s.state.Mode(), weeks) {
		s.lastX = x
	}
}

// weeksFor converts a horizontal delta to whole weeks of the snapshotted
// timeline duration, rounded to the nearest week.
func (s *Surface) weeksFor(dx float64) int {
	if s.width <= 0 || s.total <= 0 {
		return 0
	}
	dt := dx / s.width * float64(s.total)
	return int(math.Round(dt / float64(timeline.Week)))
}

// apply shifts item index by weeks and emits the update. It reports false when
// the step was ignored.
func (s *Surface) apply(index int, mode Mode, weeks int) bool {
	items := s.rows.Items()
	if index < 0 || index >= len(items) {
		s.Cancel()
		return false
	}
	item := items[index]
	days := 7 * weeks
	switch mode {
	case ModeDragging:
		item.StartDate = item.StartDate.AddDate(0, 0, days)
		item.EndDate = item.EndDate.AddDate(0, 0, days)
	case ModeResizing:
		end := item.EndDate.AddDate(0, 0, days)
		if !end.After(item.StartDate) {
			return false
		}
		item.EndDate = end
	default:
		return false
	}
	s.handler.UpdateItem(index, item)
	return true
}

// Step shifts one item by whole weeks without a pointer, e.g. for keyboard
// nudges. ZoneBody moves the bar, ZoneHandle moves its end. Only accepted
// while Idle.
func (s *Surface) Step(index int, zone Zone, weeks int) bool {
	if !s.Editable() || !s.state.IsIdle() || weeks == 0 {
		return false
	}
	return s.apply(index, zone.mode(), weeks)
}

// Remove emits a removal of item index. Only accepted while Idle.
func (s *Surface) Remove(index int) bool {
	if !s.Editable() || !s.state.IsIdle() {
		return false
	}
	if index < 0 || index >= len(s.rows.Items()) {
		return false
	}
	s.handler.RemoveItem(index)
	return true
}
