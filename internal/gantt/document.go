package gantt

type PointerKind int

const (
	PointerMove PointerKind = iota
	PointerUp
)

// PointerEvent is a document-level pointer event. X is in the same unit as
// the surface width (pixels or terminal columns).
type PointerEvent struct {
	Kind PointerKind
	X    float64
}

type Listener func(PointerEvent)

// Document dispatches pointer move and release events from anywhere in the
// window, not only from over the timeline. It is not safe for concurrent use;
// all calls happen on the UI event loop.
type Document struct {
	listeners map[int]Listener
	next      int
}

func NewDocument() *Document {
	return &Document{listeners: make(map[int]Listener)}
}

// Listen registers l and returns its release function. Release is idempotent.
func (d *Document) Listen(l Listener) (release func()) {
	id := d.next
	d.next++
	d.listeners[id] = l
	return func() { delete(d.listeners, id) }
}

// Listeners returns the number of registered listeners.
func (d *Document) Listeners() int {
	return len(d.listeners)
}

// Dispatch delivers ev to every listener registered when the call started.
// Listeners may release themselves during delivery.
func (d *Document) Dispatch(ev PointerEvent) {
	ids := make([]int, 0, len(d.listeners))
	for id := range d.listeners {
		ids = append(ids, id)
	}
	for _, id := range ids {
		if l, ok := d.listeners[id]; ok {
			l(ev)
		}
	}
}

func (d *Document) Move(x float64) { d.Dispatch(PointerEvent{Kind: PointerMove, X: x}) }
func (d *Document) Up(x float64)   { d.Dispatch(PointerEvent{Kind: PointerUp, X: x}) }
