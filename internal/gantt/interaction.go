// Package gantt holds the interactive side of the schedule timeline: the
// drag/resize state machine, the document-wide pointer dispatcher it listens
// on, and the editor that owns a plan's in-memory rows.
package gantt

import "fmt"

type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeResizing
)

func (m Mode) String() string {
	switch m {
	case ModeDragging:
		return "dragging"
	case ModeResizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Interaction is the surface's single active gesture. The zero value is Idle;
// the item index is only meaningful outside Idle.
type Interaction struct {
	mode  Mode
	index int
}

func Idle() Interaction              { return Interaction{} }
func Dragging(index int) Interaction { return Interaction{mode: ModeDragging, index: index} }
func Resizing(index int) Interaction { return Interaction{mode: ModeResizing, index: index} }

func (in Interaction) Mode() Mode   { return in.mode }
func (in Interaction) IsIdle() bool { return in.mode == ModeIdle }

// Index returns the item under interaction; ok is false when Idle.
func (in Interaction) Index() (int, bool) {
	if in.mode == ModeIdle {
		return 0, false
	}
	return in.index, true
}

func (in Interaction) String() string {
	if in.mode == ModeIdle {
		return "idle"
	}
	return fmt.Sprintf("%s(%d)", in.mode, in.index)
}

// Zone is the part of a bar a pointer went down on.
type Zone int

const (
	ZoneBody   Zone = iota // moves the whole bar
	ZoneHandle             // trailing edge; moves only the end date
)

func (z Zone) mode() Mode {
	if z == ZoneHandle {
		return ModeResizing
	}
	return ModeDragging
}
