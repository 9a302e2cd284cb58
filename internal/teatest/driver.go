// Package teatest drives a bubbletea model without a tea.Program.
//
// Messages go straight into Update and every returned Cmd is run and fed
// back before the call returns, so tests observe the settled model after
// each input. Cmds that block longer than a few milliseconds (cursor blink
// timers) are dropped.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxSteps bounds how many messages one input may cascade into.
const maxSteps = 100

// cmdTimeout separates immediate Cmds (store calls, message factories) from
// timer Cmds, which are skipped.
const cmdTimeout = 10 * time.Millisecond

// Driver holds the model under test.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting records that a Cmd returned tea.QuitMsg. Once set, further
	// input is ignored.
	Quitting bool
}

// Option configures a Driver in New.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// New wraps model. Init is not run until DrainInit.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) DrainInit() {
	d.T.Helper()
	d.settle(d.Model.Init())
}

// Send delivers msg and settles every Cmd it produces.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.settle(cmd)
}

func (d *Driver) View() string {
	return d.Model.View()
}

// Keyboard.

func (d *Driver) press(t tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: t})
}

// PressKey sends a single printable rune.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

func (d *Driver) PressEnter()      { d.T.Helper(); d.press(tea.KeyEnter) }
func (d *Driver) PressEsc()        { d.T.Helper(); d.press(tea.KeyEsc) }
func (d *Driver) PressCtrlC()      { d.T.Helper(); d.press(tea.KeyCtrlC) }
func (d *Driver) PressUp()         { d.T.Helper(); d.press(tea.KeyUp) }
func (d *Driver) PressDown()       { d.T.Helper(); d.press(tea.KeyDown) }
func (d *Driver) PressLeft()       { d.T.Helper(); d.press(tea.KeyLeft) }
func (d *Driver) PressRight()      { d.T.Helper(); d.press(tea.KeyRight) }
func (d *Driver) PressShiftLeft()  { d.T.Helper(); d.press(tea.KeyShiftLeft) }
func (d *Driver) PressShiftRight() { d.T.Helper(); d.press(tea.KeyShiftRight) }

// Mouse. Coordinates are terminal cells, origin top left.

func (d *Driver) mouse(action tea.MouseAction, x, y int) {
	d.T.Helper()
	b := tea.MouseButtonLeft
	if action == tea.MouseActionRelease {
		b = tea.MouseButtonNone
	}
	d.Send(tea.MouseMsg{X: x, Y: y, Action: action, Button: b})
}

func (d *Driver) MousePress(x, y int)   { d.T.Helper(); d.mouse(tea.MouseActionPress, x, y) }
func (d *Driver) MouseMove(x, y int)    { d.T.Helper(); d.mouse(tea.MouseActionMotion, x, y) }
func (d *Driver) MouseRelease(x, y int) { d.T.Helper(); d.mouse(tea.MouseActionRelease, x, y) }

// Drag presses at (x0, y), moves along row y through xs and releases where
// it stopped.
func (d *Driver) Drag(x0, y int, xs ...int) {
	d.T.Helper()
	d.MousePress(x0, y)
	x := x0
	for _, x = range xs {
		d.MouseMove(x, y)
	}
	d.MouseRelease(x, y)
}

// settle runs Cmds breadth first until none are left, flattening batches.
func (d *Driver) settle(first tea.Cmd) {
	d.T.Helper()
	queue := []tea.Cmd{first}
	for steps := 0; len(queue) > 0; steps++ {
		if steps == maxSteps {
			d.T.Logf("teatest: stopped after %d steps", maxSteps)
			return
		}
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}

		switch msg := run(cmd).(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			d.Quitting = true
			d.Model, _ = d.Model.Update(msg)
			return
		default:
			if blink(msg) {
				continue
			}
			var next tea.Cmd
			d.Model, next = d.Model.Update(msg)
			queue = append(queue, next)
		}
	}
}

// run returns cmd's message, or nil when it does not finish in cmdTimeout.
func run(cmd tea.Cmd) tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	timer := time.NewTimer(cmdTimeout)
	defer timer.Stop()
	select {
	case msg := <-out:
		return msg
	case <-timer.C:
		return nil
	}
}

// blink matches the cursor package's unexported blink messages.
func blink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
