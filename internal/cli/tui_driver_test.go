package cli

import (
	"regexp"
	"testing"

	"github.com/alexanderramin/obra/internal/teatest"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// TestDriver wraps teatest.Driver with access to the appModel's view stack.
type TestDriver struct {
	*teatest.Driver
	state *SharedState
}

// NewTestDriver builds an appModel with home at the bottom of the stack, sets
// a 120x40 terminal and drains Init.
func NewTestDriver(t *testing.T, app *App, home func(*SharedState) View) *TestDriver {
	t.Helper()
	state := newSharedState(app)
	d := teatest.New(t, newAppModel(state, home(state)), teatest.WithSize(120, 40))
	d.DrainInit()
	return &TestDriver{Driver: d, state: state}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.top()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().stack)
}

func (d *TestDriver) gantt() *ganttView {
	d.T.Helper()
	m := d.appModel()
	v, ok := m.top().(*ganttView)
	if !ok {
		d.T.Fatalf("active view is %T, want *ganttView", m.top())
	}
	return v
}

func (d *TestDriver) shared() *sharedPlanView {
	d.T.Helper()
	m := d.appModel()
	v, ok := m.top().(*sharedPlanView)
	if !ok {
		d.T.Fatalf("active view is %T, want *sharedPlanView", m.top())
	}
	return v
}

// PlainView returns the rendered screen without ANSI styling.
func (d *TestDriver) PlainView() string {
	return stripANSI(d.View())
}
