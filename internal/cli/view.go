package cli

import (
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type ViewID int

const (
	ViewProjectList ViewID = iota
	ViewGantt
	ViewShared
	ViewForm
)

// View is one screen on the TUI's navigation stack.
type View interface {
	tea.Model
	ID() ViewID
	// Title is the view's breadcrumb segment.
	Title() string
	// ShortHelp lists the keys shown in the status bar.
	ShortHelp() []key.Binding
}

// inputCapturer is implemented by views that sometimes need every key,
// e.g. while a text filter is focused.
type inputCapturer interface {
	CapturesInput() bool
}

// viewCapturesInput reports whether q and esc go to v instead of the app.
// Forms always take them.
func viewCapturesInput(v View) bool {
	if v.ID() == ViewForm {
		return true
	}
	c, ok := v.(inputCapturer)
	return ok && c.CapturesInput()
}

type pushViewMsg struct{ view View }

// noticeMsg replaces the status bar hints until the next key press.
type noticeMsg struct{ text string }

// formDoneMsg removes a finished form from the stack, then runs nextCmd so
// its result lands on the view that opened the form.
type formDoneMsg struct{ nextCmd tea.Cmd }

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func formDoneNotice(text string) tea.Msg {
	return formDoneMsg{nextCmd: func() tea.Msg { return noticeMsg{text: text} }}
}

// viewToken names one view instance. Async results carry the token of the
// view that started them.
type viewToken uint64

var lastViewToken atomic.Uint64

func nextViewToken() viewToken { return viewToken(lastViewToken.Add(1)) }

// addressed is embedded in views that start async work.
type addressed struct{ tok viewToken }

func newAddressed() addressed        { return addressed{tok: nextViewToken()} }
func (a addressed) token() viewToken { return a.tok }

type tokenHolder interface{ token() viewToken }

// replyMsg is embedded in async results. The app model delivers them only to
// the view whose token they carry, wherever it sits on the stack; once that
// view is gone they are dropped.
type replyMsg struct{ to viewToken }

func (r replyMsg) recipient() viewToken { return r.to }

type reply interface{ recipient() viewToken }

// orphanedReply is implemented by replies that hold a resource which must be
// released when nobody is left to receive them.
type orphanedReply interface{ orphaned() }

// viewCloser is implemented by views that hold resources until they leave
// the stack.
type viewCloser interface{ Close() }
