package cli

import (
	"strings"

	"github.com/alexanderramin/obra/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
)

// appHeaderLines is the height of the title bar above every view. Views that
// map mouse rows count from below it.
const appHeaderLines = 2

// appStatusLines is the rule and hint line at the bottom of the screen.
const appStatusLines = 2

// appModel is the root model. It owns a stack of views, routes input to the
// top one and draws the title and status bars around it.
type appModel struct {
	state    *SharedState
	stack    []View
	notice   string
	quitting bool
}

func newAppModel(state *SharedState, home View) appModel {
	return appModel{state: state, stack: []View{home}}
}

func (m *appModel) top() View {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

func (m *appModel) pop() {
	if len(m.stack) > 1 {
		closeView(m.stack[len(m.stack)-1])
		m.stack = m.stack[:len(m.stack)-1]
	}
}

func (m *appModel) closeAll() {
	for _, v := range m.stack {
		closeView(v)
	}
}

func closeView(v View) {
	if c, ok := v.(viewCloser); ok {
		c.Close()
	}
}

// deliver hands an async result to the view that asked for it.
func (m *appModel) deliver(msg tea.Msg, to viewToken) tea.Cmd {
	for i, v := range m.stack {
		if h, ok := v.(tokenHolder); ok && h.token() == to {
			next, cmd := v.Update(msg)
			m.stack[i] = next.(View)
			return cmd
		}
	}
	if o, ok := msg.(orphanedReply); ok {
		o.orphaned()
	}
	return nil
}

// send updates the top view in place.
func (m *appModel) send(msg tea.Msg) tea.Cmd {
	v := m.top()
	if v == nil {
		return nil
	}
	next, cmd := v.Update(msg)
	m.stack[len(m.stack)-1] = next.(View)
	return cmd
}

func (m appModel) Init() tea.Cmd {
	if v := m.top(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width, m.state.Height = msg.Width, msg.Height
		// Views below the top keep layout state too.
		cmds := make([]tea.Cmd, 0, len(m.stack))
		for i, v := range m.stack {
			next, cmd := v.Update(msg)
			m.stack[i] = next.(View)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.notice = ""
		sized, _ := msg.view.Update(tea.WindowSizeMsg{Width: m.state.Width, Height: m.state.Height})
		m.stack = append(m.stack, sized.(View))
		return m, m.top().Init()

	case formDoneMsg:
		m.pop()
		return m, msg.nextCmd

	case noticeMsg:
		m.notice = msg.text
		return m, nil

	case reply:
		return m, m.deliver(msg, msg.recipient())
	}

	return m, m.send(msg)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		m.closeAll()
		return m, tea.Quit
	}
	m.notice = ""

	if v := m.top(); v != nil && viewCapturesInput(v) {
		return m, m.send(msg)
	}
	switch {
	case msg.String() == "q":
		m.quitting = true
		m.closeAll()
		return m, tea.Quit
	case msg.Type == tea.KeyEsc:
		m.pop()
		return m, nil
	}
	return m, m.send(msg)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	body := ""
	if v := m.top(); v != nil {
		body = v.View()
	}

	// Fill the screen so the status bar stays at the bottom and alt-screen
	// redraws leave no stale lines.
	if h := m.state.Height - appHeaderLines - appStatusLines; h > 0 {
		if n := strings.Count(body, "\n") + 1; n < h {
			body += strings.Repeat("\n", h-n)
		}
	}
	return m.header() + "\n" + body + "\n" + m.statusBar()
}

func (m appModel) rule() string {
	return formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
}

// header is "obra › Projects › Edit executive  [CASA01]".
func (m appModel) header() string {
	parts := []string{formatter.StylePurple.Render("obra")}
	for _, v := range m.stack {
		if t := v.Title(); t != "" {
			parts = append(parts, formatter.Dim(t))
		}
	}
	line := strings.Join(parts, formatter.Dim(" › "))
	if p := m.state.Project; p != nil {
		line += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(p.DisplayID()) + formatter.Dim("]")
	}
	return line + "\n" + m.rule()
}

func (m appModel) statusBar() string {
	if m.notice != "" {
		return m.rule() + "\n" + m.notice
	}
	v := m.top()
	if v == nil {
		return m.rule()
	}
	var hints []string
	for _, b := range v.ShortHelp() {
		hints = append(hints, b.Help().Key+": "+b.Help().Desc)
	}
	if !viewCapturesInput(v) {
		if len(m.stack) > 1 {
			hints = append(hints, "esc: back")
		}
		hints = append(hints, "q: quit")
	}
	return m.rule() + "\n" + formatter.Dim(strings.Join(hints, "  "))
}
