package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/obra/internal/cli/formatter"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/gantt"
	"github.com/alexanderramin/obra/internal/notify"
	"github.com/alexanderramin/obra/internal/timeline"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type sharedLoadedMsg struct {
	replyMsg
	schedule *domain.Schedule
	ok       bool
	err      error
}

type subscribedMsg struct {
	replyMsg
	events  <-chan notify.PlanEvent
	release func() error
	err     error
}

// orphaned ends a subscription whose view left before it was confirmed.
func (m subscribedMsg) orphaned() {
	if m.release != nil {
		_ = m.release()
	}
}

type planEventMsg struct {
	replyMsg
	event notify.PlanEvent
}

type eventsClosedMsg struct{ replyMsg }

// sharedRows is the row source of a read-only surface.
type sharedRows struct {
	items []domain.ScheduleItem
}

func (r *sharedRows) Items() []domain.ScheduleItem { return r.items }

// sharedPlanView shows the executive plan shared with the client. Its
// surface has no intent handler, so nothing can be moved, added or removed.
type sharedPlanView struct {
	addressed
	state   *SharedState
	project *domain.Project
	follow  bool

	rows    *sharedRows
	surface *gantt.Surface
	plan    domain.SchedulePlan
	found   bool

	cursor  int
	loading bool
	err     error
	flash   string

	events  <-chan notify.PlanEvent
	release func() error
	updates int
}

func newSharedPlanView(state *SharedState, project *domain.Project, follow bool) *sharedPlanView {
	rows := &sharedRows{}
	return &sharedPlanView{
		addressed: newAddressed(),
		state:     state,
		project:   project,
		follow:    follow,
		rows:      rows,
		surface:   gantt.NewReadOnlySurface(gantt.NewDocument(), rows),
		loading:   true,
	}
}

func (v *sharedPlanView) ID() ViewID    { return ViewShared }
func (v *sharedPlanView) Title() string { return "Shared plan" }

func (v *sharedPlanView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "select")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func (v *sharedPlanView) Init() tea.Cmd {
	cmds := []tea.Cmd{v.load()}
	if v.follow && v.events == nil && v.state.App.Events != nil {
		cmds = append(cmds, v.subscribe())
	}
	return tea.Batch(cmds...)
}

func (v *sharedPlanView) load() tea.Cmd {
	v.loading = true
	app, ctx, projectID := v.state.App, v.state.context(), v.project.ID
	to := replyMsg{to: v.token()}
	return func() tea.Msg {
		s, ok, err := app.Schedules.LoadShared(ctx, projectID)
		return sharedLoadedMsg{replyMsg: to, schedule: s, ok: ok, err: err}
	}
}

func (v *sharedPlanView) subscribe() tea.Cmd {
	sub, ctx := v.state.App.Events, v.state.context()
	to := replyMsg{to: v.token()}
	return func() tea.Msg {
		ch, release, err := sub.Subscribe(ctx)
		return subscribedMsg{replyMsg: to, events: ch, release: release, err: err}
	}
}

// waitForEvent blocks until the next notification. The channel closes when
// the view releases its subscription or the TUI's context ends.
func (v *sharedPlanView) waitForEvent() tea.Cmd {
	ch, to := v.events, replyMsg{to: v.token()}
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return eventsClosedMsg{replyMsg: to}
		}
		return planEventMsg{replyMsg: to, event: e}
	}
}

// Close ends the live subscription when the view leaves the stack.
func (v *sharedPlanView) Close() {
	if v.release != nil {
		_ = v.release()
		v.release = nil
	}
}

func (v *sharedPlanView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sharedLoadedMsg:
		v.loading = false
		v.err = msg.err
		if msg.err != nil {
			return v, nil
		}
		v.found = msg.ok
		if msg.ok {
			v.plan = msg.schedule.Plan
			v.rows.items = msg.schedule.Items
		} else {
			v.plan = domain.SchedulePlan{}
			v.rows.items = nil
		}
		v.cursor = min(v.cursor, max(len(v.rows.items)-1, 0))
		return v, nil

	case subscribedMsg:
		if msg.err != nil {
			v.flash = formatter.StyleYellow.Render("Live updates unavailable: " + msg.err.Error())
			return v, nil
		}
		v.events, v.release = msg.events, msg.release
		return v, v.waitForEvent()

	case planEventMsg:
		next := v.waitForEvent()
		if msg.event.ProjectID != v.project.ID {
			return v, next
		}
		v.updates++
		v.flash = formatter.Dim(fmt.Sprintf("Updated %s (%s)", msg.event.At.Local().Format("15:04:05"), msg.event.Kind))
		return v, tea.Batch(v.load(), next)

	case eventsClosedMsg:
		v.events = nil
		v.Close()
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.rows.items)-1 {
				v.cursor++
			}
		case "r":
			return v, v.load()
		case "x", "a", "s", "left", "right":
			if !v.surface.Remove(v.cursor) {
				v.flash = formatter.Dim("Shared plans are read-only.")
			}
		}
	}
	return v, nil
}

func (v *sharedPlanView) View() string {
	var b strings.Builder

	if v.found {
		b.WriteString(formatter.FormatPlanHeader(v.project, v.plan))
	} else {
		b.WriteString(formatter.StyleGreen.Render(v.project.DisplayID()) + "  " + formatter.Bold(v.project.Name))
	}
	if v.follow && v.events != nil {
		b.WriteString("  " + formatter.StyleBlue.Render("◉ live"))
	}
	b.WriteString("\n")

	switch {
	case v.loading && !v.found:
		b.WriteString(formatter.Dim("Loading shared plan..."))
		return b.String()
	case v.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: " + v.err.Error()))
		return b.String()
	case !v.found:
		b.WriteString(formatter.Dim("No plan has been shared for this project yet."))
		return b.String()
	}

	b.WriteString(v.flash)
	b.WriteString("\n\n")

	layout, err := timeline.LayoutItems(v.rows.items)
	if err != nil {
		b.WriteString(formatter.StyleRed.Render("Error: " + err.Error()))
		return b.String()
	}
	b.WriteString(formatter.RenderGantt(layout, v.rows.items, formatter.GanttOptions{
		Width:      v.state.Width,
		Selected:   v.cursor,
		ShowCursor: true,
		Now:        v.state.App.now(),
	}))
	return b.String()
}
