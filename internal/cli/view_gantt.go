package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/obra/internal/cli/formatter"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/gantt"
	"github.com/alexanderramin/obra/internal/timeline"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ganttPreambleLines is the plan header, status line and spacer drawn above
// the chart.
const ganttPreambleLines = 3

// ganttRowTop is the terminal row of the first bar.
const ganttRowTop = appHeaderLines + ganttPreambleLines + formatter.GanttHeaderLines

type planLoadedMsg struct {
	replyMsg
	schedule   *domain.Schedule
	categories []*domain.CostCategory
	err        error
}

type planSavedMsg struct {
	replyMsg
	schedule *domain.Schedule
	err      error
}

// ganttView edits one plan. Pointer and key gestures go through a
// gantt.Surface; the editor owns the rows and is saved explicitly with s.
type ganttView struct {
	addressed
	state    *SharedState
	project  *domain.Project
	planType domain.PlanType

	editor  *gantt.Editor
	doc     *gantt.Document
	surface *gantt.Surface

	categories []*domain.CostCategory
	cursor     int

	loading bool
	saving  bool
	spinner spinner.Model
	flash   string

	// dragGeo is the chart geometry captured at pointer down, so columns
	// map consistently while the timeline grows during a drag.
	dragGeo formatter.GanttGeometry
}

func newGanttView(state *SharedState, project *domain.Project, t domain.PlanType, guarded bool) *ganttView {
	editor := gantt.NewDraft(project.ID, t)
	editor.SetGuarded(guarded)
	doc := gantt.NewDocument()
	return &ganttView{
		addressed: newAddressed(),
		state:     state,
		project:   project,
		planType:  t,
		editor:    editor,
		doc:       doc,
		surface:   gantt.NewSurface(doc, editor, editor),
		loading:   true,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple)),
	}
}

func (v *ganttView) ID() ViewID { return ViewGantt }

func (v *ganttView) Title() string {
	return "Edit " + strings.ToLower(string(v.planType))
}

func (v *ganttView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←→", "move")),
		key.NewBinding(key.WithKeys("shift+left", "shift+right"), key.WithHelp("⇧←→", "resize")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func (v *ganttView) Init() tea.Cmd {
	v.loading = true
	v.surface.SetBusy(true)
	return tea.Batch(v.load(), v.spinner.Tick)
}

func (v *ganttView) load() tea.Cmd {
	app, project, t, ctx := v.state.App, v.project, v.planType, v.state.context()
	to := replyMsg{to: v.token()}
	return func() tea.Msg {
		s, _, err := loadPlan(ctx, app, project, t)
		if err != nil {
			return planLoadedMsg{replyMsg: to, err: err}
		}
		cats, err := app.Categories.ListByProject(ctx, project.ID)
		return planLoadedMsg{replyMsg: to, schedule: s, categories: cats, err: err}
	}
}

func (v *ganttView) save() tea.Cmd {
	if v.saving || v.loading {
		return nil
	}
	if !v.editor.Dirty() {
		v.flash = formatter.Dim("Nothing to save.")
		return nil
	}
	v.saving = true
	v.surface.SetBusy(true)

	app, ctx, req := v.state.App, v.state.context(), v.editor.SaveRequest()
	to := replyMsg{to: v.token()}
	return tea.Batch(func() tea.Msg {
		saved, err := app.Schedules.Save(ctx, req)
		return planSavedMsg{replyMsg: to, schedule: saved, err: err}
	}, v.spinner.Tick)
}

func (v *ganttView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case planLoadedMsg:
		v.loading = false
		v.surface.SetBusy(false)
		if msg.err != nil {
			v.flash = formatter.StyleRed.Render("Error: " + msg.err.Error())
			return v, nil
		}
		v.editor.Commit(msg.schedule)
		v.categories = msg.categories
		v.cursor = min(v.cursor, max(len(v.editor.Items())-1, 0))
		v.flash = ""
		return v, nil

	case planSavedMsg:
		v.saving = false
		v.surface.SetBusy(false)
		if msg.err != nil {
			v.editor.Fail(msg.err)
			v.flash = formatter.StyleRed.Render(saveErrorText(msg.err))
			return v, nil
		}
		v.editor.Commit(msg.schedule)
		v.flash = formatter.StyleGreen.Render(fmt.Sprintf("✔ Saved %d items", len(msg.schedule.Items)))
		return v, nil

	case addItemMsg:
		if err := v.editor.AddItem(msg.item); err != nil {
			v.flash = formatter.StyleRed.Render("Error: " + err.Error())
			return v, nil
		}
		v.cursor = len(v.editor.Items()) - 1
		v.flash = ""
		return v, nil

	case spinner.TickMsg:
		if !v.loading && !v.saving {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.MouseMsg:
		v.handleMouse(msg)
		return v, nil

	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func saveErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return "Plan changed elsewhere since it was loaded; press r to reload."
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "Save failed, your changes are kept; press s to retry."
	default:
		return "Error: " + err.Error()
	}
}

func (v *ganttView) handleKey(msg tea.KeyMsg) tea.Cmd {
	items := v.editor.Items()
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(items)-1 {
			v.cursor++
		}
	case "left", "h":
		v.surface.Step(v.cursor, gantt.ZoneBody, -1)
	case "right", "l":
		v.surface.Step(v.cursor, gantt.ZoneBody, 1)
	case "shift+left", "H":
		v.surface.Step(v.cursor, gantt.ZoneHandle, -1)
	case "shift+right", "L":
		v.surface.Step(v.cursor, gantt.ZoneHandle, 1)
	case "x", "delete":
		if v.surface.Remove(v.cursor) {
			v.cursor = max(0, min(v.cursor, len(v.editor.Items())-1))
		}
	case "a":
		if !v.surface.Editable() {
			return nil
		}
		if len(v.categories) == 0 {
			v.flash = formatter.StyleYellow.Render("Add a cost category first: obra category add " + v.project.DisplayID() + " NAME")
			return nil
		}
		return pushView(newAddItemView(v.categories, v.nextStart()))
	case "s":
		return v.save()
	case "r":
		if v.saving || v.loading {
			return nil
		}
		return v.Init()
	}
	return nil
}

// nextStart proposes the day after the current plan ends, or today.
func (v *ganttView) nextStart() time.Time {
	if span, ok := timeline.SpanOf(v.editor.Items()); ok {
		return span.End.AddDate(0, 0, 1)
	}
	return domain.Day(v.state.App.now())
}

func (v *ganttView) geometry(layout timeline.Layout) formatter.GanttGeometry {
	return formatter.NewGanttGeometry(v.state.Width, len(layout.Grid.Weeks), 0)
}

// handleMouse maps terminal mouse events onto the surface. Press on a bar
// starts a gesture; motion and release are dispatched document-wide, so a
// release outside the chart still ends it.
func (v *ganttView) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		layout, err := v.editor.Layout()
		if err != nil || layout.Empty() {
			return
		}
		row := msg.Y - ganttRowTop
		if row < 0 || row >= len(layout.Bars) {
			return
		}
		v.cursor = row

		geo := v.geometry(layout)
		x := geo.GridX(msg.X)
		handle, ok := geo.Hit(layout.Bars[row], x)
		if !ok {
			return
		}
		zone := gantt.ZoneBody
		if handle {
			zone = gantt.ZoneHandle
		}
		v.dragGeo = geo
		v.surface.SetWidth(float64(geo.GridWidth()))
		v.surface.PointerDown(float64(x), row, zone)

	case tea.MouseActionMotion:
		if !v.surface.State().IsIdle() {
			v.doc.Move(float64(v.dragGeo.GridX(msg.X)))
		}

	case tea.MouseActionRelease:
		v.doc.Up(float64(v.dragGeo.GridX(msg.X)))
	}
}

func (v *ganttView) View() string {
	var b strings.Builder

	header := formatter.FormatPlanHeader(v.project, v.editor.Plan())
	if v.editor.Dirty() {
		header += "  " + formatter.StyleYellow.Render("● unsaved")
	}
	b.WriteString(header + "\n")

	items := v.editor.Items()
	now := v.state.App.now()
	report := v.editor.Risk(now, v.state.App.threshold())

	switch {
	case v.loading:
		b.WriteString(v.spinner.View() + " " + formatter.Dim("Loading plan..."))
	case v.saving:
		b.WriteString(v.spinner.View() + " " + formatter.Dim("Saving..."))
	case v.flash != "":
		b.WriteString(v.flash)
	default:
		status := formatter.Dim(fmt.Sprintf("%d items  ", len(items))) + formatter.RiskSummary(report)
		if st := v.surface.State(); !st.IsIdle() {
			status += "  " + formatter.StyleBlue.Render(st.String())
		}
		b.WriteString(status)
	}
	b.WriteString("\n\n")

	layout, err := v.editor.Layout()
	if err != nil {
		b.WriteString(formatter.StyleRed.Render("Error: " + err.Error()))
		return b.String()
	}
	if layout.Empty() && !v.loading {
		b.WriteString(formatter.Dim("No items yet. Press a to add one."))
		return b.String()
	}
	b.WriteString(formatter.RenderGantt(layout, items, formatter.GanttOptions{
		Width:      v.state.Width,
		Selected:   v.cursor,
		ShowCursor: true,
		Now:        now,
		Severity:   formatter.SeverityByItem(report),
	}))
	return b.String()
}
