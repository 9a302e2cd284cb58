package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/obra/internal/cli/formatter"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type projectsLoadedMsg struct {
	replyMsg
	projects []*domain.Project
	err      error
}

// projectListView is the TUI home. Enter opens the executive plan, p the
// parametric one and v the client's shared view.
type projectListView struct {
	addressed
	state    *SharedState
	projects []*domain.Project
	cursor   int
	loading  bool
	err      error

	filter textinput.Model
}

func newProjectListView(state *SharedState) *projectListView {
	filter := textinput.New()
	filter.Prompt = formatter.StyleYellow.Render("/ ")
	filter.Placeholder = "name, client or ID"
	return &projectListView{addressed: newAddressed(), state: state, loading: true, filter: filter}
}

func (v *projectListView) ID() ViewID    { return ViewProjectList }
func (v *projectListView) Title() string { return "Projects" }

func (v *projectListView) ShortHelp() []key.Binding {
	if v.filter.Focused() {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "executive")),
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "parametric")),
		key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "shared")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	}
}

// CapturesInput keeps q and esc inside the filter while it is being typed.
func (v *projectListView) CapturesInput() bool { return v.filter.Focused() }

func (v *projectListView) Init() tea.Cmd {
	app, ctx, to := v.state.App, v.state.context(), replyMsg{to: v.token()}
	return func() tea.Msg {
		projects, err := app.Projects.List(ctx)
		return projectsLoadedMsg{replyMsg: to, projects: projects, err: err}
	}
}

func (v *projectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		v.loading = false
		v.projects, v.err = msg.projects, msg.err
		return v, nil
	case tea.KeyMsg:
		if v.filter.Focused() {
			return v, v.updateFilter(msg)
		}
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *projectListView) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		v.filter.Blur()
		v.filter.Reset()
		v.cursor = 0
		return nil
	case tea.KeyEnter:
		v.filter.Blur()
		return nil
	}
	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	v.cursor = 0
	return cmd
}

func (v *projectListView) handleKey(msg tea.KeyMsg) tea.Cmd {
	visible := v.visible()
	switch msg.String() {
	case "up", "k":
		v.cursor = max(v.cursor-1, 0)
	case "down", "j":
		v.cursor = max(min(v.cursor+1, len(visible)-1), 0)
	case "/":
		return v.filter.Focus()
	case "enter", "e", "p", "v":
		if v.cursor >= len(visible) {
			return nil
		}
		p := visible[v.cursor]
		v.state.openProject(p)
		switch msg.String() {
		case "v":
			return pushView(newSharedPlanView(v.state, p, v.state.App.Events != nil))
		case "p":
			return pushView(newGanttView(v.state, p, domain.PlanParametric, false))
		default:
			return pushView(newGanttView(v.state, p, domain.PlanExecutive, false))
		}
	}
	return nil
}

func (v *projectListView) visible() []*domain.Project {
	q := strings.ToLower(strings.TrimSpace(v.filter.Value()))
	if q == "" {
		return v.projects
	}
	var out []*domain.Project
	for _, p := range v.projects {
		haystack := strings.ToLower(p.ShortID + " " + p.Name + " " + p.Client)
		if strings.Contains(haystack, q) {
			out = append(out, p)
		}
	}
	return out
}

func (v *projectListView) View() string {
	switch {
	case v.loading:
		return "\n  " + formatter.Dim("Loading projects...")
	case v.err != nil:
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}

	var b strings.Builder
	b.WriteString("\n")
	if v.filter.Focused() || v.filter.Value() != "" {
		b.WriteString("  " + v.filter.View() + "\n\n")
	}

	visible := v.visible()
	if len(visible) == 0 {
		if len(v.projects) == 0 {
			b.WriteString("  " + formatter.Dim("No projects found. Create one with: obra project add --id CASA01 --name ...") + "\n")
		} else {
			b.WriteString("  " + formatter.Dim("No projects match.") + "\n")
		}
		return b.String()
	}

	for i, p := range visible {
		marker, name := "  ", formatter.StyleFg.Render(formatter.PadRight(p.Name, 28))
		if i == v.cursor {
			marker, name = formatter.StyleGreen.Render("▸ "), formatter.StyleBold.Render(formatter.PadRight(p.Name, 28))
		}
		fmt.Fprintf(&b, "%s%s %s  %s\n", marker,
			formatter.StyleGreen.Render(formatter.PadRight(p.DisplayID(), 10)), name, formatter.Dim(p.Client))
	}
	return b.String()
}
