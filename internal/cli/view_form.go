package cli

import (
	"github.com/alexanderramin/obra/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// formView hosts a huh.Form on the stack. On completion submit builds the
// message for the view underneath; esc abandons the form.
type formView struct {
	form   *huh.Form
	title  string
	submit func() tea.Msg
}

func newFormView(title string, form *huh.Form, submit func() tea.Msg) *formView {
	return &formView{form: form, title: title, submit: submit}
}

func (v *formView) ID() ViewID    { return ViewForm }
func (v *formView) Title() string { return v.title }

func (v *formView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (v *formView) Init() tea.Cmd { return v.form.Init() }

func (v *formView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		return v, func() tea.Msg { return formDoneNotice(formatter.Dim("Cancelled.")) }
	}

	updated, cmd := v.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State != huh.StateCompleted {
		return v, cmd
	}

	var next tea.Cmd
	if v.submit != nil {
		result := v.submit()
		next = func() tea.Msg { return result }
	}
	return v, func() tea.Msg { return formDoneMsg{nextCmd: tea.Batch(cmd, next)} }
}

func (v *formView) View() string { return v.form.View() }

// formTheme maps the formatter palette onto huh.
func formTheme() *huh.Theme {
	t := huh.ThemeBase()
	accent := lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	dim := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	fg := lipgloss.NewStyle().Foreground(formatter.ColorFg)

	t.Focused.Title = accent.Bold(true)
	t.Focused.Description = dim
	t.Focused.SelectSelector = accent
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = fg
	t.Focused.TextInput.Prompt = accent
	t.Focused.TextInput.Cursor = accent
	t.Focused.TextInput.Text = fg
	t.Focused.TextInput.Placeholder = dim
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(formatter.ColorRed)

	t.Blurred.Title = dim
	t.Blurred.SelectSelector = dim
	t.Blurred.SelectedOption = dim
	t.Blurred.UnselectedOption = dim
	t.Blurred.TextInput.Prompt = dim
	t.Blurred.TextInput.Text = dim
	return t
}
