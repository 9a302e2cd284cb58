package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// runTUI runs the full-screen interface with home at the bottom of the view
// stack. Mouse cell motion is on so drags are reported between press and
// release anywhere in the terminal.
func runTUI(ctx context.Context, state *SharedState, home View) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	state.Ctx = ctx

	p := tea.NewProgram(newAppModel(state, home),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
