package cli

import (
	"context"

	"github.com/alexanderramin/obra/internal/domain"
)

// SharedState is the mutable context every view on the stack points at.
type SharedState struct {
	App *App

	// Ctx ends with the TUI; event subscriptions are bound to it.
	Ctx context.Context

	// Project is the one most recently opened, shown in the title bar.
	Project *domain.Project

	Width  int
	Height int
}

func newSharedState(app *App) *SharedState {
	return &SharedState{App: app, Ctx: context.Background()}
}

func (s *SharedState) context() context.Context {
	if s.Ctx == nil {
		return context.Background()
	}
	return s.Ctx
}

func (s *SharedState) openProject(p *domain.Project) {
	s.Project = p
}

// ContentHeight is the terminal height minus the title and status bars.
func (s *SharedState) ContentHeight() int {
	return max(s.Height-appHeaderLines-appStatusLines, 1)
}
