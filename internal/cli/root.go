package cli

import (
	"time"

	"github.com/alexanderramin/obra/internal/notify"
	"github.com/alexanderramin/obra/internal/scheduler"
	"github.com/alexanderramin/obra/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects   service.ProjectService
	Categories service.CategoryService
	Schedules  service.ScheduleService
	Import     service.ImportService

	// Events feeds `plan shared --follow`. Nil disables following.
	Events notify.Subscriber

	RiskThresholdWeeks int

	// Now is the clock used for risk evaluation; nil means time.Now.
	Now func() time.Time

	// IsInteractive reports whether stdin is a terminal; the bare command
	// opens the TUI only when it is.
	IsInteractive func() bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) threshold() int {
	if a.RiskThresholdWeeks > 0 {
		return a.RiskThresholdWeeks
	}
	return scheduler.DefaultThresholdWeeks
}

// NewRootCmd creates the top-level "obra" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "obra",
		Short:         "Construction schedule planner",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				state := newSharedState(app)
				return runTUI(cmd.Context(), state, newProjectListView(state))
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newProjectCmd(app),
		newCategoryCmd(app),
		newPlanCmd(app),
	)

	return root
}
