package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/obra/internal/cli/formatter"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/scheduler"
	"github.com/spf13/cobra"
)

const defaultRenderWidth = 100

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "View, edit and share schedule plans",
	}

	cmd.AddCommand(
		newPlanImportCmd(app),
		newPlanShowCmd(app),
		newPlanListCmd(app),
		newPlanEditCmd(app),
		newPlanSharedCmd(app),
		newPlanShareCmd(app, true),
		newPlanShareCmd(app, false),
		newPlanRiskCmd(app),
	)

	return cmd
}

func newPlanImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a schedule from a YAML or JSON file",
		Long: `Import a schedule file. The project is created when its short ID is
unknown, missing cost categories are added, and the latest plan of the
file's type is replaced in full.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportSchedule(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			verb := "Updated"
			if res.ProjectCreated {
				verb = "Created"
			}
			fmt.Fprintf(out, "%s %s project %s [%s]\n", formatter.StyleGreen.Render("✔"), verb,
				formatter.Bold(res.Project.Name), res.Project.DisplayID())
			fmt.Fprintf(out, "  %s plan: %d items, %d milestones, %d new categories\n",
				formatter.PlanTypePill(res.Schedule.Plan.Type), len(res.Schedule.Items),
				len(res.Schedule.Milestones), res.CategoriesCreated)
			if res.Schedule.Plan.Shared {
				fmt.Fprintf(out, "  %s\n", formatter.SharedBadge(true))
			}
			return nil
		},
	}
}

func newPlanShowCmd(app *App) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "show PROJECT",
		Short: "Render a plan's timeline",
		Args:  cobra.ExactArgs(1),
	}
	planType := planTypeFlag(cmd.Flags(), domain.PlanExecutive)
	cmd.Flags().IntVar(&width, "width", defaultRenderWidth, "Output width in columns")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := resolveProject(ctx, app, args[0])
		if err != nil {
			return err
		}
		s, ok, err := loadPlan(ctx, app, p, planType.PlanType())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "No %s plan for %s.\n", planType, p.DisplayID())
			return nil
		}
		return printSchedule(cmd, app, p, s, width)
	}
	return cmd
}

func printSchedule(cmd *cobra.Command, app *App, p *domain.Project, s *domain.Schedule, width int) error {
	now := app.now()
	report := scheduler.EvaluateRisk(scheduler.RiskInput{Now: now, Items: s.Items, ThresholdWeeks: app.threshold()})
	out, err := formatter.FormatSchedule(p, s, width, now, formatter.SeverityByItem(report))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func newPlanListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's plans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			plans, err := app.Schedules.ListPlans(ctx, p.ID)
			if err != nil {
				return err
			}
			if len(plans) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No plans for %s.\n", p.DisplayID())
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanList(plans))
			return nil
		},
	}
}

func newPlanEditCmd(app *App) *cobra.Command {
	var guard bool

	cmd := &cobra.Command{
		Use:   "edit PROJECT",
		Short: "Edit a plan's timeline interactively",
		Args:  cobra.ExactArgs(1),
	}
	planType := planTypeFlag(cmd.Flags(), domain.PlanExecutive)
	cmd.Flags().BoolVar(&guard, "guard", false, "Refuse to save over changes made elsewhere since loading")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := resolveProject(ctx, app, args[0])
		if err != nil {
			return err
		}
		state := newSharedState(app)
		state.openProject(p)
		return runTUI(ctx, state, newGanttView(state, p, planType.PlanType(), guard))
	}
	return cmd
}

func newPlanSharedCmd(app *App) *cobra.Command {
	var follow bool
	var width int

	cmd := &cobra.Command{
		Use:   "shared PROJECT",
		Short: "Show the executive plan shared with the client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}

			if app.IsInteractive != nil && app.IsInteractive() {
				state := newSharedState(app)
				state.openProject(p)
				return runTUI(ctx, state, newSharedPlanView(state, p, follow))
			}

			s, ok, err := app.Schedules.LoadShared(ctx, p.ID)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "No shared plan for %s.\n", p.DisplayID())
				return nil
			}
			return printSchedule(cmd, app, p, s, width)
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Refresh when the plan changes")
	cmd.Flags().IntVar(&width, "width", defaultRenderWidth, "Output width in columns")
	return cmd
}

func newPlanShareCmd(app *App, shared bool) *cobra.Command {
	var planID string

	use, short := "share PROJECT", "Share the latest executive plan with the client"
	if !shared {
		use, short = "unshare PROJECT", "Stop sharing a plan"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			id, err := sharePlanID(ctx, app, p, planID, shared)
			if err != nil {
				return err
			}

			if shared {
				err = app.Schedules.MarkShared(ctx, id)
			} else {
				err = app.Schedules.UnmarkShared(ctx, id)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Plan %s of %s is now %s\n", formatter.StyleGreen.Render("✔"),
				formatter.ShortID(id), p.DisplayID(), formatter.SharedBadge(shared))
			return nil
		},
	}
	cmd.Flags().StringVar(&planID, "plan", "", "Plan ID (default: latest executive plan, or the shared plan when unsharing)")
	return cmd
}

// sharePlanID picks the target of share/unshare. An explicit ID must belong
// to the project.
func sharePlanID(ctx context.Context, app *App, p *domain.Project, explicit string, shared bool) (string, error) {
	if explicit != "" {
		plans, err := app.Schedules.ListPlans(ctx, p.ID)
		if err != nil {
			return "", err
		}
		for _, pl := range plans {
			if pl.ID == explicit {
				return pl.ID, nil
			}
		}
		return "", fmt.Errorf("plan %s in %s: %w", explicit, p.DisplayID(), domain.ErrNotFound)
	}

	var (
		s   *domain.Schedule
		ok  bool
		err error
	)
	if shared {
		s, ok, err = app.Schedules.LoadForProject(ctx, p.ID, domain.PlanExecutive)
	} else {
		s, ok, err = app.Schedules.LoadShared(ctx, p.ID)
	}
	if err != nil {
		return "", err
	}
	if !ok {
		if shared {
			return "", fmt.Errorf("%s has no executive plan to share: %w", p.DisplayID(), domain.ErrNotFound)
		}
		return "", fmt.Errorf("%s has no shared plan: %w", p.DisplayID(), domain.ErrNotFound)
	}
	return s.Plan.ID, nil
}

func newPlanRiskCmd(app *App) *cobra.Command {
	var weeks int

	cmd := &cobra.Command{
		Use:   "risk PROJECT",
		Short: "List items ending soon or overdue",
		Args:  cobra.ExactArgs(1),
	}
	planType := planTypeFlag(cmd.Flags(), domain.PlanExecutive)
	cmd.Flags().IntVar(&weeks, "weeks", 0, "Warning threshold in weeks (default from OBRA_RISK_THRESHOLD_WEEKS)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		threshold := app.threshold()
		if cmd.Flags().Changed("weeks") {
			if weeks < 1 {
				return fmt.Errorf("--weeks must be at least 1, got %d", weeks)
			}
			threshold = weeks
		}

		ctx := cmd.Context()
		p, err := resolveProject(ctx, app, args[0])
		if err != nil {
			return err
		}
		s, ok, err := loadPlan(ctx, app, p, planType.PlanType())
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s has no %s plan: %w", p.DisplayID(), planType, domain.ErrNotFound)
		}

		report := scheduler.EvaluateRisk(scheduler.RiskInput{Now: app.now(), Items: s.Items, ThresholdWeeks: threshold})
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRiskReport(report, threshold))
		return nil
	}
	return cmd
}
