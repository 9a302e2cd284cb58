package cli

import (
	"fmt"

	"github.com/alexanderramin/obra/internal/cli/formatter"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"proj"},
		Short:   "Create and inspect projects",
	}
	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
	)
	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var p domain.Project

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a project",
		Example: `  obra project add --id CASA01 --name "Casa Norte" --client "Familia Ruiz"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Projects.Create(cmd.Context(), &p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created project %s [%s]\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(p.Name), p.ShortID)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&p.ShortID, "id", "", "short ID: 3-6 letters and 2-4 digits, e.g. CASA01")
	fs.StringVar(&p.Name, "name", "", "project name")
	fs.StringVar(&p.Client, "client", "", "client the plan is shared with")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects found.")
				return nil
			}
			fmt.Fprintln(out, formatter.FormatProjectList(projects))
			return nil
		},
	}
}

// newProjectShowCmd summarizes one project: its categories and every plan.
func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show a project's categories and plans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			cats, err := app.Categories.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			plans, err := app.Schedules.ListPlans(ctx, p.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n", formatter.StyleGreen.Render(p.DisplayID()), formatter.Bold(p.Name))
			if p.Client != "" {
				fmt.Fprintf(out, "%s %s\n", formatter.Dim("client"), p.Client)
			}
			fmt.Fprintln(out)
			if len(cats) == 0 {
				fmt.Fprintln(out, formatter.Dim("No cost categories."))
			} else {
				fmt.Fprint(out, formatter.FormatCategoryList(cats))
			}
			fmt.Fprintln(out)
			if len(plans) == 0 {
				fmt.Fprintln(out, formatter.Dim("No plans."))
			} else {
				fmt.Fprint(out, formatter.FormatPlanList(plans))
			}
			return nil
		},
	}
}
