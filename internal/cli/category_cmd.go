package cli

import (
	"fmt"

	"github.com/alexanderramin/obra/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCategoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage a project's cost categories",
	}

	cmd.AddCommand(
		newCategoryAddCmd(app),
		newCategoryListCmd(app),
	)

	return cmd
}

func newCategoryAddCmd(app *App) *cobra.Command {
	var budget float64

	cmd := &cobra.Command{
		Use:   "add PROJECT NAME",
		Short: "Add a cost category to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}

			c, created, err := app.Categories.Ensure(ctx, p.ID, args[1], budget)
			if err != nil {
				return err
			}
			if !created {
				return fmt.Errorf("cost category %q already exists in %s", c.Name, p.DisplayID())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s to %s (budget %s)\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(c.Name), p.DisplayID(), formatter.FormatMoney(c.Budget))
			return nil
		},
	}

	cmd.Flags().Float64Var(&budget, "budget", 0, "Budget amount")

	return cmd
}

func newCategoryListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's cost categories",
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
			if len(cats) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No cost categories in %s.\n", p.DisplayID())
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCategoryList(cats))
			return nil
		},
	}
}
