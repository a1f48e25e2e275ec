package cli

import (
	"fmt"

	"github.com/alexanderramin/sprintwise/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "projects",
		Aliases: []string{"ls"},
		Short:   "List your projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := app.currentUser(ctx)
			if err != nil {
				return err
			}
			projects, err := app.Projects.ListForUser(ctx, user.ID)
			if err != nil {
				return fmt.Errorf("listing projects: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects, app.now()))
			return nil
		},
	}
}

func newPlanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <project>",
		Short: "Show a project's 10-week plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			plan, err := p.Plan()
			if err != nil {
				return fmt.Errorf("reading plan of %s: %w", p.DisplayID(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectPlan(p, plan))
			return nil
		},
	}
}

func newSprintCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprint",
		Short: "Manage a project's sprints",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "next <project>",
		Short: "Finish the current sprint and start the next one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.AdvanceSprint(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSprintAdvance(p))
			return nil
		},
	})

	return cmd
}
