package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sprintwise/internal/cli/formatter"
	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/service"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func newBoardCmd(app *App) *cobra.Command {
	var sprint, width int

	cmd := &cobra.Command{
		Use:   "board <project>",
		Short: "Show the kanban board for a sprint",
		Long:  "Show todo, in-progress and done tasks. Defaults to the project's current sprint.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sprint < 0 {
				return fmt.Errorf("--sprint must be positive")
			}
			board, err := app.Board.Board(cmd.Context(), args[0], sprint)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBoard(board, width, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&sprint, "sprint", "s", 0, "sprint number (default current)")
	cmd.Flags().IntVar(&width, "width", 0, "fit the board to this many columns")
	return cmd
}

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Move or edit tasks",
	}
	cmd.AddCommand(newTaskMoveCmd(app), newTaskEditCmd(app))
	return cmd
}

func newTaskMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task> <todo|in_progress|done>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := parseStatus(args[1])
			if err != nil {
				return err
			}
			t, err := app.Board.MoveTask(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTask(t, app.now()))
			return nil
		},
	}
}

func newTaskEditCmd(app *App) *cobra.Command {
	var title, description, due string
	var sprint int

	cmd := &cobra.Command{
		Use:   "edit <task>",
		Short: "Change a task's title, description, sprint or due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch service.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("sprint") {
				patch.Sprint = &sprint
			}
			if flags.Changed("due") {
				d, err := time.ParseInLocation(dateLayout, due, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --due %q: use YYYY-MM-DD", due)
				}
				patch.DueDate = &d
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to change: pass --title, --description, --sprint or --due")
			}

			t, err := app.Board.UpdateTask(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTask(t, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().IntVar(&sprint, "sprint", 0, "move to sprint number")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	return cmd
}

func parseStatus(s string) (domain.TaskStatus, error) {
	status := domain.TaskStatus(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !status.Valid() {
		return "", fmt.Errorf("invalid status %q: use todo, in_progress or done", s)
	}
	return status, nil
}
