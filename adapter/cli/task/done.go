package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todo/adapter/cli"
)

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Toggle a task between pending and completed",
	Long: `Flip the completion state of a task. Running it twice restores
the original state.

Examples:
  todo task done 3`,
	Aliases: []string{"toggle", "complete"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireStore()
		if err != nil {
			return err
		}

		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}

		if !app.Store.ToggleCompletion(cmd.Context(), id) {
			return fmt.Errorf("task %d not found", id)
		}

		t, _ := app.Store.Get(id)
		out := cmd.OutOrStdout()
		if t.IsCompleted() {
			fmt.Fprintf(out, "Task completed: %d\n", id)
		} else {
			fmt.Fprintf(out, "Task reopened: %d\n", id)
		}
		warnUnsaved(cmd, app)
		fmt.Fprintln(out)
		cli.PrintTasks(out, app.Store.All())
		return nil
	},
}

func warnUnsaved(cmd *cobra.Command, app *cli.App) {
	if err := app.Store.LastSaveError(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: change not saved: %v\n", err)
	}
}
