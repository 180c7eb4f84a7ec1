package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todo/adapter/cli"
)

var (
	removeYes bool
	clearYes  bool
)

var removeCmd = &cobra.Command{
	Use:   "rm [task-id]",
	Short: "Delete a task",
	Long: `Delete a task after confirmation.

Examples:
  todo task rm 3
  todo task rm 3 --yes`,
	Aliases: []string{"remove", "delete"},
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

		t, ok := app.Store.Get(id)
		if !ok {
			return fmt.Errorf("task %d not found", id)
		}

		out := cmd.OutOrStdout()
		if !removeYes && !cli.Confirm(app.Input(), out, fmt.Sprintf("Delete task %q?", t.Title())) {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}

		app.Store.Remove(cmd.Context(), id)
		fmt.Fprintf(out, "Task deleted: %d\n", id)
		warnUnsaved(cmd, app)
		fmt.Fprintln(out)
		cli.PrintTasks(out, app.Store.All())
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all tasks",
	Long: `Delete every task after confirmation. Ids are not reused.

Examples:
  todo task clear --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireStore()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		count := len(app.Store.All())
		if !clearYes && !cli.Confirm(app.Input(), out, fmt.Sprintf("Delete all %d tasks?", count)) {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}

		app.Store.Clear(cmd.Context())
		fmt.Fprintf(out, "Deleted %d tasks.\n", count)
		warnUnsaved(cmd, app)
		return nil
	},
}

func init() {
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "skip confirmation")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip confirmation")
}
