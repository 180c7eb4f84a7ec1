package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todo/adapter/cli"
)

var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Long: `Display detailed information about a specific task.

Examples:
  todo task show 3`,
	Aliases: []string{"get", "view"},
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

		cli.PrintTask(cmd.OutOrStdout(), t)
		return nil
	},
}
