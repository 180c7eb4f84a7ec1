package task

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todo/adapter/cli"
	"github.com/felixgeelhaar/todo/internal/tasks/domain/value_objects"
)

var (
	updateTitle       string
	updateDescription string
	updatePriority    string
	updateDueDate     string
	updateCategory    string
)

var updateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task",
	Long: `Update the fields of a task. Fields without a flag keep their
current value.

Examples:
  todo task update 3 --title "Buy oat milk"
  todo task update 3 -p low --due 2024-02-01`,
	Aliases: []string{"edit"},
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

		current, ok := app.Store.Get(id)
		if !ok {
			return fmt.Errorf("task %d not found", id)
		}

		flags := cmd.Flags()
		title := current.Title()
		if flags.Changed("title") {
			title = strings.TrimSpace(updateTitle)
			if title == "" {
				return fmt.Errorf("task title cannot be empty")
			}
		}
		desc := current.Description()
		if flags.Changed("description") {
			desc = normalizeDescription(updateDescription)
		}
		p := current.Priority()
		if flags.Changed("priority") {
			p, err = value_objects.ParsePriority(updatePriority)
			if err != nil {
				return fmt.Errorf("%w %q (use high, medium, low or none)", err, updatePriority)
			}
		}
		due := current.DueDate()
		if flags.Changed("due") {
			due = normalizeDueDate(updateDueDate)
		}
		cat := current.Category()
		if flags.Changed("category") {
			cat = normalizeCategory(updateCategory)
		}

		app.Store.Update(cmd.Context(), id, title, desc, p, due, cat)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task updated: %d\n", id)
		warnUnsaved(cmd, app)
		fmt.Fprintln(out)
		cli.PrintTasks(out, app.Store.All())
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "new title")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "new description")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "new priority (high, medium, low, none)")
	updateCmd.Flags().StringVar(&updateDueDate, "due", "", "new due date")
	updateCmd.Flags().StringVar(&updateCategory, "category", "", "new category")
}
