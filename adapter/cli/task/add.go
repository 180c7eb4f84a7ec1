package task

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todo/adapter/cli"
	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
	"github.com/felixgeelhaar/todo/internal/tasks/domain/value_objects"
)

// dueDatePlaceholder is the hint text shown in an empty due date field.
const dueDatePlaceholder = "YYYY-MM-DD"

var (
	priority    string
	description string
	dueDate     string
	category    string
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task with a title and optional properties.

Missing values get defaults: priority medium, description
"No description", due date "No due date", category "General".

Examples:
  todo task add "Buy milk"
  todo task add "Buy milk" -p high --due 2024-01-01 --category Shopping
  todo task add "Write report" -d "quarterly numbers" -p low`,
	Aliases: []string{"create", "new"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireStore()
		if err != nil {
			return err
		}

		title := strings.TrimSpace(args[0])
		if title == "" {
			return fmt.Errorf("task title cannot be empty")
		}

		p, err := value_objects.ParsePriority(priority)
		if err != nil {
			return fmt.Errorf("%w %q (use high, medium, low or none)", err, priority)
		}

		t := app.Store.Add(cmd.Context(), title, normalizeDescription(description), p,
			normalizeDueDate(dueDate), normalizeCategory(category))

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task added: %d\n", t.ID())
		warnUnsaved(cmd, app)
		fmt.Fprintln(out)
		cli.PrintTasks(out, app.Store.All())
		return nil
	},
}

func normalizeDueDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == dueDatePlaceholder {
		return task.NoDueDate
	}
	return s
}

func normalizeDescription(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return task.NoDescription
	}
	return s
}

func normalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return task.DefaultCategory
	}
	return s
}

func init() {
	addCmd.Flags().StringVarP(&priority, "priority", "p", "medium", "task priority (high, medium, low, none)")
	addCmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	addCmd.Flags().StringVar(&dueDate, "due", "", "due date, free text (e.g. 2024-01-01)")
	addCmd.Flags().StringVar(&category, "category", "", "task category")
}
