package task

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todo/adapter/cli"
	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
	"github.com/felixgeelhaar/todo/internal/tasks/domain/value_objects"
)

var (
	status         string
	filterCategory string
	filterPriority string
	search         string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks in the order they were added. Filters combine.

Filter Options:
  --status      pending or completed
  --category    category name, case-insensitive
  --priority    high, medium, low or none
  --search      text in title or description, case-insensitive

Examples:
  todo task list
  todo task list --status pending
  todo task list --category shopping --priority high
  todo task list --search milk`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireStore()
		if err != nil {
			return err
		}
		store := app.Store

		tasks := store.All()

		switch strings.ToLower(strings.TrimSpace(status)) {
		case "":
		case "pending":
			tasks = intersect(tasks, store.ByStatus(false))
		case "completed", "done":
			tasks = intersect(tasks, store.ByStatus(true))
		default:
			return fmt.Errorf("invalid status %q (use pending or completed)", status)
		}

		if filterCategory != "" {
			tasks = intersect(tasks, store.ByCategory(filterCategory))
		}
		if filterPriority != "" {
			p, err := value_objects.ParsePriority(filterPriority)
			if err != nil {
				return fmt.Errorf("%w %q", err, filterPriority)
			}
			tasks = intersect(tasks, store.ByPriority(p))
		}
		if search != "" {
			tasks = intersect(tasks, store.Search(search))
		}

		cli.PrintTasks(cmd.OutOrStdout(), tasks)
		return nil
	},
}

// intersect keeps the tasks of a that also appear in b, in a's order.
func intersect(a, b []task.Task) []task.Task {
	keep := make(map[int]struct{}, len(b))
	for _, t := range b {
		keep[t.ID()] = struct{}{}
	}
	result := make([]task.Task, 0, len(a))
	for _, t := range a {
		if _, ok := keep[t.ID()]; ok {
			result = append(result, t)
		}
	}
	return result
}

func init() {
	listCmd.Flags().StringVarP(&status, "status", "s", "", "filter by status (pending, completed)")
	listCmd.Flags().StringVar(&filterCategory, "category", "", "filter by category")
	listCmd.Flags().StringVarP(&filterPriority, "priority", "p", "", "filter by priority (high, medium, low, none)")
	listCmd.Flags().StringVarP(&search, "search", "q", "", "search title and description")
}
