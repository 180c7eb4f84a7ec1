package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
)

// PrintTasks writes one display line per task, or a placeholder when empty.
func PrintTasks(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintf(w, "%3d  %s\n", t.ID(), t.DisplayText())
	}
}

// PrintTask writes the full details of one task.
func PrintTask(w io.Writer, t task.Task) {
	status := "Pending"
	if t.IsCompleted() {
		status = "Completed"
	}
	fmt.Fprintf(w, "Task %d\n", t.ID())
	fmt.Fprintf(w, "  Title:       %s\n", t.Title())
	fmt.Fprintf(w, "  Status:      %s\n", status)
	fmt.Fprintf(w, "  Priority:    %s %s\n", t.Priority().Glyph(), t.Priority().Label())
	fmt.Fprintf(w, "  Due:         %s\n", t.DueDate())
	fmt.Fprintf(w, "  Category:    %s\n", t.Category())
	fmt.Fprintf(w, "  Description: %s\n", t.Description())
}

// ParseID parses a task id argument.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

// Confirm asks a yes/no question and reports whether the answer was yes.
func Confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
