package task

import (
	"fmt"

	"github.com/felixgeelhaar/todo/internal/tasks/domain/value_objects"
)

const (
	// NoDueDate is the due date stored for tasks without one.
	NoDueDate = "No due date"
	// NoDescription is the description stored for tasks without one.
	NoDescription = "No description"
	// DefaultCategory is the category stored when none is given.
	DefaultCategory = "General"
)

// Task is a single tracked to-do item.
//
// A Task holds no references, so copying the value yields an independent task.
type Task struct {
	id          int
	title       string
	description string
	completed   bool
	priority    value_objects.Priority
	dueDate     string
	category    string
}

// New creates a pending task. No field is validated here.
func New(id int, title, description string, priority value_objects.Priority, dueDate, category string) Task {
	return Task{
		id:          id,
		title:       title,
		description: description,
		priority:    priority,
		dueDate:     dueDate,
		category:    category,
	}
}

// Rehydrate rebuilds a task from persisted state.
func Rehydrate(id int, title, description string, completed bool, priority value_objects.Priority, dueDate, category string) Task {
	t := New(id, title, description, priority, dueDate, category)
	t.completed = completed
	return t
}

// Getters

func (t Task) ID() int                          { return t.id }
func (t Task) Title() string                    { return t.title }
func (t Task) Description() string              { return t.description }
func (t Task) IsCompleted() bool                { return t.completed }
func (t Task) Priority() value_objects.Priority { return t.priority }
func (t Task) DueDate() string                  { return t.dueDate }
func (t Task) Category() string                 { return t.category }

// ToggleCompleted flips the completion flag.
func (t *Task) ToggleCompleted() {
	t.completed = !t.completed
}

// Update overwrites every mutable field.
func (t *Task) Update(title, description string, priority value_objects.Priority, dueDate, category string) {
	t.title = title
	t.description = description
	t.priority = priority
	t.dueDate = dueDate
	t.category = category
}

// DisplayText renders the one-line summary used in task lists.
func (t Task) DisplayText() string {
	status := "○"
	if t.completed {
		status = "✓"
	}
	return fmt.Sprintf("%s %s %s - %s", status, t.priority.Glyph(), t.title, t.category)
}

func (t Task) String() string {
	mark := " "
	if t.completed {
		mark = "✓"
	}
	return fmt.Sprintf("[%s] %s - %s (%s) - Due: %s", mark, t.title, t.priority.Label(), t.category, t.dueDate)
}
