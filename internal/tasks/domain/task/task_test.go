package task_test

import (
	"testing"

	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
	"github.com/felixgeelhaar/todo/internal/tasks/domain/value_objects"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tsk := task.New(7, "Buy milk", "2 litres", value_objects.PriorityHigh, "2024-01-01", "Shopping")

	assert.Equal(t, 7, tsk.ID())
	assert.Equal(t, "Buy milk", tsk.Title())
	assert.Equal(t, "2 litres", tsk.Description())
	assert.False(t, tsk.IsCompleted())
	assert.Equal(t, value_objects.PriorityHigh, tsk.Priority())
	assert.Equal(t, "2024-01-01", tsk.DueDate())
	assert.Equal(t, "Shopping", tsk.Category())
}

func TestNew_KeepsEmptyFields(t *testing.T) {
	tsk := task.New(1, "", "", value_objects.PriorityNone, "", "")

	assert.Empty(t, tsk.Title())
	assert.Empty(t, tsk.DueDate())
	assert.Empty(t, tsk.Category())
}

func TestTask_ToggleCompleted(t *testing.T) {
	tsk := task.New(1, "Walk dog", "", value_objects.PriorityLow, task.NoDueDate, task.DefaultCategory)

	tsk.ToggleCompleted()
	assert.True(t, tsk.IsCompleted())

	tsk.ToggleCompleted()
	assert.False(t, tsk.IsCompleted())
}

func TestTask_Update(t *testing.T) {
	tsk := task.Rehydrate(3, "Old", "old", true, value_objects.PriorityLow, "x", "A")

	tsk.Update("New", "new", value_objects.PriorityHigh, "2025-02-02", "B")

	assert.Equal(t, 3, tsk.ID())
	assert.Equal(t, "New", tsk.Title())
	assert.Equal(t, "new", tsk.Description())
	assert.Equal(t, value_objects.PriorityHigh, tsk.Priority())
	assert.Equal(t, "2025-02-02", tsk.DueDate())
	assert.Equal(t, "B", tsk.Category())
	assert.True(t, tsk.IsCompleted(), "update leaves completion untouched")
}

func TestTask_DisplayText(t *testing.T) {
	tests := []struct {
		name      string
		completed bool
		priority  value_objects.Priority
		expected  string
	}{
		{"pending high", false, value_objects.PriorityHigh, "○ 🔴 Report - Work"},
		{"pending medium", false, value_objects.PriorityMedium, "○ 🟡 Report - Work"},
		{"completed low", true, value_objects.PriorityLow, "✓ 🟢 Report - Work"},
		{"no priority", false, value_objects.PriorityNone, "○ ⚪ Report - Work"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tsk := task.Rehydrate(1, "Report", "", tt.completed, tt.priority, task.NoDueDate, "Work")
			assert.Equal(t, tt.expected, tsk.DisplayText())
		})
	}
}

func TestTask_String(t *testing.T) {
	pending := task.New(1, "Report", "", value_objects.PriorityMedium, task.NoDueDate, "Work")
	assert.Equal(t, "[ ] Report - Medium (Work) - Due: No due date", pending.String())

	pending.ToggleCompleted()
	assert.Equal(t, "[✓] Report - Medium (Work) - Due: No due date", pending.String())
}

func TestTask_CopyIsIndependent(t *testing.T) {
	original := task.New(1, "Report", "", value_objects.PriorityMedium, task.NoDueDate, "Work")
	cp := original

	cp.ToggleCompleted()
	cp.Update("Changed", "", value_objects.PriorityLow, "", "")

	assert.False(t, original.IsCompleted())
	assert.Equal(t, "Report", original.Title())
}

func TestNewSnapshot(t *testing.T) {
	tasks := []task.Task{
		task.New(4, "a", "", value_objects.PriorityLow, "", ""),
		task.New(9, "b", "", value_objects.PriorityLow, "", ""),
	}

	snap := task.NewSnapshot(10, tasks)
	tasks[0].ToggleCompleted()

	assert.Equal(t, task.SchemaVersion, snap.SchemaVersion)
	assert.Equal(t, 10, snap.NextID)
	assert.Equal(t, 9, snap.MaxID())
	assert.False(t, snap.Tasks[0].IsCompleted(), "snapshot owns its own slice")
}

func TestSnapshot_MaxID_Empty(t *testing.T) {
	assert.Equal(t, 0, task.NewSnapshot(1, nil).MaxID())
}
