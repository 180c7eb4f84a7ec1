package task

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/todo/adapter/cli"
	"github.com/felixgeelhaar/todo/internal/tasks/application"
	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
	"github.com/felixgeelhaar/todo/internal/tasks/domain/value_objects"
	"github.com/felixgeelhaar/todo/internal/tasks/infrastructure/persistence"
)

// setupTestApp creates a CLI app over a JSON file in a temp dir.
func setupTestApp(t *testing.T) (*cli.App, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tasks.json")
	repo, err := persistence.NewFileSnapshotRepository(path)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := application.NewStore(context.Background(), repo, logger)

	app := cli.NewApp(store, nil, "file")
	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })
	return app, path
}

// run resets flags, applies the given ones and runs cmd.
func run(t *testing.T, cmd *cobra.Command, flags map[string]string, args ...string) (string, error) {
	t.Helper()
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for name, value := range flags {
		require.NoError(t, cmd.Flags().Set(name, value))
	}

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

func TestAddCmd_AppliesDefaults(t *testing.T) {
	app, _ := setupTestApp(t)

	out, err := run(t, addCmd, nil, "Buy milk")
	require.NoError(t, err)
	assert.Contains(t, out, "Task added: 1")
	assert.Contains(t, out, "○ 🟡 Buy milk - General")

	got, ok := app.Store.Get(1)
	require.True(t, ok)
	assert.Equal(t, value_objects.PriorityMedium, got.Priority())
	assert.Equal(t, task.NoDueDate, got.DueDate())
	assert.Equal(t, task.DefaultCategory, got.Category())
	assert.Equal(t, task.NoDescription, got.Description())
}

func TestAddCmd_WithFlags(t *testing.T) {
	app, _ := setupTestApp(t)

	_, err := run(t, addCmd, map[string]string{
		"priority":    "HIGH",
		"description": "semi-skimmed",
		"due":         "2024-01-01",
		"category":    "Shopping",
	}, "Buy milk")
	require.NoError(t, err)

	got, ok := app.Store.Get(1)
	require.True(t, ok)
	assert.Equal(t, value_objects.PriorityHigh, got.Priority())
	assert.Equal(t, "semi-skimmed", got.Description())
	assert.Equal(t, "2024-01-01", got.DueDate())
	assert.Equal(t, "Shopping", got.Category())
}

func TestAddCmd_PlaceholderDueDate(t *testing.T) {
	app, _ := setupTestApp(t)

	_, err := run(t, addCmd, map[string]string{"due": "YYYY-MM-DD"}, "Call mom")
	require.NoError(t, err)

	got, _ := app.Store.Get(1)
	assert.Equal(t, task.NoDueDate, got.DueDate())
}

func TestAddCmd_BlankPriorityIsNone(t *testing.T) {
	app, _ := setupTestApp(t)

	_, err := run(t, addCmd, map[string]string{"priority": ""}, "Call mom")
	require.NoError(t, err)

	got, ok := app.Store.Get(1)
	require.True(t, ok)
	assert.Equal(t, value_objects.PriorityNone, got.Priority())
}

func TestAddCmd_Errors(t *testing.T) {
	tests := []struct {
		name  string
		flags map[string]string
		title string
		want  string
	}{
		{"blank title", nil, "   ", "title cannot be empty"},
		{"bad priority", map[string]string{"priority": "urgent"}, "Fix bug", "invalid priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := setupTestApp(t)

			_, err := run(t, addCmd, tt.flags, tt.title)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, app.Store.All())
		})
	}
}

func TestListCmd_Filters(t *testing.T) {
	app, _ := setupTestApp(t)
	ctx := context.Background()
	app.Store.Add(ctx, "Buy milk", "", value_objects.PriorityHigh, "2024-01-01", "Shopping")
	app.Store.Add(ctx, "Clean house", "weekly", value_objects.PriorityLow, task.NoDueDate, "General")
	app.Store.Add(ctx, "Buy bread", "", value_objects.PriorityLow, task.NoDueDate, "shopping")
	app.Store.ToggleCompletion(ctx, 2)

	tests := []struct {
		name  string
		flags map[string]string
		want  []string
		not   []string
	}{
		{"all", nil, []string{"Buy milk", "Clean house", "Buy bread"}, nil},
		{"pending", map[string]string{"status": "pending"}, []string{"Buy milk", "Buy bread"}, []string{"Clean house"}},
		{"completed", map[string]string{"status": "completed"}, []string{"✓ 🟢 Clean house"}, []string{"Buy milk"}},
		{"category ignores case", map[string]string{"category": "SHOPPING"}, []string{"Buy milk", "Buy bread"}, []string{"Clean house"}},
		{"priority and category", map[string]string{"category": "shopping", "priority": "low"}, []string{"Buy bread"}, []string{"Buy milk"}},
		{"search description", map[string]string{"search": "WEEK"}, []string{"Clean house"}, []string{"Buy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, listCmd, tt.flags)
			require.NoError(t, err)
			for _, s := range tt.want {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.not {
				assert.NotContains(t, out, s)
			}
		})
	}

	out, err := run(t, listCmd, map[string]string{"search": "nothing"})
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")

	_, err = run(t, listCmd, map[string]string{"status": "archived"})
	assert.Error(t, err)
}

func TestShowCmd(t *testing.T) {
	app, _ := setupTestApp(t)
	app.Store.Add(context.Background(), "Buy milk", "semi-skimmed", value_objects.PriorityHigh, "2024-01-01", "Shopping")

	out, err := run(t, showCmd, nil, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Title:       Buy milk")
	assert.Contains(t, out, "Priority:    🔴 High")
	assert.Contains(t, out, "Description: semi-skimmed")

	_, err = run(t, showCmd, nil, "9")
	assert.EqualError(t, err, "task 9 not found")

	_, err = run(t, showCmd, nil, "abc")
	assert.EqualError(t, err, `invalid task id "abc"`)
}

func TestDoneCmd_TogglesAndPersists(t *testing.T) {
	app, path := setupTestApp(t)
	app.Store.Add(context.Background(), "Buy milk", "", value_objects.PriorityHigh, "2024-01-01", "Shopping")

	out, err := run(t, doneCmd, nil, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Task completed: 1")

	repo, err := persistence.NewFileSnapshotRepository(path)
	require.NoError(t, err)
	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Tasks[0].IsCompleted())

	out, err = run(t, doneCmd, nil, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Task reopened: 1")

	_, err = run(t, doneCmd, nil, "7")
	assert.Error(t, err)
}

func TestUpdateCmd_KeepsUnsetFields(t *testing.T) {
	app, _ := setupTestApp(t)
	app.Store.Add(context.Background(), "Buy milk", "semi-skimmed", value_objects.PriorityHigh, "2024-01-01", "Shopping")

	_, err := run(t, updateCmd, map[string]string{"title": "Buy oat milk", "priority": "low"}, "1")
	require.NoError(t, err)

	got, _ := app.Store.Get(1)
	assert.Equal(t, "Buy oat milk", got.Title())
	assert.Equal(t, value_objects.PriorityLow, got.Priority())
	assert.Equal(t, "semi-skimmed", got.Description())
	assert.Equal(t, "2024-01-01", got.DueDate())
	assert.Equal(t, "Shopping", got.Category())

	_, err = run(t, updateCmd, map[string]string{"title": " "}, "1")
	assert.Error(t, err)

	_, err = run(t, updateCmd, map[string]string{"title": "x"}, "5")
	assert.EqualError(t, err, "task 5 not found")
}

func TestRemoveCmd_Confirmation(t *testing.T) {
	app, _ := setupTestApp(t)
	ctx := context.Background()
	app.Store.Add(ctx, "Buy milk", "", value_objects.PriorityHigh, "", "")
	app.Store.Add(ctx, "Clean house", "", value_objects.PriorityLow, "", "")

	app.In = strings.NewReader("n\n")
	out, err := run(t, removeCmd, nil, "1")
	require.NoError(t, err)
	assert.Contains(t, out, `Delete task "Buy milk"? [y/N]`)
	assert.Contains(t, out, "Cancelled.")
	assert.Len(t, app.Store.All(), 2)

	app.In = strings.NewReader("yes\n")
	out, err = run(t, removeCmd, nil, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Task deleted: 1")
	_, ok := app.Store.Get(1)
	assert.False(t, ok)

	_, err = run(t, removeCmd, map[string]string{"yes": "true"}, "2")
	require.NoError(t, err)
	assert.Empty(t, app.Store.All())

	_, err = run(t, removeCmd, map[string]string{"yes": "true"}, "2")
	assert.Error(t, err)
}

func TestClearCmd_KeepsIDCounter(t *testing.T) {
	app, _ := setupTestApp(t)
	ctx := context.Background()
	app.Store.Add(ctx, "Buy milk", "", value_objects.PriorityHigh, "", "")
	app.Store.Add(ctx, "Clean house", "", value_objects.PriorityLow, "", "")

	app.In = strings.NewReader("")
	out, err := run(t, clearCmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	assert.Len(t, app.Store.All(), 2)

	out, err = run(t, clearCmd, map[string]string{"yes": "true"})
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 2 tasks.")
	assert.Empty(t, app.Store.All())

	_, err = run(t, addCmd, nil, "Next")
	require.NoError(t, err)
	_, ok := app.Store.Get(3)
	assert.True(t, ok)
}

func TestCommands_RequireApp(t *testing.T) {
	cli.SetApp(nil)

	for _, cmd := range []*cobra.Command{addCmd, listCmd, showCmd, doneCmd, updateCmd, removeCmd, clearCmd} {
		_, err := run(t, cmd, nil, "1")
		assert.ErrorIs(t, err, cli.ErrNotInitialized, cmd.Name())
	}
}
