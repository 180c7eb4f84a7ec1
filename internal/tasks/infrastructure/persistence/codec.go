package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
	"github.com/felixgeelhaar/todo/internal/tasks/domain/value_objects"
)

// snapshotDocument is the JSON layout shared by the file and Redis backends.
type snapshotDocument struct {
	SchemaVersion int            `json:"schema_version"`
	NextID        int            `json:"next_id"`
	Tasks         []taskDocument `json:"tasks"`
}

type taskDocument struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
	Category    string `json:"category"`
}

// EncodeSnapshot serializes a snapshot as indented JSON.
func EncodeSnapshot(snap *task.Snapshot) ([]byte, error) {
	doc := snapshotDocument{
		SchemaVersion: task.SchemaVersion,
		NextID:        snap.NextID,
		Tasks:         make([]taskDocument, 0, len(snap.Tasks)),
	}
	for _, t := range snap.Tasks {
		doc.Tasks = append(doc.Tasks, taskDocument{
			ID:          t.ID(),
			Title:       t.Title(),
			Description: t.Description(),
			Completed:   t.IsCompleted(),
			Priority:    t.Priority().String(),
			DueDate:     t.DueDate(),
			Category:    t.Category(),
		})
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeSnapshot parses data produced by EncodeSnapshot.
// Every failure wraps task.ErrSnapshotCorrupt.
func DecodeSnapshot(data []byte) (*task.Snapshot, error) {
	var doc snapshotDocument
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", task.ErrSnapshotCorrupt, err)
	}
	if doc.SchemaVersion != task.SchemaVersion {
		return nil, fmt.Errorf("%w: unsupported schema version %d", task.ErrSnapshotCorrupt, doc.SchemaVersion)
	}

	tasks := make([]task.Task, 0, len(doc.Tasks))
	for _, d := range doc.Tasks {
		t, err := rehydrateTask(d.ID, d.Title, d.Description, d.Completed, d.Priority, d.DueDate, d.Category)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := checkUniqueIDs(tasks); err != nil {
		return nil, err
	}

	return &task.Snapshot{
		SchemaVersion: doc.SchemaVersion,
		NextID:        doc.NextID,
		Tasks:         tasks,
	}, nil
}

func rehydrateTask(id int, title, description string, completed bool, priority, dueDate, category string) (task.Task, error) {
	p, err := value_objects.ParsePriority(priority)
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: task %d: %v %q", task.ErrSnapshotCorrupt, id, err, priority)
	}
	return task.Rehydrate(id, title, description, completed, p, dueDate, category), nil
}

func checkUniqueIDs(tasks []task.Task) error {
	seen := make(map[int]struct{}, len(tasks))
	for _, t := range tasks {
		if _, dup := seen[t.ID()]; dup {
			return fmt.Errorf("%w: duplicate task id %d", task.ErrSnapshotCorrupt, t.ID())
		}
		seen[t.ID()] = struct{}{}
	}
	return nil
}
