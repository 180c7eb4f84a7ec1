package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
)

const (
	metaSchemaVersion = "schema_version"
	metaNextID        = "next_id"
)

// SQLSnapshotRepository implements task.Repository over a SQL connection.
// The schema is created by the migrations package.
type SQLSnapshotRepository struct {
	conn database.Connection
	uow  *database.UnitOfWork
}

// NewSQLSnapshotRepository creates a repository backed by conn.
func NewSQLSnapshotRepository(conn database.Connection) *SQLSnapshotRepository {
	return &SQLSnapshotRepository{
		conn: conn,
		uow:  database.NewUnitOfWork(conn),
	}
}

// Load reads the meta counters and every task row in position order.
func (r *SQLSnapshotRepository) Load(ctx context.Context) (*task.Snapshot, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	version, err := r.meta(ctx, exec, metaSchemaVersion)
	if err != nil {
		return nil, err
	}
	if version != task.SchemaVersion {
		return nil, fmt.Errorf("%w: unsupported schema version %d", task.ErrSnapshotCorrupt, version)
	}
	nextID, err := r.meta(ctx, exec, metaNextID)
	if err != nil {
		return nil, err
	}

	rows, err := exec.Query(ctx, `
		SELECT id, title, description, completed, priority, due_date, category
		FROM todo_tasks
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var (
			id                                     int
			title, description, priority, due, cat string
			completed                              bool
		)
		if err := rows.Scan(&id, &title, &description, &completed, &priority, &due, &cat); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t, err := rehydrateTask(id, title, description, completed, priority, due, cat)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return &task.Snapshot{
		SchemaVersion: version,
		NextID:        nextID,
		Tasks:         tasks,
	}, nil
}

func (r *SQLSnapshotRepository) meta(ctx context.Context, exec database.Executor, name string) (int, error) {
	var value int
	query := r.conn.Driver().Rebind(`SELECT value FROM todo_meta WHERE name = ?`)
	if err := exec.QueryRow(ctx, query, name).Scan(&value); err != nil {
		if database.IsNoRows(err) {
			return 0, task.ErrSnapshotNotFound
		}
		return 0, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return value, nil
}

// Save replaces all rows in a single transaction.
func (r *SQLSnapshotRepository) Save(ctx context.Context, snap *task.Snapshot) error {
	driver := r.conn.Driver()
	insertTask := driver.Rebind(`
		INSERT INTO todo_tasks (position, id, title, description, completed, priority, due_date, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	upsertMeta := driver.UpsertMeta()

	return r.uow.Do(ctx, func(txCtx context.Context) error {
		exec := database.ExecutorFromContext(txCtx, r.conn)

		if _, err := exec.Exec(txCtx, `DELETE FROM todo_tasks`); err != nil {
			return fmt.Errorf("failed to clear tasks: %w", err)
		}
		for i, t := range snap.Tasks {
			_, err := exec.Exec(txCtx, insertTask,
				i, t.ID(), t.Title(), t.Description(), t.IsCompleted(),
				t.Priority().String(), t.DueDate(), t.Category(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert task %d: %w", t.ID(), err)
			}
		}
		if _, err := exec.Exec(txCtx, upsertMeta, metaSchemaVersion, task.SchemaVersion); err != nil {
			return fmt.Errorf("failed to write schema version: %w", err)
		}
		if _, err := exec.Exec(txCtx, upsertMeta, metaNextID, snap.NextID); err != nil {
			return fmt.Errorf("failed to write next id: %w", err)
		}
		return nil
	})
}
