package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/security"
	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
)

// FileSnapshotRepository implements task.Repository with a single JSON file.
type FileSnapshotRepository struct {
	path string
	now  func() time.Time
}

// NewFileSnapshotRepository creates a repository writing to path.
func NewFileSnapshotRepository(path string) (*FileSnapshotRepository, error) {
	cleanPath, err := security.ValidateFilePath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid data file: %w", err)
	}
	return &FileSnapshotRepository{path: cleanPath, now: time.Now}, nil
}

// Path returns the resolved snapshot location.
func (r *FileSnapshotRepository) Path() string {
	return r.path
}

// Load reads and decodes the snapshot file.
func (r *FileSnapshotRepository) Load(ctx context.Context) (*task.Snapshot, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, task.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	return snap, nil
}

// Save atomically replaces the snapshot file.
func (r *FileSnapshotRepository) Save(ctx context.Context, snap *task.Snapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(r.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.path, err)
	}
	return nil
}

// Quarantine renames the current snapshot file next to itself.
func (r *FileSnapshotRepository) Quarantine(ctx context.Context) (string, error) {
	target := fmt.Sprintf("%s.corrupt-%s", r.path, r.now().UTC().Format("20060102T150405Z"))
	if err := os.Rename(r.path, target); err != nil {
		return "", fmt.Errorf("failed to quarantine %s: %w", r.path, err)
	}
	return target, nil
}

// writeFileAtomic writes via temp file, fsync and rename so a crash leaves
// either the old or the new snapshot on disk.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	if err := d.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return err
	}
	return nil
}
