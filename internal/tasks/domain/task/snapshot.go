package task

import (
	"context"
	"errors"
)

// SchemaVersion is the snapshot layout written by this build.
const SchemaVersion = 1

var (
	// ErrSnapshotNotFound means no state has been persisted yet.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrSnapshotCorrupt means persisted state exists but cannot be decoded.
	ErrSnapshotCorrupt = errors.New("snapshot is corrupt")
	// ErrStorageUnavailable means the backend is refusing requests.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrQuarantineUnsupported means the backend cannot set unreadable state aside.
	ErrQuarantineUnsupported = errors.New("quarantine not supported")
)

// Snapshot is the complete persisted state of a task store.
type Snapshot struct {
	SchemaVersion int
	NextID        int
	Tasks         []Task
}

// NewSnapshot copies tasks into a snapshot stamped with the current schema.
func NewSnapshot(nextID int, tasks []Task) *Snapshot {
	cp := make([]Task, len(tasks))
	copy(cp, tasks)
	return &Snapshot{
		SchemaVersion: SchemaVersion,
		NextID:        nextID,
		Tasks:         cp,
	}
}

// MaxID returns the largest task id in the snapshot, or 0 when empty.
func (s *Snapshot) MaxID() int {
	maxID := 0
	for _, t := range s.Tasks {
		if t.ID() > maxID {
			maxID = t.ID()
		}
	}
	return maxID
}

// Repository defines snapshot persistence.
type Repository interface {
	// Load returns the persisted snapshot, ErrSnapshotNotFound when nothing
	// has been saved, or an error wrapping ErrSnapshotCorrupt.
	Load(ctx context.Context) (*Snapshot, error)
	// Save replaces the persisted snapshot.
	Save(ctx context.Context, snapshot *Snapshot) error
}

// Quarantiner is implemented by repositories that can move an unreadable
// snapshot aside so the next Save does not overwrite it.
type Quarantiner interface {
	Quarantine(ctx context.Context) (string, error)
}
