package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
)

// DefaultRedisKey holds the snapshot when no key is configured.
const DefaultRedisKey = "todo:snapshot"

// RedisSnapshotRepository implements task.Repository with one Redis string key.
type RedisSnapshotRepository struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

// NewRedisSnapshotRepository creates a repository storing the snapshot under key.
func NewRedisSnapshotRepository(client *redis.Client, key string) *RedisSnapshotRepository {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisSnapshotRepository{client: client, key: key, now: time.Now}
}

// Load fetches and decodes the snapshot value.
func (r *RedisSnapshotRepository) Load(ctx context.Context) (*task.Snapshot, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, task.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", r.key, err)
	}
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.key, err)
	}
	return snap, nil
}

// Save overwrites the snapshot value. SET replaces the key atomically.
func (r *RedisSnapshotRepository) Save(ctx context.Context, snap *task.Snapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", r.key, err)
	}
	return nil
}

// Quarantine renames the snapshot key so the unreadable value is kept.
func (r *RedisSnapshotRepository) Quarantine(ctx context.Context) (string, error) {
	target := fmt.Sprintf("%s:corrupt:%s", r.key, r.now().UTC().Format("20060102T150405Z"))
	if err := r.client.Rename(ctx, r.key, target).Err(); err != nil {
		return "", fmt.Errorf("failed to quarantine %s: %w", r.key, err)
	}
	return target, nil
}
