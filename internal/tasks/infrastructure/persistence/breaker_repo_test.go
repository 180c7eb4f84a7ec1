package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
)

type flakyRepo struct {
	err   error
	calls int
}

func (r *flakyRepo) Load(ctx context.Context) (*task.Snapshot, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return sampleSnapshot(), nil
}

func (r *flakyRepo) Save(ctx context.Context, snap *task.Snapshot) error {
	r.calls++
	return r.err
}

func TestBreakerRepository_OpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	inner := &flakyRepo{err: errors.New("connection refused")}
	repo := NewBreakerRepository(inner, BreakerConfig{FailureThreshold: 2, Timeout: time.Hour}, nil)

	for i := 0; i < 2; i++ {
		err := repo.Save(ctx, task.NewSnapshot(1, nil))
		require.Error(t, err)
		assert.NotErrorIs(t, err, task.ErrStorageUnavailable)
	}
	assert.Equal(t, gobreaker.StateOpen, repo.State())

	err := repo.Save(ctx, task.NewSnapshot(1, nil))
	assert.ErrorIs(t, err, task.ErrStorageUnavailable)
	_, err = repo.Load(ctx)
	assert.ErrorIs(t, err, task.ErrStorageUnavailable)
	assert.Equal(t, 2, inner.calls, "open breaker does not reach storage")
}

func TestBreakerRepository_DataErrorsDoNotTrip(t *testing.T) {
	ctx := context.Background()

	for _, dataErr := range []error{task.ErrSnapshotNotFound, task.ErrSnapshotCorrupt} {
		inner := &flakyRepo{err: dataErr}
		repo := NewBreakerRepository(inner, BreakerConfig{FailureThreshold: 1}, nil)

		for i := 0; i < 3; i++ {
			_, err := repo.Load(ctx)
			assert.ErrorIs(t, err, dataErr)
		}
		assert.Equal(t, gobreaker.StateClosed, repo.State())
		assert.Equal(t, 3, inner.calls)
	}
}

func TestBreakerRepository_PassesThrough(t *testing.T) {
	ctx := context.Background()
	repo := NewBreakerRepository(&flakyRepo{}, DefaultBreakerConfig(), nil)

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), snap)
	assert.NoError(t, repo.Save(ctx, snap))
}

func TestBreakerRepository_Quarantine(t *testing.T) {
	ctx := context.Background()

	_, err := NewBreakerRepository(&flakyRepo{}, DefaultBreakerConfig(), nil).Quarantine(ctx)
	assert.ErrorIs(t, err, task.ErrQuarantineUnsupported)

	fileRepo, err := NewFileSnapshotRepository(t.TempDir() + "/tasks.json")
	require.NoError(t, err)
	require.NoError(t, fileRepo.Save(ctx, sampleSnapshot()))

	location, err := NewBreakerRepository(fileRepo, DefaultBreakerConfig(), nil).Quarantine(ctx)
	require.NoError(t, err)
	assert.Contains(t, location, ".corrupt-")
}
