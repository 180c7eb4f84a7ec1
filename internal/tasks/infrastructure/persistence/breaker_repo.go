package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
)

// BreakerConfig configures the circuit breaker around a remote repository.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Timeout          time.Duration
	MaxRequests      uint32
}

// DefaultBreakerConfig returns the settings used when none are configured.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "storage",
		FailureThreshold: 3,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
	}
}

// BreakerRepository guards a task.Repository with a circuit breaker so a
// down backend fails fast instead of timing out on every mutation.
type BreakerRepository struct {
	inner   task.Repository
	breaker *gobreaker.CircuitBreaker[*task.Snapshot]
}

// NewBreakerRepository wraps inner.
func NewBreakerRepository(inner task.Repository, cfg BreakerConfig, logger *slog.Logger) *BreakerRepository {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultBreakerConfig()
	if cfg.Name == "" {
		cfg.Name = defaults.Name
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = defaults.MaxRequests
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Missing or corrupt data is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, task.ErrSnapshotNotFound) ||
				errors.Is(err, task.ErrSnapshotCorrupt)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerRepository{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[*task.Snapshot](settings),
	}
}

// State returns the current breaker state.
func (r *BreakerRepository) State() gobreaker.State {
	return r.breaker.State()
}

// Load delegates to the wrapped repository.
func (r *BreakerRepository) Load(ctx context.Context) (*task.Snapshot, error) {
	snap, err := r.breaker.Execute(func() (*task.Snapshot, error) {
		return r.inner.Load(ctx)
	})
	return snap, r.translate(err)
}

// Save delegates to the wrapped repository.
func (r *BreakerRepository) Save(ctx context.Context, snap *task.Snapshot) error {
	_, err := r.breaker.Execute(func() (*task.Snapshot, error) {
		return nil, r.inner.Save(ctx, snap)
	})
	return r.translate(err)
}

// Quarantine delegates when the wrapped repository supports it.
func (r *BreakerRepository) Quarantine(ctx context.Context) (string, error) {
	q, ok := r.inner.(task.Quarantiner)
	if !ok {
		return "", task.ErrQuarantineUnsupported
	}
	return q.Quarantine(ctx)
}

func (r *BreakerRepository) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s circuit open", task.ErrStorageUnavailable, r.breaker.Name())
	}
	return err
}
