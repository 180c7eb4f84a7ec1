// Package app wires configuration, storage and the task store together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/todo/internal/shared/infrastructure/database/mysql"    // Register MySQL driver
	_ "github.com/felixgeelhaar/todo/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/todo/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/todo/internal/tasks/application"
	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
	"github.com/felixgeelhaar/todo/pkg/config"
	"github.com/felixgeelhaar/todo/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Storage
	StorageDriver string
	DBConn        database.Connection
	RedisClient   *redis.Client
	SnapshotRepo  task.Repository

	Store  *application.Store
	Health *observability.HealthRegistry
}

// NewContainer opens the configured storage and loads the task store.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config:        cfg,
		Logger:        logger,
		StorageDriver: ResolveStorageDriver(cfg),
		Health:        observability.NewHealthRegistry(),
	}

	factory := NewRepositoryFactory(cfg, logger)
	repo, err := factory.SnapshotRepository(ctx, c.StorageDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", c.StorageDriver, err)
	}
	c.SnapshotRepo = repo
	c.DBConn = factory.Connection()
	c.RedisClient = factory.RedisClient()

	c.registerHealthChecks()
	c.Store = application.NewStore(ctx, repo, logger)

	logger.DebugContext(ctx, "container initialized", "storage", c.StorageDriver)
	return c, nil
}

func (c *Container) registerHealthChecks() {
	if c.DBConn != nil {
		c.Health.Register("database", observability.PingHealthChecker(c.DBConn.Driver().String(), c.DBConn.Ping))
	}
	if c.RedisClient != nil {
		client := c.RedisClient
		c.Health.Register("redis", observability.PingHealthChecker("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}))
	}
	c.Health.Register("snapshot", SnapshotHealthChecker(c.SnapshotRepo))
}

// SnapshotHealthChecker loads the snapshot without keeping it. A missing
// snapshot is healthy; a corrupt one is degraded.
func SnapshotHealthChecker(repo task.Repository) observability.HealthChecker {
	return func(ctx context.Context) observability.HealthCheckResult {
		snap, err := repo.Load(ctx)
		switch {
		case err == nil:
			return observability.HealthCheckResult{
				Status:  observability.HealthStatusHealthy,
				Message: "snapshot readable",
				Details: map[string]any{"tasks": len(snap.Tasks), "next_id": snap.NextID},
			}
		case errors.Is(err, task.ErrSnapshotNotFound):
			return observability.HealthCheckResult{
				Status:  observability.HealthStatusHealthy,
				Message: "no snapshot saved yet",
			}
		case errors.Is(err, task.ErrSnapshotCorrupt):
			return observability.HealthCheckResult{
				Status:  observability.HealthStatusDegraded,
				Message: err.Error(),
			}
		default:
			return observability.HealthCheckResult{
				Status:  observability.HealthStatusUnhealthy,
				Message: err.Error(),
			}
		}
	}
}

// Close releases storage connections.
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Debug("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Debug("database connection closed", "driver", c.DBConn.Driver().String())
		}
	}
}
