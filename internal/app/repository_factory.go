package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/security"
	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
	"github.com/felixgeelhaar/todo/internal/tasks/infrastructure/persistence"
	"github.com/felixgeelhaar/todo/pkg/config"
)

// ResolveStorageDriver turns "auto" into a concrete driver: the driver of
// DATABASE_URL when one is set, the JSON file otherwise.
func ResolveStorageDriver(cfg *config.Config) string {
	if cfg.StorageDriver != config.StorageAuto {
		return cfg.StorageDriver
	}
	if cfg.DatabaseURL == "" {
		return config.StorageFile
	}
	return database.DetectDriver(cfg.DatabaseURL).String()
}

// RepositoryFactory opens the snapshot repository for the configured driver
// and tracks the connections it opened.
type RepositoryFactory struct {
	cfg    *config.Config
	logger *slog.Logger

	conn        database.Connection
	redisClient *redis.Client
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(cfg *config.Config, logger *slog.Logger) *RepositoryFactory {
	return &RepositoryFactory{cfg: cfg, logger: logger}
}

// SnapshotRepository opens the backend named by driver. Remote backends are
// wrapped in a circuit breaker when enabled.
func (f *RepositoryFactory) SnapshotRepository(ctx context.Context, driver string) (task.Repository, error) {
	var (
		repo   task.Repository
		err    error
		remote bool
	)

	switch driver {
	case config.StorageFile:
		repo, err = persistence.NewFileSnapshotRepository(f.cfg.DataFile)
	case config.StorageSQLite:
		repo, err = f.sqlRepository(ctx, database.Config{
			Driver:     database.DriverSQLite,
			SQLitePath: f.sqlitePath(),
		})
	case config.StoragePostgres:
		remote = true
		repo, err = f.sqlRepository(ctx, database.Config{
			Driver: database.DriverPostgres,
			URL:    f.cfg.DatabaseURL,
		})
	case config.StorageMySQL:
		remote = true
		repo, err = f.sqlRepository(ctx, database.Config{
			Driver: database.DriverMySQL,
			URL:    f.cfg.DatabaseURL,
		})
	case config.StorageRedis:
		remote = true
		repo, err = f.redisRepository(ctx)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}
	if err != nil {
		return nil, err
	}

	if remote && f.cfg.BreakerEnabled {
		repo = persistence.NewBreakerRepository(repo, persistence.BreakerConfig{
			Name:             driver,
			FailureThreshold: uint32(f.cfg.BreakerFailures),
			Timeout:          f.cfg.BreakerTimeout,
		}, f.logger)
	}
	return repo, nil
}

// sqlitePath prefers a sqlite DATABASE_URL chosen through "auto".
func (f *RepositoryFactory) sqlitePath() string {
	if f.cfg.StorageDriver == config.StorageAuto && f.cfg.DatabaseURL != "" {
		return strings.TrimPrefix(f.cfg.DatabaseURL, "sqlite://")
	}
	return f.cfg.SQLitePath
}

func (f *RepositoryFactory) sqlRepository(ctx context.Context, dbCfg database.Config) (task.Repository, error) {
	if dbCfg.Driver == database.DriverSQLite && !strings.HasPrefix(dbCfg.SQLitePath, "file:") {
		path, err := security.ValidateFilePath(dbCfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("invalid SQLite path: %w", err)
		}
		dbCfg.SQLitePath = path
	}

	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dbCfg.Driver, err)
	}
	if err := migrations.Run(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	f.conn = conn
	f.logger.DebugContext(ctx, "connected to database", "driver", dbCfg.Driver.String())
	return persistence.NewSQLSnapshotRepository(conn), nil
}

func (f *RepositoryFactory) redisRepository(ctx context.Context) (task.Repository, error) {
	opt, err := redis.ParseURL(f.cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	f.redisClient = client
	f.logger.DebugContext(ctx, "connected to Redis")
	return persistence.NewRedisSnapshotRepository(client, f.cfg.RedisKey), nil
}

// Connection returns the SQL connection, or nil for other backends.
func (f *RepositoryFactory) Connection() database.Connection {
	return f.conn
}

// RedisClient returns the Redis client, or nil for other backends.
func (f *RepositoryFactory) RedisClient() *redis.Client {
	return f.redisClient
}
