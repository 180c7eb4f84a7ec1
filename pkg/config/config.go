package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/security"
)

// Storage drivers accepted in TODO_STORAGE.
const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMySQL    = "mysql"
	StorageRedis    = "redis"
	StorageAuto     = "auto"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string

	// Storage
	StorageDriver string
	DataFile      string
	SQLitePath    string
	DatabaseURL   string

	// Redis
	RedisURL string
	RedisKey string

	// Circuit breaker around remote storage
	BreakerEnabled  bool
	BreakerFailures int
	BreakerTimeout  time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := fromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "warn"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		StorageDriver: strings.ToLower(getEnv("TODO_STORAGE", StorageFile)),
		DataFile:      getEnv("TODO_DATA_FILE", "~/.todo/tasks.json"),
		SQLitePath:    getEnv("TODO_SQLITE_PATH", "~/.todo/tasks.db"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisKey: getEnv("TODO_REDIS_KEY", "todo:snapshot"),

		BreakerEnabled:  getBoolEnv("TODO_BREAKER_ENABLED", true),
		BreakerFailures: getIntEnv("TODO_BREAKER_FAILURES", 3),
		BreakerTimeout:  getDurationEnv("TODO_BREAKER_TIMEOUT", 30*time.Second),
	}
}

// fileConfig mirrors Config for TOML files. Nil fields keep the
// environment value.
type fileConfig struct {
	AppEnv    *string `toml:"app_env"`
	LogLevel  *string `toml:"log_level"`
	LogFormat *string `toml:"log_format"`

	Storage struct {
		Driver      *string `toml:"driver"`
		DataFile    *string `toml:"data_file"`
		SQLitePath  *string `toml:"sqlite_path"`
		DatabaseURL *string `toml:"database_url"`
		RedisURL    *string `toml:"redis_url"`
		RedisKey    *string `toml:"redis_key"`
	} `toml:"storage"`

	Breaker struct {
		Enabled  *bool   `toml:"enabled"`
		Failures *int    `toml:"failures"`
		Timeout  *string `toml:"timeout"`
	} `toml:"breaker"`
}

// LoadFile loads the environment configuration and overlays the keys set in
// the TOML file at path.
func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := security.SafeReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	md, err := toml.Decode(string(data), &fc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in config file %s", undecoded[0].String(), path)
	}

	cfg := fromEnv()
	if err := fc.apply(cfg); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (fc *fileConfig) apply(cfg *Config) error {
	setString(&cfg.AppEnv, fc.AppEnv)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)

	if fc.Storage.Driver != nil {
		cfg.StorageDriver = strings.ToLower(*fc.Storage.Driver)
	}
	setString(&cfg.DataFile, fc.Storage.DataFile)
	setString(&cfg.SQLitePath, fc.Storage.SQLitePath)
	setString(&cfg.DatabaseURL, fc.Storage.DatabaseURL)
	setString(&cfg.RedisURL, fc.Storage.RedisURL)
	setString(&cfg.RedisKey, fc.Storage.RedisKey)

	if fc.Breaker.Enabled != nil {
		cfg.BreakerEnabled = *fc.Breaker.Enabled
	}
	if fc.Breaker.Failures != nil {
		cfg.BreakerFailures = *fc.Breaker.Failures
	}
	if fc.Breaker.Timeout != nil {
		d, err := time.ParseDuration(*fc.Breaker.Timeout)
		if err != nil {
			return fmt.Errorf("invalid breaker timeout %q: %w", *fc.Breaker.Timeout, err)
		}
		cfg.BreakerTimeout = d
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageFile, StorageSQLite, StoragePostgres, StorageMySQL, StorageRedis, StorageAuto:
	default:
		return fmt.Errorf("invalid TODO_STORAGE %q: want file, sqlite, postgres, mysql, redis or auto", c.StorageDriver)
	}
	if (c.StorageDriver == StoragePostgres || c.StorageDriver == StorageMySQL) && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for %s storage", c.StorageDriver)
	}
	if c.BreakerFailures < 1 {
		return fmt.Errorf("breaker failures must be positive, got %d", c.BreakerFailures)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
