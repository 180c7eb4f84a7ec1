package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/todo/adapter/cli"
	"github.com/felixgeelhaar/todo/adapter/cli/task"
	"github.com/felixgeelhaar/todo/internal/app"
	"github.com/felixgeelhaar/todo/pkg/config"
	"github.com/felixgeelhaar/todo/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Used until the bootstrap has loaded config.
	cli.SetLogger(observability.LoggerFromEnv())

	cli.SetBootstrap(func(ctx context.Context, opts cli.Options) (*cli.App, func(), error) {
		// Load configuration
		var (
			cfg *config.Config
			err error
		)
		if opts.ConfigFile != "" {
			cfg, err = config.LoadFile(opts.ConfigFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return nil, nil, err
		}

		logger := observability.NewLogger(logConfig(cfg, opts.Verbose))
		cli.SetLogger(logger)

		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}

		return cli.NewApp(container.Store, container.Health, container.StorageDriver), container.Close, nil
	})

	// Register commands
	cli.AddCommand(task.Cmd)

	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}

func logConfig(cfg *config.Config, verbose bool) observability.LogConfig {
	lc := observability.DefaultLogConfig()
	if cfg.IsProduction() {
		lc = observability.ProductionLogConfig()
	}
	lc.Level = observability.LogLevel(cfg.LogLevel)
	if cfg.LogFormat != "" {
		lc.Format = observability.LogFormat(cfg.LogFormat)
	}
	if verbose {
		lc.Level = observability.LogLevelDebug
	}
	lc.ServiceVersion = cli.Version
	return lc
}
