package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todo/pkg/observability"
)

var (
	cfgFile string
	verbose bool
	logger  *slog.Logger
)

// Options carries the global flags into the bootstrap function.
type Options struct {
	ConfigFile string
	Verbose    bool
}

// BootstrapFunc builds the App for one invocation. The returned cleanup
// runs after the command finishes.
type BootstrapFunc func(ctx context.Context, opts Options) (*App, func(), error)

var (
	bootstrap BootstrapFunc
	cleanup   func()
)

type commandContext struct {
	startedAt time.Time
}

type commandContextKey struct{}

// skipBootstrap marks commands that run without storage.
const skipBootstrap = "skip-bootstrap"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "todo - a small task tracker",
	Long: `todo keeps a list of tasks with a title, description, priority,
due date and category, and saves the whole list after every change.

Storage is a JSON file by default; SQLite, PostgreSQL, MySQL and Redis are
selected with TODO_STORAGE or a --config file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx = observability.NewCommandContext(ctx, cmd.CommandPath())
		ctx = context.WithValue(ctx, commandContextKey{}, commandContext{startedAt: time.Now()})
		cmd.SetContext(ctx)

		if app == nil && bootstrap != nil && cmd.Annotations[skipBootstrap] == "" {
			a, done, err := bootstrap(ctx, Options{ConfigFile: cfgFile, Verbose: verbose})
			if err != nil {
				return err
			}
			SetApp(a)
			cleanup = done
		}

		getLogger().DebugContext(ctx, "command start", "command", cmd.CommandPath())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		observability.LogDuration(cmd.Context(), getLogger(), cmd.CommandPath(), info.startedAt)
	},
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	return run(ctx, os.Stderr)
}

func run(ctx context.Context, stderr io.Writer) int {
	defer func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// SetBootstrap sets the function that builds the App before each command.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

func getLogger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
