package cli

import (
	"errors"
	"io"
	"os"

	"github.com/felixgeelhaar/todo/internal/tasks/application"
	"github.com/felixgeelhaar/todo/pkg/observability"
)

// ErrNotInitialized is returned when a command runs before storage is ready.
var ErrNotInitialized = errors.New("application not initialized")

// App holds the CLI application dependencies.
type App struct {
	Store         *application.Store
	Health        *observability.HealthRegistry
	StorageDriver string

	// In is read for confirmation prompts. Defaults to os.Stdin.
	In io.Reader
}

// NewApp creates a new CLI application around store.
func NewApp(store *application.Store, health *observability.HealthRegistry, storageDriver string) *App {
	return &App{
		Store:         store,
		Health:        health,
		StorageDriver: storageDriver,
		In:            os.Stdin,
	}
}

// Input returns the reader used for prompts.
func (a *App) Input() io.Reader {
	if a.In == nil {
		return os.Stdin
	}
	return a.In
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireStore returns the app when its store is ready.
func RequireStore() (*App, error) {
	if app == nil || app.Store == nil {
		return nil, ErrNotInitialized
	}
	return app, nil
}
