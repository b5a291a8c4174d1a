// Package app provides the application context for arcrun.
// It allows dependency injection for testing.
package app

import (
	"arcrun/internal/audit"
	"arcrun/internal/config"
	"arcrun/internal/logging"
	"arcrun/internal/system"
)

// App holds the application dependencies
type App struct {
	// Config is the loaded tool configuration
	Config *config.ToolConfig

	// Paths holds the directory layout derived from Config
	Paths *config.Paths

	// Scenarios is the scenario registry
	Scenarios *config.Registry

	// FS is the filesystem used for all file operations
	FS system.FileSystem

	// Exec runs external commands (snakemake, sbatch, conda)
	Exec system.CommandExecutor

	// Audit records scenario lifecycle events
	Audit *audit.Logger
}

// Option is a function that configures the App
type Option func(*App)

// WithConfig sets a custom tool configuration
func WithConfig(cfg *config.ToolConfig) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithFS sets a custom filesystem
func WithFS(fs system.FileSystem) Option {
	return func(a *App) {
		a.FS = fs
	}
}

// WithExecutor sets a custom command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Exec = exec
	}
}

// New creates a new App with the given options.
// If a tool configuration is not provided via WithConfig, it is loaded
// from the usual locations and falls back to defaults.
func New(opts ...Option) *App {
	a := &App{
		FS:   system.DefaultFS(),
		Exec: system.DefaultExecutor(),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.Config == nil {
		cfg, err := config.LoadToolConfig("")
		if err != nil {
			logging.Debug("failed to load tool config, using defaults", "error", err)
			cfg = config.DefaultToolConfig()
		}
		a.Config = cfg
	}

	a.Paths = a.Config.Paths()

	if a.Scenarios == nil {
		reg, err := config.NewRegistry(a.Config)
		if err != nil {
			logging.Debug("invalid scenario declarations in tool config", "error", err)
			reg, _ = config.NewRegistry(config.DefaultToolConfig())
		}
		a.Scenarios = reg
	}

	a.Audit = audit.NewLogger(a.FS, a.Paths.StateDir)

	return a
}

// defaultApp is the default application instance, created lazily so that
// tests can install mocks before the first command runs.
var defaultApp *App

// Default returns the default application instance
func Default() *App {
	if defaultApp == nil {
		defaultApp = New()
	}
	return defaultApp
}

// SetDefault replaces the default application instance (for testing)
func SetDefault(a *App) {
	defaultApp = a
}

// ResetDefault clears the default application instance
func ResetDefault() {
	defaultApp = nil
}
