// Package internal provides the App struct that wires all components of
// datawork together and initializes the CLI layer.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valter-silva-au/datawork/internal/cli"
	"github.com/valter-silva-au/datawork/internal/core"
	"github.com/valter-silva-au/datawork/internal/observability"
	"github.com/valter-silva-au/datawork/internal/storage"
	"github.com/valter-silva-au/datawork/pkg/models"
)

// App holds all service dependencies for datawork.
type App struct {
	BasePath string
	Config   *models.Config
	Logger   *slog.Logger

	// Configuration
	ConfigMgr core.ConfigurationManager

	// Storage layer
	Store storage.Store
	Codec storage.Codec

	// Core services
	IDGen         core.TaskIDGenerator
	TaskRepo      core.TaskRepository
	WorkspaceInit core.WorkspaceInitializer

	// Observability
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components of datawork. basePath is the
// directory holding .dwconfig (typically found by ResolveBasePath). Log
// output goes to stderr.
func NewApp(ctx context.Context, basePath string) (*App, error) {
	return newApp(ctx, basePath, os.Stderr)
}

func newApp(ctx context.Context, basePath string, logOut io.Writer) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg
	app.Logger = newLogger(cfg.Log, logOut)

	loc := time.Local
	if cfg.Stats.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Stats.Timezone)
		if err != nil {
			return nil, fmt.Errorf("loading stats.timezone: %w", err)
		}
	}

	// --- Storage layer ---
	app.Codec, err = storage.NewCodec(cfg.Store.Codec)
	if err != nil {
		return nil, err
	}
	app.Store, err = storage.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	app.Logger.Debug("store opened", "backend", cfg.Store.Backend, "key", cfg.Store.Key, "codec", cfg.Store.Codec)

	// --- Observability ---
	if cfg.Events.Enabled {
		app.EventLog, err = observability.NewJSONLEventLog(cfg.Events.Path)
		if err != nil {
			// Non-fatal: run without the event log.
			app.Logger.Warn("event log disabled", "path", cfg.Events.Path, "error", err)
			app.EventLog = nil
		}
	}
	var evtAdapter core.EventLogger
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
		evtAdapter = &eventLogAdapter{log: app.EventLog}
	}

	// --- Core services ---
	switch cfg.ID.Scheme {
	case models.IDSchemeSequence:
		app.IDGen = core.NewSequenceTaskIDGenerator(app.Store, core.SequenceCounterKey(cfg.Store.Key), cfg.ID.Prefix, cfg.ID.PadWidth)
	default:
		app.IDGen = core.NewUUIDTaskIDGenerator()
	}

	app.TaskRepo, err = core.NewTaskRepository(core.RepositoryDeps{
		Store:    app.Store,
		Codec:    app.Codec,
		Key:      cfg.Store.Key,
		IDGen:    app.IDGen,
		Location: loc,
		Logger:   app.Logger,
		Events:   evtAdapter,
	})
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.WorkspaceInit = core.NewWorkspaceInitializer()

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.TaskRepo = app.TaskRepo
	cli.WorkspaceInit = app.WorkspaceInit
	cli.EventLog = app.EventLog
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// Close releases resources held by the App: the store connection and the
// event log file handle. It is safe to call on a partially built App.
func (a *App) Close() error {
	var firstErr error
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			firstErr = fmt.Errorf("closing store: %w", err)
		}
	}
	if a.EventLog != nil {
		if err := a.EventLog.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing event log: %w", err)
		}
	}
	return firstErr
}

// ResolveBasePath determines the datawork base directory. It checks the
// DW_HOME env var, then walks up from the current directory looking for
// .dwconfig, then falls back to the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("DW_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}

// newLogger builds the process logger from the log section of the config.
func newLogger(cfg models.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	level := observability.LevelInfo
	if eventType == core.EventStoreReadError {
		level = observability.LevelWarn
	}
	return a.log.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   level,
		Type:    eventType,
		Message: eventType,
		Data:    data,
	})
}
