package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/jonboulle/clockwork"

	"github.com/xvierd/pomo/internal/adapters/notification"
	"github.com/xvierd/pomo/internal/adapters/storage"
	"github.com/xvierd/pomo/internal/config"
	"github.com/xvierd/pomo/internal/countdown"
	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/logging"
	"github.com/xvierd/pomo/internal/ports"
	"github.com/xvierd/pomo/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config   *config.Config
	logger   hclog.Logger
	clock    clockwork.Clock
	storage  ports.Storage
	engine   *services.PomodoroService
	stats    *services.StatsService
	notifier *notification.Notifier
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	// Load configuration
	var err error
	app.config, err = config.Load()
	if err != nil {
		// If config loading fails, use defaults
		fmt.Fprintf(os.Stderr, "Warning: %v; using defaults\n", err)
		app.config = config.DefaultConfig()
	}
	if strictMode {
		app.config.Log.StrictTransitions = true
	}
	if logLevel != "" {
		app.config.Log.Level = logLevel
	}

	// Logs go to stderr so stdout stays clean for --json and the MCP transport.
	app.logger = logging.New(app.config.Log, os.Stderr)

	settings, err := app.config.Settings()
	if err != nil {
		return fmt.Errorf("invalid timer configuration: %w", err)
	}

	// Determine database path
	if dbPath == "" {
		dbPath = config.GetDBPath(app.config)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// Initialize storage
	app.storage, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.clock = clockwork.NewRealClock()
	app.engine = services.NewPomodoroService(app.storage, services.PomodoroConfig{
		Settings: settings,
		Clock:    app.clock,
		Countdown: countdown.Options{
			TickInterval:  time.Duration(app.config.Countdown.TickInterval),
			AnimationLead: time.Duration(app.config.Countdown.AnimationLead),
		},
		Logger:            app.logger,
		StrictTransitions: app.config.Log.StrictTransitions,
	})
	if err := app.engine.Bootstrap(context.Background()); err != nil {
		// Storage problems degrade to an empty day rather than blocking the timer.
		app.logger.Warn("bootstrap incomplete", "error", err)
	}
	app.stats = services.NewStatsService(app.storage, app.clock, app.logger)

	// Initialize notifier
	app.notifier = notification.New(&app.config.Notifications)
	wireNotifications(app.engine, app.notifier, app.logger)

	return nil
}

// wireNotifications raises desktop notifications for engine events.
func wireNotifications(engine *services.PomodoroService, n *notification.Notifier, logger hclog.Logger) {
	engine.OnSessionFinished(func(finished domain.Session, next domain.TimerSnapshot) {
		if err := n.NotifySessionFinished(finished, next, engine.Settings().CanPlaySound); err != nil {
			logger.Warn("notification failed", "error", err)
		}
	})
	engine.OnDailyGoalReached(func(snap domain.TimerSnapshot) {
		if err := n.NotifyDailyGoal(snap, engine.Settings().CanPlaySound); err != nil {
			logger.Warn("notification failed", "error", err)
		}
	})
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.engine != nil {
		app.engine.Close()
	}
	if app.storage != nil {
		return app.storage.Close()
	}
	return nil
}

// setupSignalHandler returns a context that is cancelled on interrupt signals.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
