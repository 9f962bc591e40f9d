package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/x/term"
	"github.com/xvierd/breathe-cli/internal/adapters/notification"
	"github.com/xvierd/breathe-cli/internal/catalog"
	"github.com/xvierd/breathe-cli/internal/config"
	"github.com/xvierd/breathe-cli/internal/logging"
	"github.com/xvierd/breathe-cli/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config   *config.Config
	catalog  *catalog.Catalog
	patterns *services.PatternService
	notifier *notification.Notifier
	log      *logging.Logger
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	var err error
	app.config, err = config.Load(configPath)
	if err != nil {
		return err
	}

	app.log, err = openLogger(app.config)
	if err != nil {
		return err
	}

	app.catalog, err = catalog.New(app.config.CustomPatterns()...)
	if err != nil {
		return fmt.Errorf("invalid custom patterns: %w", err)
	}

	app.notifier = notification.New(&app.config.Notifications)
	app.patterns = services.NewPatternService(app.catalog, app.log)

	app.log.Debug("loaded %d patterns", app.catalog.Len())
	return nil
}

// openLogger resolves the log destination: --log-file, then the config file,
// then the default path when --debug is set. No destination means no logger.
func openLogger(cfg *config.Config) (*logging.Logger, error) {
	level := logging.ParseLevel(cfg.Logging.Level)
	if debugMode {
		level = logging.LevelDebug
	}

	path := cfg.Logging.File
	if logFile != "" {
		path = logFile
	}
	if path == "" && debugMode {
		cfgPath, err := config.GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(filepath.Dir(cfgPath), "debug.log")
	}
	if path == "" {
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return logging.Open(level, path)
}

// cleanupServices closes all resources.
func cleanupServices() error {
	err := app.log.Close()
	app.log = nil
	return err
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}

// requireTerminal refuses to draw the exercise screen into a pipe.
func requireTerminal() error {
	if !term.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("breathe needs an interactive terminal; try \"breathe plan\" for non-interactive output")
	}
	return nil
}
