package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// newLogger builds the root logger from --log-level.
func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	}), nil
}

// loadConfig returns a watcher over the game configuration found through
// --config or the search path, with --difficulty applied.
func loadConfig(logger *log.Logger) (*config.Watcher, error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return nil, err
	}
	return config.NewWatcher(flagConfig, preset, logger)
}

// watchConfig reloads the configuration file in the background until ctx
// ends. Games in progress keep their settings; the next new game picks up
// the file. sessions may be nil.
func watchConfig(ctx context.Context, watcher *config.Watcher, sessions *session.Registry, logger *log.Logger) {
	watcher.OnChange(func(cfg config.SnakeConfig) {
		fields := []any{"board", cfg.Board.Size, "interval_ms", cfg.IntervalAtLevel(1)}
		if sessions != nil {
			fields = append(fields, "live_games", sessions.Count())
		}
		logger.Info("new games use the reloaded settings", fields...)
	})

	go func() {
		if err := watcher.Run(ctx); err != nil {
			logger.Warn("config hot reload is off", "error", err)
		}
	}()
}

// openStore opens --db.
func openStore() (*storage.Store, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	return store, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// openLogFile is where a full-screen command logs: the file named by
// SNAKE_LOG, or nowhere. The caller closes it.
func openLogFile() io.WriteCloser {
	path := os.Getenv("SNAKE_LOG")
	if path == "" {
		return nopWriteCloser{io.Discard}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nopWriteCloser{io.Discard}
	}
	return f
}
