package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Source hands out the configuration a new game should start with.
type Source interface {
	Current() SnakeConfig
}

// Static is a Source that never changes.
type Static SnakeConfig

// Current returns the fixed configuration.
func (s Static) Current() SnakeConfig {
	return SnakeConfig(s)
}

// Watcher keeps the Snake configuration in sync with its file on disk.
// Running games are not touched; the next new game picks up the change.
type Watcher struct {
	path   string
	preset DifficultyPreset
	logger *log.Logger

	mu       sync.RWMutex
	current  SnakeConfig
	onChange []func(SnakeConfig)
}

// NewWatcher loads the configuration through the usual search order and
// prepares to watch whichever file was found. The preset is re-applied on
// every reload.
func NewWatcher(customPath string, preset DifficultyPreset, logger *log.Logger) (*Watcher, error) {
	cfg, path, err := loadSnake(customPath)
	if err != nil {
		return nil, err
	}
	ApplySnakePreset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.Default()
	}

	return &Watcher{
		path:    path,
		preset:  preset,
		logger:  logger.WithPrefix("config"),
		current: cfg,
	}, nil
}

// Current returns the latest valid configuration.
func (w *Watcher) Current() SnakeConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Path returns the watched file, or empty when the embedded default is in use.
func (w *Watcher) Path() string {
	return w.path
}

// OnChange registers a callback invoked after each successful reload.
func (w *Watcher) OnChange(fn func(SnakeConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Reload re-reads the file. Invalid files are logged and ignored so a typo
// never takes the previous configuration away.
func (w *Watcher) Reload() error {
	if w.path == "" {
		return nil
	}

	cfg, err := ReadSnakeFile(w.path)
	if err == nil {
		ApplySnakePreset(&cfg, w.preset)
		err = cfg.Validate()
	}
	if err != nil {
		w.logger.Warn("keeping previous configuration", "path", w.path, "error", err)
		return err
	}

	w.mu.Lock()
	w.current = cfg
	callbacks := append([]func(SnakeConfig){}, w.onChange...)
	w.mu.Unlock()

	w.logger.Info("configuration reloaded", "path", w.path, "board", cfg.Board.Size)
	for _, fn := range callbacks {
		fn(cfg)
	}
	return nil
}

// Run watches the configuration file until ctx is cancelled.
// It returns immediately when there is no file to watch.
func (w *Watcher) Run(ctx context.Context) error {
	if w.path == "" {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: cannot create watcher: %w", err)
	}
	defer fw.Close()

	// Watch the directory: editors often replace the file instead of writing it.
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("config: cannot watch %s: %w", dir, err)
	}
	target := filepath.Clean(w.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				//nolint:errcheck // Reload logs its own failures
				w.Reload()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}
