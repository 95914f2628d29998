package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestDefaultsValidate(t *testing.T) {
	if err := DefaultSnakeConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestEmbeddedYAMLMatchesDefaults(t *testing.T) {
	cfg, err := ParseSnake(defaultSnakeYAML)
	if err != nil {
		t.Fatalf("ParseSnake(embedded) failed: %v", err)
	}
	if cfg != DefaultSnakeConfig() {
		t.Errorf("embedded YAML = %+v, expected %+v", cfg, DefaultSnakeConfig())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SnakeConfig)
		valid  bool
	}{
		{"defaults", func(*SnakeConfig) {}, true},
		{"smallest board for snake", func(c *SnakeConfig) { c.Board.Size = c.Board.InitialSnakeLength + 2 }, true},
		{"board too small", func(c *SnakeConfig) { c.Board.Size = c.Board.InitialSnakeLength + 1 }, false},
		{"zero snake", func(c *SnakeConfig) { c.Board.InitialSnakeLength = 0 }, false},
		{"zero min interval", func(c *SnakeConfig) { c.Speed.MinIntervalMillis = 0 }, false},
		{"initial below floor", func(c *SnakeConfig) { c.Speed.InitialIntervalMillis = 100 }, false},
		{"zero level interval", func(c *SnakeConfig) { c.Speed.LevelIntervalTicks = 0 }, false},
		{"negative step", func(c *SnakeConfig) { c.Speed.StepMillis = -1 }, false},
		{"zero step", func(c *SnakeConfig) { c.Speed.StepMillis = 0 }, true},
		{"zero reposition", func(c *SnakeConfig) { c.Treats.RepositionTicks = 0 }, false},
		{"zero pixel size", func(c *SnakeConfig) { c.Board.PixelSize = 0 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultSnakeConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.valid && err != nil {
				t.Errorf("Validate() = %v, expected nil", err)
			}
			if !tc.valid {
				if err == nil {
					t.Fatal("Validate() = nil, expected error")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("error %v should wrap ErrInvalidConfig", err)
				}
			}
		})
	}
}

func TestParseSnakePartialOverride(t *testing.T) {
	cfg, err := ParseSnake([]byte("board:\n  size: 25\n"))
	if err != nil {
		t.Fatalf("ParseSnake failed: %v", err)
	}
	if cfg.Board.Size != 25 {
		t.Errorf("Board.Size = %d, expected 25", cfg.Board.Size)
	}
	if cfg.Speed != DefaultSnakeConfig().Speed {
		t.Errorf("Speed should keep defaults, got %+v", cfg.Speed)
	}
}

func TestParseSnakeRejectsInvalid(t *testing.T) {
	_, err := ParseSnake([]byte("board:\n  size: 3\n"))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadSnakeCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	if err := os.WriteFile(path, []byte("speed:\n  level_interval_ticks: 10\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSnake(path)
	if err != nil {
		t.Fatalf("LoadSnake failed: %v", err)
	}
	if cfg.Speed.LevelIntervalTicks != 10 {
		t.Errorf("LevelIntervalTicks = %d, expected 10", cfg.Speed.LevelIntervalTicks)
	}

	if _, err := LoadSnake(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadSnake should fail for a missing custom path")
	}
}

func TestParsePreset(t *testing.T) {
	for _, s := range []string{"", "easy", "normal", "hard", "fixed"} {
		if _, err := ParsePreset(s); err != nil {
			t.Errorf("ParsePreset(%q) failed: %v", s, err)
		}
	}
	if _, err := ParsePreset("insane"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParsePreset(insane) = %v, expected ErrInvalidConfig", err)
	}
}

func TestPresetsStayValid(t *testing.T) {
	for _, preset := range []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed} {
		cfg := DefaultSnakeConfig()
		ApplySnakePreset(&cfg, preset)
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s produced invalid config: %v", preset, err)
		}
	}

	hard := DefaultSnakeConfig()
	ApplySnakePreset(&hard, DifficultyHard)
	if hard.Speed.InitialIntervalMillis >= DefaultSnakeConfig().Speed.InitialIntervalMillis {
		t.Error("hard preset should start faster than the default")
	}

	fixed := DefaultSnakeConfig()
	ApplySnakePreset(&fixed, DifficultyFixed)
	if !IsFixedPreset(DifficultyFixed) || fixed.Speed.StepMillis != 0 {
		t.Error("fixed preset should disable speed steps")
	}
}

func TestIntervalAtLevel(t *testing.T) {
	cfg := DefaultSnakeConfig()

	tests := []struct {
		level, expected int
	}{
		{1, 500},
		{2, 300},
		{3, 300}, // floor
		{10, 300},
	}

	for _, tc := range tests {
		if got := cfg.IntervalAtLevel(tc.level); got != tc.expected {
			t.Errorf("IntervalAtLevel(%d) = %d, expected %d", tc.level, got, tc.expected)
		}
	}
}

func TestWatcherReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	if err := os.WriteFile(path, []byte("board:\n  size: 15\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, "", log.New(os.Stderr))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if w.Path() != path {
		t.Errorf("Path() = %q, expected %q", w.Path(), path)
	}

	changed := make(chan SnakeConfig, 4)
	w.OnChange(func(c SnakeConfig) { changed <- c })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("board:\n  size: 21\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// A write can surface as several events (truncate, then data), so wait
	// for the final content rather than the first notification.
	deadline := time.After(3 * time.Second)
	for seen := false; !seen; {
		select {
		case c := <-changed:
			seen = c.Board.Size == 21
		case <-deadline:
			t.Fatal("watcher did not report the change")
		}
	}

	if w.Current().Board.Size != 21 {
		t.Errorf("Current().Board.Size = %d, expected 21", w.Current().Board.Size)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v", err)
	}
}

func TestWatcherKeepsPreviousOnBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	if err := os.WriteFile(path, []byte("board:\n  size: 17\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, DifficultyFixed, log.New(os.Stderr))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if w.Current().Speed.StepMillis != 0 {
		t.Error("preset should be applied on load")
	}

	if err := os.WriteFile(path, []byte("board:\n  size: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := w.Reload(); err == nil {
		t.Error("Reload should report an invalid file")
	}
	if w.Current().Board.Size != 17 {
		t.Errorf("Current().Board.Size = %d, expected previous value 17", w.Current().Board.Size)
	}
}

func TestStaticSource(t *testing.T) {
	cfg := DefaultSnakeConfig()
	cfg.Board.Size = 9
	var src Source = Static(cfg)
	if src.Current().Board.Size != 9 {
		t.Errorf("Static source returned %+v", src.Current())
	}
}
