// Package config provides YAML-based game configuration loading and
// difficulty presets for the snake engine.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a configuration cannot start a game.
var ErrInvalidConfig = errors.New("invalid configuration")

// SnakeConfig contains all configuration for the Snake engine.
type SnakeConfig struct {
	Board  SnakeBoard  `yaml:"board"`
	Speed  SnakeSpeed  `yaml:"speed"`
	Treats SnakeTreats `yaml:"treats"`
}

// SnakeBoard defines the grid geometry.
type SnakeBoard struct {
	PixelSize          int `yaml:"pixel_size"`           // Cell size for image exports
	Size               int `yaml:"size"`                 // Board is Size x Size cells
	InitialSnakeLength int `yaml:"initial_snake_length"` // Cells in the starting snake
}

// SnakeSpeed defines tick timing and level progression.
type SnakeSpeed struct {
	InitialIntervalMillis int `yaml:"initial_interval_millis"`
	LevelIntervalTicks    int `yaml:"level_interval_ticks"` // Ticks between level-ups
	StepMillis            int `yaml:"step_millis"`          // Interval decrease per level
	MinIntervalMillis     int `yaml:"min_interval_millis"`  // Speed floor
}

// SnakeTreats defines treat placement.
type SnakeTreats struct {
	RepositionTicks   int `yaml:"reposition_ticks"`   // Max ticks a treat stays unvisited
	PlacementAttempts int `yaml:"placement_attempts"` // Random samples before a full scan
}

// Validate checks the invariants required to start a game.
// Every violation is reported; the returned error wraps ErrInvalidConfig.
func (c SnakeConfig) Validate() error {
	var problems []error

	if c.Board.PixelSize <= 0 {
		problems = append(problems, fmt.Errorf("board.pixel_size must be positive, got %d", c.Board.PixelSize))
	}
	if c.Board.InitialSnakeLength < 1 {
		problems = append(problems, fmt.Errorf("board.initial_snake_length must be at least 1, got %d", c.Board.InitialSnakeLength))
	}
	if c.Board.Size < c.Board.InitialSnakeLength+2 {
		problems = append(problems, fmt.Errorf("board.size %d leaves no room for a snake of length %d",
			c.Board.Size, c.Board.InitialSnakeLength))
	}
	if c.Speed.MinIntervalMillis <= 0 {
		problems = append(problems, fmt.Errorf("speed.min_interval_millis must be positive, got %d", c.Speed.MinIntervalMillis))
	}
	if c.Speed.InitialIntervalMillis < c.Speed.MinIntervalMillis {
		problems = append(problems, fmt.Errorf("speed.initial_interval_millis %d is below min_interval_millis %d",
			c.Speed.InitialIntervalMillis, c.Speed.MinIntervalMillis))
	}
	if c.Speed.LevelIntervalTicks <= 0 {
		problems = append(problems, fmt.Errorf("speed.level_interval_ticks must be positive, got %d", c.Speed.LevelIntervalTicks))
	}
	if c.Speed.StepMillis < 0 {
		problems = append(problems, fmt.Errorf("speed.step_millis must not be negative, got %d", c.Speed.StepMillis))
	}
	if c.Treats.RepositionTicks <= 0 {
		problems = append(problems, fmt.Errorf("treats.reposition_ticks must be positive, got %d", c.Treats.RepositionTicks))
	}
	if c.Treats.PlacementAttempts < 0 {
		problems = append(problems, fmt.Errorf("treats.placement_attempts must not be negative, got %d", c.Treats.PlacementAttempts))
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(problems...))
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// IsFixedPreset returns true if the preset disables speed progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
