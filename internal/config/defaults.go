package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultSnakeConfig returns the default Snake configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Board: SnakeBoard{
			PixelSize:          20,
			Size:               15,
			InitialSnakeLength: 3,
		},
		Speed: SnakeSpeed{
			InitialIntervalMillis: 500,
			LevelIntervalTicks:    30,
			StepMillis:            200,
			MinIntervalMillis:     300,
		},
		Treats: SnakeTreats{
			RepositionTicks:   30,
			PlacementAttempts: 64,
		},
	}
}
