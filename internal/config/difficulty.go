package config

import "fmt"

// ParsePreset converts a CLI string into a DifficultyPreset.
// An empty string yields an empty preset, which leaves the config untouched.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "":
		return "", nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s), nil
	default:
		return "", fmt.Errorf("%w: unknown difficulty %q (want easy, normal, hard or fixed)", ErrInvalidConfig, s)
	}
}

// ApplySnakePreset modifies the config based on a difficulty preset.
func ApplySnakePreset(cfg *SnakeConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Speed.InitialIntervalMillis = 650
		cfg.Speed.StepMillis = 50
		cfg.Speed.MinIntervalMillis = 350
		cfg.Treats.RepositionTicks = 45
	case DifficultyHard:
		cfg.Speed.InitialIntervalMillis = 350
		cfg.Speed.StepMillis = 50
		cfg.Speed.MinIntervalMillis = 100
		cfg.Treats.RepositionTicks = 20
	case DifficultyFixed:
		cfg.Speed.StepMillis = 0
	}
	// Normal keeps whatever the file says.
}

// IntervalAtLevel returns the tick interval in milliseconds once the given
// level is reached, honouring the speed floor.
func (c SnakeConfig) IntervalAtLevel(level int) int {
	interval := c.Speed.InitialIntervalMillis
	for l := 1; l < level; l++ {
		interval = max(c.Speed.MinIntervalMillis, interval-c.Speed.StepMillis)
	}
	return interval
}
