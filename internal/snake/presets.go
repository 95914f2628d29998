package snake

import (
	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/registry"
)

// DefaultPreset is used when no preset is named.
const DefaultPreset = "classic"

// BoardPreset is a registry.Preset that overrides board geometry.
// Zero fields keep the configured value.
type BoardPreset struct {
	id          string
	title       string
	description string
	size        int
	length      int
	levelTicks  int
}

func (p BoardPreset) ID() string          { return p.id }
func (p BoardPreset) Title() string       { return p.title }
func (p BoardPreset) Description() string { return p.description }

// Configure applies the preset's overrides.
func (p BoardPreset) Configure(cfg *config.SnakeConfig) {
	if p.size > 0 {
		cfg.Board.Size = p.size
	}
	if p.length > 0 {
		cfg.Board.InitialSnakeLength = p.length
	}
	if p.levelTicks > 0 {
		cfg.Speed.LevelIntervalTicks = p.levelTicks
	}
}

func init() {
	presets := []BoardPreset{
		{
			id:          DefaultPreset,
			title:       "Classic",
			description: "The configured board, as is",
		},
		{
			id:          "large",
			title:       "Large",
			description: "25x25 board, slower level-ups",
			size:        25,
			length:      5,
			levelTicks:  45,
		},
		{
			id:          "tiny",
			title:       "Tiny",
			description: "9x9 board, quick level-ups",
			size:        9,
			length:      3,
			levelTicks:  20,
		},
	}
	for _, p := range presets {
		registry.Register(p.id, func() registry.Preset { return p })
	}
}

// ResolveConfig applies the named preset to base and validates the result.
// An empty id selects DefaultPreset.
func ResolveConfig(base config.SnakeConfig, presetID string) (config.SnakeConfig, error) {
	if presetID == "" {
		presetID = DefaultPreset
	}
	p, err := registry.Create(presetID)
	if err != nil {
		return config.SnakeConfig{}, err
	}
	cfg := base
	p.Configure(&cfg)
	if err := cfg.Validate(); err != nil {
		return config.SnakeConfig{}, err
	}
	return cfg, nil
}
