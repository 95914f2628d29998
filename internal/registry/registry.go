// Package registry provides a global registry for board presets.
// Presets register themselves in init() functions, allowing the CLI and menus
// to discover them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-snake/internal/config"
)

// Preset is a named variation of the game (board size, starting length, pace).
type Preset interface {
	// ID returns a unique identifier for this preset (e.g., "classic", "large").
	// Used for CLI arguments and stored alongside scores.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Description is a one-line summary shown in menus and `snake list`.
	Description() string

	// Configure adjusts a loaded configuration for this preset.
	// It is applied before validation, on top of the YAML file.
	Configure(cfg *config.SnakeConfig)
}

// PresetInfo contains metadata about a registered preset.
type PresetInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory is a function that creates a preset.
type Factory func() Preset

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]PresetInfo)
	mu        sync.RWMutex
)

// Register adds a preset factory to the registry.
// Typically called from an init() function.
// Panics if a preset with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: preset %q already registered", id))
	}

	factories[id] = f

	p := f()
	infos[id] = PresetInfo{ID: id, Title: p.Title(), Description: p.Description()}
}

// List returns information about all registered presets, sorted by ID.
func List() []PresetInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]PresetInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a preset by its ID.
// Returns an error if the ID is not registered.
func Create(id string) (Preset, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown preset %q", id)
	}

	return f(), nil
}

// Exists checks if a preset with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
