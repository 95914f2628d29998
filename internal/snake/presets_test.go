package snake

import (
	"testing"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/registry"
)

func TestPresetsRegistered(t *testing.T) {
	for _, id := range []string{"classic", "large", "tiny"} {
		if !registry.Exists(id) {
			t.Errorf("preset %q not registered", id)
		}
	}

	list := registry.List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}

func TestResolveConfig(t *testing.T) {
	base := config.DefaultSnakeConfig()

	tests := []struct {
		preset string
		size   int
	}{
		{"", base.Board.Size},
		{"classic", base.Board.Size},
		{"large", 25},
		{"tiny", 9},
	}

	for _, tc := range tests {
		cfg, err := ResolveConfig(base, tc.preset)
		if err != nil {
			t.Errorf("ResolveConfig(%q) failed: %v", tc.preset, err)
			continue
		}
		if cfg.Board.Size != tc.size {
			t.Errorf("ResolveConfig(%q) size = %d, expected %d", tc.preset, cfg.Board.Size, tc.size)
		}
		if _, err := NewEngine(cfg, 1, nil); err != nil {
			t.Errorf("preset %q does not start a game: %v", tc.preset, err)
		}
	}

	if _, err := ResolveConfig(base, "huge"); err == nil {
		t.Error("ResolveConfig should reject unknown presets")
	}
}
