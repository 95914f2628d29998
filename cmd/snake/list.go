package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/snake"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List board presets",
	Long:  `Shows every board preset with its size and starting speed under the current configuration.`,
	RunE:  runList,
}

func runList(_ *cobra.Command, _ []string) error {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	base, err := config.LoadSnake(flagConfig)
	if err != nil {
		return err
	}
	config.ApplySnakePreset(&base, preset)

	presets := registry.List()
	if len(presets) == 0 {
		fmt.Println("No presets available.")
		return nil
	}

	fmt.Println("Available boards:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, p := range presets {
		maxIDLen = max(maxIDLen, len(p.ID))
	}

	fmt.Printf("  %-*s  %-7s  %-6s  %s\n", maxIDLen, "ID", "Board", "Speed", "Description")
	fmt.Printf("  %-*s  %-7s  %-6s  %s\n", maxIDLen, "--", "-----", "-----", "-----------")

	for _, p := range presets {
		cfg, err := snake.ResolveConfig(base, p.ID)
		if err != nil {
			fmt.Printf("  %-*s  %s\n", maxIDLen, p.ID, err)
			continue
		}
		board := fmt.Sprintf("%dx%d", cfg.Board.Size, cfg.Board.Size)
		speed := fmt.Sprintf("%dms", cfg.IntervalAtLevel(1))
		fmt.Printf("  %-*s  %-7s  %-6s  %s\n", maxIDLen, p.ID, board, speed, p.Description)
	}

	fmt.Println()
	if config.IsFixedPreset(preset) {
		fmt.Println("Speed stays at the starting value on every level.")
	}
	fmt.Println("Run 'snake play <id>' to play a board.")
	return nil
}
