package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/registry"
)

var (
	flagScoresLimit       int
	flagScoresInteractive bool
	flagScoresClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [preset]",
	Short: "Show high scores",
	Long: `Display the top scores of one board, or of all boards together.

Examples:
  snake scores
  snake scores tiny --limit 20
  snake scores --interactive
  snake scores large --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "How many scores to show")
	scoresCmd.Flags().BoolVarP(&flagScoresInteractive, "interactive", "i", false, "Browse all boards in a full-screen table")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the board's scores")
}

func runScores(_ *cobra.Command, args []string) error {
	preset := ""
	title := "all boards"
	if len(args) == 1 {
		p, err := registry.Create(args[0])
		if err != nil {
			return fmt.Errorf("%w, run 'snake list' to see them", err)
		}
		preset = p.ID()
		title = p.Title()
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if flagScoresInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		_, err := tui.RunScoreboard(store, width, height)
		return err
	}

	if flagScoresClear {
		if preset == "" {
			return fmt.Errorf("name the board to clear")
		}
		if err := store.ClearScores(preset); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s.\n", title)
		return nil
	}

	scores, err := store.TopScores(preset, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("cannot retrieve scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-12s  %-8s  %-6s  %-5s  %s\n", "Rank", "Player", "Board", "Score", "Level", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %-6s  %-5s  %s\n", "----", "------", "-----", "-----", "-----", "----")
	for i, entry := range scores {
		player := entry.Username
		if player == "" {
			player = "-"
		}
		fmt.Printf("  %-4d  %-12s  %-8s  %-6d  %-5d  %s\n",
			i+1, player, entry.Preset, entry.Score, entry.Level, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if preset != "" {
		if stats, err := store.Stats(preset); err == nil && stats.GamesCount > 0 {
			fmt.Println()
			fmt.Printf("Best: %d  Games: %d  Average: %.1f  Max level: %d\n",
				stats.HighScore, stats.GamesCount, stats.AvgScore, stats.MaxLevel)
		}
	}
	return nil
}
