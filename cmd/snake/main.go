// snake is a terminal snake game with SSH and browser play.
//
// Usage:
//
//	snake list               - List board presets
//	snake play [preset]      - Play in this terminal
//	snake scores [preset]    - Show high scores
//	snake serve              - Start SSH server for remote play
//	snake web                - Start the HTTP API and WebSocket play
//	snake users              - List or create accounts
//
// Global flags:
//
//	--config <path>       - Game config YAML (default: search path)
//	--difficulty <name>   - Difficulty preset: easy, normal, hard, fixed
//	--db <path>           - Database path (default: ~/.snake/snake.db)
//	--log-level <level>   - debug, info, warn or error
//	--seed <value>        - RNG seed for reproducible games
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig     string
	flagDifficulty string
	flagDBPath     string
	flagLogLevel   string
	flagSeed       int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - in your terminal, over SSH and in the browser",
	Long: `Snake is a grid snake game. Play it in this terminal, serve it over SSH,
or serve the accounts API and browser play over HTTP.

Available commands:
  list     - Show board presets
  play     - Play in this terminal
  scores   - View high scores
  serve    - Start SSH server for remote play
  web      - Start HTTP API and WebSocket play
  users    - List or create accounts

Examples:
  snake play
  snake play large --difficulty hard
  snake serve --ssh :2222
  snake web --addr :5000
  snake scores tiny`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.snake/snake.db", "Path to database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(usersCmd)
}
