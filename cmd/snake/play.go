package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var flagPlayUser string

var playCmd = &cobra.Command{
	Use:   "play [preset]",
	Short: "Play in this terminal",
	Long: `Play snake in this terminal. Without a preset, a menu lets you pick
a board and browse the scoreboard between games.

Controls:
  Arrows/WASD  - Steer
  P            - Pause
  R            - Resume
  N            - New game
  B/Esc        - Back to menu (paused or game over)
  Ctrl+S       - Save a PNG screenshot to ~/.snake/screenshots
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Slower start, gentle speed-ups
  normal - As configured
  hard   - Faster start, faster floor
  fixed  - No speed-ups

Edits to the config file apply from the next new game.

Examples:
  snake play
  snake play tiny
  snake play large --difficulty hard
  snake play --user ann`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayUser, "user", "", "Play as this account (asks for the password)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	// Log lines would tear the alternate screen.
	logOut := openLogFile()
	defer logOut.Close()
	logger.SetOutput(logOut)

	if len(args) == 1 && !registry.Exists(args[0]) {
		return fmt.Errorf("unknown preset %q, run 'snake list' to see them", args[0])
	}

	watcher, err := loadConfig(logger)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	watchConfig(ctx, watcher, nil, logger)

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		// Continue without storage - game still works
		store = nil
	} else {
		defer store.Close()
	}

	username := ""
	if flagPlayUser != "" {
		if store == nil {
			return fmt.Errorf("cannot play as %s without a database", flagPlayUser)
		}
		u, err := login(store, flagPlayUser)
		if err != nil {
			return err
		}
		username = u.Username
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	screen := core.RuntimeConfig{ScreenW: width, ScreenH: height, Seed: flagSeed}

	if len(args) == 0 {
		return tui.RunApp(tui.AppOptions{
			Store:         store,
			Source:        watcher,
			Username:      username,
			Screen:        screen,
			ScreenshotDir: tui.DefaultScreenshotDir,
			Logger:        logger,
		})
	}

	opts := session.Options{
		Username: username,
		Preset:   args[0],
		Config:   watcher,
		Seed:     flagSeed,
		Logger:   logger,
	}
	if store != nil {
		if high, err := store.HighScore(args[0]); err == nil {
			opts.HighScore = high
		}
		opts.Reporter = session.StoreReporter{Store: store}
	}
	sess, err := session.New(opts)
	if err != nil {
		return err
	}
	return tui.Run(sess, screen)
}

// login asks for the password of an existing account.
func login(store *storage.Store, username string) (storage.User, error) {
	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return storage.User{}, fmt.Errorf("cannot read password: %w", err)
	}
	return store.CheckUser(username, string(pass))
}
