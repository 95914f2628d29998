package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/web"
	"github.com/vovakirdan/tui-snake/internal/session"
)

var (
	flagWebAddr   string
	flagWebBuffer int
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP API and browser play",
	Long: `Start the HTTP server with the accounts API and WebSocket play.

Endpoints:
  GET  /app/                       - Health check
  POST /app/new/                   - Create an account (user, pass)
  GET  /app/user/:user/:pass/      - Log in
  GET  /app/users/all              - List accounts
  GET  /app/scores/top             - Top scores (?preset=, ?limit=)
  GET  /app/sessions               - Live games
  GET  /app/sessions/:id/board.png - Picture of a live game
  GET  /app/play                   - WebSocket play (?user=&pass=&preset=)

Examples:
  snake web
  snake web --addr :8080`,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":5000", "HTTP server address (host:port)")
	webCmd.Flags().IntVar(&flagWebBuffer, "buffer", 16, "Snapshots a slow browser may lag behind")
}

func runWeb(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	watcher, err := loadConfig(logger)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := web.DefaultServerConfig()
	cfg.Address = flagWebAddr
	if flagWebBuffer > 0 {
		cfg.SnapshotBuffer = flagWebBuffer
	}
	sessions := session.NewRegistry()
	server := web.NewServer(cfg, store, watcher, sessions, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watchConfig(ctx, watcher, sessions, logger)

	return server.Serve(ctx)
}
