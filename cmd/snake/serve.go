package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/platform/web"
	"github.com/vovakirdan/tui-snake/internal/session"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagAnonymous   bool
	flagAlsoHTTP    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the snake SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Users log in with the account they created through the web API
(POST /app/new/). With --anonymous anyone may connect and scores are kept
without a name. With --http the web API runs in the same process and sees
the same live games.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.snake/host_key

Examples:
  snake serve                     # Listen on :23234
  snake serve --ssh :2222         # Listen on port 2222
  snake serve --http :5000        # Also serve the web API
  snake serve --anonymous

Users can connect with:
  ssh ann@localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().BoolVar(&flagAnonymous, "anonymous", false, "Accept connections without a password")
	serveCmd.Flags().StringVar(&flagAlsoHTTP, "http", "", "Also serve the web API on this address")
}

func runServe(cmd *cobra.Command, _ []string) error {
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

	sessions := session.NewRegistry()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Anonymous = flagAnonymous

	server, err := tui.NewSSHServer(cfg, store, watcher, sessions, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watchConfig(ctx, watcher, sessions, logger)

	if flagAlsoHTTP != "" {
		webCfg := web.DefaultServerConfig()
		webCfg.Address = flagAlsoHTTP
		httpServer := web.NewServer(webCfg, store, watcher, sessions, logger)
		go func() {
			if err := httpServer.Serve(ctx); err != nil {
				stop()
			}
		}()
	}

	if _, port, err := net.SplitHostPort(flagSSHAddr); err == nil {
		logger.Info("connect with", "command", "ssh <user>@localhost -p "+port)
	}
	return server.Serve(ctx)
}
