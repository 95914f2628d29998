package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.snake/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Anonymous lets clients in without a password. Their scores are kept
	// without a username.
	Anonymous bool
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// appModelKey stores each connection's AppModel in its ssh.Context.
type appModelKey struct{}

// SSHServer wraps a Wish SSH server for snake.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	source   config.Source
	sessions *session.Registry
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server. Accounts are checked against store;
// every game is registered in sessions and reads its settings from src.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, src config.Source, sessions *session.Registry, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.Default()
	}
	if sessions == nil {
		sessions = session.NewRegistry()
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		source:   src,
		sessions: sessions,
		logger:   logger.WithPrefix("snake-ssh"),
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".snake", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}
	if !cfg.Anonymous {
		if store == nil {
			return nil, errors.New("cannot check passwords without a database")
		}
		opts = append(opts, wish.WithPasswordAuth(srv.passwordHandler))
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// passwordHandler accepts accounts created through the web API.
func (s *SSHServer) passwordHandler(ctx ssh.Context, password string) bool {
	_, err := s.store.CheckUser(ctx.User(), password)
	if err != nil {
		if !errors.Is(err, storage.ErrBadCredentials) {
			s.logger.Error("cannot check credentials", "user", ctx.User(), "error", err)
		}
		s.logger.Warn("login refused", "user", ctx.User(), "remote", ctx.RemoteAddr().String())
		return false
	}
	return true
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	username := sshSession.User()
	if s.config.Anonymous {
		username = ""
	}

	model := NewAppModel(AppOptions{
		Store:    s.store,
		Source:   s.source,
		Sessions: s.sessions,
		Username: username,
		Screen: core.RuntimeConfig{
			ScreenW: pty.Window.Width,
			ScreenH: pty.Window.Height,
		},
		// Screenshots would land on the server, so they stay off.
		Logger: s.logger,
	})
	sshSession.Context().SetValue(appModelKey{}, model)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events. It wraps the Bubble Tea
// middleware, so when next returns the program has stopped and any game
// left running by a dropped connection is ended here.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		if app, ok := sshSession.Context().Value(appModelKey{}).(AppModel); ok {
			app.Close()
		}
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"live_games", s.sessions.Count(),
		)
	}
}

// Serve runs the server until ctx is cancelled, then shuts it down.
func (s *SSHServer) Serve(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "anonymous", s.config.Anonymous)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.logger.Error("server error", "error", err)
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
