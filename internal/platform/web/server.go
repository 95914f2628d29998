// Package web serves the accounts API and browser play over HTTP.
// Accounts and scores come from storage; games run in sessions whose
// snapshots stream to the browser over a WebSocket.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	// Address is the host:port to listen on (e.g., ":5000").
	Address string

	// SnapshotBuffer is how many snapshots a slow WebSocket client may lag
	// behind before the oldest are dropped.
	SnapshotBuffer int

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns a config with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:         ":5000",
		SnapshotBuffer:  16,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server is the HTTP front end.
type Server struct {
	config   ServerConfig
	store    *storage.Store
	source   config.Source
	sessions *session.Registry
	logger   *log.Logger
	router   *gin.Engine
}

// NewServer creates the server and its routes. Accounts and scores live in
// store; games read their settings from src and are registered in sessions.
func NewServer(cfg ServerConfig, store *storage.Store, src config.Source, sessions *session.Registry, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if src == nil {
		src = config.Static(config.DefaultSnakeConfig())
	}
	if sessions == nil {
		sessions = session.NewRegistry()
	}

	s := &Server{
		config:   cfg,
		store:    store,
		source:   src,
		sessions: sessions,
		logger:   logger.WithPrefix("snake-web"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	app := r.Group("/app")
	app.GET("/", s.handleRoot)
	app.POST("/new/", s.handleNewUser)
	app.GET("/user/:user/:pass/", s.handleGetUser)
	app.GET("/users/all", s.handleListUsers)
	app.GET("/scores/top", s.handleTopScores)
	app.GET("/sessions", s.handleSessions)
	app.GET("/sessions/:id/board.png", s.handleBoard)
	app.GET("/sessions/:id/board.txt", s.handleBoardText)
	app.GET("/play", s.handlePlay)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Something Went Wrong!"})
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve runs the server until ctx is cancelled, then shuts it down.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting HTTP server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	s.logger.Info("shutting down...", "live_games", s.sessions.Count())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.config.Address
}

// requestLogger logs one line per request.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request", fields...)
			return
		}
		logger.Debug("request", fields...)
	}
}
