package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/snake"
)

const (
	writeWait      = 5 * time.Second
	maxCommandSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

var errUnknownCommand = errors.New("unknown command")

// command is a message from the browser.
type command struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
}

// serverMessage is a message to the browser: a hello with the session ID,
// a snapshot after every state change, or an error for a bad command.
type serverMessage struct {
	Type     string          `json:"type"`
	Session  session.ID      `json:"session,omitempty"`
	Snapshot *snake.Snapshot `json:"snapshot,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// handlePlay upgrades to a WebSocket and runs one session for the
// authenticated user until the socket closes.
func (s *Server) handlePlay(c *gin.Context) {
	user, ok := s.authenticate(c, c.Query("user"), c.Query("pass"))
	if !ok {
		return
	}

	preset := c.DefaultQuery("preset", snake.DefaultPreset)
	if !registry.Exists(preset) {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Unknown preset %s", preset)})
		return
	}

	presenter := session.NewChannelPresenter(s.config.SnapshotBuffer)
	defer presenter.Close()

	sess, err := session.New(session.Options{
		Username:  user.Username,
		Preset:    preset,
		Config:    s.source,
		HighScore: user.HighestScore,
		Presenter: presenter,
		Reporter:  session.StoreReporter{Store: s.store},
		Logger:    s.logger,
	})
	if err != nil {
		s.logger.Error("cannot start session", "user", user.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something Went Wrong!"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// The upgrader has already replied.
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.sessions.Register(sess)
	defer s.sessions.Unregister(sess.ID())

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	errs := make(chan string, 4)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		//nolint:errcheck // Run only stops on cancellation
		sess.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		defer cancel()
		// Closing unblocks the reader when a write fails first.
		defer conn.Close()
		s.writeLoop(ctx, conn, sess.ID(), presenter, errs)
	}()

	s.readLoop(ctx, conn, sess, errs)
	cancel()
	wg.Wait()

	// A player who disconnects mid-game still gets the score.
	sess.End()
}

// readLoop applies commands until the socket fails or ctx ends.
func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, sess *session.Session, errs chan<- string) {
	conn.SetReadLimit(maxCommandSize)
	for {
		var cmd command
		if err := conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && ctx.Err() == nil {
				s.logger.Debug("websocket read ended", "session", sess.ID(), "error", err)
			}
			return
		}

		if err := applyCommand(sess, cmd); err != nil {
			select {
			case errs <- err.Error():
			default:
			}
		}
	}
}

// writeLoop is the only writer on conn.
func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, id session.ID, presenter *session.ChannelPresenter, errs <-chan string) {
	write := func(msg serverMessage) bool {
		//nolint:errcheck // A failed deadline shows up as a failed write
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Debug("websocket write failed", "session", id, "error", err)
			return false
		}
		return true
	}

	if !write(serverMessage{Type: "hello", Session: id}) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			//nolint:errcheck // Best-effort close frame
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case snap := <-presenter.Snapshots():
			if !write(serverMessage{Type: "snapshot", Snapshot: &snap}) {
				return
			}
		case msg := <-errs:
			if !write(serverMessage{Type: "error", Message: msg}) {
				return
			}
		}
	}
}

// applyCommand performs one browser command on the session.
func applyCommand(sess *session.Session, cmd command) error {
	if cmd.Type == "direction" {
		d, err := snake.ParseDirection(cmd.Direction)
		if err != nil {
			return err
		}
		sess.ChangeDirection(d)
		return nil
	}

	switch action := core.ParseAction(cmd.Type); action {
	case core.ActionPause, core.ActionResume, core.ActionNewGame:
		return sess.Apply(action)
	default:
		return fmt.Errorf("%w %q", errUnknownCommand, cmd.Type)
	}
}
