package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/snake"
	"github.com/vovakirdan/tui-snake/internal/snapshotimg"
)

// textBoardMinWidth leaves room for the status line on small boards.
const textBoardMinWidth = 60

// liveSession describes a game in progress for GET /app/sessions.
type liveSession struct {
	ID       session.ID `json:"id"`
	User     string     `json:"user"`
	Preset   string     `json:"preset"`
	Score    int        `json:"score"`
	Level    int        `json:"level"`
	State    string     `json:"state"`
	BoardURL string     `json:"board_url"`
}

func (s *Server) handleSessions(c *gin.Context) {
	live := make([]liveSession, 0, s.sessions.Count())
	for _, id := range s.sessions.IDs() {
		sess, ok := s.sessions.Get(id)
		if !ok {
			continue // Ended since IDs() was taken
		}
		snap := sess.Snapshot()
		live = append(live, liveSession{
			ID:       id,
			User:     sess.Username(),
			Preset:   sess.Preset(),
			Score:    snap.Score,
			Level:    snap.Level,
			State:    string(snap.State),
			BoardURL: "/app/sessions/" + string(id) + "/board.png",
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(live),
		"players":  s.sessions.Players(),
		"sessions": live,
	})
}

// handleBoard renders a live game as PNG. ?size=N scales it down to fit
// N pixels, ?grid=1 draws cell borders.
func (s *Server) handleBoard(c *gin.Context) {
	sess, ok := s.sessions.Get(session.ID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "No such game"})
		return
	}

	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "size must be a positive number"})
			return
		}
		size = n
	}

	opts := snapshotimg.Options{
		PixelSize: sess.Config().Board.PixelSize,
		Grid:      c.Query("grid") == "1",
		MaxSide:   size,
	}

	c.Header("Content-Type", "image/png")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	if err := snapshotimg.WritePNG(c.Writer, sess.Snapshot(), opts); err != nil {
		s.logger.Error("cannot encode board", "session", sess.ID(), "error", err)
	}
}

// handleBoardText draws a live game the way the terminal shows it, as
// plain text for curl.
func (s *Server) handleBoardText(c *gin.Context) {
	sess, ok := s.sessions.Get(session.ID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "No such game"})
		return
	}

	snap := sess.Snapshot()
	w, h := snake.BoardScreenSize(snap.BoardSize)
	screen := core.NewScreen(max(w, textBoardMinWidth), h)
	snake.Render(screen, snap, sess.HighScore())

	c.Header("Cache-Control", "no-store")
	c.String(http.StatusOK, screen.String()+"\n")
}
