// Package tui provides the Bubble Tea integration for snake: the game view,
// the preset menu, the scoreboard and the SSH server that serves them.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/session"
)

// TickMsg is sent to trigger a game tick of one session.
type TickMsg struct {
	Session session.ID
	Time    time.Time
}

// tickCmd schedules the next tick after interval. The game's interval
// shrinks as it levels up, so the caller re-reads it before every tick.
func tickCmd(id session.ID, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Session: id, Time: t}
	})
}
