package tui

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/snake"
)

var testScreen = core.RuntimeConfig{ScreenW: 80, ScreenH: 24}

func newTestModel(t *testing.T, reporter session.Reporter) (Model, *session.Session) {
	t.Helper()
	sess, err := session.New(session.Options{
		Seed:     7,
		Reporter: reporter,
		Logger:   log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("session.New() failed: %v", err)
	}
	return NewModel(sess, testScreen).WithScreenshotDir(t.TempDir()), sess
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, expected Model", next)
	}
	return model, cmd
}

func TestModelTick(t *testing.T) {
	m, sess := newTestModel(t, nil)

	m, cmd := update(t, m, TickMsg{Session: sess.ID()})
	if cmd == nil {
		t.Error("a tick should schedule the next one")
	}
	if got := sess.Snapshot().Tick; got != 1 {
		t.Errorf("tick = %d, expected 1", got)
	}

	// Ticks addressed to another session are dropped.
	_, cmd = update(t, m, TickMsg{Session: "other"})
	if cmd != nil {
		t.Error("a stale tick should not schedule another")
	}
	if got := sess.Snapshot().Tick; got != 1 {
		t.Errorf("tick = %d after stale tick, expected 1", got)
	}
}

func TestModelPauseResumeNewGame(t *testing.T) {
	m, sess := newTestModel(t, nil)

	m, _ = update(t, m, runeKey("p"))
	if sess.Snapshot().State != snake.StatePaused {
		t.Fatal("p should pause")
	}
	m, _ = update(t, m, TickMsg{Session: sess.ID()})
	if sess.Snapshot().Tick != 0 {
		t.Error("paused game should not advance")
	}

	m, _ = update(t, m, runeKey("r"))
	m, _ = update(t, m, TickMsg{Session: sess.ID()})
	if sess.Snapshot().Tick != 1 {
		t.Errorf("tick = %d after resume, expected 1", sess.Snapshot().Tick)
	}

	m, _ = update(t, m, runeKey("n"))
	if got := sess.Snapshot().Tick; got != 1 {
		t.Errorf("tick = %d after n mid-game, expected the running game to continue at 1", got)
	}

	sess.End()
	_, _ = update(t, m, runeKey("n"))
	if snap := sess.Snapshot(); snap.Tick != 0 || snap.State != snake.StateRunning {
		t.Errorf("n after game over should start over, got %s at tick %d", snap.State, snap.Tick)
	}
}

func TestModelSteering(t *testing.T) {
	m, sess := newTestModel(t, nil)

	_, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if d := sess.Snapshot().Direction; d != snake.DirLeft {
		t.Errorf("direction = %v, expected left", d)
	}
}

func TestModelBackOnlyWhenStopped(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = update(t, m, runeKey("b"))
	if m.BackToMenu() {
		t.Fatal("b should be ignored while the game runs")
	}

	m, _ = update(t, m, runeKey("p"))
	m, _ = update(t, m, runeKey("b"))
	if !m.BackToMenu() {
		t.Error("b should go back to the menu when paused")
	}
	if m.View() != "" {
		t.Error("View should be empty after leaving")
	}
}

func TestModelQuitReportsGame(t *testing.T) {
	var results []session.Result
	m, _ := newTestModel(t, session.ReporterFunc(func(r session.Result) error {
		results = append(results, r)
		return nil
	}))

	m, cmd := update(t, m, runeKey("q"))
	if !m.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if len(results) != 1 {
		t.Errorf("reported %d games, expected 1", len(results))
	}
}

func TestModelScreenshot(t *testing.T) {
	m, _ := newTestModel(t, nil)
	dir := m.screenshotDir

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.lastShot == "" {
		t.Fatal("ctrl+s should record the screenshot path")
	}
	if filepath.Dir(m.lastShot) != dir || !strings.HasSuffix(m.lastShot, ".png") {
		t.Errorf("screenshot path = %q", m.lastShot)
	}
	if _, err := os.Stat(m.lastShot); err != nil {
		t.Errorf("screenshot not written: %v", err)
	}

	m = m.WithScreenshotDir("")
	m.lastShot = ""
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.lastShot != "" {
		t.Error("screenshots should be disabled without a directory")
	}
}

func TestModelView(t *testing.T) {
	m, _ := newTestModel(t, nil)

	view := m.View()
	if !strings.Contains(view, "Score: 0") {
		t.Errorf("view should show the score, got:\n%s", view)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 5})
	if !strings.Contains(m.View(), "too") {
		t.Error("a tiny window should ask for more room")
	}
}
