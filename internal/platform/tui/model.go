package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/snake"
	"github.com/vovakirdan/tui-snake/internal/snapshotimg"
)

// DefaultScreenshotDir is where ctrl+s writes board images.
const DefaultScreenshotDir = "~/.snake/screenshots"

var errScreenshotsDisabled = errors.New("tui: screenshots are disabled")

// Model is the Bubble Tea model for one snake game session.
// Bubble Tea serializes Update, so ticks and keys reach the session one at
// a time; the session lock still guards against the web and SSH readers.
type Model struct {
	session       *session.Session
	screen        *core.Screen
	config        core.RuntimeConfig
	keyMapper     *KeyMapper
	screenshotDir string
	lastShot      string // Path of the latest screenshot, shown in the HUD
	quitting      bool
	backToMenu    bool
}

// NewModel creates a model that plays sess on a screen of the configured size.
func NewModel(sess *session.Session, cfg core.RuntimeConfig) Model {
	return Model{
		session:       sess,
		screen:        core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:        cfg,
		keyMapper:     NewKeyMapper(),
		screenshotDir: DefaultScreenshotDir,
	}
}

// WithScreenshotDir returns a copy of the model saving screenshots in dir.
// An empty dir disables screenshots.
func (m Model) WithScreenshotDir(dir string) Model {
	m.screenshotDir = dir
	return m
}

// Init starts the tick loop at the game's current pace.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.session.ID(), m.session.Interval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if msg.Session != m.session.ID() {
			return m, nil
		}
		m.session.Tick()
		return m, tickCmd(m.session.ID(), m.session.Interval())
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.session.End()
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionScreenshot:
		if path, err := m.saveScreenshot(); err == nil {
			m.lastShot = path
		}
		return m, nil

	case core.ActionBack:
		// Leaving mid-game would lose the run, so only paused or
		// finished games go back to the menu.
		if m.session.Snapshot().State != snake.StateRunning {
			m.session.End()
			m.backToMenu = true
		}
		return m, nil

	case core.ActionNewGame:
		// Only a finished game can be replaced; its score is already kept.
		if m.session.Snapshot().State != snake.StateGameOver {
			return m, nil
		}
	}

	//nolint:errcheck // NewGame only fails on an invalid reloaded config; the old game keeps running
	m.session.Apply(action)
	return m, nil
}

// saveScreenshot writes the board as a PNG and returns its path.
func (m *Model) saveScreenshot() (string, error) {
	dir := m.screenshotDir
	if dir == "" {
		return "", errScreenshotsDisabled
	}
	if len(dir) > 1 && dir[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, dir[2:])
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("snake_%s_%s.png", m.session.Preset(), timestamp))

	opts := snapshotimg.Options{PixelSize: m.session.Config().Board.PixelSize, Grid: true}
	if err := snapshotimg.SaveFile(path, m.session.Snapshot(), opts); err != nil {
		return "", err
	}
	return path, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	snake.Render(m.screen, m.session.Snapshot(), m.session.HighScore())
	if m.lastShot != "" && m.screen.Height() > 0 {
		m.screen.DrawTextColored(0, m.screen.Height()-1, " saved "+m.lastShot, core.ColorGray)
	}
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single session in the terminal until the user quits.
func Run(sess *session.Session, cfg core.RuntimeConfig) error {
	model := NewModel(sess, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse (for future use)
	)

	_, err := p.Run()
	return err
}
