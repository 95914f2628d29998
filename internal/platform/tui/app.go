package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// AppOptions configures the menu -> game -> menu flow.
type AppOptions struct {
	Store         *storage.Store    // Optional; without it scores are not kept
	Source        config.Source     // Engine configuration, read at every new game
	Sessions      *session.Registry // Optional; live games are registered here
	Username      string
	Screen        core.RuntimeConfig
	ScreenshotDir string // Empty disables ctrl+s
	Logger        *log.Logger
}

// AppModel manages the full flow: preset menu, scoreboard and games.
// It is the top-level model for both local and SSH play.
type AppModel struct {
	opts       AppOptions
	menu       MenuModel
	scoreboard *ScoreboardModel
	game       *Model
	live       *liveGame
	quitting   bool
	err        error // Last failure to start a game, shown under the menu
}

// NewAppModel creates the app model, starting at the menu.
func NewAppModel(opts AppOptions) AppModel {
	if opts.Source == nil {
		opts.Source = config.Static(config.DefaultSnakeConfig())
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return AppModel{
		opts: opts,
		menu: NewMenuModel(opts.Source, opts.Screen),
		live: &liveGame{},
	}
}

// liveGame holds the running session. Every copy of an AppModel shares it,
// so Close reaches the game that the latest Update started.
type liveGame struct {
	mu      sync.Mutex
	session *session.Session
}

func (g *liveGame) set(s *session.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = s
}

func (g *liveGame) current() *session.Session {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

func (g *liveGame) take() *session.Session {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	s := g.session
	g.session = nil
	return s
}

// Init initializes the app.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Screen.ScreenW = wsm.Width
		m.opts.Screen.ScreenH = wsm.Height
	}

	switch {
	case m.game != nil:
		return m.updateGame(msg)
	case m.scoreboard != nil:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	// Selecting quits a standalone menu; here the command is dropped and
	// the next screen takes over.
	if m.menu.WantsScoreboard() {
		sb := NewScoreboardModel(m.opts.Store, m.opts.Screen.ScreenW, m.opts.Screen.ScreenH)
		m.scoreboard = &sb
		return m, sb.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		return m.startGame(selected.PresetID)
	}

	return m, cmd
}

// startGame opens a session on the chosen preset.
func (m AppModel) startGame(preset string) (tea.Model, tea.Cmd) {
	opts := session.Options{
		Username: m.opts.Username,
		Preset:   preset,
		Config:   m.opts.Source,
		Seed:     m.opts.Screen.Seed,
		Logger:   m.opts.Logger,
	}
	if m.opts.Store != nil {
		if high, err := m.opts.Store.HighScore(preset); err == nil {
			opts.HighScore = high
		}
		opts.Reporter = session.StoreReporter{Store: m.opts.Store}
	}
	if m.opts.Screen.Seed != 0 {
		// Replays of the same seed should still differ from game to game.
		m.opts.Screen.Seed++
	}

	sess, err := session.New(opts)
	if err != nil {
		m.err = err
		m.menu = NewMenuModel(m.opts.Source, m.opts.Screen)
		return m, nil
	}
	if m.opts.Sessions != nil {
		m.opts.Sessions.Register(sess)
	}

	game := NewModel(sess, m.opts.Screen).WithScreenshotDir(m.opts.ScreenshotDir)
	m.live.set(sess)
	m.game = &game
	m.err = nil
	return m, game.Init()
}

// updateGame handles updates when in game mode.
func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.endGame()
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		m.endGame()
		m.menu = NewMenuModel(m.opts.Source, m.opts.Screen)
		return m, m.menu.Init()
	}

	return m, cmd
}

func (m *AppModel) endGame() {
	if sess := m.live.take(); sess != nil && m.opts.Sessions != nil {
		m.opts.Sessions.Unregister(sess.ID())
	}
	m.game = nil
}

// Close ends a game still in progress and drops it from the registry.
// Call it after the program stops: a dropped SSH connection stops the
// program without any key reaching Update.
func (m AppModel) Close() {
	sess := m.live.take()
	if sess == nil {
		return
	}
	sess.End()
	if m.opts.Sessions != nil {
		m.opts.Sessions.Unregister(sess.ID())
	}
}

// updateScoreboard handles updates when the scoreboard is shown.
func (m AppModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = &sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		m.scoreboard = nil
		m.menu = NewMenuModel(m.opts.Source, m.opts.Screen)
		return m, m.menu.Init()
	}
	return m, cmd
}

// View renders the current view.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.game != nil:
		return m.game.View()
	case m.scoreboard != nil:
		return m.scoreboard.View()
	}

	view := m.menu.View()
	if m.err != nil {
		view += centerText("Error: "+m.err.Error(), m.opts.Screen.ScreenW) + "\n"
	}
	return view
}

// RunApp runs the menu -> game -> menu flow in the local terminal.
func RunApp(opts AppOptions) error {
	model := NewAppModel(opts)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	model.Close()
	return err
}
