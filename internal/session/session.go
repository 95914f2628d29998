// Package session owns one player's game: it serializes ticks and input
// around a snake.Engine, schedules ticks at the engine's own pace, replaces
// the engine on a new game and reports finished games.
package session

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/snake"
)

// ID uniquely identifies a session (an SSH connection, a WebSocket, a local run).
type ID string

// NewID returns a random session ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// Options configures a Session.
type Options struct {
	Username  string          // Empty for anonymous local play
	Preset    string          // Registry preset; empty selects the default
	Config    config.Source   // Read at every new game; nil uses the defaults
	Seed      int64           // 0 seeds from the clock
	HighScore int             // Best score known before this session
	Presenter snake.Presenter // Receives every snapshot under the session lock; must not call back
	Reporter  Reporter        // Receives finished games; may be nil
	Logger    *log.Logger
}

// Session is the single critical section around one Engine. Every engine
// call goes through its mutex, so input can never overlap a tick.
type Session struct {
	id     ID
	opts   Options
	logger *log.Logger
	seeds  *rand.Rand

	mu        sync.Mutex
	engine    *snake.Engine
	game      int  // Games started in this session
	reported  bool // Current game already reported
	highScore int
}

// New creates a session and starts its first game.
func New(opts Options) (*Session, error) {
	if opts.Config == nil {
		opts.Config = config.Static(config.DefaultSnakeConfig())
	}
	if opts.Preset == "" {
		opts.Preset = snake.DefaultPreset
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	s := &Session{
		id:        NewID(),
		opts:      opts,
		seeds:     rand.New(rand.NewSource(opts.Seed)),
		highScore: opts.HighScore,
	}
	s.logger = opts.Logger.WithPrefix("session").With("id", string(s.id)[:8])
	if opts.Username != "" {
		s.logger = s.logger.With("user", opts.Username)
	}

	if _, err := s.NewGame(); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() ID {
	return s.id
}

// Username returns the player the session belongs to.
func (s *Session) Username() string {
	return s.opts.Username
}

// Preset returns the preset every game in this session uses.
func (s *Session) Preset() string {
	return s.opts.Preset
}

// NewGame discards the current game, finished or not, and starts a fresh one
// with the configuration the source holds right now.
func (s *Session) NewGame() (snake.Snapshot, error) {
	cfg, err := snake.ResolveConfig(s.opts.Config.Current(), s.opts.Preset)
	if err != nil {
		return snake.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	engine, err := snake.NewEngine(cfg, s.seeds.Int63(), s.opts.Presenter)
	if err != nil {
		return snake.Snapshot{}, err
	}
	s.engine = engine
	s.game++
	s.reported = false

	s.logger.Debug("new game", "game", s.game, "board", cfg.Board.Size)
	snap := engine.Snapshot()
	if s.opts.Presenter != nil {
		s.opts.Presenter.Present(snap)
	}
	return snap, nil
}

// Tick advances the game by one step.
func (s *Session) Tick() snake.Snapshot {
	s.mu.Lock()
	snap := s.engine.Tick()
	result, finished := s.finishLocked(snap)
	s.mu.Unlock()

	if finished {
		s.report(result)
	}
	return snap
}

// ChangeDirection forwards a steering command.
func (s *Session) ChangeDirection(d snake.Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ChangeDirection(d)
}

// Pause pauses the current game.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Pause()
}

// Resume resumes the current game.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Resume()
}

// End finishes the current game, reporting its score if it had not ended yet.
func (s *Session) End() {
	s.mu.Lock()
	s.engine.End()
	result, finished := s.finishLocked(s.engine.Snapshot())
	s.mu.Unlock()

	if finished {
		s.report(result)
	}
}

// Apply performs the command an Action stands for.
// Actions that are not game commands are ignored.
func (s *Session) Apply(a core.Action) error {
	switch a {
	case core.ActionUp:
		s.ChangeDirection(snake.DirUp)
	case core.ActionDown:
		s.ChangeDirection(snake.DirDown)
	case core.ActionLeft:
		s.ChangeDirection(snake.DirLeft)
	case core.ActionRight:
		s.ChangeDirection(snake.DirRight)
	case core.ActionPause:
		s.Pause()
	case core.ActionResume:
		s.Resume()
	case core.ActionNewGame:
		_, err := s.NewGame()
		return err
	}
	return nil
}

// Snapshot returns the current game's snapshot.
func (s *Session) Snapshot() snake.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// Interval returns the current game's tick interval.
func (s *Session) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Interval()
}

// Config returns the resolved configuration of the current game.
func (s *Session) Config() config.SnakeConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Config()
}

// HighScore returns the best score seen by this session, including the
// score it was seeded with.
func (s *Session) HighScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highScore
}

// Run ticks the game until ctx is cancelled. The delay before each tick is
// re-read from the engine, so a level-up takes effect on the next tick.
// Paused and finished games keep polling at the current interval.
func (s *Session) Run(ctx context.Context) error {
	timer := time.NewTimer(s.Interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			s.Tick()
			timer.Reset(s.Interval())
		}
	}
}

// finishLocked records a game that just ended. Must hold s.mu.
func (s *Session) finishLocked(snap snake.Snapshot) (Result, bool) {
	if snap.State != snake.StateGameOver || s.reported {
		return Result{}, false
	}
	s.reported = true
	s.highScore = max(s.highScore, snap.Score)

	return Result{
		SessionID: s.id,
		Username:  s.opts.Username,
		Preset:    s.opts.Preset,
		Score:     snap.Score,
		Level:     snap.Level,
		Ticks:     snap.Tick,
	}, true
}

func (s *Session) report(r Result) {
	s.logger.Info("game over", "score", r.Score, "level", r.Level, "ticks", r.Ticks)
	if s.opts.Reporter == nil {
		return
	}
	if err := s.opts.Reporter.Report(r); err != nil {
		s.logger.Error("cannot report score", "error", err)
	}
}
