package snake

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-snake/internal/config"
)

// Engine advances one game: it owns the State, the Wall and the treat RNG.
// Engine is not safe for concurrent use; callers serialize Tick and input
// (see session.Session).
type Engine struct {
	cfg       config.SnakeConfig
	wall      Wall
	state     *State
	rng       *rand.Rand
	presenter Presenter
}

// NewEngine validates cfg and sets up a fresh game. The seed drives treat
// placement, so equal seeds and equal input replay the same game.
// The presenter may be nil.
func NewEngine(cfg config.SnakeConfig, seed int64, presenter Presenter) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("snake: %w", err)
	}

	return &Engine{
		cfg:       cfg,
		wall:      NewWall(cfg.Board.Size),
		state:     NewState(cfg),
		rng:       rand.New(rand.NewSource(seed)),
		presenter: presenter,
	}, nil
}

// Config returns the configuration the game was started with.
func (e *Engine) Config() config.SnakeConfig {
	return e.cfg
}

// Wall returns the board perimeter.
func (e *Engine) Wall() Wall {
	return e.wall
}

// State returns the current state machine label.
func (e *Engine) State() StateLabel {
	switch {
	case e.state.gameOver:
		return StateGameOver
	case e.state.paused:
		return StatePaused
	default:
		return StateRunning
	}
}

// Interval returns the delay before the next tick should run.
func (e *Engine) Interval() time.Duration {
	return time.Duration(e.state.intervalMillis) * time.Millisecond
}

// Snapshot copies the current state for presentation.
func (e *Engine) Snapshot() Snapshot {
	st := e.state
	treat, hasTreat := st.Treat()
	return Snapshot{
		Tick:           st.ticks,
		Level:          st.level,
		Score:          st.score,
		Direction:      st.direction,
		State:          e.State(),
		Snake:          st.Body(),
		Treat:          treat,
		HasTreat:       hasTreat,
		IntervalMillis: st.intervalMillis,
		BoardSize:      e.cfg.Board.Size,
		Wall:           e.wall.Cells(),
	}
}

// Pause stops the game. Ignored unless running.
func (e *Engine) Pause() {
	if e.State() != StateRunning {
		return
	}
	e.state.paused = true
	e.emit()
}

// Resume continues a paused game. Ignored unless paused.
func (e *Engine) Resume() {
	if e.State() != StatePaused {
		return
	}
	e.state.paused = false
	e.emit()
}

// End forces the game over, for example when the player quits mid-game.
func (e *Engine) End() {
	if e.state.gameOver {
		return
	}
	e.state.gameOver = true
	e.emit()
}

// ChangeDirection requests a new heading and reports whether it was taken.
// Only one change lands per tick, and reversing onto the body is refused.
func (e *Engine) ChangeDirection(d Direction) bool {
	if e.State() != StateRunning {
		return false
	}
	if d == e.state.direction.Opposite() {
		return false
	}
	if e.state.KeyAcceptedThisTick() {
		return false
	}
	e.state.SetDirection(d)
	return true
}

// Tick runs one simulation step and returns the resulting snapshot.
// Outside the running state it changes nothing.
func (e *Engine) Tick() Snapshot {
	if e.State() != StateRunning {
		return e.Snapshot()
	}

	st := e.state
	e.updateTreat()

	next := st.Head().Add(st.direction.Vector())
	treat, hasTreat := st.Treat()
	grow := hasTreat && next == treat

	// The tail moves out of the way unless the snake grows this tick.
	remaining := st.Len()
	if !grow {
		remaining--
	}
	if e.wall.Contains(next) || st.Occupies(next, remaining) {
		st.gameOver = true
		return e.emit()
	}

	st.PushHead(next)
	if grow {
		st.AddScore(st.level)
		st.ClearTreat()
	} else {
		st.PopTail()
	}

	st.advance()
	if st.ticks%e.cfg.Speed.LevelIntervalTicks == 0 {
		st.levelUp(e.cfg.Speed.StepMillis, e.cfg.Speed.MinIntervalMillis)
	}

	return e.emit()
}

func (e *Engine) emit() Snapshot {
	snap := e.Snapshot()
	if e.presenter != nil {
		e.presenter.Present(snap)
	}
	return snap
}

// updateTreat expires a stale treat and places a new one when none exists.
func (e *Engine) updateTreat() {
	st := e.state
	if _, ok := st.Treat(); ok && st.TreatAge() >= e.cfg.Treats.RepositionTicks {
		st.ClearTreat()
	}
	if _, ok := st.Treat(); ok {
		return
	}
	if p, ok := e.pickTreatCell(); ok {
		st.SetTreat(p)
	}
}

// pickTreatCell samples interior cells at random, then falls back to a
// uniform choice among every free cell so a crowded board cannot stall.
func (e *Engine) pickTreatCell() (Point, bool) {
	interior := e.cfg.Board.Size - 2

	for range e.cfg.Treats.PlacementAttempts {
		p := Point{X: 1 + e.rng.Intn(interior), Y: 1 + e.rng.Intn(interior)}
		if e.isFree(p) {
			return p, true
		}
	}

	free := e.freeCells()
	if len(free) == 0 {
		return Point{}, false
	}
	return free[e.rng.Intn(len(free))], true
}

func (e *Engine) isFree(p Point) bool {
	return !e.wall.Contains(p) && !e.state.Occupies(p, -1)
}

func (e *Engine) freeCells() []Point {
	var cells []Point
	for y := 1; y < e.cfg.Board.Size-1; y++ {
		for x := 1; x < e.cfg.Board.Size-1; x++ {
			if p := (Point{X: x, Y: y}); e.isFree(p) {
				cells = append(cells, p)
			}
		}
	}
	return cells
}
