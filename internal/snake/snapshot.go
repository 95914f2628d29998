package snake

// StateLabel names the engine's state machine position.
type StateLabel string

const (
	StateRunning  StateLabel = "Running"
	StatePaused   StateLabel = "Paused"
	StateGameOver StateLabel = "GameOver"
)

// Snapshot is an immutable copy of everything a presentation needs to draw
// one frame. Slices are copies; holding on to a Snapshot never aliases the
// engine's state.
type Snapshot struct {
	Tick           int        `json:"tick"`
	Level          int        `json:"level"`
	Score          int        `json:"score"`
	Direction      Direction  `json:"direction"`
	State          StateLabel `json:"state"`
	Snake          []Point    `json:"snake"`
	Treat          Point      `json:"treat"`
	HasTreat       bool       `json:"has_treat"`
	IntervalMillis int        `json:"interval_millis"`
	BoardSize      int        `json:"board_size"`
	Wall           []Point    `json:"wall,omitempty"`
}

// Head returns the snake's head cell, or false for an empty snapshot.
func (s Snapshot) Head() (Point, bool) {
	if len(s.Snake) == 0 {
		return Point{}, false
	}
	return s.Snake[0], true
}

// Presenter receives a snapshot after every tick and every pause, resume
// or game-over transition. Implementations must not block for long and must
// not modify the snapshot.
type Presenter interface {
	Present(Snapshot)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(Snapshot)

// Present calls f(s).
func (f PresenterFunc) Present(s Snapshot) {
	f(s)
}
