package snake

import "github.com/vovakirdan/tui-snake/internal/config"

// State is the mutable simulation state of one game.
// It holds data plus the few mutators that keep its invariants;
// every policy decision lives in Engine.
type State struct {
	snake     []Point // Head at index 0, never empty
	treat     Point
	hasTreat  bool
	direction Direction
	score     int
	level     int
	ticks     int

	lastKeyTick   int // Tick of the last accepted direction change, -1 if none
	lastTreatTick int // Tick the current treat was placed

	intervalMillis int
	paused         bool
	gameOver       bool
}

// NewState builds the starting position: a vertical snake centered
// horizontally, head at y = length and tail at y = 1, facing up.
func NewState(cfg config.SnakeConfig) *State {
	length := cfg.Board.InitialSnakeLength
	x := cfg.Board.Size / 2

	body := make([]Point, 0, length)
	for y := length; y >= 1; y-- {
		body = append(body, Point{X: x, Y: y})
	}

	return &State{
		snake:          body,
		direction:      DirUp,
		level:          1,
		lastKeyTick:    -1,
		intervalMillis: cfg.Speed.InitialIntervalMillis,
	}
}

// Head returns the snake's head cell.
func (s *State) Head() Point {
	if len(s.snake) == 0 {
		panic("snake: empty body")
	}
	return s.snake[0]
}

// Tail returns the snake's last cell.
func (s *State) Tail() Point {
	if len(s.snake) == 0 {
		panic("snake: empty body")
	}
	return s.snake[len(s.snake)-1]
}

// Len returns the snake length.
func (s *State) Len() int {
	return len(s.snake)
}

// Body returns a copy of the snake cells, head first.
func (s *State) Body() []Point {
	return append([]Point(nil), s.snake...)
}

// PushHead prepends a new head.
func (s *State) PushHead(p Point) {
	s.snake = append(s.snake, Point{})
	copy(s.snake[1:], s.snake)
	s.snake[0] = p
}

// PopTail removes the last cell. The snake must keep at least one cell.
func (s *State) PopTail() Point {
	if len(s.snake) <= 1 {
		panic("snake: cannot pop the only body cell")
	}
	tail := s.snake[len(s.snake)-1]
	s.snake = s.snake[:len(s.snake)-1]
	return tail
}

// Occupies reports whether p is one of the first n body cells.
// A negative n checks the whole body.
func (s *State) Occupies(p Point, n int) bool {
	if n < 0 || n > len(s.snake) {
		n = len(s.snake)
	}
	for _, c := range s.snake[:n] {
		if c == p {
			return true
		}
	}
	return false
}

// Direction returns the current heading.
func (s *State) Direction() Direction {
	return s.direction
}

// SetDirection changes the heading and records the tick it happened on.
func (s *State) SetDirection(d Direction) {
	s.direction = d
	s.lastKeyTick = s.ticks
}

// KeyAcceptedThisTick reports whether a direction change already landed
// during the current tick.
func (s *State) KeyAcceptedThisTick() bool {
	return s.lastKeyTick == s.ticks
}

// AddScore increases the score by n.
func (s *State) AddScore(n int) {
	if n < 0 {
		panic("snake: negative score increment")
	}
	s.score += n
}

// Treat returns the current treat and whether one exists.
func (s *State) Treat() (Point, bool) {
	return s.treat, s.hasTreat
}

// SetTreat places a treat and records the tick it appeared on.
func (s *State) SetTreat(p Point) {
	s.treat = p
	s.hasTreat = true
	s.lastTreatTick = s.ticks
}

// ClearTreat removes the current treat.
func (s *State) ClearTreat() {
	s.treat = Point{}
	s.hasTreat = false
}

// TreatAge returns how many ticks the current treat has existed.
func (s *State) TreatAge() int {
	return s.ticks - s.lastTreatTick
}

// Score returns the current score.
func (s *State) Score() int { return s.score }

// Level returns the current level, starting at 1.
func (s *State) Level() int { return s.level }

// Ticks returns the number of completed ticks.
func (s *State) Ticks() int { return s.ticks }

// IntervalMillis returns the current tick interval.
func (s *State) IntervalMillis() int { return s.intervalMillis }

// Paused reports whether the game is paused.
func (s *State) Paused() bool { return s.paused }

// GameOver reports whether the game has ended.
func (s *State) GameOver() bool { return s.gameOver }

func (s *State) advance() {
	s.ticks++
}

func (s *State) levelUp(stepMillis, minMillis int) {
	s.level++
	s.intervalMillis = max(minMillis, s.intervalMillis-stepMillis)
}
