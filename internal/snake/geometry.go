// Package snake implements the tick-based snake engine: board geometry, the
// mutable game state and the state machine that advances it.
//
// The package never draws anything itself beyond the optional Render helper;
// presentations receive immutable Snapshots through the Presenter interface.
package snake

import (
	"fmt"
	"strings"
)

// Point is a cell on the board grid. The y axis increases upward.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p moved by the vector v.
func (p Point) Add(v Point) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Direction represents the snake's movement direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Vector returns the unit step for the direction.
func (d Direction) Vector() Point {
	switch d {
	case DirUp:
		return Point{X: 0, Y: 1}
	case DirDown:
		return Point{X: 0, Y: -1}
	case DirLeft:
		return Point{X: -1, Y: 0}
	case DirRight:
		return Point{X: 1, Y: 0}
	default:
		panic(fmt.Sprintf("snake: invalid direction %d", int(d)))
	}
}

// Opposite returns the direct reverse of d.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// MarshalText encodes the direction by name for JSON snapshots.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection converts a case-insensitive name into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	default:
		return 0, fmt.Errorf("snake: unknown direction %q", s)
	}
}

// ComputeWall returns the outer ring of an N x N board: every cell with
// x in {0, N-1} or y in {0, N-1}, each exactly once.
func ComputeWall(boardSize int) []Point {
	if boardSize <= 0 {
		return nil
	}
	if boardSize == 1 {
		return []Point{{0, 0}}
	}

	last := boardSize - 1
	cells := make([]Point, 0, 4*last)

	// Left and right columns, corners included.
	for y := 0; y <= last; y++ {
		cells = append(cells, Point{0, y}, Point{last, y})
	}
	// Top and bottom rows between the columns.
	for x := 1; x < last; x++ {
		cells = append(cells, Point{x, 0}, Point{x, last})
	}
	return cells
}

// Wall is the immutable perimeter of a board.
type Wall struct {
	size  int
	cells []Point
	set   map[Point]struct{}
}

// NewWall computes the wall for a board of the given size.
func NewWall(boardSize int) Wall {
	cells := ComputeWall(boardSize)
	set := make(map[Point]struct{}, len(cells))
	for _, p := range cells {
		set[p] = struct{}{}
	}
	return Wall{size: boardSize, cells: cells, set: set}
}

// Contains reports whether p is a wall cell.
func (w Wall) Contains(p Point) bool {
	_, ok := w.set[p]
	return ok
}

// Cells returns a copy of the wall cells in trace order.
func (w Wall) Cells() []Point {
	return append([]Point(nil), w.cells...)
}

// Len returns the number of wall cells.
func (w Wall) Len() int {
	return len(w.cells)
}

// Size returns the board size the wall was computed for.
func (w Wall) Size() int {
	return w.size
}
