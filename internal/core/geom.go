// Package core provides fundamental types and utilities shared by the
// presentations. It contains no external dependencies (especially no Bubble
// Tea) so rendering helpers stay pure and testable.
package core

// Rect represents an axis-aligned area on a Screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// CenteredIn returns a w x h rectangle centered inside outer.
func CenteredIn(outer Rect, w, h int) Rect {
	cx, cy := outer.Center()
	return NewRect(cx-w/2, cy-h/2, w, h)
}
