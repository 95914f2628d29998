package snake

import "testing"

func TestComputeWall(t *testing.T) {
	tests := []struct {
		size     int
		expected int
	}{
		{1, 1},
		{2, 4},
		{3, 8},
		{15, 56},
	}

	for _, tc := range tests {
		cells := ComputeWall(tc.size)
		if len(cells) != tc.expected {
			t.Errorf("ComputeWall(%d) has %d cells, expected %d", tc.size, len(cells), tc.expected)
		}

		seen := make(map[Point]bool)
		for _, p := range cells {
			if seen[p] {
				t.Errorf("ComputeWall(%d) repeats %v", tc.size, p)
			}
			seen[p] = true

			last := tc.size - 1
			onRing := p.X == 0 || p.X == last || p.Y == 0 || p.Y == last
			inBounds := p.X >= 0 && p.X <= last && p.Y >= 0 && p.Y <= last
			if !onRing || !inBounds {
				t.Errorf("ComputeWall(%d) includes non-perimeter cell %v", tc.size, p)
			}
		}
	}

	if ComputeWall(0) != nil {
		t.Error("ComputeWall(0) should be empty")
	}
}

func TestWallContains(t *testing.T) {
	w := NewWall(15)

	for _, p := range []Point{{0, 0}, {14, 14}, {0, 7}, {7, 14}} {
		if !w.Contains(p) {
			t.Errorf("wall should contain %v", p)
		}
	}
	for _, p := range []Point{{1, 1}, {7, 7}, {13, 13}} {
		if w.Contains(p) {
			t.Errorf("wall should not contain %v", p)
		}
	}
	if w.Len() != 56 || w.Size() != 15 {
		t.Errorf("Len/Size = %d/%d, expected 56/15", w.Len(), w.Size())
	}
}

func TestDirectionVectors(t *testing.T) {
	tests := []struct {
		dir      Direction
		expected Point
	}{
		{DirUp, Point{0, 1}},
		{DirDown, Point{0, -1}},
		{DirLeft, Point{-1, 0}},
		{DirRight, Point{1, 0}},
	}

	for _, tc := range tests {
		if got := tc.dir.Vector(); got != tc.expected {
			t.Errorf("%v.Vector() = %v, expected %v", tc.dir, got, tc.expected)
		}
		if got := tc.dir.Opposite().Vector(); got != (Point{-tc.expected.X, -tc.expected.Y}) {
			t.Errorf("%v.Opposite() is not the reverse vector", tc.dir)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range []Direction{DirUp, DirDown, DirLeft, DirRight} {
		got, err := ParseDirection(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDirection(%q) = %v, %v", d.String(), got, err)
		}
	}
	if _, err := ParseDirection("north"); err == nil {
		t.Error("ParseDirection(north) should fail")
	}

	var d Direction
	if err := d.UnmarshalText([]byte("LEFT")); err != nil || d != DirLeft {
		t.Errorf("UnmarshalText(LEFT) = %v, %v", d, err)
	}
}
