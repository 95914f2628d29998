package snapshotimg

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/snake"
)

func testSnapshot(t *testing.T) snake.Snapshot {
	t.Helper()
	e, err := snake.NewEngine(config.DefaultSnakeConfig(), 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	return e.Tick()
}

func TestRenderSize(t *testing.T) {
	snap := testSnapshot(t)

	for _, px := range []int{1, 4, 20} {
		img := Render(snap, Options{PixelSize: px, Grid: true})
		b := img.Bounds()
		if b.Dx() != 15*px || b.Dy() != 15*px {
			t.Errorf("PixelSize %d: image is %dx%d, expected %dx%d", px, b.Dx(), b.Dy(), 15*px, 15*px)
		}
	}
}

func TestRenderColors(t *testing.T) {
	snap := testSnapshot(t)
	img := Render(snap, Options{PixelSize: 10})

	// Head is at (7,4): column 7, row 14-4 = 10. Sample its center.
	r, g, b, _ := img.At(7*10+5, 10*10+5).RGBA()
	if g <= r || g <= b {
		t.Errorf("head pixel = (%d,%d,%d), expected green", r>>8, g>>8, b>>8)
	}

	// An empty interior cell stays white.
	empty := snake.Point{X: 2, Y: 12}
	if snap.HasTreat && snap.Treat == empty {
		empty = snake.Point{X: 3, Y: 12}
	}
	r, g, b, _ = img.At(empty.X*10+5, (14-empty.Y)*10+5).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("empty pixel = (%d,%d,%d), expected white", r>>8, g>>8, b>>8)
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, testSnapshot(t), Options{PixelSize: 3}); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 45 {
		t.Errorf("width = %d, expected 45", img.Bounds().Dx())
	}
}

func TestWritePNGMaxSide(t *testing.T) {
	tests := []struct {
		maxSide  int
		expected int
	}{
		{0, 300},
		{100, 100},
		{500, 300},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		if err := WritePNG(&buf, testSnapshot(t), Options{PixelSize: 20, MaxSide: tt.maxSide}); err != nil {
			t.Fatalf("WritePNG failed: %v", err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			t.Fatalf("output is not a PNG: %v", err)
		}
		if got := img.Bounds().Dx(); got != tt.expected {
			t.Errorf("MaxSide %d: width = %d, expected %d", tt.maxSide, got, tt.expected)
		}
	}
}

func TestSaveFileAndThumbnail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shots", "board.png")
	if err := SaveFile(path, testSnapshot(t), Options{PixelSize: 20}); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	img, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("cannot reopen %s: %v", path, err)
	}

	thumb := Thumbnail(img, 100)
	if b := thumb.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("thumbnail is %dx%d, expected 100x100", b.Dx(), b.Dy())
	}
	if Thumbnail(img, 1000) != img {
		t.Error("Thumbnail should not enlarge images")
	}
}

func TestGameOverIsDimmed(t *testing.T) {
	snap := testSnapshot(t)
	live := Render(snap, Options{PixelSize: 10})

	snap.State = snake.StateGameOver
	over := Render(snap, Options{PixelSize: 10})

	lr, _, _, _ := live.At(25, 25).RGBA()
	or, _, _, _ := over.At(25, 25).RGBA()
	if or >= lr {
		t.Errorf("game over image should be darker: %d vs %d", or>>8, lr>>8)
	}
}
