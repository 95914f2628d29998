// Package snapshotimg draws snake snapshots as images, for terminal
// screenshots and the web board endpoint.
package snapshotimg

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/vovakirdan/tui-snake/internal/snake"
)

// Options controls the output image.
type Options struct {
	PixelSize int  // Side of one board cell in pixels
	Grid      bool // Draw cell borders
	MaxSide   int  // WritePNG scales down to fit this many pixels; 0 keeps full size
}

// Render draws the board. The image is BoardSize*PixelSize pixels square,
// with +y pointing up as on the terminal board. Finished games come out
// blurred and dimmed.
func Render(snap snake.Snapshot, opts Options) image.Image {
	px := max(opts.PixelSize, 1)
	side := snap.BoardSize * px
	dc := gg.NewContext(side, side)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	cell := func(p snake.Point) (float64, float64) {
		return float64(p.X * px), float64((snap.BoardSize - 1 - p.Y) * px)
	}
	fillCell := func(p snake.Point) {
		x, y := cell(p)
		dc.DrawRectangle(x, y, float64(px), float64(px))
		dc.Fill()
	}

	if opts.Grid {
		renderGrid(dc, side, px)
	}

	dc.SetRGB(0.35, 0.35, 0.35)
	for _, p := range snap.Wall {
		fillCell(p)
	}

	if snap.HasTreat {
		x, y := cell(snap.Treat)
		r := float64(px) / 2
		dc.SetRGB(0.85, 0.1, 0.1)
		dc.DrawCircle(x+r, y+r, r*0.8)
		dc.Fill()
	}

	for i := len(snap.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			dc.SetRGB(0.05, 0.45, 0.1)
		} else {
			dc.SetRGB(0.2, 0.7, 0.25)
		}
		fillCell(snap.Snake[i])
	}

	img := dc.Image()
	if snap.State == snake.StateGameOver {
		img = imaging.AdjustBrightness(imaging.Blur(img, float64(px)/4), -30)
	}
	return img
}

func renderGrid(dc *gg.Context, side, step int) {
	dc.SetRGB(0.9, 0.9, 0.9)
	dc.SetLineWidth(1)
	for x := 0; x <= side; x += step {
		dc.DrawLine(float64(x), 0, float64(x), float64(side))
		dc.Stroke()
	}
	for y := 0; y <= side; y += step {
		dc.DrawLine(0, float64(y), float64(side), float64(y))
		dc.Stroke()
	}
}

// Thumbnail scales img so its longer side is at most size pixels.
// Images already small enough are returned unchanged.
func Thumbnail(img image.Image, size int) image.Image {
	b := img.Bounds()
	if size <= 0 || (b.Dx() <= size && b.Dy() <= size) {
		return img
	}
	return imaging.Fit(img, size, size, imaging.Lanczos)
}

// WritePNG encodes the rendered board as PNG, fitted to opts.MaxSide.
func WritePNG(w io.Writer, snap snake.Snapshot, opts Options) error {
	img := Thumbnail(Render(snap, opts), opts.MaxSide)
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("snapshotimg: cannot encode png: %w", err)
	}
	return nil
}

// SaveFile renders the board into a PNG file, creating parent directories.
func SaveFile(path string, snap snake.Snapshot, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshotimg: cannot create directory: %w", err)
	}
	if err := imaging.Save(Render(snap, opts), path); err != nil {
		return fmt.Errorf("snapshotimg: cannot save %s: %w", path, err)
	}
	return nil
}
