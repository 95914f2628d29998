package snake

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
)

const (
	hudHeight = 2
	cellWidth = 2 // Terminal cells are about twice as tall as wide
)

// Glyphs used on the character board.
const (
	glyphWall  = '█'
	glyphHead  = '●'
	glyphBody  = '○'
	glyphTreat = '◆'
)

// BoardScreenSize returns the screen size needed to draw a board of n cells.
func BoardScreenSize(n int) (w, h int) {
	return n * cellWidth, n + hudHeight
}

// Render draws the snapshot onto dst: a status line, a separator and the
// board centered below. The board is flipped so that +y points up.
func Render(dst *core.Screen, snap Snapshot, highScore int) {
	dst.Clear()
	renderHUD(dst, snap, highScore)

	needW, needH := BoardScreenSize(snap.BoardSize)
	if dst.Width() < needW || dst.Height() < needH {
		renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", needW, needH))
		return
	}

	offX := (dst.Width() - needW) / 2
	offY := hudHeight
	plot := func(p Point, r rune, c core.Color) {
		sx := offX + p.X*cellWidth
		sy := offY + (snap.BoardSize - 1 - p.Y)
		for i := range cellWidth {
			dst.SetColored(sx+i, sy, r, c)
		}
	}

	for _, p := range snap.Wall {
		plot(p, glyphWall, core.ColorGray)
	}
	if snap.HasTreat {
		plot(snap.Treat, glyphTreat, core.ColorBrightRed)
	}
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			plot(snap.Snake[i], glyphHead, core.ColorBrightGreen)
		} else {
			plot(snap.Snake[i], glyphBody, core.ColorGreen)
		}
	}

	switch snap.State {
	case StatePaused:
		renderOverlay(dst, "Paused", "Press R to resume")
	case StateGameOver:
		renderOverlay(dst, "Game Over", fmt.Sprintf("Score %d  -  N for a new game", snap.Score))
	}
}

func renderHUD(dst *core.Screen, snap Snapshot, highScore int) {
	hud := fmt.Sprintf(" Snake  Score: %d  Level: %d  Best: %d  %dms",
		snap.Score, snap.Level, max(highScore, snap.Score), snap.IntervalMillis)
	dst.DrawTextColored(0, 0, hud, core.ColorBrightYellow)
	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}
}

// renderOverlay draws a boxed two-line message in the middle of dst.
func renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(len([]rune(line1)), len([]rune(line2))) + 4
	box := core.CenteredIn(core.NewRect(0, 0, dst.Width(), dst.Height()), boxW, 5)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	drawCentered(dst, box, box.Y+1, line1, core.ColorBrightYellow)
	drawCentered(dst, box, box.Y+3, line2, core.ColorWhite)
}

func drawCentered(dst *core.Screen, box core.Rect, y int, text string, c core.Color) {
	x := box.X + (box.W-len([]rune(text)))/2
	dst.DrawTextColored(x, y, text, c)
}
