package pong

import (
	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/multiplayer"
	"github.com/vovakirdan/netpong/internal/world"
)

// Display characters
const (
	PaddleChar = '█'
	BallChar   = '●'
	NetChar    = '│'
)

// Render draws w scaled to fit dst. World units map linearly onto cells;
// every entity covers at least one cell.
func Render(dst *core.Screen, w world.World) {
	dst.Clear()

	if dst.Width() == 0 || dst.Height() == 0 {
		return
	}
	if w.Size.X <= 0 || w.Size.Y <= 0 {
		dst.DrawTextCentered(dst.Height()/2, "Waiting for players...", core.ColorGray)
		return
	}

	sx := float32(dst.Width()) / w.Size.X
	sy := float32(dst.Height()) / w.Size.Y

	// Net
	centerX := dst.Width() / 2
	for y := 0; y < dst.Height(); y += 2 {
		dst.Set(centerX, y, NetChar, core.ColorGray)
	}

	drawEntity(dst, w.Player1, sx, sy, PaddleChar, core.ColorCyan)
	drawEntity(dst, w.Player2, sx, sy, PaddleChar, core.ColorMagenta)

	// The ball is a single cell at its scaled center
	c := w.Ball.Center()
	dst.Set(int(c.X*sx), int(c.Y*sy), BallChar, core.ColorYellow)

	dst.DrawText(1, 0, "P1", core.ColorCyan)
	dst.DrawText(dst.Width()-3, 0, "P2", core.ColorMagenta)

	if w.Winner.Decided() {
		drawCenteredMessage(dst, WinnerText(w.Winner))
	}
}

// WinnerText returns the banner shown once a match is decided, or "" if not.
func WinnerText(o multiplayer.Outcome) string {
	if !o.Decided() {
		return ""
	}
	return "Winner is: " + o.String()
}

func drawEntity(dst *core.Screen, e world.Entity, sx, sy float32, r rune, c core.Color) {
	x := int(e.Position.X * sx)
	y := int(e.Position.Y * sy)
	w := max(1, int(e.Width()*sx))
	h := max(1, int(e.Height()*sy))
	dst.FillRect(x, y, w, h, r, c)
}

// drawCenteredMessage draws a padded banner in the middle of the screen.
func drawCenteredMessage(dst *core.Screen, text string) {
	boxW := len([]rune(text)) + 4
	boxX := (dst.Width() - boxW) / 2
	boxY := dst.Height()/2 - 1

	dst.FillRect(boxX, boxY, boxW, 3, ' ', core.ColorDefault)
	dst.DrawTextCentered(boxY+1, text, core.ColorBrightWhite)
}
