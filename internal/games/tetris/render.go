package tetris

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

const (
	sideW = 8 // width of the hold and next columns
	cellW = 2 // board cells are two characters wide
)

const (
	blockRune = '█'
	ghostRune = '░'
	dotRune   = '·'
)

// PanelSize returns the screen area one player's panel needs: a title row,
// the bordered board and a column on each side.
func PanelSize(p *Player) (w, h int) {
	return sideW + p.Field().Width()*cellW + 2 + sideW, p.Visible() + 3
}

// DrawPanel draws a player's board, hold slot, preview and stats with the
// panel's top-left corner at (x, y).
func DrawPanel(dst *core.Screen, p *Player, x, y int, title string, notes []string) {
	w, _ := PanelSize(p)
	dst.DrawTextColor(x+(w-len(title))/2, y, title, core.ColorWhite)

	bx, by := x+sideW, y+1
	drawBoard(dst, p, bx, by)
	drawGarbageMeter(dst, p, bx-1, by)
	drawHold(dst, p, x, by)
	drawStats(dst, p, x, by+5)
	drawNext(dst, p, bx+p.Field().Width()*cellW+2, by)

	inner := p.Field().Width() * cellW
	for i, note := range notes {
		if i >= 3 {
			break
		}
		if len(note) > inner {
			note = note[:inner]
		}
		dst.DrawTextColor(bx+1+(inner-len(note))/2, by+2+i, note, core.ColorYellow)
	}
}

// dangerRows is how close to the top of the visible area the stack may
// grow before the board border turns red.
const dangerRows = 4

func inDanger(p *Player) bool {
	return p.Field().StackHeight() > p.Visible()-dangerRows
}

func drawBoard(dst *core.Screen, p *Player, bx, by int) {
	f := p.Field()
	visible := p.Visible()
	top := f.Height() - visible
	border := core.ColorWhite
	if inDanger(p) {
		border = core.ColorRed
	}
	dst.DrawBox(core.NewRect(bx, by, f.Width()*cellW+2, visible+2), border)

	plot := func(x, y int, r rune, c core.Color) {
		if y < top || y >= f.Height() {
			return
		}
		sx, sy := bx+1+x*cellW, by+1+y-top
		dst.SetCell(sx, sy, r, c)
		dst.SetCell(sx+1, sy, r, c)
	}

	for y := top; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			if c := f.Cell(x, y); c != Empty {
				plot(x, y, blockRune, c)
				continue
			}
			dst.SetCell(bx+1+x*cellW, by+1+y-top, ' ', core.ColorNone)
			dst.SetCell(bx+2+x*cellW, by+1+y-top, dotRune, core.ColorDim)
		}
	}

	if !p.Active() {
		return
	}
	piece := p.Piece()
	ghost := piece.Clone()
	ghost.Y = p.Ghost()
	ghost.Cells(func(x, y int) bool {
		plot(x, y, ghostRune, core.ColorDim)
		return true
	})
	color := piece.Kind.Color()
	piece.Cells(func(x, y int) bool {
		plot(x, y, blockRune, color)
		return true
	})
}

// drawGarbageMeter shows queued incoming garbage as a red bar rising from
// the bottom of the board.
func drawGarbageMeter(dst *core.Screen, p *Player, x, by int) {
	n := min(p.GarbageQueued(), p.Visible())
	bottom := by + p.Visible()
	for i := 0; i < n; i++ {
		dst.SetCell(x, bottom-i, '▐', core.ColorRed)
	}
}

func drawHold(dst *core.Screen, p *Player, x, y int) {
	dst.DrawBox(core.NewRect(x, y, sideW-1, 4), core.ColorWhite)
	dst.DrawText(x+1, y, "HOLD")
	k, ok := p.Held()
	if !ok {
		return
	}
	color := k.Color()
	if p.HoldUsed() {
		color = core.ColorDim
	}
	drawMini(dst, k, x+1, y+1, color)
}

func drawNext(dst *core.Screen, p *Player, x, y int) {
	preview := p.Preview()
	if len(preview) == 0 {
		return
	}
	dst.DrawBox(core.NewRect(x, y, sideW-1, len(preview)*3+1), core.ColorWhite)
	dst.DrawText(x+1, y, "NEXT")
	for i, k := range preview {
		drawMini(dst, k, x+1, y+1+i*3, k.Color())
	}
}

// drawMini draws the filled rows of a kind's spawn shape, one character
// per cell.
func drawMini(dst *core.Screen, k Kind, x, y int, c core.Color) {
	row := 0
	for _, cols := range SpawnShape(k) {
		filled := false
		for i, on := range cols {
			if on {
				dst.SetCell(x+1+i, y+row, blockRune, c)
				filled = true
			}
		}
		if filled {
			row++
		}
	}
}

func drawStats(dst *core.Screen, p *Player, x, y int) {
	st := p.Stats()
	lines := []struct {
		label string
		value int
	}{
		{"SCORE", st.Score},
		{"LINES", st.Lines},
		{"LEVEL", st.Level},
		{"SENT", st.Sent},
	}
	for i, l := range lines {
		dst.DrawTextColor(x, y+i*2, l.label, core.ColorDim)
		dst.DrawText(x, y+i*2+1, fitNumber(l.value, sideW-1))
	}
	if p.GarbageQueued() > 0 {
		dst.DrawTextColor(x, y+8, fmt.Sprintf("IN %d", p.GarbageQueued()), core.ColorRed)
	}
}

func fitNumber(v, width int) string {
	s := fmt.Sprintf("%d", v)
	if len(s) > width {
		return strings.Repeat("9", width)
	}
	return s
}

// drawOverlay draws a framed two-line message in the middle of dst.
func drawOverlay(dst *core.Screen, title, subtitle string) {
	w := max(len(title), len([]rune(subtitle))) + 4
	h := 4
	r := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			dst.SetCell(x, y, ' ', core.ColorNone)
		}
	}
	dst.DrawBox(r, core.ColorYellow)
	dst.DrawTextColor(r.X+(w-len(title))/2, r.Y+1, title, core.ColorYellow)
	dst.DrawText(r.X+(w-len([]rune(subtitle)))/2, r.Y+2, subtitle)
}
