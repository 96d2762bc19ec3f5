package tetris

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

const (
	// DefaultWidth is the standard playfield width.
	DefaultWidth = 10
	// DefaultVisible is the number of rows shown to the player.
	DefaultVisible = 20
	// DefaultHeight includes an equal amount of headroom above the
	// visible rows so pieces can spawn and be pushed up by garbage.
	DefaultHeight = 40
)

// Empty is the color of an unoccupied cell.
const Empty = core.ColorNone

// GarbageColor fills materialized garbage rows.
const GarbageColor = core.ColorGray

// Rand is the source used to pick garbage holes.
type Rand interface {
	Intn(n int) int
}

// Field is a fixed-size grid of colored cells, row 0 at the top.
//
// Rows live in one arena allocated up front; clearing and garbage only
// reorder the row views and wipe buffers, so the dimensions never change
// and steady-state play does not allocate.
type Field struct {
	width  int
	height int
	arena  []core.Color
	rows   [][]core.Color
	freed  [][]core.Color
	rng    Rand

	// LastRotationApplied is true when the last successful action on the
	// active piece was a rotation that left it unable to descend.
	LastRotationApplied bool
	// LastKickIndex is the index of the kick candidate used by the last
	// successful rotation (0 means no offset).
	LastKickIndex int
	// Combo counts consecutive clearing locks, -1 when idle.
	Combo int
	// BackToBack counts consecutive difficult clears, -1 when idle.
	BackToBack int
	// GarbageQueued is incoming attack not yet on the board.
	GarbageQueued int
}

// NewField allocates a width x height field. rng picks garbage holes; a nil
// rng gets a fixed-seed source so behaviour stays reproducible.
func NewField(width, height int, rng Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	f := &Field{
		width:  width,
		height: height,
		arena:  make([]core.Color, width*height),
		rows:   make([][]core.Color, height),
		freed:  make([][]core.Color, 0, height),
		rng:    rng,
	}
	for y := range f.rows {
		f.rows[y] = f.arena[y*width : (y+1)*width : (y+1)*width]
	}
	f.resetCounters()
	return f
}

// Width returns the number of columns.
func (f *Field) Width() int { return f.width }

// Height returns the number of rows, headroom included.
func (f *Field) Height() int { return f.height }

// Reset empties every cell and clears all counters.
func (f *Field) Reset() {
	clear(f.arena)
	for y := range f.rows {
		f.rows[y] = f.arena[y*f.width : (y+1)*f.width : (y+1)*f.width]
	}
	f.resetCounters()
}

func (f *Field) resetCounters() {
	f.LastRotationApplied = false
	f.LastKickIndex = 0
	f.Combo = -1
	f.BackToBack = -1
	f.GarbageQueued = 0
}

// Cell returns the color at (x, y); out-of-range positions read as Empty.
func (f *Field) Cell(x, y int) core.Color {
	if !f.inBounds(x, y) {
		return Empty
	}
	return f.rows[y][x]
}

// SetCell writes a color at (x, y). Out-of-range writes are ignored.
func (f *Field) SetCell(x, y int, c core.Color) {
	if f.inBounds(x, y) {
		f.rows[y][x] = c
	}
}

// Rows returns a copy of the grid for renderers and tests.
func (f *Field) Rows() [][]core.Color {
	out := make([][]core.Color, f.height)
	for y, row := range f.rows {
		out[y] = append([]core.Color(nil), row...)
	}
	return out
}

func (f *Field) inBounds(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

// blocked reports whether (x, y) is outside the field or filled.
func (f *Field) blocked(x, y int) bool {
	return !f.inBounds(x, y) || f.rows[y][x] != Empty
}

// CheckCollision reports whether p shifted by (dx, dy) would overlap a
// filled cell or leave the field. It stops at the first offending cell.
func (f *Field) CheckCollision(p *Piece, dx, dy int) bool {
	hit := false
	p.Cells(func(x, y int) bool {
		if f.blocked(x+dx, y+dy) {
			hit = true
			return false
		}
		return true
	})
	return hit
}

// Place writes the piece's color into the field. A colliding piece is
// rejected with ErrCollision and nothing is written.
func (f *Field) Place(p *Piece) error {
	if f.CheckCollision(p, 0, 0) {
		return fmt.Errorf("place %s at (%d, %d): %w", p.Kind, p.X, p.Y, ErrCollision)
	}
	color := p.Kind.Color()
	p.Cells(func(x, y int) bool {
		f.rows[y][x] = color
		return true
	})
	return nil
}

// IsEmpty reports whether no cell is filled.
func (f *Field) IsEmpty() bool {
	for _, c := range f.arena {
		if c != Empty {
			return false
		}
	}
	return true
}

// StackHeight returns the height of the tallest column, counted from the bottom.
func (f *Field) StackHeight() int {
	for y, row := range f.rows {
		for _, c := range row {
			if c != Empty {
				return f.height - y
			}
		}
	}
	return 0
}

func (f *Field) rowFull(y int) bool {
	for _, c := range f.rows[y] {
		if c == Empty {
			return false
		}
	}
	return true
}

// removeRows drops the rows listed in full and brings the same number of
// empty rows in at the top. Row buffers are recycled, not reallocated.
func (f *Field) removeRows(full []int) {
	marked := func(y int) bool {
		for _, r := range full {
			if r == y {
				return true
			}
		}
		return false
	}

	f.freed = f.freed[:0]
	write := f.height - 1
	for y := f.height - 1; y >= 0; y-- {
		if marked(y) {
			f.freed = append(f.freed, f.rows[y])
			continue
		}
		f.rows[write] = f.rows[y]
		write--
	}
	for _, row := range f.freed {
		clear(row)
		f.rows[write] = row
		write--
	}
}

// materializeGarbage replaces the bottom n rows with garbage rows, each
// full except one hole picked independently per row.
func (f *Field) materializeGarbage(n int) {
	n = min(n, f.height)
	for y := f.height - n; y < f.height; y++ {
		row := f.rows[y]
		hole := f.rng.Intn(f.width)
		for x := range row {
			if x == hole {
				row[x] = Empty
			} else {
				row[x] = GarbageColor
			}
		}
	}
}
