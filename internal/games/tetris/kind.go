// Package tetris implements a deterministic falling-block rules engine:
// SRS rotation with wall kicks, collision and placement on a fixed field,
// line clears with T-spin classification, combo and back-to-back tracking,
// and the attack/garbage exchange between two isolated sides.
//
// The engine itself never logs, sleeps or reads input; drivers in this
// package (Player, Game, Versus) and the platform layer do that.
package tetris

import "github.com/vovakirdan/tui-tetris/internal/core"

// Kind is one of the seven tetromino kinds.
type Kind int

const (
	KindI Kind = iota
	KindJ
	KindL
	KindO
	KindS
	KindT
	KindZ
)

// AllKinds lists the kinds in the canonical bag order.
var AllKinds = [...]Kind{KindI, KindJ, KindL, KindO, KindS, KindT, KindZ}

// String returns the one-letter name of the kind.
func (k Kind) String() string {
	if k < KindI || k > KindZ {
		return "?"
	}
	return "IJLOSTZ"[k : k+1]
}

// Color returns the guideline display color of the kind.
func (k Kind) Color() core.Color {
	switch k {
	case KindI:
		return core.ColorCyan
	case KindJ:
		return core.ColorBlue
	case KindL:
		return core.ColorOrange
	case KindO:
		return core.ColorYellow
	case KindS:
		return core.ColorGreen
	case KindT:
		return core.ColorMagenta
	case KindZ:
		return core.ColorRed
	default:
		return core.ColorWhite
	}
}

// Shape is a square occupancy box, indexed [row][col].
type Shape [][]bool

// spawnShapes holds the rotation-0 box of each kind, in SRS orientation.
var spawnShapes = map[Kind][]string{
	KindI: {
		"....",
		"####",
		"....",
		"....",
	},
	KindJ: {
		"#..",
		"###",
		"...",
	},
	KindL: {
		"..#",
		"###",
		"...",
	},
	KindO: {
		"##",
		"##",
	},
	KindS: {
		".##",
		"##.",
		"...",
	},
	KindT: {
		".#.",
		"###",
		"...",
	},
	KindZ: {
		"##.",
		".##",
		"...",
	},
}

// SpawnShape returns a fresh copy of the kind's rotation-0 box.
func SpawnShape(k Kind) Shape {
	return parseShape(spawnShapes[k])
}

func parseShape(rows []string) Shape {
	s := make(Shape, len(rows))
	for y, row := range rows {
		s[y] = make([]bool, len(row))
		for x, c := range row {
			s[y][x] = c == '#'
		}
	}
	return s
}

// Size returns the edge length of the box.
func (s Shape) Size() int {
	return len(s)
}

// Clone returns a deep copy.
func (s Shape) Clone() Shape {
	c := make(Shape, len(s))
	for y := range s {
		c[y] = append([]bool(nil), s[y]...)
	}
	return c
}

// RotateCW returns the box turned 90 degrees clockwise.
func (s Shape) RotateCW() Shape {
	n := len(s)
	r := make(Shape, n)
	for y := range r {
		r[y] = make([]bool, n)
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			r[x][n-1-y] = s[y][x]
		}
	}
	return r
}

// RotateCCW returns the box turned 90 degrees counter-clockwise.
func (s Shape) RotateCCW() Shape {
	n := len(s)
	r := make(Shape, n)
	for y := range r {
		r[y] = make([]bool, n)
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			r[n-1-x][y] = s[y][x]
		}
	}
	return r
}

// Equal reports whether two boxes have the same occupancy.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for y := range s {
		if len(s[y]) != len(o[y]) {
			return false
		}
		for x := range s[y] {
			if s[y][x] != o[y][x] {
				return false
			}
		}
	}
	return true
}
