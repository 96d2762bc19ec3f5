package tetris

// Spin is the result of T-spin detection for a locked piece.
type Spin int

const (
	SpinNone Spin = iota
	SpinMini
	SpinFull
)

// MiniSpinKickLimit is the kick index from which a spin always counts as
// a full T-spin, whatever the front corners look like. Indexes 4 and up are
// the last kick tests of the SRS tables (the "TST" and "fin" kicks).
const MiniSpinKickLimit = 4

// String returns the spin name.
func (s Spin) String() string {
	switch s {
	case SpinMini:
		return "MINI_T_SPIN"
	case SpinFull:
		return "T_SPIN"
	default:
		return "NONE"
	}
}

// SpinAt runs the three-corner test for p at its current position.
//
// Only T pieces whose last successful action was a grounded rotation can
// spin. Of the four diagonal corners around the box center at least three
// must be blocked (walls and floor count). The spin is mini when one of the
// two corners on the side the T points to is open, unless the rotation
// needed one of the last kick candidates.
func (f *Field) SpinAt(p *Piece) Spin {
	if p.Kind != KindT || !f.LastRotationApplied {
		return SpinNone
	}

	cx, cy := p.X+1, p.Y+1
	// Clockwise from top-left, so the pointing side of rotation r is
	// corners r and r+1.
	corners := [4][2]int{
		{cx - 1, cy - 1},
		{cx + 1, cy - 1},
		{cx + 1, cy + 1},
		{cx - 1, cy + 1},
	}

	var blocked [4]bool
	count := 0
	for i, c := range corners {
		if f.blocked(c[0], c[1]) {
			blocked[i] = true
			count++
		}
	}
	if count < 3 {
		return SpinNone
	}

	r := mod4(p.Rotation)
	frontOpen := !blocked[r] || !blocked[(r+1)%4]
	if f.LastKickIndex < MiniSpinKickLimit && frontOpen {
		return SpinMini
	}
	return SpinFull
}
