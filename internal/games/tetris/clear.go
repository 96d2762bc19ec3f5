package tetris

import "fmt"

// ClearType names a line clear.
type ClearType int

const (
	ClearNone ClearType = iota
	ClearSingle
	ClearDouble
	ClearTriple
	ClearTetris
	ClearMiniTSpin
	ClearMiniTSpinSingle
	ClearTSpinSingle
	ClearTSpinDouble
	ClearTSpinTriple
)

// String returns the conventional upper-case clear name.
func (c ClearType) String() string {
	switch c {
	case ClearSingle:
		return "SINGLE"
	case ClearDouble:
		return "DOUBLE"
	case ClearTriple:
		return "TRIPLE"
	case ClearTetris:
		return "TETRIS"
	case ClearMiniTSpin:
		return "MINI_T_SPIN"
	case ClearMiniTSpinSingle:
		return "MINI_T_SPIN_SINGLE"
	case ClearTSpinSingle:
		return "T_SPIN_SINGLE"
	case ClearTSpinDouble:
		return "T_SPIN_DOUBLE"
	case ClearTSpinTriple:
		return "T_SPIN_TRIPLE"
	default:
		return "NONE"
	}
}

// IsDifficult reports whether the clear keeps a back-to-back chain alive.
func (c ClearType) IsDifficult() bool {
	switch c {
	case ClearTetris, ClearTSpinSingle, ClearTSpinDouble, ClearTSpinTriple, ClearMiniTSpinSingle:
		return true
	default:
		return false
	}
}

// Classify maps a spin result and a cleared-row count to a clear type.
// Combinations a four-cell piece cannot produce return ErrInvariant.
func Classify(spin Spin, rows int) (ClearType, error) {
	switch spin {
	case SpinNone:
		switch rows {
		case 1:
			return ClearSingle, nil
		case 2:
			return ClearDouble, nil
		case 3:
			return ClearTriple, nil
		case 4:
			return ClearTetris, nil
		}
	case SpinMini:
		switch rows {
		case 1:
			return ClearMiniTSpinSingle, nil
		case 2, 3:
			return ClearMiniTSpin, nil
		}
	case SpinFull:
		switch rows {
		case 1:
			return ClearTSpinSingle, nil
		case 2:
			return ClearTSpinDouble, nil
		case 3:
			return ClearTSpinTriple, nil
		}
	}
	return ClearNone, fmt.Errorf("classify %s with %d rows: %w", spin, rows, ErrInvariant)
}

// ClearResult describes one clearing lock.
type ClearResult struct {
	Type         ClearType
	Spin         Spin
	Lines        int
	PerfectClear bool
	// Combo is the displayed combo, never negative.
	Combo      int
	BackToBack int
}

// ResolveLines handles everything that follows placing p: it finds full
// rows inside the piece's box, classifies and removes them and updates the
// combo and back-to-back counters. A lock that clears nothing breaks the
// combo and materializes any queued garbage; it returns a nil result.
func (f *Field) ResolveLines(p *Piece) (*ClearResult, error) {
	top := max(0, p.Y)
	bottom := min(f.height-1, p.Y+p.Shape.Size())

	var full []int
	for y := top; y <= bottom; y++ {
		if f.rowFull(y) {
			full = append(full, y)
		}
	}

	if len(full) == 0 {
		f.Combo = -1
		if f.GarbageQueued > 0 {
			f.materializeGarbage(f.GarbageQueued)
			f.GarbageQueued = 0
		}
		return nil, nil
	}

	spin := f.SpinAt(p)
	clearType, err := Classify(spin, len(full))
	if err != nil {
		return nil, err
	}

	f.Combo++
	if clearType.IsDifficult() {
		f.BackToBack++
	} else {
		f.BackToBack = -1
	}

	f.removeRows(full)

	return &ClearResult{
		Type:         clearType,
		Spin:         spin,
		Lines:        len(full),
		PerfectClear: f.IsEmpty(),
		Combo:        max(0, f.Combo),
		BackToBack:   f.BackToBack,
	}, nil
}
