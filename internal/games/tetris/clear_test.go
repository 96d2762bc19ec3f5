package tetris

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		spin Spin
		rows int
		want ClearType
	}{
		{SpinNone, 1, ClearSingle},
		{SpinNone, 2, ClearDouble},
		{SpinNone, 3, ClearTriple},
		{SpinNone, 4, ClearTetris},
		{SpinMini, 1, ClearMiniTSpinSingle},
		{SpinMini, 2, ClearMiniTSpin},
		{SpinMini, 3, ClearMiniTSpin},
		{SpinFull, 1, ClearTSpinSingle},
		{SpinFull, 2, ClearTSpinDouble},
		{SpinFull, 3, ClearTSpinTriple},
	}
	for _, tt := range tests {
		got, err := Classify(tt.spin, tt.rows)
		if err != nil {
			t.Errorf("Classify(%s, %d) error = %v", tt.spin, tt.rows, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Classify(%s, %d) = %s, expected %s", tt.spin, tt.rows, got, tt.want)
		}
	}
}

func TestClassifyImpossible(t *testing.T) {
	tests := []struct {
		spin Spin
		rows int
	}{
		{SpinNone, 0},
		{SpinNone, 5},
		{SpinMini, 4},
		{SpinFull, 4},
	}
	for _, tt := range tests {
		if _, err := Classify(tt.spin, tt.rows); !errors.Is(err, ErrInvariant) {
			t.Errorf("Classify(%s, %d) error = %v, expected ErrInvariant", tt.spin, tt.rows, err)
		}
	}
}

func TestDifficultClears(t *testing.T) {
	difficult := map[ClearType]bool{
		ClearTetris:          true,
		ClearTSpinSingle:     true,
		ClearTSpinDouble:     true,
		ClearTSpinTriple:     true,
		ClearMiniTSpinSingle: true,
	}
	for c := ClearNone; c <= ClearTSpinTriple; c++ {
		if got := c.IsDifficult(); got != difficult[c] {
			t.Errorf("%s.IsDifficult() = %v, expected %v", c, got, difficult[c])
		}
	}
}

func lockPiece(t *testing.T, f *Field, p *Piece) *ClearResult {
	t.Helper()
	if err := f.Place(p); err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	res, err := f.ResolveLines(p)
	if err != nil {
		t.Fatalf("ResolveLines() error = %v", err)
	}
	return res
}

func TestResolveLinesSingle(t *testing.T) {
	f := fieldWith(nil, "##....##..")

	i := &Piece{Kind: KindI, Shape: SpawnShape(KindI), X: 2, Y: 38}
	if res := lockPiece(t, f, i); res != nil {
		t.Fatalf("I lock cleared %d rows, expected none", res.Lines)
	}
	if f.Combo != -1 {
		t.Errorf("Combo = %d after no clear, expected -1", f.Combo)
	}

	o := &Piece{Kind: KindO, Shape: SpawnShape(KindO), X: 8, Y: 38}
	res := lockPiece(t, f, o)
	if res == nil {
		t.Fatal("O lock should clear the bottom row")
	}
	if res.Type != ClearSingle || res.Lines != 1 || res.Combo != 0 || res.BackToBack != -1 {
		t.Errorf("result = %+v, expected SINGLE, 1 line, combo 0, b2b -1", res)
	}
	if res.PerfectClear {
		t.Error("the top of the O is still on the board")
	}
	if countFilled(f, 39) != 2 {
		t.Errorf("bottom row has %d cells, expected the 2 left by the O", countFilled(f, 39))
	}
}

func TestResolveLinesTSpinSingle(t *testing.T) {
	f := fieldWith(nil,
		"...#......",
		"..........",
		"####.#####",
	)
	// Vertical T pointing right, its stem already in the slot.
	p := &Piece{Kind: KindT, Shape: SpawnShape(KindT).RotateCW(), X: 3, Y: 37, Rotation: 1}
	if f.CheckCollision(p, 0, 0) {
		t.Fatal("setup: T should fit")
	}
	if !p.AttemptRotate(f, true) {
		t.Fatal("rotation into the slot failed")
	}
	if p.Rotation != 2 || p.X != 3 || p.Y != 37 {
		t.Fatalf("piece = (%d, %d, r%d), expected (3, 37, r2)", p.X, p.Y, p.Rotation)
	}
	if !f.LastRotationApplied {
		t.Fatal("rotation into the slot should be grounded")
	}

	res := lockPiece(t, f, p)
	if res == nil {
		t.Fatal("expected a clear")
	}
	if res.Type != ClearTSpinSingle || res.Spin != SpinFull || res.Lines != 1 {
		t.Errorf("result = %s/%s/%d, expected T_SPIN_SINGLE", res.Type, res.Spin, res.Lines)
	}
	if res.BackToBack != 0 {
		t.Errorf("BackToBack = %d, expected 0 after first difficult clear", res.BackToBack)
	}
}

func TestResolveLinesMiniTSpinSingle(t *testing.T) {
	f := fieldWith(nil,
		"#.........",
		"...#######",
	)
	p := groundedT(f, 0)
	res := lockPiece(t, f, p)
	if res == nil || res.Type != ClearMiniTSpinSingle {
		t.Fatalf("result = %+v, expected MINI_T_SPIN_SINGLE", res)
	}
}

func TestResolveLinesPerfectClearTetris(t *testing.T) {
	f := fieldWith(nil,
		"#########.",
		"#########.",
		"#########.",
		"#########.",
	)
	p := &Piece{Kind: KindI, Shape: SpawnShape(KindI).RotateCW(), X: 7, Y: 36, Rotation: 1}
	res := lockPiece(t, f, p)
	if res == nil {
		t.Fatal("expected a clear")
	}
	if res.Type != ClearTetris || res.Lines != 4 || !res.PerfectClear {
		t.Errorf("result = %+v, expected perfect-clear TETRIS", res)
	}
	if !f.IsEmpty() {
		t.Error("field should be empty")
	}
	if got := AttackValue(res); got < 14 {
		t.Errorf("AttackValue() = %d, expected at least 14", got)
	}
}

func TestComboCounting(t *testing.T) {
	f := NewField(DefaultWidth, DefaultHeight, nil)
	o := func() *Piece { return &Piece{Kind: KindO, Shape: SpawnShape(KindO), X: 8, Y: 38} }

	for want := 0; want < 3; want++ {
		// Each O leaves its top half behind; start every lock from the
		// same two bottom rows.
		for x := 0; x < f.Width(); x++ {
			f.SetCell(x, 38, Empty)
			f.SetCell(x, 39, GarbageColor)
		}
		f.SetCell(8, 39, Empty)
		f.SetCell(9, 39, Empty)

		res := lockPiece(t, f, o())
		if res == nil {
			t.Fatalf("lock %d did not clear", want)
		}
		if res.Combo != want || f.Combo != want {
			t.Errorf("lock %d: Combo = %d (field %d), expected %d", want, res.Combo, f.Combo, want)
		}
		if res.BackToBack != -1 {
			t.Errorf("singles must not build back-to-back, got %d", res.BackToBack)
		}
	}

	f.Reset()
	f.Combo = 2
	lockPiece(t, f, o())
	if f.Combo != -1 {
		t.Errorf("Combo = %d after non-clearing lock, expected -1", f.Combo)
	}
}

func TestBackToBackChain(t *testing.T) {
	f := NewField(DefaultWidth, DefaultHeight, nil)
	tetris := func() *ClearResult {
		for y := 36; y < 40; y++ {
			for x := 0; x < 9; x++ {
				f.SetCell(x, y, GarbageColor)
			}
		}
		p := &Piece{Kind: KindI, Shape: SpawnShape(KindI).RotateCW(), X: 7, Y: 36, Rotation: 1}
		return lockPiece(t, f, p)
	}

	first := tetris()
	second := tetris()
	if first.BackToBack != 0 || second.BackToBack != 1 {
		t.Errorf("BackToBack = %d, %d, expected 0, 1", first.BackToBack, second.BackToBack)
	}
	if AttackValue(second) != AttackValue(first)+1+comboBonus(1)-comboBonus(0) {
		t.Errorf("second tetris attack = %d, expected back-to-back bonus over %d", AttackValue(second), AttackValue(first))
	}

	// A plain double breaks the chain.
	for x := 0; x < 8; x++ {
		f.SetCell(x, 38, GarbageColor)
		f.SetCell(x, 39, GarbageColor)
	}
	res := lockPiece(t, f, &Piece{Kind: KindO, Shape: SpawnShape(KindO), X: 8, Y: 38})
	if res.Type != ClearDouble || res.BackToBack != -1 {
		t.Errorf("double = %s b2b %d, expected DOUBLE b2b -1", res.Type, res.BackToBack)
	}
}

func TestResolveLinesMaterializesQueuedGarbage(t *testing.T) {
	f := NewField(DefaultWidth, DefaultHeight, fixedRand{hole: 7})
	NewLedger(f).TakeGarbage(3)

	res := lockPiece(t, f, Spawn(KindT, f.Width(), 10))
	if res != nil {
		t.Fatal("floating T should not clear")
	}
	if f.GarbageQueued != 0 {
		t.Errorf("GarbageQueued = %d, expected 0", f.GarbageQueued)
	}
	for y := 37; y < 40; y++ {
		if countFilled(f, y) != 9 || f.Cell(7, y) != Empty {
			t.Errorf("row %d is not a garbage row with a hole at 7", y)
		}
	}
	if countFilled(f, 36) != 0 {
		t.Error("only three garbage rows expected")
	}
}

func TestResolveLinesClearKeepsGarbageQueued(t *testing.T) {
	f := fieldWith(nil, "########..")
	f.GarbageQueued = 2
	res := lockPiece(t, f, &Piece{Kind: KindO, Shape: SpawnShape(KindO), X: 8, Y: 38})
	if res == nil {
		t.Fatal("expected a clear")
	}
	if f.GarbageQueued != 2 {
		t.Errorf("GarbageQueued = %d, expected 2 to stay queued", f.GarbageQueued)
	}
}
