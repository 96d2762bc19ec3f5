package tetris

import "testing"

// groundedT returns a T at rotation 0 in the bottom-left corner whose
// last action was a grounded rotation. Its corners are (0,38) and (2,38)
// on the pointing side and the floor below.
func groundedT(f *Field, kick int) *Piece {
	f.LastRotationApplied = true
	f.LastKickIndex = kick
	return &Piece{Kind: KindT, Shape: SpawnShape(KindT), X: 0, Y: 38, Rotation: 0}
}

func TestSpinAtMini(t *testing.T) {
	f := fieldWith(nil, "#.........", "..........")
	p := groundedT(f, 0)
	if got := f.SpinAt(p); got != SpinMini {
		t.Errorf("SpinAt() = %s, expected %s", got, SpinMini)
	}
}

func TestSpinAtFullWhenFrontBlocked(t *testing.T) {
	f := fieldWith(nil, "#.#.......", "..........")
	p := groundedT(f, 0)
	if got := f.SpinAt(p); got != SpinFull {
		t.Errorf("SpinAt() = %s, expected %s", got, SpinFull)
	}
}

func TestSpinAtNeedsThreeCorners(t *testing.T) {
	f := NewField(DefaultWidth, DefaultHeight, nil)
	p := &Piece{Kind: KindT, Shape: SpawnShape(KindT), X: 4, Y: 20}
	f.LastRotationApplied = true
	if got := f.SpinAt(p); got != SpinNone {
		t.Errorf("SpinAt() in open space = %s, expected NONE", got)
	}
}

func TestSpinAtRequiresRotation(t *testing.T) {
	f := fieldWith(nil, "#.#.......", "..........")
	p := groundedT(f, 0)
	f.LastRotationApplied = false
	if got := f.SpinAt(p); got != SpinNone {
		t.Errorf("SpinAt() without rotation = %s, expected NONE", got)
	}
}

func TestSpinAtOnlyT(t *testing.T) {
	f := fieldWith(nil, "#.#.......", "..........")
	p := groundedT(f, 0)
	p.Kind = KindL
	if got := f.SpinAt(p); got != SpinNone {
		t.Errorf("SpinAt(L) = %s, expected NONE", got)
	}
}

// The kick threshold decides between mini and full spins with an open
// front corner. Changing it silently reclassifies spin bonuses.
func TestSpinAtKickThreshold(t *testing.T) {
	if MiniSpinKickLimit != 4 {
		t.Fatalf("MiniSpinKickLimit = %d, expected 4", MiniSpinKickLimit)
	}
	tests := []struct {
		kick int
		want Spin
	}{
		{0, SpinMini},
		{1, SpinMini},
		{3, SpinMini},
		{4, SpinFull},
	}
	for _, tt := range tests {
		f := fieldWith(nil, "#.........", "..........")
		p := groundedT(f, tt.kick)
		if got := f.SpinAt(p); got != tt.want {
			t.Errorf("kick %d: SpinAt() = %s, expected %s", tt.kick, got, tt.want)
		}
	}
}

func TestSpinAtFacingSides(t *testing.T) {
	// T in open space at (4,20), center (5,21). Block exactly three
	// corners leaving the bottom-right one open.
	tests := []struct {
		rotation int
		want     Spin
	}{
		{0, SpinFull}, // front TL, TR both blocked
		{1, SpinMini}, // front TR, BR
		{2, SpinMini}, // front BR, BL
		{3, SpinFull}, // front BL, TL
	}
	for _, tt := range tests {
		f := NewField(DefaultWidth, DefaultHeight, nil)
		f.SetCell(4, 20, GarbageColor)
		f.SetCell(6, 20, GarbageColor)
		f.SetCell(4, 22, GarbageColor)
		f.LastRotationApplied = true
		p := &Piece{Kind: KindT, X: 4, Y: 20, Rotation: tt.rotation}
		if got := f.SpinAt(p); got != tt.want {
			t.Errorf("rotation %d: SpinAt() = %s, expected %s", tt.rotation, got, tt.want)
		}
	}
}
