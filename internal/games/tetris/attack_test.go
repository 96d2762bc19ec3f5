package tetris

import "testing"

func TestAttackValue(t *testing.T) {
	tests := []struct {
		name string
		res  *ClearResult
		want int
	}{
		{"nil", nil, 0},
		{"no lines", &ClearResult{Type: ClearSingle}, 0},
		{"single", &ClearResult{Type: ClearSingle, Lines: 1, BackToBack: -1}, 0},
		{"double", &ClearResult{Type: ClearDouble, Lines: 2, BackToBack: -1}, 1},
		{"triple", &ClearResult{Type: ClearTriple, Lines: 3, BackToBack: -1}, 2},
		{"tetris", &ClearResult{Type: ClearTetris, Lines: 4}, 4},
		{"tetris b2b", &ClearResult{Type: ClearTetris, Lines: 4, BackToBack: 1}, 5},
		{"tss", &ClearResult{Type: ClearTSpinSingle, Lines: 1}, 2},
		{"tsd", &ClearResult{Type: ClearTSpinDouble, Lines: 2}, 4},
		{"tst", &ClearResult{Type: ClearTSpinTriple, Lines: 3}, 6},
		{"mini single", &ClearResult{Type: ClearMiniTSpinSingle, Lines: 1}, 0},
		{"mini double", &ClearResult{Type: ClearMiniTSpin, Lines: 2, BackToBack: -1}, 0},
		{"perfect tetris", &ClearResult{Type: ClearTetris, Lines: 4, PerfectClear: true}, 14},
		{"combo 2", &ClearResult{Type: ClearSingle, Lines: 1, Combo: 2, BackToBack: -1}, 1},
		{"combo 6", &ClearResult{Type: ClearSingle, Lines: 1, Combo: 6, BackToBack: -1}, 2},
		{"combo 8", &ClearResult{Type: ClearSingle, Lines: 1, Combo: 8, BackToBack: -1}, 3},
		{"combo 10", &ClearResult{Type: ClearSingle, Lines: 1, Combo: 10, BackToBack: -1}, 4},
		{"combo 13", &ClearResult{Type: ClearSingle, Lines: 1, Combo: 13, BackToBack: -1}, 5},
	}
	for _, tt := range tests {
		if got := AttackValue(tt.res); got != tt.want {
			t.Errorf("%s: AttackValue() = %d, expected %d", tt.name, got, tt.want)
		}
	}
}

func TestComboBonusBoundaries(t *testing.T) {
	tests := []struct {
		combo, want int
	}{
		{0, 0}, {1, 0}, {2, 1}, {5, 1}, {6, 2}, {7, 2}, {8, 3}, {9, 3}, {10, 4}, {12, 4}, {13, 5}, {30, 5},
	}
	for _, tt := range tests {
		if got := comboBonus(tt.combo); got != tt.want {
			t.Errorf("comboBonus(%d) = %d, expected %d", tt.combo, got, tt.want)
		}
	}
}

func TestLedgerSendCancelsQueue(t *testing.T) {
	l := NewLedger(NewField(DefaultWidth, DefaultHeight, nil))
	l.TakeGarbage(3)

	if got := l.SendGarbage(5); got != 2 {
		t.Errorf("SendGarbage(5) = %d, expected 2", got)
	}
	if got := l.Queued(); got != 0 {
		t.Errorf("Queued() = %d, expected 0", got)
	}
}

func TestLedgerSendAbsorbedByQueue(t *testing.T) {
	l := NewLedger(NewField(DefaultWidth, DefaultHeight, nil))
	l.TakeGarbage(6)

	if got := l.SendGarbage(4); got != 0 {
		t.Errorf("SendGarbage(4) = %d, expected 0", got)
	}
	if got := l.Queued(); got != 2 {
		t.Errorf("Queued() = %d, expected 2", got)
	}
}

func TestLedgerSelfAttackNetsToZero(t *testing.T) {
	for _, n := range []int{0, 1, 4, 10} {
		l := NewLedger(NewField(DefaultWidth, DefaultHeight, nil))
		l.TakeGarbage(n)
		if got := l.SendGarbage(n); got != 0 {
			t.Errorf("n=%d: SendGarbage() = %d, expected 0", n, got)
		}
		if got := l.Queued(); got != 0 {
			t.Errorf("n=%d: Queued() = %d, expected 0", n, got)
		}
	}
}

func TestLedgerIgnoresNonPositive(t *testing.T) {
	l := NewLedger(NewField(DefaultWidth, DefaultHeight, nil))
	l.TakeGarbage(0)
	l.TakeGarbage(-3)
	if got := l.Queued(); got != 0 {
		t.Errorf("Queued() = %d, expected 0", got)
	}
	if got := l.SendGarbage(3); got != 3 {
		t.Errorf("SendGarbage(3) on empty queue = %d, expected 3", got)
	}
}
