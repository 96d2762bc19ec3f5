package tetris

var attackTable = map[ClearType]int{
	ClearSingle:          0,
	ClearDouble:          1,
	ClearTriple:          2,
	ClearTetris:          4,
	ClearTSpinSingle:     2,
	ClearTSpinDouble:     4,
	ClearTSpinTriple:     6,
	ClearMiniTSpinSingle: 0,
}

const perfectClearBonus = 10

// AttackValue returns how many garbage rows a clear is worth before
// cancellation against incoming garbage.
func AttackValue(r *ClearResult) int {
	if r == nil || r.Lines == 0 {
		return 0
	}
	attack := attackTable[r.Type]
	if r.PerfectClear {
		attack += perfectClearBonus
	}
	if r.BackToBack > 0 {
		attack++
	}
	return attack + comboBonus(r.Combo)
}

func comboBonus(combo int) int {
	switch {
	case combo > 12:
		return 5
	case combo > 9:
		return 4
	case combo > 7:
		return 3
	case combo > 5:
		return 2
	case combo > 1:
		return 1
	default:
		return 0
	}
}

// Ledger negotiates garbage for one side. It keeps its queue on the
// field so that the next non-clearing lock can materialize it.
type Ledger struct {
	field *Field
}

// NewLedger returns a ledger bound to f.
func NewLedger(f *Field) *Ledger {
	return &Ledger{field: f}
}

// TakeGarbage queues n incoming rows. Non-positive amounts are ignored.
func (l *Ledger) TakeGarbage(n int) {
	if n > 0 {
		l.field.GarbageQueued += n
	}
}

// SendGarbage cancels an outgoing attack of n rows against the queue and
// returns what is left to send to the opponent.
func (l *Ledger) SendGarbage(n int) int {
	if n <= l.field.GarbageQueued {
		l.field.GarbageQueued -= n
		return 0
	}
	net := n - l.field.GarbageQueued
	l.field.GarbageQueued = 0
	return net
}

// Queued returns the pending incoming garbage.
func (l *Ledger) Queued() int {
	return l.field.GarbageQueued
}
