package tetris

var clearPoints = map[ClearType]int{
	ClearSingle:          100,
	ClearDouble:          300,
	ClearTriple:          500,
	ClearTetris:          800,
	ClearMiniTSpinSingle: 200,
	ClearMiniTSpin:       400,
	ClearTSpinSingle:     800,
	ClearTSpinDouble:     1200,
	ClearTSpinTriple:     1600,
}

var perfectClearPoints = [...]int{0, 800, 1200, 1800, 2000}

const (
	softDropPoints = 1
	hardDropPoints = 2
)

// ScoreFor returns the points a clear earns at the given level: the clear
// value (x1.5 while a back-to-back chain is running), a combo bonus and a
// perfect-clear bonus.
func ScoreFor(r *ClearResult, level int) int {
	if r == nil || r.Lines == 0 {
		return 0
	}
	level = max(level, 1)

	points := clearPoints[r.Type] * level
	if r.BackToBack > 0 && r.Type.IsDifficult() {
		points = points * 3 / 2
	}
	points += 50 * r.Combo * level
	if r.PerfectClear {
		points += perfectClearPoints[min(r.Lines, len(perfectClearPoints)-1)] * level
	}
	return points
}
