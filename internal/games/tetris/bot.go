package tetris

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Weights scores a candidate placement. The features follow Dellacherie's
// hand-tuned player; positive weights reward, negative ones penalize.
type Weights struct {
	LandingHeight  float64
	ErodedCells    float64
	RowTransitions float64
	ColTransitions float64
	Holes          float64
	Wells          float64
}

// DefaultWeights returns Dellacherie's original weights.
func DefaultWeights() Weights {
	return Weights{
		LandingHeight:  -1,
		ErodedCells:    1,
		RowTransitions: -1,
		ColTransitions: -1,
		Holes:          -4,
		Wells:          -1,
	}
}

// Plan is a placement expressed as the inputs that reach it.
type Plan struct {
	RotateCW  int
	RotateCCW int
	Left      int
	Right     int
	// Landing anchor, for tests and debugging.
	X, Y, Rotation int
	Score          float64
}

// Frame converts the plan into one tick of input ending in a hard drop.
func (pl Plan) Frame() core.InputFrame {
	f := core.NewInputFrame()
	for range pl.RotateCW {
		f.Set(core.ActionRotateCW)
	}
	for range pl.RotateCCW {
		f.Set(core.ActionRotateCCW)
	}
	for range pl.Left {
		f.Set(core.ActionLeft)
	}
	for range pl.Right {
		f.Set(core.ActionRight)
	}
	f.Set(core.ActionHardDrop)
	return f
}

// Bot is a one-piece lookahead placement player. It waits think between
// placements so a human can keep up.
type Bot struct {
	weights Weights
	think   time.Duration
	elapsed time.Duration
}

// NewBot creates a bot.
func NewBot(w Weights, think time.Duration) *Bot {
	return &Bot{weights: w, think: think}
}

// Reset restarts the think timer.
func (b *Bot) Reset() {
	b.elapsed = 0
}

// Step returns the bot's input for one tick of length dt: nothing while
// thinking, then a whole placement.
func (b *Bot) Step(p *Player, dt time.Duration) core.InputFrame {
	b.elapsed += dt
	if !p.Active() || b.elapsed < b.think {
		return core.NewInputFrame()
	}
	b.elapsed = 0
	plan, ok := b.Best(p)
	if !ok {
		f := core.NewInputFrame()
		f.Set(core.ActionHardDrop)
		return f
	}
	return plan.Frame()
}

// rotationOps lists the inputs that reach each rotation from the current one.
var rotationOps = [4]struct{ cw, ccw int }{
	{0, 0}, {1, 0}, {2, 0}, {0, 1},
}

// Best searches every rotation and column reachable from the active
// piece's current position and returns the highest-scoring placement.
func (b *Bot) Best(p *Player) (Plan, bool) {
	f := p.Field()
	savedRot, savedKick := f.LastRotationApplied, f.LastKickIndex
	defer func() {
		f.LastRotationApplied, f.LastKickIndex = savedRot, savedKick
	}()

	rotations := 4
	if p.Piece().Kind == KindO {
		rotations = 1
	}

	best := Plan{Score: math.Inf(-1)}
	found := false
	for r := range rotations {
		ops := rotationOps[r]
		rotated := p.Piece().Clone()
		ok := true
		for range ops.cw {
			ok = ok && rotated.AttemptRotate(f, true)
		}
		for range ops.ccw {
			ok = ok && rotated.AttemptRotate(f, false)
		}
		if !ok {
			continue
		}

		for _, dir := range []int{-1, 1} {
			trial := rotated.Clone()
			for steps := 0; ; steps++ {
				if steps > 0 && !trial.AttemptMove(f, dir, 0) {
					break
				}
				if steps == 0 && dir == 1 {
					// Staying put was already scored going left.
					continue
				}
				landed := trial.Clone()
				landed.Y = landed.GhostRow(f)
				score := b.evaluate(f, landed)
				if score > best.Score {
					best = Plan{
						RotateCW:  ops.cw,
						RotateCCW: ops.ccw,
						X:         landed.X,
						Y:         landed.Y,
						Rotation:  landed.Rotation,
						Score:     score,
					}
					if dir < 0 {
						best.Left = steps
					} else {
						best.Right = steps
					}
					found = true
				}
			}
		}
	}
	return best, found
}

// evaluate scores the board that would result from locking piece.
func (b *Bot) evaluate(f *Field, piece *Piece) float64 {
	w, h := f.Width(), f.Height()
	grid := make([][]bool, h)
	for y := range grid {
		grid[y] = make([]bool, w)
		for x := range grid[y] {
			grid[y][x] = f.Cell(x, y) != Empty
		}
	}

	landing := 0.0
	pieceRows := map[int]int{}
	piece.Cells(func(x, y int) bool {
		grid[y][x] = true
		pieceRows[y]++
		landing += float64(h - y)
		return true
	})
	landing /= 4

	lines, pieceCellsCleared := 0, 0
	kept := grid[:0:0]
	for y, row := range grid {
		full := true
		for _, c := range row {
			if !c {
				full = false
				break
			}
		}
		if full {
			lines++
			pieceCellsCleared += pieceRows[y]
			continue
		}
		kept = append(kept, row)
	}
	for len(kept) < h {
		kept = append([][]bool{make([]bool, w)}, kept...)
	}

	feat := boardFeatures(kept)
	return b.weights.LandingHeight*landing +
		b.weights.ErodedCells*float64(lines*pieceCellsCleared) +
		b.weights.RowTransitions*float64(feat.rowTransitions) +
		b.weights.ColTransitions*float64(feat.colTransitions) +
		b.weights.Holes*float64(feat.holes) +
		b.weights.Wells*float64(feat.wells)
}

type features struct {
	rowTransitions int
	colTransitions int
	holes          int
	wells          int
}

// boardFeatures measures a grid. Walls and the floor count as filled.
func boardFeatures(grid [][]bool) features {
	var ft features
	h := len(grid)
	if h == 0 {
		return ft
	}
	w := len(grid[0])
	filled := func(x, y int) bool {
		if x < 0 || x >= w || y >= h {
			return true
		}
		return y >= 0 && grid[y][x]
	}

	for y := range h {
		prev := true
		for x := range w {
			if grid[y][x] != prev {
				ft.rowTransitions++
			}
			prev = grid[y][x]
		}
		if !prev {
			ft.rowTransitions++
		}
	}

	for x := range w {
		prev := false
		covered := false
		depth := 0
		for y := range h {
			c := grid[y][x]
			if c != prev {
				ft.colTransitions++
			}
			prev = c
			if c {
				covered = true
			} else if covered {
				ft.holes++
			}
			if !c && filled(x-1, y) && filled(x+1, y) {
				depth++
				ft.wells += depth
			} else {
				depth = 0
			}
		}
		if !prev {
			ft.colTransitions++
		}
	}
	return ft
}
