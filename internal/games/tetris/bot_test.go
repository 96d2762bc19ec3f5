package tetris

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

func TestBotTakesTheTetris(t *testing.T) {
	p := NewPlayer(Options{Seed: 1})
	f := p.Field()
	for y := 36; y < 40; y++ {
		for x := 0; x < 9; x++ {
			f.SetCell(x, y, GarbageColor)
		}
	}
	forcePiece(p, KindI)

	plan, ok := NewBot(DefaultWeights(), 0).Best(p)
	if !ok {
		t.Fatal("no placement found")
	}
	if _, err := ApplyInput(p, plan.Frame()); err != nil {
		t.Fatal(err)
	}
	res := p.LastLock().Result
	if res == nil || res.Type != ClearTetris {
		t.Errorf("bot lock = %+v, expected a tetris (plan %+v)", res, plan)
	}
}

func TestBotPlanLeavesFieldFlags(t *testing.T) {
	p := NewPlayer(Options{Seed: 1})
	p.Field().LastRotationApplied = true
	p.Field().LastKickIndex = 3
	NewBot(DefaultWeights(), 0).Best(p)
	if !p.Field().LastRotationApplied || p.Field().LastKickIndex != 3 {
		t.Error("planning must not disturb the spin flags")
	}
}

func TestBotSurvives(t *testing.T) {
	p := NewPlayer(Options{Seed: 42})
	bot := NewBot(DefaultWeights(), 0)
	for i := 0; i < 100; i++ {
		if !p.Active() {
			t.Fatalf("bot topped out after %d pieces", i)
		}
		if _, err := ApplyInput(p, bot.Step(p, time.Millisecond)); err != nil {
			t.Fatal(err)
		}
	}
	if got := p.Stats().Lines; got < 15 {
		t.Errorf("bot cleared %d lines in 100 pieces, expected at least 15", got)
	}
}

func TestBotStepWaitsToThink(t *testing.T) {
	p := NewPlayer(Options{Seed: 1})
	bot := NewBot(DefaultWeights(), 100*time.Millisecond)
	if bot.Step(p, 50*time.Millisecond).Has(core.ActionHardDrop) {
		t.Error("bot acted before its think time")
	}
	if !bot.Step(p, 50*time.Millisecond).Has(core.ActionHardDrop) {
		t.Error("bot should act once the think time has passed")
	}
}

func TestBoardFeatures(t *testing.T) {
	grid := func(rows ...string) [][]bool {
		g := make([][]bool, len(rows))
		for y, r := range rows {
			g[y] = make([]bool, len(r))
			for x, c := range r {
				g[y][x] = c == '#'
			}
		}
		return g
	}

	tests := []struct {
		name string
		rows []string
		want features
	}{
		{"well", []string{"...", "#.#", "###"}, features{rowTransitions: 4, colTransitions: 3, wells: 1}},
		{"hole", []string{"#..", "..."}, features{rowTransitions: 4, colTransitions: 5, holes: 1}},
	}
	for _, tt := range tests {
		if got := boardFeatures(grid(tt.rows...)); got != tt.want {
			t.Errorf("%s: boardFeatures() = %+v, expected %+v", tt.name, got, tt.want)
		}
	}
}
