package tetris

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

func newTestGame(seed int64) *Game {
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed})
	return g
}

func TestModesRegistered(t *testing.T) {
	for _, id := range []string{"marathon", "versus", "versus_cpu"} {
		if !registry.Exists(id) {
			t.Errorf("mode %q not registered", id)
		}
	}
	g, err := registry.Create("versus")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := g.(registry.VersusGame); !ok {
		t.Error("versus should implement VersusGame")
	}
}

func TestGameDeterminism(t *testing.T) {
	// Two games with the same seed and inputs must end identical.
	g1 := newTestGame(12345)
	g2 := newTestGame(12345)

	input := core.NewInputFrame()
	for i := 0; i < 900; i++ {
		input.Clear()
		switch {
		case i%40 == 10:
			input.Set(core.ActionLeft)
			input.Set(core.ActionLeft)
		case i%40 == 20:
			input.Set(core.ActionRotateCW)
		case i%40 == 30:
			input.Set(core.ActionHardDrop)
		}
		g1.Step(input)
		g2.Step(input)
	}

	if diff := cmp.Diff(g1.State(), g2.State()); diff != "" {
		t.Errorf("state mismatch (-g1 +g2):\n%s", diff)
	}
	if diff := cmp.Diff(g1.Player().Field().Rows(), g2.Player().Field().Rows()); diff != "" {
		t.Errorf("field mismatch (-g1 +g2):\n%s", diff)
	}
	if g1.Player().Stats().Pieces == 0 {
		t.Error("no piece was locked")
	}
}

func TestGameGravityMovesPiece(t *testing.T) {
	g := newTestGame(1)
	startY := g.Player().Piece().Y
	input := core.NewInputFrame()
	for i := 0; i < 90; i++ {
		g.Step(input)
	}
	if g.Player().Piece().Y <= startY {
		t.Errorf("piece did not fall after one second at level 1 (y %d -> %d)", startY, g.Player().Piece().Y)
	}
}

func TestGamePause(t *testing.T) {
	g := newTestGame(1)
	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)
	if !g.State().Paused {
		t.Fatal("expected paused")
	}

	y := g.Player().Piece().Y
	drop := core.NewInputFrame()
	drop.Set(core.ActionHardDrop)
	for i := 0; i < 120; i++ {
		g.Step(drop)
	}
	if g.Player().Piece().Y != y || g.Player().Stats().Pieces != 0 {
		t.Error("paused game must not advance")
	}

	g.Step(pause)
	if g.State().Paused {
		t.Error("second pause should resume")
	}
}

func TestGameRestart(t *testing.T) {
	g := newTestGame(7)
	drop := core.NewInputFrame()
	drop.Set(core.ActionHardDrop)
	g.Step(drop)
	if g.State().Score == 0 {
		t.Fatal("hard drop should score")
	}

	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)
	g.Step(restart)
	if g.State().Score != 0 || !g.Player().Field().IsEmpty() {
		t.Error("restart should reset score and field")
	}
}

func TestGameStepReportsLockNotes(t *testing.T) {
	g := newTestGame(7)
	p := g.Player()
	f := p.Field()
	for x := 0; x < f.Width(); x++ {
		if x < 4 || x > 5 {
			f.SetCell(x, 39, GarbageColor)
		}
	}
	forcePiece(p, KindO)

	drop := core.NewInputFrame()
	drop.Set(core.ActionHardDrop)
	res := g.Step(drop)
	if diff := cmp.Diff([]string{"SINGLE"}, res.Events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestGameOverAndRender(t *testing.T) {
	g := newTestGame(3)
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()
	for _, want := range []string{"MARATHON", "HOLD", "NEXT", "SCORE", "LINES", "LEVEL"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}

	f := g.Player().Field()
	for y := 20; y < 40; y++ {
		for x := 1; x < f.Width(); x++ {
			f.SetCell(x, y, GarbageColor)
		}
	}
	drop := core.NewInputFrame()
	drop.Set(core.ActionHardDrop)
	g.Step(drop)
	if !g.State().GameOver {
		t.Fatal("expected game over")
	}

	screen.Clear()
	g.Render(screen)
	if !strings.Contains(screen.String(), "GAME OVER") {
		t.Error("render should show GAME OVER")
	}
}

func TestRenderDangerBorder(t *testing.T) {
	g := newTestGame(3)
	p := g.Player()
	w, h := PanelSize(p)

	borderColor := func() core.Color {
		screen := core.NewScreen(w, h)
		DrawPanel(screen, p, 0, 0, "P1", nil)
		return screen.GetCell(sideW, 1).Color
	}

	if got := borderColor(); got != core.ColorWhite {
		t.Errorf("border color on an empty field = %s, expected %s", got, core.ColorWhite)
	}

	f := p.Field()
	for y := f.Height() - p.Visible() + dangerRows - 1; y < f.Height(); y++ {
		for x := 1; x < f.Width(); x++ {
			f.SetCell(x, y, GarbageColor)
		}
	}
	if got := borderColor(); got != core.ColorRed {
		t.Errorf("border color with a %d-row stack = %s, expected %s", f.StackHeight(), got, core.ColorRed)
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := newTestGame(3)
	screen := core.NewScreen(30, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "too small") {
		t.Error("expected too-small notice")
	}
}

func TestRenderDrawsActivePiece(t *testing.T) {
	g := newTestGame(3)
	p := g.Player()
	for p.Piece().Y < p.Field().Height()-p.Visible() {
		p.SoftDrop()
	}
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	// Only look inside the board, not at the hold and next columns.
	w, _ := PanelSize(p)
	left := (screen.Width()-w)/2 + sideW
	right := left + p.Field().Width()*cellW + 2

	want := p.Piece().Kind.Color()
	found := false
	for y := 0; y < screen.Height() && !found; y++ {
		for x := left; x < right; x++ {
			if c := screen.GetCell(x, y); c.Rune == blockRune && c.Color == want {
				found = true
				break
			}
		}
	}
	if !found {
		t.Errorf("no %v block drawn for the active piece", want)
	}
}
