package tetris

import (
	"time"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

// bannerTicks is how long lock notes stay on the HUD.
const bannerTicks = 90

// Game is the single-player marathon mode.
type Game struct {
	cfg    config.TetrisConfig
	player *Player
	seed   uint32
	dt     time.Duration
	paused bool

	screenW int
	screenH int

	notes     []string
	noteTicks int
}

// New creates a marathon game using the current package configuration.
func New() *Game {
	return &Game{cfg: CurrentConfig()}
}

func init() {
	registry.Register("marathon", func() registry.Game {
		return New()
	})
	registry.Register("versus", func() registry.Game {
		return NewVersus(false)
	})
	registry.Register("versus_cpu", func() registry.Game {
		return NewVersus(true)
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return "marathon" }

// Title returns the display name.
func (g *Game) Title() string { return "Marathon" }

// Reset starts a fresh game.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.seed = seedFrom(rc.Seed)
	g.dt = tickDuration(rc.TickRate)
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.paused = false
	g.notes = nil
	g.noteTicks = 0
	g.player = NewPlayer(OptionsFromConfig(g.cfg, g.seed, 0))
}

// Player exposes the underlying driver.
func (g *Game) Player() *Player { return g.player }

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionRestart) {
		g.player.Restart()
		g.paused = false
		g.notes = nil
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) && g.player.Active() {
		g.paused = !g.paused
	}
	if g.paused || !g.player.Active() {
		return core.StepResult{State: g.State()}
	}

	notes, err := ApplyInput(g.player, in)
	if err == nil && g.player.Active() {
		var ev *LockEvent
		ev, err = g.player.Tick(g.dt, in.Has(core.ActionSoftDrop))
		if ev != nil {
			notes = append(notes, DescribeLock(*ev)...)
		}
	}
	if err != nil {
		// Only an engine invariant breach gets here; end the game.
		notes = append(notes, "ERROR: "+err.Error())
		g.player.stop = StopQuit
	}

	g.showNotes(notes)
	return core.StepResult{State: g.State(), Events: notes}
}

func (g *Game) showNotes(notes []string) {
	if len(notes) > 0 {
		g.notes = notes
		g.noteTicks = bannerTicks
		return
	}
	if g.noteTicks > 0 {
		g.noteTicks--
		if g.noteTicks == 0 {
			g.notes = nil
		}
	}
}

// State returns the platform-facing summary.
func (g *Game) State() core.GameState {
	st := g.player.Stats()
	return core.GameState{
		Score:    st.Score,
		Lines:    st.Lines,
		Level:    st.Level,
		GameOver: !g.player.Active(),
		Paused:   g.paused,
	}
}

// Render draws the board with its side panels centered on dst.
func (g *Game) Render(dst *core.Screen) {
	w, h := PanelSize(g.player)
	if dst.Width() < w || dst.Height() < h {
		dst.DrawTextCentered(dst.Height()/2, "Terminal too small")
		return
	}
	x := (dst.Width() - w) / 2
	y := (dst.Height() - h) / 2
	DrawPanel(dst, g.player, x, y, "MARATHON", g.notes)

	switch {
	case g.paused:
		drawOverlay(dst, "PAUSED", "P to resume")
	case !g.player.Active():
		drawOverlay(dst, "GAME OVER", "R to restart, Q to quit")
	}
}

func seedFrom(seed int64) uint32 {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return uint32(seed) ^ uint32(seed>>32)
}

func tickDuration(rate int) time.Duration {
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}
