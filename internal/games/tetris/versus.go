package tetris

import (
	"errors"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
)

// Versus runs two sides on one screen. Each side owns its own Player and
// talks to the other only through its end of an in-memory pipe, exactly as
// it would over the network.
type Versus struct {
	cfg    config.TetrisConfig
	cpu    bool
	seed   uint32
	dt     time.Duration
	paused bool

	players [2]*Player
	links   [2]multiplayer.Link
	bot     *Bot
	over    bool
	winner  core.PlayerID

	notes     [2][]string
	noteTicks [2]int
}

// NewVersus creates a local versus game. With cpu set, player two is the
// placement bot.
func NewVersus(cpu bool) *Versus {
	return &Versus{cfg: CurrentConfig(), cpu: cpu}
}

// ID returns the game identifier.
func (v *Versus) ID() string {
	if v.cpu {
		return "versus_cpu"
	}
	return "versus"
}

// Title returns the display name.
func (v *Versus) Title() string {
	if v.cpu {
		return "Versus CPU"
	}
	return "Versus"
}

// Reset opens a fresh pipe and deals both sides the same sequence.
func (v *Versus) Reset(rc core.RuntimeConfig) {
	v.close()
	v.seed = seedFrom(rc.Seed)
	v.dt = tickDuration(rc.TickRate)
	v.paused = false
	v.over = false
	v.winner = core.PlayerNone
	v.notes = [2][]string{}
	v.noteTicks = [2]int{}

	a, b := multiplayer.NewPipe(v.cfg.Versus.PipeBuffer)
	v.links = [2]multiplayer.Link{a, b}
	for i := range v.players {
		opts := OptionsFromConfig(v.cfg, v.seed, i)
		opts.Outbox = v.links[i]
		v.players[i] = NewPlayer(opts)
	}
	if v.cpu {
		v.bot = NewBot(DefaultWeights(), time.Duration(v.cfg.Versus.CPUThinkMs)*time.Millisecond)
	}
}

func (v *Versus) close() {
	for _, l := range v.links {
		if l != nil {
			l.Close()
		}
	}
}

// Player returns one side's driver.
func (v *Versus) Player(id core.PlayerID) *Player {
	switch id {
	case core.Player1:
		return v.players[0]
	case core.Player2:
		return v.players[1]
	default:
		return nil
	}
}

// Winner returns the winning side once the round is over. It is PlayerNone
// while playing and after a draw.
func (v *Versus) Winner() core.PlayerID { return v.winner }

// Step drives player one only; player two idles unless it is the CPU.
func (v *Versus) Step(in core.InputFrame) core.StepResult {
	multi := core.NewMultiInputFrame()
	multi.ByPlayer[core.Player1] = in
	return v.StepMulti(multi)
}

// StepMulti advances both sides by one tick.
func (v *Versus) StepMulti(in core.MultiInputFrame) core.StepResult {
	p1 := in.Player(core.Player1)
	if p1.Has(core.ActionRestart) || in.Player(core.Player2).Has(core.ActionRestart) {
		v.restart()
		return core.StepResult{State: v.State()}
	}
	if (p1.Has(core.ActionPause) || in.Player(core.Player2).Has(core.ActionPause)) && !v.over {
		v.paused = !v.paused
	}
	if v.paused || v.over {
		return core.StepResult{State: v.State()}
	}

	var events []string
	for i, p := range v.players {
		frame := in.Player(core.PlayerID(i + 1))
		if i == 1 && v.bot != nil {
			frame = v.bot.Step(p, v.dt)
		}
		notes := v.stepSide(i, p, frame)
		v.showNotes(i, notes)
		events = append(events, notes...)
	}
	v.settle()
	return core.StepResult{State: v.State(), Events: events}
}

// stepSide polls the inbox, applies input and advances gravity for one side.
func (v *Versus) stepSide(i int, p *Player, in core.InputFrame) []string {
	if err := p.Poll(v.links[i]); err != nil && !errors.Is(err, multiplayer.ErrLinkClosed) {
		return []string{"ERROR: " + err.Error()}
	}
	if !p.Active() {
		return nil
	}
	notes, err := ApplyInput(p, in)
	if err == nil && p.Active() {
		var ev *LockEvent
		ev, err = p.Tick(v.dt, in.Has(core.ActionSoftDrop))
		if ev != nil {
			notes = append(notes, DescribeLock(*ev)...)
		}
	}
	if err != nil && !errors.Is(err, multiplayer.ErrLinkClosed) {
		notes = append(notes, "ERROR: "+err.Error())
	}
	return notes
}

// settle ends the round once a side has left play. The loser tells the
// winner with QUIT, which is what a remote peer would see. Two sides that
// leave play in the same tick draw.
func (v *Versus) settle() {
	var out [2]bool
	for i, p := range v.players {
		switch p.Stopped() {
		case StopToppedOut, StopQuit:
			out[i] = true
		}
	}
	if !out[0] && !out[1] {
		return
	}

	v.over = true
	for i, p := range v.players {
		if out[i] {
			_ = p.Quit()
		}
	}
	for i, p := range v.players {
		if !out[i] {
			_ = p.Poll(v.links[i])
			v.winner = core.PlayerID(i + 1)
		}
	}
}

func (v *Versus) restart() {
	v.paused = false
	v.over = false
	v.winner = core.PlayerNone
	v.notes = [2][]string{}
	// Player one restarts and the RESTART message carries the reset to
	// player two on its next poll.
	if err := v.players[0].RequestRestart(); err != nil {
		v.players[1].Restart()
	}
	_ = v.players[1].Poll(v.links[1])
	if v.bot != nil {
		v.bot.Reset()
	}
}

func (v *Versus) showNotes(i int, notes []string) {
	if len(notes) > 0 {
		v.notes[i] = notes
		v.noteTicks[i] = bannerTicks
		return
	}
	if v.noteTicks[i] > 0 {
		v.noteTicks[i]--
		if v.noteTicks[i] == 0 {
			v.notes[i] = nil
		}
	}
}

// State reports player one's score and the winner.
func (v *Versus) State() core.GameState {
	st := v.players[0].Stats()
	return core.GameState{
		Score:    st.Score,
		Lines:    st.Lines,
		Level:    st.Level,
		GameOver: v.over,
		Paused:   v.paused,
		Winner:   v.winner,
	}
}

// Render draws both panels side by side.
func (v *Versus) Render(dst *core.Screen) {
	w, h := PanelSize(v.players[0])
	gap := 2
	if dst.Width() < 2*w+gap || dst.Height() < h {
		dst.DrawTextCentered(dst.Height()/2, "Terminal too small")
		return
	}
	x := (dst.Width() - (2*w + gap)) / 2
	y := (dst.Height() - h) / 2
	title2 := "PLAYER 2"
	if v.cpu {
		title2 = "CPU"
	}
	DrawPanel(dst, v.players[0], x, y, "PLAYER 1", v.notes[0])
	DrawPanel(dst, v.players[1], x+w+gap, y, title2, v.notes[1])

	switch {
	case v.paused:
		drawOverlay(dst, "PAUSED", "P to resume")
	case v.over && v.winner == core.PlayerNone:
		drawOverlay(dst, "DRAW", "R for a rematch, Q to quit")
	case v.over:
		name := "PLAYER 1"
		if v.winner == core.Player2 {
			name = title2
		}
		drawOverlay(dst, name+" WINS", "R for a rematch, Q to quit")
	}
}
