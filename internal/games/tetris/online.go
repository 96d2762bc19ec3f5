package tetris

import (
	"errors"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
)

// Online drives one side of a networked match. Only the local board is
// simulated; the opponent is known through the messages on link.
type Online struct {
	player   *Player
	link     multiplayer.Link
	side     core.PlayerID
	opponent string
	dt       time.Duration
	quitSent bool
	result   string

	notes     []string
	noteTicks int
}

// NewOnline creates the local side of a match. seed must be the one the
// coordinator handed to both sides.
func NewOnline(cfg config.TetrisConfig, seed uint32, side core.PlayerID, link multiplayer.Link, opponent string, tickRate int) *Online {
	opts := OptionsFromConfig(cfg, seed, int(side)-1)
	opts.Outbox = link
	return &Online{
		player:   NewPlayer(opts),
		link:     link,
		side:     side,
		opponent: opponent,
		dt:       tickDuration(tickRate),
	}
}

// Player exposes the local driver.
func (o *Online) Player() *Player { return o.player }

// Side returns which side of the match this is.
func (o *Online) Side() core.PlayerID { return o.side }

// Step polls the link, applies local input and advances one tick. When
// the local side leaves play the opponent is sent QUIT exactly once.
func (o *Online) Step(in core.InputFrame) core.StepResult {
	var notes []string
	if err := o.player.Poll(o.link); err != nil && !errors.Is(err, multiplayer.ErrLinkClosed) {
		notes = append(notes, "ERROR: "+err.Error())
	}
	if o.player.Active() {
		applied, err := ApplyInput(o.player, in)
		notes = append(notes, applied...)
		if err == nil && o.player.Active() {
			var ev *LockEvent
			ev, err = o.player.Tick(o.dt, in.Has(core.ActionSoftDrop))
			if ev != nil {
				notes = append(notes, DescribeLock(*ev)...)
			}
		}
		if err != nil && !errors.Is(err, multiplayer.ErrLinkClosed) {
			notes = append(notes, "ERROR: "+err.Error())
		}
	}
	switch o.player.Stopped() {
	case StopToppedOut, StopQuit:
		o.sendQuit()
	}
	o.showNotes(notes)
	return core.StepResult{State: o.State(), Events: notes}
}

// Forfeit leaves the match.
func (o *Online) Forfeit() {
	if o.player.Active() {
		o.player.stop = StopQuit
	}
	o.sendQuit()
}

func (o *Online) sendQuit() {
	if o.quitSent {
		return
	}
	o.quitSent = true
	_ = o.player.Quit() //nolint:errcheck // a closed link already took us out of play
}

// Finished reports whether the local side has left play for any reason.
func (o *Online) Finished() bool { return !o.player.Active() }

// Won reports whether the opponent left play first.
func (o *Online) Won() bool { return o.player.Stopped() == StopPeerQuit }

// SetResult records the referee's verdict for display.
func (o *Online) SetResult(text string) { o.result = text }

func (o *Online) showNotes(notes []string) {
	if len(notes) > 0 {
		o.notes = notes
		o.noteTicks = bannerTicks
		return
	}
	if o.noteTicks > 0 {
		o.noteTicks--
		if o.noteTicks == 0 {
			o.notes = nil
		}
	}
}

// State reports the local side's tally.
func (o *Online) State() core.GameState {
	st := o.player.Stats()
	gs := core.GameState{
		Score:    st.Score,
		Lines:    st.Lines,
		Level:    st.Level,
		GameOver: o.Finished(),
	}
	if o.Won() {
		gs.Winner = o.side
	} else if o.Finished() && o.player.Stopped() != StopLinkLost {
		gs.Winner = o.side.Opponent()
	}
	return gs
}

// Render draws the local panel with the opponent's name above it.
func (o *Online) Render(dst *core.Screen) {
	w, h := PanelSize(o.player)
	if dst.Width() < w || dst.Height() < h+1 {
		dst.DrawTextCentered(dst.Height()/2, "Terminal too small")
		return
	}
	x := (dst.Width() - w) / 2
	y := (dst.Height()-h)/2 + 1
	dst.DrawTextCentered(y-1, "vs "+o.opponent)
	DrawPanel(dst, o.player, x, y, "YOU ("+o.side.String()+")", o.notes)

	if !o.Finished() {
		return
	}
	title := "YOU LOSE"
	switch o.player.Stopped() {
	case StopPeerQuit:
		title = "YOU WIN"
	case StopLinkLost:
		title = "CONNECTION LOST"
	}
	sub := o.result
	if sub == "" {
		sub = "Esc for the lobby, Q to quit"
	}
	drawOverlay(dst, title, sub)
}
