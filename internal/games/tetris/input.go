package tetris

import (
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// ApplyInput feeds one tick of actions to p: rotations and hold first,
// then horizontal moves, soft drops and finally a hard drop. It returns
// HUD notes for anything a lock produced.
func ApplyInput(p *Player, in core.InputFrame) ([]string, error) {
	if !p.Active() {
		return nil, nil
	}
	for range in.Count(core.ActionRotateCW) {
		p.Rotate(true)
	}
	for range in.Count(core.ActionRotateCCW) {
		p.Rotate(false)
	}
	if in.Has(core.ActionHold) {
		p.Hold()
	}
	for range in.Count(core.ActionLeft) {
		p.Move(-1)
	}
	for range in.Count(core.ActionRight) {
		p.Move(1)
	}
	for range in.Count(core.ActionSoftDrop) {
		p.SoftDrop()
	}
	if in.Has(core.ActionHardDrop) {
		ev, err := p.HardDrop()
		return DescribeLock(ev), err
	}
	return nil, nil
}

// DescribeLock turns a lock event into short HUD notes.
func DescribeLock(ev LockEvent) []string {
	var notes []string
	if r := ev.Result; r != nil {
		name := r.Type.String()
		if r.BackToBack > 0 {
			name = "B2B " + name
		}
		notes = append(notes, name)
		if r.PerfectClear {
			notes = append(notes, "PERFECT CLEAR")
		}
		if r.Combo > 0 {
			notes = append(notes, fmt.Sprintf("COMBO %d", r.Combo))
		}
	}
	if ev.Sent > 0 {
		notes = append(notes, fmt.Sprintf("+%d garbage", ev.Sent))
	}
	if ev.ToppedOut {
		notes = append(notes, "TOP OUT")
	}
	return notes
}
