package tetris

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
)

// SideResult is what a headless side reports when it stops.
type SideResult struct {
	Stats  Stats
	Reason StopReason
}

// LockObserver is told about every lock of a headless side.
type LockObserver func(piece int, ev LockEvent)

// RunHeadless plays one side with bot until it tops out, the opponent
// quits, the link drops, maxPieces pieces are placed or ctx is done. The
// player must have been created with link as its Outbox. The link is closed
// on return.
func RunHeadless(ctx context.Context, p *Player, bot *Bot, link multiplayer.Link, maxPieces int, observe LockObserver) (SideResult, error) {
	defer link.Close()

	for pieces := 0; ; pieces++ {
		if err := ctx.Err(); err != nil {
			_ = p.Quit()
			return SideResult{Stats: p.Stats(), Reason: p.Stopped()}, err
		}
		if err := p.Poll(link); err != nil && !errors.Is(err, multiplayer.ErrLinkClosed) {
			return SideResult{Stats: p.Stats(), Reason: p.Stopped()}, err
		}
		if !p.Active() {
			break
		}
		if maxPieces > 0 && pieces >= maxPieces {
			_ = p.Quit()
			break
		}

		var err error
		if plan, ok := bot.Best(p); ok {
			_, err = ApplyInput(p, plan.Frame())
		} else {
			_, err = p.HardDrop()
		}
		if err != nil && !errors.Is(err, multiplayer.ErrLinkClosed) {
			return SideResult{Stats: p.Stats(), Reason: p.Stopped()}, fmt.Errorf("piece %d: %w", pieces, err)
		}
		if observe != nil {
			observe(pieces, p.LastLock())
		}
	}

	if p.Stopped() == StopToppedOut {
		_ = p.Quit()
	}
	return SideResult{Stats: p.Stats(), Reason: p.Stopped()}, nil
}
