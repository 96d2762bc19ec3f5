package tetris

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
)

func TestRunHeadlessTwoBots(t *testing.T) {
	a, b := multiplayer.NewPipe(0)
	links := []multiplayer.Link{a, b}
	players := make([]*Player, 2)
	for i := range players {
		players[i] = NewPlayer(Options{Seed: 77, GarbageRand: garbageRand(77, i), Outbox: links[i]})
	}

	results := make([]SideResult, 2)
	g, ctx := errgroup.WithContext(context.Background())
	for i := range players {
		g.Go(func() error {
			res, err := RunHeadless(ctx, players[i], NewBot(DefaultWeights(), 0), links[i], 60, nil)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("RunHeadless() error = %v", err)
	}

	for i, res := range results {
		if res.Stats.Pieces > 60 {
			t.Errorf("side %d placed %d pieces, limit was 60", i, res.Stats.Pieces)
		}
		if res.Reason == StopNone {
			t.Errorf("side %d still reports playing", i)
		}
	}
	if results[1].Stats.Received > results[0].Stats.Sent || results[0].Stats.Received > results[1].Stats.Sent {
		t.Errorf("received more garbage than was sent: %+v", results)
	}
}

func TestRunHeadlessStopsOnCancel(t *testing.T) {
	a, b := multiplayer.NewPipe(0)
	p := NewPlayer(Options{Seed: 1, Outbox: a})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := RunHeadless(ctx, p, NewBot(DefaultWeights(), 0), a, 0, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RunHeadless() error = %v, expected context.Canceled", err)
	}
	if res.Reason != StopQuit {
		t.Errorf("Reason = %s, expected %s", res.Reason, StopQuit)
	}

	msgs, _ := b.Poll()
	if len(msgs) != 1 || msgs[0].Type != multiplayer.MessageQuit {
		t.Errorf("peer received %v, expected a single QUIT", msgs)
	}
}

func TestRunHeadlessToppedOutSideLoses(t *testing.T) {
	a, b := multiplayer.NewPipe(0)
	p := NewPlayer(Options{Seed: 3, Outbox: a})
	buryField(p.Field())
	if ev, err := p.HardDrop(); err != nil || !ev.ToppedOut {
		t.Fatalf("HardDrop() = %+v, %v, expected a top out", ev, err)
	}
	if err := b.Send(multiplayer.Quit()); err != nil {
		t.Fatal(err)
	}

	res, err := RunHeadless(context.Background(), p, NewBot(DefaultWeights(), 0), a, 0, nil)
	if err != nil {
		t.Fatalf("RunHeadless() error = %v", err)
	}
	if res.Reason != StopToppedOut {
		t.Errorf("Reason = %s, expected %s", res.Reason, StopToppedOut)
	}

	msgs, _ := b.Poll()
	if len(msgs) != 1 || msgs[0].Type != multiplayer.MessageQuit {
		t.Errorf("peer received %v, expected a single QUIT", msgs)
	}
}

func TestRunHeadlessObservesLocks(t *testing.T) {
	a, _ := multiplayer.NewPipe(0)
	p := NewPlayer(Options{Seed: 5, Outbox: a})
	count := 0
	_, err := RunHeadless(context.Background(), p, NewBot(DefaultWeights(), 0), a, 10, func(int, LockEvent) {
		count++
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 10 {
		t.Errorf("observer saw %d locks, expected 10", count)
	}
}
