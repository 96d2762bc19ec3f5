package main

import (
	"context"
	"testing"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
)

func TestSimulateStopsAtPieceLimit(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := simulate(ctx, 7, 30)
	if err != nil {
		t.Fatalf("simulate() error = %v", err)
	}
	for i, r := range results {
		if r.Reason == tetris.StopNone {
			t.Errorf("side %d still playing after simulate()", i+1)
		}
		if r.Stats.Pieces > 30 {
			t.Errorf("side %d placed %d pieces, expected at most 30", i+1, r.Stats.Pieces)
		}
	}
}

func TestSimWinner(t *testing.T) {
	tests := []struct {
		name     string
		reasons  [2]tetris.StopReason
		expected core.PlayerID
	}{
		{"P2 topped out", [2]tetris.StopReason{tetris.StopPeerQuit, tetris.StopToppedOut}, core.Player1},
		{"P1 topped out", [2]tetris.StopReason{tetris.StopToppedOut, tetris.StopPeerQuit}, core.Player2},
		{"piece limit", [2]tetris.StopReason{tetris.StopQuit, tetris.StopPeerQuit}, core.PlayerNone},
		{"both topped out", [2]tetris.StopReason{tetris.StopToppedOut, tetris.StopToppedOut}, core.PlayerNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := [2]tetris.SideResult{{Reason: tt.reasons[0]}, {Reason: tt.reasons[1]}}
			if got := simWinner(results); got != tt.expected {
				t.Errorf("simWinner() = %s, expected %s", got, tt.expected)
			}
		})
	}
}
