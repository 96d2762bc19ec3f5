package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
)

var (
	flagPieces  int
	flagTimeout time.Duration
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a headless bot duel",
	Long: `Play two bots against each other without a terminal UI. Both sides
share one piece sequence and exchange garbage over an in-memory link.
The duel ends when a side tops out or both have placed --pieces pieces.

Use --log-level debug to see every lock.

Examples:
  tetris sim
  tetris sim --seed 42 --pieces 500
  tetris sim --log-level debug --pieces 50`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagPieces, "pieces", 200, "Pieces per side before the duel stops (0 = until a top out)")
	simCmd.Flags().DurationVar(&flagTimeout, "timeout", time.Minute, "Give up after this long")
}

func runSim(cmd *cobra.Command, _ []string) {
	seed := uint32(flagSeed)
	if flagSeed == 0 {
		seed = uint32(time.Now().UnixNano())
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
	defer cancel()

	results, err := simulate(ctx, seed, flagPieces)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seed %d\n\n", seed)
	fmt.Printf("  %-4s  %-13s  %-8s  %-6s  %-6s  %-5s  %-8s  %s\n",
		"Side", "Result", "Score", "Lines", "Pieces", "Sent", "Received", "T-Spins")
	for i, r := range results {
		fmt.Printf("  %-4s  %-13s  %-8d  %-6d  %-6d  %-5d  %-8d  %d\n",
			core.PlayerID(i+1), r.Reason, r.Stats.Score, r.Stats.Lines, r.Stats.Pieces,
			r.Stats.Sent, r.Stats.Received, r.Stats.TSpins)
	}

	fmt.Println()
	switch winner := simWinner(results); winner {
	case core.PlayerNone:
		fmt.Println("No winner")
	default:
		fmt.Printf("Winner: %s\n", winner)
	}
}

// simulate runs both sides concurrently until they stop.
func simulate(ctx context.Context, seed uint32, pieces int) ([2]tetris.SideResult, error) {
	var results [2]tetris.SideResult

	buffer := tetris.CurrentConfig().Versus.PipeBuffer
	l1, l2 := multiplayer.NewPipe(buffer)
	links := [2]multiplayer.Link{l1, l2}

	g, ctx := errgroup.WithContext(ctx)
	for i := range links {
		side := core.PlayerID(i + 1)
		link := links[i]
		g.Go(func() error {
			opts := tetris.OptionsFromConfig(tetris.CurrentConfig(), seed, i)
			opts.Outbox = link
			p := tetris.NewPlayer(opts)
			bot := tetris.NewBot(tetris.DefaultWeights(), 0)
			sideLog := logger.With("side", side)

			res, err := tetris.RunHeadless(ctx, p, bot, link, pieces, func(n int, ev tetris.LockEvent) {
				if ev.Result == nil {
					return
				}
				sideLog.Debug("clear",
					"piece", n,
					"type", ev.Result.Type,
					"spin", ev.Result.Spin,
					"combo", ev.Result.Combo,
					"b2b", ev.Result.BackToBack,
					"attack", ev.Attack,
					"sent", ev.Sent,
				)
			})
			if err != nil {
				return fmt.Errorf("%s: %w", side, err)
			}
			results[i] = res
			sideLog.Info("side finished", "reason", res.Reason, "score", res.Stats.Score)
			return nil
		})
	}
	return results, g.Wait()
}

// simWinner picks the side whose opponent topped out. Sides that ran out
// of pieces are a draw.
func simWinner(results [2]tetris.SideResult) core.PlayerID {
	switch {
	case results[1].Reason == tetris.StopToppedOut && results[0].Reason != tetris.StopToppedOut:
		return core.Player1
	case results[0].Reason == tetris.StopToppedOut && results[1].Reason != tetris.StopToppedOut:
		return core.Player2
	}
	return core.PlayerNone
}
