package main

import (
	"github.com/spf13/cobra"
)

var flagCPU bool

var versusCmd = &cobra.Command{
	Use:   "versus",
	Short: "Two-player versus on one keyboard, or against the CPU",
	Long: `Start a versus match. Cleared lines send garbage to the other side;
the first side to top out loses.

Player 1 (left):
  A/D          - Move
  S            - Soft drop
  Space        - Hard drop
  W / E        - Rotate clockwise / counter-clockwise
  F            - Hold

Player 2 (right):
  Left/Right   - Move
  Down         - Soft drop
  Enter        - Hard drop
  Up / Slash   - Rotate clockwise / counter-clockwise
  Period       - Hold

With --cpu the right side is played by the bot and player 1 may use
the solo layout.

Examples:
  tetris versus
  tetris versus --cpu --difficulty hard`,
	Args: cobra.NoArgs,
	Run:  runVersus,
}

func init() {
	versusCmd.Flags().BoolVar(&flagCPU, "cpu", false, "Play against the bot")
}

func runVersus(_ *cobra.Command, _ []string) {
	if flagCPU {
		playMode("versus_cpu")
		return
	}
	playMode("versus")
}
