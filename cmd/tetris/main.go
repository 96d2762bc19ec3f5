// tetris plays guideline-style Tetris in the terminal, locally or over SSH.
//
// Usage:
//
//	tetris list              - List available modes
//	tetris play [mode]       - Play a mode, or pick one from the menu
//	tetris versus [--cpu]    - Two players on one keyboard, or against the bot
//	tetris serve             - Start the SSH server for online versus
//	tetris scores [mode]     - Show high scores and recent matches
//	tetris sim               - Run a headless bot duel
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for a reproducible sequence
//	--db <path>           - Set database path (default: ~/.tetris/scores.db)
//	--config <path>       - Custom tetris.yaml
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
)

var (
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "tetris",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tetris",
	Short: "Tetris in your terminal, solo, versus or over SSH",
	Long: `A guideline-style Tetris with SRS rotation, T-spins, combos,
back-to-back bonuses and garbage exchange between two players.

Available commands:
  list     - Show all modes
  play     - Play a mode directly, or pick one from a menu
  versus   - Local two-player versus, or versus the CPU
  serve    - Start the SSH server for online versus
  scores   - View high scores and match history
  sim      - Headless bot duel

Examples:
  tetris play
  tetris play marathon --difficulty hard
  tetris versus --cpu
  tetris serve --ssh :2222
  tetris sim --pieces 200 --seed 42`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tetris/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tetris config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(versusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
}

// setup applies the logging and game configuration flags before any
// command runs.
func setup(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger.SetLevel(level)

	cfg, err := config.LoadTetris(flagConfig)
	if err != nil {
		return err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	config.ApplyTetrisPreset(&cfg, preset)
	tetris.SetConfig(cfg)

	logger.Debug("configuration loaded",
		"width", cfg.Field.Width,
		"height", cfg.Field.Height,
		"start_level", cfg.Difficulty.StartLevel,
		"difficulty", preset,
	)
	return nil
}
