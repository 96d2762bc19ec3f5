package tetris

import (
	"sync"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/config"
)

// Package-level configuration, set by the CLI before games are created.
var (
	settingsMu sync.RWMutex
	settings   = config.DefaultTetrisConfig()
)

// SetConfig replaces the configuration used by games created afterwards.
func SetConfig(cfg config.TetrisConfig) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	settings = cfg
}

// CurrentConfig returns the configuration new games will use.
func CurrentConfig() config.TetrisConfig {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}

// OptionsFromConfig builds player options for one side. Both sides of a
// match must be given the same seed; side only varies the garbage holes.
func OptionsFromConfig(cfg config.TetrisConfig, seed uint32, side int) Options {
	levels := config.NewLevelManager(cfg.Difficulty, cfg.Timing.GravityMs)
	preview := cfg.Queue.Preview
	if preview == 0 {
		preview = -1
	}
	resets := cfg.Timing.MaxLockResets
	if resets == 0 {
		resets = -1
	}
	return Options{
		Width:          cfg.Field.Width,
		Height:         cfg.Field.Height,
		Visible:        cfg.Field.Visible,
		Preview:        preview,
		Seed:           seed,
		DisableHold:    !cfg.Queue.Hold,
		StartLevel:     cfg.Difficulty.StartLevel,
		Level:          levels.Level,
		Gravity:        levels.Gravity,
		LockDelay:      time.Duration(cfg.Timing.LockDelayMs) * time.Millisecond,
		MaxLockResets:  resets,
		SoftDropFactor: cfg.Timing.SoftDropFactor,
		GarbageRand:    garbageRand(seed, side),
	}
}
