package config

import (
	"fmt"
	"math"
	"time"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. The empty string means "keep the
// configured values".
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// StartLevelForPreset returns the starting level of a preset.
func StartLevelForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyNormal:
		return 4
	case DifficultyHard:
		return 10
	default:
		return 1
	}
}

// ApplyTetrisPreset modifies the config based on a difficulty preset.
// "fixed" keeps the configured start level and disables progression.
func ApplyTetrisPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.StartLevel = StartLevelForPreset(preset)
	}
	if preset == DifficultyHard {
		cfg.Timing.LockDelayMs = min(cfg.Timing.LockDelayMs, 350)
	}
}

// LevelManager turns cleared lines into a level and a gravity interval.
type LevelManager struct {
	cfg      DifficultyConfig
	gravity  time.Duration
	maxLevel int
}

// NewLevelManager creates a level manager. A positive gravityMs pins the
// gravity interval regardless of level.
func NewLevelManager(cfg DifficultyConfig, gravityMs int) *LevelManager {
	maxLevel := cfg.MaxLevel
	if maxLevel < 1 {
		maxLevel = 20
	}
	if cfg.LinesPerLvl < 1 {
		cfg.LinesPerLvl = 10
	}
	return &LevelManager{
		cfg:      cfg,
		gravity:  time.Duration(gravityMs) * time.Millisecond,
		maxLevel: maxLevel,
	}
}

// Level returns the level reached after clearing lines.
func (m *LevelManager) Level(lines int) int {
	start := max(1, m.cfg.StartLevel)
	if !m.cfg.Enabled {
		return start
	}
	return min(start+lines/m.cfg.LinesPerLvl, max(start, m.maxLevel))
}

// Gravity returns how long a piece takes to fall one row at level.
func (m *LevelManager) Gravity(level int) time.Duration {
	if m.gravity > 0 {
		return m.gravity
	}
	return GravityInterval(level)
}

// GravityInterval is the marathon gravity curve:
// (0.8 - (level-1) * 0.007) ^ (level-1) seconds per row, levels 1 to 20.
func GravityInterval(level int) time.Duration {
	switch {
	case level < 1:
		level = 1
	case level > 20:
		level = 20
	}
	seconds := math.Pow(0.8-float64(level-1)*0.007, float64(level-1))
	return time.Duration(seconds * float64(time.Second))
}
