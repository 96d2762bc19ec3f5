// Package config provides YAML-based game configuration loading, environment
// overrides and difficulty presets.
package config

import (
	"errors"
	"fmt"
)

// TetrisConfig contains all tunables of the game.
type TetrisConfig struct {
	Field      FieldConfig      `yaml:"field" envPrefix:"FIELD_"`
	Timing     TimingConfig     `yaml:"timing" envPrefix:"TIMING_"`
	Queue      QueueConfig      `yaml:"queue" envPrefix:"QUEUE_"`
	Versus     VersusConfig     `yaml:"versus" envPrefix:"VERSUS_"`
	Difficulty DifficultyConfig `yaml:"difficulty" envPrefix:"DIFFICULTY_"`
}

// FieldConfig defines the playfield geometry.
type FieldConfig struct {
	Width   int `yaml:"width" env:"WIDTH"`
	Height  int `yaml:"height" env:"HEIGHT"`   // Total rows, headroom included
	Visible int `yaml:"visible" env:"VISIBLE"` // Rows shown to the player
}

// TimingConfig defines gravity and lock behaviour, in milliseconds.
type TimingConfig struct {
	LockDelayMs   int `yaml:"lock_delay_ms" env:"LOCK_DELAY_MS"`
	MaxLockResets int `yaml:"max_lock_resets" env:"MAX_LOCK_RESETS"`
	// SoftDropFactor divides the gravity interval while soft drop is held.
	SoftDropFactor int `yaml:"soft_drop_factor" env:"SOFT_DROP_FACTOR"`
	// GravityMs overrides the level curve when positive.
	GravityMs int `yaml:"gravity_ms" env:"GRAVITY_MS"`
}

// QueueConfig defines the next-piece preview.
type QueueConfig struct {
	Preview int  `yaml:"preview" env:"PREVIEW"`
	Hold    bool `yaml:"hold" env:"HOLD"`
}

// VersusConfig defines two-player settings.
type VersusConfig struct {
	PipeBuffer int `yaml:"pipe_buffer" env:"PIPE_BUFFER"`
	// CPUThinkMs is how long the bot waits before each placement.
	CPUThinkMs int `yaml:"cpu_think_ms" env:"CPU_THINK_MS"`
}

// DifficultyConfig defines level progression.
type DifficultyConfig struct {
	Enabled     bool `yaml:"enabled" env:"ENABLED"`
	StartLevel  int  `yaml:"start_level" env:"START_LEVEL"`
	MaxLevel    int  `yaml:"max_level" env:"MAX_LEVEL"`
	LinesPerLvl int  `yaml:"lines_per_level" env:"LINES_PER_LEVEL"`
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate rejects configurations the engine cannot run with.
func (c TetrisConfig) Validate() error {
	switch {
	case c.Field.Width < 4:
		return fmt.Errorf("%w: field width %d is below 4", ErrInvalidConfig, c.Field.Width)
	case c.Field.Visible < 4:
		return fmt.Errorf("%w: visible rows %d is below 4", ErrInvalidConfig, c.Field.Visible)
	case c.Field.Visible > c.Field.Height:
		return fmt.Errorf("%w: visible rows %d exceed height %d", ErrInvalidConfig, c.Field.Visible, c.Field.Height)
	case c.Field.Height-c.Field.Visible < 4:
		return fmt.Errorf("%w: need at least 4 rows of headroom, got %d", ErrInvalidConfig, c.Field.Height-c.Field.Visible)
	case c.Timing.LockDelayMs < 0:
		return fmt.Errorf("%w: negative lock delay", ErrInvalidConfig)
	case c.Timing.SoftDropFactor < 1:
		return fmt.Errorf("%w: soft drop factor must be at least 1", ErrInvalidConfig)
	case c.Queue.Preview < 0 || c.Queue.Preview > 7:
		return fmt.Errorf("%w: preview %d outside 0..7", ErrInvalidConfig, c.Queue.Preview)
	case c.Difficulty.StartLevel < 1:
		return fmt.Errorf("%w: start level %d is below 1", ErrInvalidConfig, c.Difficulty.StartLevel)
	}
	return nil
}
