package config

import (
	_ "embed"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the hardcoded configuration, used when the
// embedded YAML cannot be parsed.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Field: FieldConfig{
			Width:   10,
			Height:  40,
			Visible: 20,
		},
		Timing: TimingConfig{
			LockDelayMs:    500,
			MaxLockResets:  15,
			SoftDropFactor: 20,
		},
		Queue: QueueConfig{
			Preview: 5,
			Hold:    true,
		},
		Versus: VersusConfig{
			PipeBuffer: 256,
			CPUThinkMs: 400,
		},
		Difficulty: DifficultyConfig{
			Enabled:     true,
			StartLevel:  1,
			MaxLevel:    20,
			LinesPerLvl: 10,
		},
	}
}
