package tetris

import "errors"

var (
	// ErrCollision is returned when a piece is placed where it overlaps
	// a filled cell or leaves the field.
	ErrCollision = errors.New("tetris: piece collides")

	// ErrInvariant marks a state the rules make impossible, such as a
	// four-row T-spin. It indicates a bug in the caller or the engine.
	ErrInvariant = errors.New("tetris: invariant violated")
)
