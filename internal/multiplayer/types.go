// Package multiplayer connects two independent sides of a versus match.
//
// Each side runs its own rules engine; the only shared state is a Link
// carrying QUIT, RESTART and GARBAGE messages. For SSH play a Coordinator
// pairs sessions through lobby codes, hands each side its end of a pipe
// and referees the match outcome.
package multiplayer

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// PlayerID is an alias to core.PlayerID for convenience.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	PlayerNone = core.PlayerNone
	Player1    = core.Player1
	Player2    = core.Player2
)

// SessionID uniquely identifies a connected session (e.g. an SSH connection).
type SessionID string

// MatchID uniquely identifies a match.
type MatchID string

// NewMatchID returns a fresh random match identifier.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// MatchMode defines how a match is played.
type MatchMode int

const (
	// MatchModeSolo is a single marathon game.
	MatchModeSolo MatchMode = iota
	// MatchModeLocalVersus runs both sides in one terminal.
	MatchModeLocalVersus
	// MatchModeVsCPU pits the local player against the placement bot.
	MatchModeVsCPU
	// MatchModeOnline pairs two SSH sessions through a lobby.
	MatchModeOnline
)

// String returns a human-readable name for the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeSolo:
		return "Marathon"
	case MatchModeLocalVersus:
		return "Local Versus"
	case MatchModeVsCPU:
		return "vs CPU"
	case MatchModeOnline:
		return "Online Versus"
	default:
		return "Unknown"
	}
}

// SideStats is what one side reports about its own progress.
type SideStats struct {
	Score     int
	Lines     int
	Sent      int
	Received  int
	ToppedOut bool
	Quit      bool
}

// Finished reports whether the side has left play.
func (s SideStats) Finished() bool {
	return s.ToppedOut || s.Quit
}
