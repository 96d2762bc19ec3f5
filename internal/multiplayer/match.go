package multiplayer

import (
	"sync"
	"time"
)

// MatchResult contains the outcome of a completed online match.
type MatchResult struct {
	MatchID  MatchID
	Reason   MatchEndReason
	Winner   PlayerID
	Stats1   SideStats
	Stats2   SideStats
	Duration time.Duration
}

type sideReport struct {
	side  PlayerID
	stats SideStats
}

// OnlineMatch referees a match between two sessions. It does not simulate
// anything: each session drives its own side and reports its stats; the
// first side to top out or quit loses. When the match ends both pipe ends
// are closed so a side still running terminates on its own.
type OnlineMatch struct {
	id        MatchID
	code      string
	seed      uint32
	sessions  [2]SessionHandle
	links     [2]Link
	startedAt time.Time

	mu    sync.Mutex
	stats [2]SideStats

	reports    chan sideReport
	disconnect chan SessionID
	done       chan struct{}
	doneOnce   sync.Once
}

// NewOnlineMatch creates a match for two sessions joined by a pipe.
func NewOnlineMatch(id MatchID, code string, seed uint32, p1, p2 SessionHandle, l1, l2 Link) *OnlineMatch {
	return &OnlineMatch{
		id:         id,
		code:       code,
		seed:       seed,
		sessions:   [2]SessionHandle{p1, p2},
		links:      [2]Link{l1, l2},
		startedAt:  time.Now(),
		reports:    make(chan sideReport, 64),
		disconnect: make(chan SessionID, 2),
		done:       make(chan struct{}),
	}
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID { return m.id }

// Code returns the lobby code the match was created from.
func (m *OnlineMatch) Code() string { return m.code }

// Seed returns the piece-sequence seed shared by both sides.
func (m *OnlineMatch) Seed() uint32 { return m.seed }

// Session returns the session playing the given side.
func (m *OnlineMatch) Session(side PlayerID) SessionHandle {
	if side == Player2 {
		return m.sessions[1]
	}
	return m.sessions[0]
}

// Link returns the pipe end handed to the given side.
func (m *OnlineMatch) Link(side PlayerID) Link {
	if side == Player2 {
		return m.links[1]
	}
	return m.links[0]
}

// Stats returns the last stats reported by a side.
func (m *OnlineMatch) Stats(side PlayerID) SideStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats[sideIndex(side)]
}

// Report records a side's stats. Non-blocking.
func (m *OnlineMatch) Report(side PlayerID, stats SideStats) {
	select {
	case m.reports <- sideReport{side: side, stats: stats}:
	default:
		// Keep the latest numbers even if the referee is behind.
		m.mu.Lock()
		m.stats[sideIndex(side)] = stats
		m.mu.Unlock()
	}
}

// PlayerDisconnected signals that a session went away.
func (m *OnlineMatch) PlayerDisconnected(id SessionID) {
	select {
	case m.disconnect <- id:
	default:
	}
}

// Run blocks until the match is decided, then calls onComplete.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	for {
		select {
		case r := <-m.reports:
			m.mu.Lock()
			m.stats[sideIndex(r.side)] = r.stats
			m.mu.Unlock()
			if !r.stats.Finished() {
				continue
			}
			reason := MatchEndReasonToppedOut
			if r.stats.Quit && !r.stats.ToppedOut {
				reason = MatchEndReasonForfeit
			}
			m.finish(onComplete, reason, r.side.Opponent())
			return

		case id := <-m.disconnect:
			m.finish(onComplete, MatchEndReasonDisconnect, m.sideOf(id).Opponent())
			return

		case <-m.sessions[0].Done():
			m.finish(onComplete, MatchEndReasonDisconnect, Player2)
			return

		case <-m.sessions[1].Done():
			m.finish(onComplete, MatchEndReasonDisconnect, Player1)
			return

		case <-m.done:
			m.finish(onComplete, MatchEndReasonCancelled, PlayerNone)
			return
		}
	}
}

func (m *OnlineMatch) finish(onComplete func(MatchResult), reason MatchEndReason, winner PlayerID) {
	m.closeLinks()
	if onComplete == nil {
		return
	}
	m.mu.Lock()
	result := MatchResult{
		MatchID:  m.id,
		Reason:   reason,
		Winner:   winner,
		Stats1:   m.stats[0],
		Stats2:   m.stats[1],
		Duration: time.Since(m.startedAt),
	}
	m.mu.Unlock()
	onComplete(result)
}

func (m *OnlineMatch) sideOf(id SessionID) PlayerID {
	if m.sessions[1].ID() == id {
		return Player2
	}
	return Player1
}

func (m *OnlineMatch) closeLinks() {
	for _, l := range m.links {
		if l != nil {
			_ = l.Close() //nolint:errcheck // pipe Close never fails
		}
	}
}

// Stop cancels the match. Safe to call multiple times.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}

func sideIndex(side PlayerID) int {
	if side == Player2 {
		return 1
	}
	return 0
}
