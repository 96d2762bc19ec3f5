package multiplayer

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type fakeSaver struct {
	mu      sync.Mutex
	results []MatchResultData
}

func (f *fakeSaver) SaveMatchResult(r MatchResultData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
	return nil
}

func (f *fakeSaver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.results)
}

func newTestCoordinator(t *testing.T) (*Coordinator, *SessionRegistry) {
	t.Helper()
	reg := NewSessionRegistry()
	c := NewCoordinator(DefaultCoordinatorConfig(), reg)
	c.SetLogger(log.New(io.Discard))
	c.Start()
	t.Cleanup(c.Stop)
	return c, reg
}

func waitEvent[T SessionEvent](t *testing.T, s *ChannelSession) T {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if e, ok := evt.(T); ok {
				return e
			}
		case <-deadline:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func TestCoordinatorPairsLobby(t *testing.T) {
	c, reg := newTestCoordinator(t)

	host := NewChannelSession("host", "alice", 16)
	guest := NewChannelSession("guest", "bob", 16)
	reg.Register(host)
	reg.Register(guest)

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	created := waitEvent[LobbyCreatedEvent](t, host)
	if len(created.Code) != 6 {
		t.Fatalf("lobby code %q should have 6 characters", created.Code)
	}

	c.Send(JoinLobbyMsg{SessionID: guest.ID(), Code: created.Code})
	hostStart := waitEvent[MatchStartedEvent](t, host)
	guestStart := waitEvent[MatchStartedEvent](t, guest)

	if hostStart.MatchID != guestStart.MatchID {
		t.Errorf("sides got different matches: %s vs %s", hostStart.MatchID, guestStart.MatchID)
	}
	if hostStart.Seed != guestStart.Seed {
		t.Errorf("sides got different seeds: %d vs %d", hostStart.Seed, guestStart.Seed)
	}
	if hostStart.Side != Player1 || guestStart.Side != Player2 {
		t.Errorf("sides = %v/%v, expected P1/P2", hostStart.Side, guestStart.Side)
	}
	if hostStart.Opponent != "bob" || guestStart.Opponent != "alice" {
		t.Errorf("opponent names = %q/%q", hostStart.Opponent, guestStart.Opponent)
	}

	// The two link ends are connected
	if err := hostStart.Link.Send(Garbage(2)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	msgs, err := guestStart.Link.Poll()
	if err != nil || len(msgs) != 1 || msgs[0] != Garbage(2) {
		t.Errorf("guest Poll() = %v, %v; expected [GARBAGE(2)]", msgs, err)
	}
}

func TestCoordinatorJoinErrors(t *testing.T) {
	c, reg := newTestCoordinator(t)

	host := NewChannelSession("host", "alice", 16)
	reg.Register(host)

	c.Send(JoinLobbyMsg{SessionID: host.ID(), Code: "NOPE42"})
	if e := waitEvent[LobbyErrorEvent](t, host); e.Message != "Lobby not found" {
		t.Errorf("error = %q", e.Message)
	}

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	created := waitEvent[LobbyCreatedEvent](t, host)

	c.Send(JoinLobbyMsg{SessionID: host.ID(), Code: created.Code})
	if e := waitEvent[LobbyErrorEvent](t, host); e.Message != "Already in a lobby" {
		t.Errorf("error = %q", e.Message)
	}
}

func TestCoordinatorToppedOutSideLoses(t *testing.T) {
	c, reg := newTestCoordinator(t)
	saver := &fakeSaver{}
	c.SetResultSaver(saver)

	host := NewChannelSession("host", "alice", 16)
	guest := NewChannelSession("guest", "bob", 16)
	reg.Register(host)
	reg.Register(guest)

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	created := waitEvent[LobbyCreatedEvent](t, host)
	c.Send(JoinLobbyMsg{SessionID: guest.ID(), Code: created.Code})
	start := waitEvent[MatchStartedEvent](t, host)
	waitEvent[MatchStartedEvent](t, guest)

	c.Send(SideReportMsg{MatchID: start.MatchID, Side: Player1, Stats: SideStats{Lines: 12, Sent: 6}})
	c.Send(SideReportMsg{MatchID: start.MatchID, Side: Player2, Stats: SideStats{Lines: 3, ToppedOut: true}})

	ended := waitEvent[MatchEndedEvent](t, host)
	if ended.Winner != Player1 {
		t.Errorf("Winner = %v, expected P1", ended.Winner)
	}
	if ended.Reason != MatchEndReasonToppedOut {
		t.Errorf("Reason = %v, expected topped_out", ended.Reason)
	}
	if ended.Stats1.Sent != 6 {
		t.Errorf("Stats1.Sent = %d, expected 6", ended.Stats1.Sent)
	}

	// Links are closed once the match is decided
	if _, err := start.Link.Poll(); err == nil {
		t.Error("link should be closed after the match ends")
	}

	deadline := time.Now().Add(2 * time.Second)
	for saver.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if saver.count() != 1 {
		t.Fatalf("expected 1 saved result, got %d", saver.count())
	}
	if saver.results[0].Winner != "alice" {
		t.Errorf("saved winner = %q, expected alice", saver.results[0].Winner)
	}
}

func TestCoordinatorDisconnectForfeits(t *testing.T) {
	c, reg := newTestCoordinator(t)

	host := NewChannelSession("host", "alice", 16)
	guest := NewChannelSession("guest", "bob", 16)
	reg.Register(host)
	reg.Register(guest)

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	created := waitEvent[LobbyCreatedEvent](t, host)
	c.Send(JoinLobbyMsg{SessionID: guest.ID(), Code: created.Code})
	waitEvent[MatchStartedEvent](t, guest)

	host.Close()

	ended := waitEvent[MatchEndedEvent](t, guest)
	if ended.Winner != Player2 || ended.Reason != MatchEndReasonDisconnect {
		t.Errorf("ended = %+v, expected P2 win by disconnect", ended)
	}
}

func TestCleanupExpiredLobbies(t *testing.T) {
	reg := NewSessionRegistry()
	c := NewCoordinator(DefaultCoordinatorConfig(), reg)
	c.SetLogger(log.New(io.Discard))

	host := NewChannelSession("host", "alice", 16)
	c.lobbies["ABCDEF"] = &Lobby{Code: "ABCDEF", Host: host, CreatedAt: time.Now().Add(-time.Hour)}
	c.sessionLobby[host.ID()] = "ABCDEF"

	c.cleanupExpiredLobbies(time.Now())

	if c.LobbyCount() != 0 {
		t.Errorf("LobbyCount() = %d, expected 0", c.LobbyCount())
	}
	select {
	case evt := <-host.Events():
		if _, ok := evt.(LobbyErrorEvent); !ok {
			t.Errorf("expected LobbyErrorEvent, got %T", evt)
		}
	default:
		t.Error("host was not told the lobby expired")
	}
}

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("s", "s", 2)
	s.Send(LobbyCreatedEvent{Code: "A"})
	s.Send(LobbyCreatedEvent{Code: "B"})
	s.Send(LobbyCreatedEvent{Code: "C"})

	first := (<-s.Events()).(LobbyCreatedEvent)
	second := (<-s.Events()).(LobbyCreatedEvent)
	if first.Code != "B" || second.Code != "C" {
		t.Errorf("got %s, %s; expected B, C", first.Code, second.Code)
	}

	s.Close()
	s.Close()
	s.Send(LobbyCreatedEvent{Code: "D"})
	if len(s.Events()) != 0 {
		t.Error("closed session should not accept events")
	}
}
