package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
)

type recordingCoordinator struct {
	msgs []multiplayer.CoordinatorMessage
}

func (r *recordingCoordinator) Send(msg multiplayer.CoordinatorMessage) {
	r.msgs = append(r.msgs, msg)
}

func newTestOnlineModel() (OnlineModel, *recordingCoordinator) {
	coord := &recordingCoordinator{}
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 26, TickRate: 60}
	return NewOnlineModel("s1", coord, nil, cfg), coord
}

func update(t *testing.T, m OnlineModel, msg tea.Msg) OnlineModel {
	t.Helper()
	next, _ := m.Update(msg)
	om, ok := next.(OnlineModel)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return om
}

func TestOnlineHostFlow(t *testing.T) {
	m, coord := newTestOnlineModel()

	m = update(t, m, runeKey('h'))
	if len(coord.msgs) != 1 {
		t.Fatalf("sent %d messages, expected 1", len(coord.msgs))
	}
	if msg, ok := coord.msgs[0].(multiplayer.CreateLobbyMsg); !ok || msg.SessionID != "s1" {
		t.Errorf("message = %#v, expected CreateLobbyMsg for s1", coord.msgs[0])
	}

	m = update(t, m, multiplayer.LobbyCreatedEvent{Code: "ABC123"})
	if m.State() != OnlineStateHostWaiting || m.LobbyCode() != "ABC123" {
		t.Fatalf("state = %d, code = %q", m.State(), m.LobbyCode())
	}
	if !strings.Contains(m.View(), "ABC123") {
		t.Error("host view should show the code")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("Esc while hosting should go back")
	}
	if _, ok := coord.msgs[len(coord.msgs)-1].(multiplayer.CancelLobbyMsg); !ok {
		t.Error("leaving a hosted lobby should cancel it")
	}
}

func TestOnlineJoinCodeEntry(t *testing.T) {
	m, coord := newTestOnlineModel()
	m = update(t, m, runeKey('j'))
	if m.State() != OnlineStateJoinEnterCode {
		t.Fatalf("state = %d, expected join entry", m.State())
	}

	for _, r := range "ab-12xyz" {
		m = update(t, m, runeKey(r))
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.State() != OnlineStateJoinWaiting {
		t.Fatalf("state = %d, expected join waiting", m.State())
	}
	join, ok := coord.msgs[len(coord.msgs)-1].(multiplayer.JoinLobbyMsg)
	if !ok || join.Code != "AB12X" {
		t.Errorf("join message = %#v, expected code AB12X", coord.msgs[len(coord.msgs)-1])
	}

	m = update(t, m, multiplayer.LobbyErrorEvent{Message: "Lobby not found"})
	if m.State() != OnlineStateJoinEnterCode || !strings.Contains(m.View(), "Lobby not found") {
		t.Error("a join error should return to code entry and show the error")
	}
}

func TestOnlineMatchReportsAndEnds(t *testing.T) {
	m, coord := newTestOnlineModel()
	l1, l2 := multiplayer.NewPipe(multiplayer.DefaultPipeBuffer)
	defer l2.Close()

	m = update(t, m, multiplayer.MatchStartedEvent{
		MatchID:  "m1",
		Side:     core.Player1,
		Seed:     5,
		Link:     l1,
		Opponent: "bob",
	})
	if m.State() != OnlineStateInMatch || m.Game() == nil {
		t.Fatalf("state = %d, expected a running match", m.State())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = update(t, m, TickMsg{})
	if len(coord.msgs) == 0 {
		t.Fatal("a lock should be reported to the referee")
	}
	if r, ok := coord.msgs[len(coord.msgs)-1].(multiplayer.SideReportMsg); !ok || r.MatchID != "m1" || r.Side != core.Player1 {
		t.Errorf("report = %#v", coord.msgs[len(coord.msgs)-1])
	}

	if err := l2.Send(multiplayer.Quit()); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	m = update(t, m, TickMsg{})
	if !m.Game().Won() {
		t.Fatal("opponent's QUIT should win the match")
	}

	m = update(t, m, multiplayer.MatchEndedEvent{
		MatchID: "m1",
		Reason:  multiplayer.MatchEndReasonForfeit,
		Winner:  core.Player1,
	})
	if m.State() != OnlineStateMatchEnded {
		t.Fatalf("state = %d, expected match ended", m.State())
	}
	if !strings.Contains(m.View(), "You win") {
		t.Error("view should show the verdict")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("Esc after the match should go back")
	}
}

func TestOnlineQuitForfeits(t *testing.T) {
	m, coord := newTestOnlineModel()
	l1, l2 := multiplayer.NewPipe(multiplayer.DefaultPipeBuffer)
	defer l2.Close()
	m = update(t, m, multiplayer.MatchStartedEvent{MatchID: "m1", Side: core.Player2, Seed: 5, Link: l1, Opponent: "alice"})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.IsQuitting() {
		t.Fatal("ctrl+c should quit")
	}
	r, ok := coord.msgs[len(coord.msgs)-1].(multiplayer.SideReportMsg)
	if !ok || !r.Stats.Quit {
		t.Errorf("last message = %#v, expected a quit report", coord.msgs[len(coord.msgs)-1])
	}

	msgs, err := l2.Poll()
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if len(msgs) != 1 || msgs[0].Type != multiplayer.MessageQuit {
		t.Errorf("peer received %v, expected QUIT", msgs)
	}
}
