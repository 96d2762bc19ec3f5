package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
)

const joinCodeLen = 6

// OnlineState is a step of the online flow.
type OnlineState int

const (
	OnlineStateChooseMode OnlineState = iota
	OnlineStateHostWaiting
	OnlineStateJoinEnterCode
	OnlineStateJoinWaiting
	OnlineStateInMatch
	OnlineStateMatchEnded
)

// CoordinatorSender is the part of the coordinator the lobby talks to.
type CoordinatorSender interface {
	Send(msg multiplayer.CoordinatorMessage)
}

// OnlineModel walks a session through hosting or joining a lobby and then
// plays the match over the link the coordinator hands out.
type OnlineModel struct {
	state       OnlineState
	width       int
	height      int
	tickRate    int
	keys        *KeyMapper
	sessionID   multiplayer.SessionID
	coordinator CoordinatorSender
	events      <-chan multiplayer.SessionEvent

	lobbyCode     string
	joinCodeInput string
	joinError     string

	matchID  multiplayer.MatchID
	side     core.PlayerID
	game     *tetris.Online
	screen   *core.Screen
	input    core.MultiInputFrame
	reported multiplayer.SideStats

	backToMenu bool
	quitting   bool
}

// NewOnlineModel creates the online flow for one session.
func NewOnlineModel(
	sessionID multiplayer.SessionID,
	coordinator CoordinatorSender,
	events <-chan multiplayer.SessionEvent,
	cfg core.RuntimeConfig,
) OnlineModel {
	return OnlineModel{
		state:       OnlineStateChooseMode,
		width:       cfg.ScreenW,
		height:      cfg.ScreenH,
		tickRate:    cfg.TickRate,
		keys:        NewKeyMapper(),
		sessionID:   sessionID,
		coordinator: coordinator,
		events:      events,
		screen:      core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		input:       core.NewMultiInputFrame(),
	}
}

// Init starts listening for coordinator events.
func (m OnlineModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// waitForEvent blocks on the session's event channel.
func waitForEvent(events <-chan multiplayer.SessionEvent) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		evt, ok := <-events
		if !ok {
			return nil
		}
		return evt
	}
}

// Update handles messages.
func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick()
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = OnlineStateHostWaiting
		return m, waitForEvent(m.events)
	case multiplayer.LobbyErrorEvent:
		m.joinError = msg.Message
		if m.state == OnlineStateJoinWaiting {
			m.state = OnlineStateJoinEnterCode
		}
		return m, waitForEvent(m.events)
	case multiplayer.LobbyPlayerLeftEvent:
		return m, waitForEvent(m.events)
	case multiplayer.MatchStartedEvent:
		return m.startMatch(msg)
	case multiplayer.MatchEndedEvent:
		if msg.MatchID == m.matchID && m.game != nil {
			m.game.SetResult(m.verdict(msg))
			m.state = OnlineStateMatchEnded
		}
		return m, waitForEvent(m.events)
	}
	return m, nil
}

func (m OnlineModel) startMatch(evt multiplayer.MatchStartedEvent) (tea.Model, tea.Cmd) {
	m.matchID = evt.MatchID
	m.side = evt.Side
	m.lobbyCode = evt.Code
	m.game = tetris.NewOnline(tetris.CurrentConfig(), evt.Seed, evt.Side, evt.Link, evt.Opponent, m.tickRate)
	m.reported = m.game.Player().SideStats()
	m.state = OnlineStateInMatch
	return m, tea.Batch(waitForEvent(m.events), tickCmd(m.tickRate))
}

func (m OnlineModel) verdict(evt multiplayer.MatchEndedEvent) string {
	switch evt.Winner {
	case m.side:
		return fmt.Sprintf("You win (%s)", evt.Reason)
	case multiplayer.PlayerNone:
		return fmt.Sprintf("No winner (%s)", evt.Reason)
	default:
		return fmt.Sprintf("You lose (%s)", evt.Reason)
	}
}

func (m OnlineModel) handleTick() (tea.Model, tea.Cmd) {
	if m.game == nil {
		return m, nil
	}
	m.game.Step(m.input.Player(core.Player1))
	m.input.Clear()
	m.report()
	if m.state == OnlineStateMatchEnded && m.game.Finished() {
		// Nothing left to simulate; keep rendering the final board.
		return m, nil
	}
	return m, tickCmd(m.tickRate)
}

// report tells the referee about changed stats. The final report, with
// ToppedOut or Quit set, decides the match.
func (m *OnlineModel) report() {
	stats := m.game.Player().SideStats()
	if stats == m.reported {
		return
	}
	m.reported = stats
	m.coordinator.Send(multiplayer.SideReportMsg{
		MatchID: m.matchID,
		Side:    m.side,
		Stats:   stats,
	})
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateJoinWaiting:
		if key.Matches(msg, m.keys.Global.Back) {
			m.state = OnlineStateJoinEnterCode
		}
	case OnlineStateInMatch, OnlineStateMatchEnded:
		return m.handleMatchKey(msg)
	}
	return m, nil
}

// quit leaves whatever the session is doing and exits.
func (m OnlineModel) quit() (tea.Model, tea.Cmd) {
	switch {
	case m.state == OnlineStateHostWaiting:
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
	case m.game != nil && !m.game.Finished():
		m.game.Forfeit()
		m.report()
	}
	m.quitting = true
	return m, tea.Quit
}

func (m OnlineModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.coordinator.Send(multiplayer.CreateLobbyMsg{SessionID: m.sessionID})
		return m, nil
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.joinError = ""
		return m, nil
	case "esc", "b":
		m.backToMenu = true
		return m, nil
	case "q":
		return m.quit()
	}
	return m, nil
}

func (m OnlineModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
		m.backToMenu = true
		return m, nil
	case "q":
		return m.quit()
	}
	return m, nil
}

func (m OnlineModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	switch k {
	case "esc":
		m.backToMenu = true
	case "enter":
		if m.joinCodeInput != "" {
			m.state = OnlineStateJoinWaiting
			m.joinError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{SessionID: m.sessionID, Code: m.joinCodeInput})
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		if len(k) == 1 && len(m.joinCodeInput) < joinCodeLen {
			c := strings.ToUpper(k)[0]
			if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
				m.joinCodeInput += string(c)
			}
		}
	}
	return m, nil
}

func (m OnlineModel) handleMatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Global.Quit) {
		return m.quit()
	}
	if m.game.Finished() {
		if key.Matches(msg, m.keys.Global.Back) {
			m.backToMenu = true
		}
		return m, nil
	}
	// No pausing or restarting against a live opponent.
	if key.Matches(msg, m.keys.Global.Pause) || key.Matches(msg, m.keys.Global.Restart) {
		return m, nil
	}
	m.keys.MapKey(msg, &m.input)
	return m, nil
}

// View renders the current step.
func (m OnlineModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.state {
	case OnlineStateChooseMode:
		return m.lines("ONLINE VERSUS", "Choose an option:", "", "[H] Host a game", "[J] Join a game", "", "Esc: Back  |  Q: Quit")
	case OnlineStateHostWaiting:
		return m.lines("HOSTING GAME", "Share this code with your opponent:", "",
			fmt.Sprintf("[ %s ]", m.lobbyCode), "", "Waiting for player to join...", "", "Esc: Cancel  |  Q: Quit")
	case OnlineStateJoinEnterCode:
		code := m.joinCodeInput
		if len(code) < joinCodeLen {
			code += "_" + strings.Repeat(" ", joinCodeLen-1-len(m.joinCodeInput))
		}
		lines := []string{"JOIN GAME", "Enter the game code:", "", fmt.Sprintf("[ %s ]", code)}
		if m.joinError != "" {
			lines = append(lines, "", "Error: "+m.joinError)
		}
		lines = append(lines, "", "Enter: Connect  |  Esc: Back")
		return m.lines(lines...)
	case OnlineStateJoinWaiting:
		return m.lines("CONNECTING", fmt.Sprintf("Joining game: %s", m.joinCodeInput), "", "Please wait...", "", "Esc: Cancel")
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

func (m OnlineModel) lines(lines ...string) string {
	var b strings.Builder
	b.WriteString("\n")
	for i, l := range lines {
		if i == 0 {
			b.WriteString(titleStyle.Render(centerText(l, m.width)))
		} else {
			b.WriteString(centerText(l, m.width))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// State returns the current step.
func (m OnlineModel) State() OnlineState {
	return m.state
}

// BackToMenu reports whether the user wants the menu again.
func (m OnlineModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting reports whether the user wants to quit entirely.
func (m OnlineModel) IsQuitting() bool {
	return m.quitting
}

// MatchID returns the running match, if any.
func (m OnlineModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Side returns which side this session plays.
func (m OnlineModel) Side() core.PlayerID {
	return m.side
}

// LobbyCode returns the lobby code.
func (m OnlineModel) LobbyCode() string {
	return m.lobbyCode
}

// Game returns the match driver, or nil before a match starts.
func (m OnlineModel) Game() *tetris.Online {
	return m.game
}
