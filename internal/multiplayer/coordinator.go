package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Lobby is a waiting room holding a host until someone joins.
type Lobby struct {
	Code      string
	Host      SessionHandle
	CreatedAt time.Time
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long an unjoined lobby lives
	CleanupPeriod time.Duration // How often expired lobbies are swept
	PipeBuffer    int           // Per-direction buffer of match pipes
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		CleanupPeriod: 30 * time.Second,
		PipeBuffer:    DefaultPipeBuffer,
	}
}

// MatchResultSaver persists finished matches. The storage package
// implements it so this package does not depend on storage.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData is the persisted form of a match result.
type MatchResultData struct {
	MatchID      string
	Player1      string
	Player2      string
	Lines1       int
	Lines2       int
	Sent1        int
	Sent2        int
	Winner       string
	EndReason    string
	DurationSecs int
}

// Coordinator pairs sessions through lobby codes and referees matches.
// All state changes happen on its message goroutine.
type Coordinator struct {
	config      CoordinatorConfig
	sessions    *SessionRegistry
	resultSaver MatchResultSaver
	logger      *log.Logger

	mu      sync.RWMutex
	lobbies map[string]*Lobby
	matches map[MatchID]*OnlineMatch

	sessionLobby map[SessionID]string
	sessionMatch map[SessionID]MatchID

	msgChan chan CoordinatorMessage
	done    chan struct{}
}

// NewCoordinator creates a coordinator.
func NewCoordinator(cfg CoordinatorConfig, sessions *SessionRegistry) *Coordinator {
	return &Coordinator{
		config:   cfg,
		sessions: sessions,
		logger: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "coordinator",
		}),
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// SetLogger replaces the default stderr logger.
func (c *Coordinator) SetLogger(logger *log.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Start begins background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts down the coordinator and cancels running matches.
func (c *Coordinator) Stop() {
	close(c.done)
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.matches {
		m.Stop()
	}
}

// Send queues a message for the coordinator.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case SideReportMsg:
		c.handleSideReport(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := c.generateUniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		Host:      session,
		CreatedAt: time.Now(),
	}
	c.sessionLobby[msg.SessionID] = code
	c.mu.Unlock()

	c.logger.Info("lobby created", "code", code, "host", session.Name())
	session.Send(LobbyCreatedEvent{Code: code})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}
	if lobby.Host.ID() == msg.SessionID {
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}

	c.startMatch(lobby, session)
}

// startMatch must be called with the lock held.
func (c *Coordinator) startMatch(lobby *Lobby, joiner SessionHandle) {
	matchID := NewMatchID()
	seed := newSeed()
	l1, l2 := NewPipe(c.config.PipeBuffer)

	match := NewOnlineMatch(matchID, lobby.Code, seed, lobby.Host, joiner, l1, l2)
	c.matches[matchID] = match

	hostID := lobby.Host.ID()
	delete(c.sessionLobby, hostID)
	delete(c.lobbies, lobby.Code)
	c.sessionMatch[hostID] = matchID
	c.sessionMatch[joiner.ID()] = matchID

	c.logger.Info("match started",
		"match", matchID,
		"code", lobby.Code,
		"p1", lobby.Host.Name(),
		"p2", joiner.Name(),
		"seed", seed,
	)

	lobby.Host.Send(MatchStartedEvent{
		MatchID:  matchID,
		Side:     Player1,
		Code:     lobby.Code,
		Seed:     seed,
		Link:     l1,
		Opponent: joiner.Name(),
	})
	joiner.Send(MatchStartedEvent{
		MatchID:  matchID,
		Side:     Player2,
		Code:     lobby.Code,
		Seed:     seed,
		Link:     l2,
		Opponent: lobby.Host.Name(),
	})

	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(match, result)
	})
}

func (c *Coordinator) handleMatchEnded(match *OnlineMatch, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.matches[match.ID()]; !exists {
		return
	}

	p1, p2 := match.Session(Player1), match.Session(Player2)
	c.logger.Info("match ended",
		"match", match.ID(),
		"reason", result.Reason,
		"winner", result.Winner,
		"sent1", result.Stats1.Sent,
		"sent2", result.Stats2.Sent,
		"duration", result.Duration.Round(time.Second),
	)

	if c.resultSaver != nil {
		winner := ""
		switch result.Winner {
		case Player1:
			winner = p1.Name()
		case Player2:
			winner = p2.Name()
		}
		data := MatchResultData{
			MatchID:      string(match.ID()),
			Player1:      p1.Name(),
			Player2:      p2.Name(),
			Lines1:       result.Stats1.Lines,
			Lines2:       result.Stats2.Lines,
			Sent1:        result.Stats1.Sent,
			Sent2:        result.Stats2.Sent,
			Winner:       winner,
			EndReason:    result.Reason.String(),
			DurationSecs: int(result.Duration / time.Second),
		}
		go func() {
			if err := c.resultSaver.SaveMatchResult(data); err != nil {
				c.logger.Warn("could not save match result", "match", data.MatchID, "error", err)
			}
		}()
	}

	delete(c.sessionMatch, p1.ID())
	delete(c.sessionMatch, p2.ID())
	delete(c.matches, match.ID())

	evt := MatchEndedEvent{
		MatchID: match.ID(),
		Reason:  result.Reason,
		Winner:  result.Winner,
		Stats1:  result.Stats1,
		Stats2:  result.Stats2,
	}
	p1.Send(evt)
	p2.Send(evt)
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[strings.ToUpper(msg.Code)]
	if !exists || lobby.Host.ID() != msg.SessionID {
		return
	}
	delete(c.lobbies, lobby.Code)
	delete(c.sessionLobby, msg.SessionID)
	c.logger.Debug("lobby cancelled", "code", lobby.Code)
}

func (c *Coordinator) handleSideReport(msg SideReportMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if exists {
		match.Report(msg.Side, msg.Stats)
	}
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		delete(c.lobbies, code)
		delete(c.sessionLobby, msg.SessionID)
	}

	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies(time.Now())
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		if now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character code from the base32 alphabet.
func generateJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// newSeed picks the shared piece-sequence seed of a match.
func newSeed() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint32(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint32(b[:])
}

// Lobby returns a lobby by code (for tests and debugging).
func (c *Coordinator) Lobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// Match returns a running match by ID (for tests and debugging).
func (c *Coordinator) Match(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of running matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
