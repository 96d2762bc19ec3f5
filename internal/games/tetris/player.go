package tetris

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
)

// Outbox receives messages addressed to the opponent. A multiplayer.Link
// satisfies it.
type Outbox interface {
	Send(msg multiplayer.Message) error
}

// Inbox yields messages sent by the opponent. A multiplayer.Link satisfies it.
type Inbox interface {
	Poll() ([]multiplayer.Message, error)
}

// StopReason says why a player left play.
type StopReason int

const (
	StopNone StopReason = iota
	StopToppedOut
	StopQuit
	StopPeerQuit
	StopLinkLost
)

func (r StopReason) String() string {
	switch r {
	case StopToppedOut:
		return "topped out"
	case StopQuit:
		return "quit"
	case StopPeerQuit:
		return "opponent quit"
	case StopLinkLost:
		return "link lost"
	default:
		return "playing"
	}
}

// Options configures a Player. Zero fields take the defaults of
// DefaultOptions; a negative Preview or MaxLockResets means none.
type Options struct {
	Width   int
	Height  int
	Visible int
	Preview int
	Seed    uint32

	DisableHold bool
	StartLevel  int
	// Level maps total cleared lines to a level. Defaults to one level
	// per ten lines above StartLevel.
	Level func(lines int) int
	// Gravity is the time a piece takes to fall one row at a level.
	Gravity        func(level int) time.Duration
	LockDelay      time.Duration
	MaxLockResets  int
	SoftDropFactor int

	// GarbageRand picks garbage holes. Defaults to a source derived from Seed.
	GarbageRand Rand
	// Outbox is optional; without it the player is local-only and
	// outgoing garbage is simply counted.
	Outbox Outbox
}

// DefaultOptions returns marathon defaults.
func DefaultOptions() Options {
	return Options{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		Visible:        DefaultVisible,
		Preview:        5,
		StartLevel:     1,
		Gravity:        defaultGravity,
		LockDelay:      500 * time.Millisecond,
		MaxLockResets:  15,
		SoftDropFactor: 20,
	}
}

func defaultGravity(level int) time.Duration {
	return max(time.Second-time.Duration(level-1)*50*time.Millisecond, 50*time.Millisecond)
}

func (o *Options) fill() {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Visible <= 0 || o.Visible > o.Height {
		o.Visible = min(d.Visible, o.Height)
	}
	switch {
	case o.Preview == 0:
		o.Preview = d.Preview
	case o.Preview < 0:
		o.Preview = 0
	}
	if o.StartLevel < 1 {
		o.StartLevel = 1
	}
	if o.Level == nil {
		start := o.StartLevel
		o.Level = func(lines int) int { return start + lines/10 }
	}
	if o.Gravity == nil {
		o.Gravity = d.Gravity
	}
	if o.LockDelay <= 0 {
		o.LockDelay = d.LockDelay
	}
	switch {
	case o.MaxLockResets == 0:
		o.MaxLockResets = d.MaxLockResets
	case o.MaxLockResets < 0:
		o.MaxLockResets = 0
	}
	if o.SoftDropFactor < 1 {
		o.SoftDropFactor = d.SoftDropFactor
	}
	if o.GarbageRand == nil {
		o.GarbageRand = garbageRand(o.Seed, 0)
	}
}

// garbageRand returns the hole picker for one side. It is separate from the
// bag so garbage never shifts the shared piece sequence.
func garbageRand(seed uint32, side int) Rand {
	return rand.New(rand.NewSource(int64(seed)*31 + int64(side) + 1))
}

// Stats is the running tally of one side.
type Stats struct {
	Score         int
	Lines         int
	Level         int
	Pieces        int
	Sent          int
	Received      int
	Tetrises      int
	TSpins        int
	PerfectClears int
	MaxCombo      int
}

// LockEvent describes the outcome of locking a piece.
type LockEvent struct {
	// Result is nil when the lock cleared no rows.
	Result *ClearResult
	// Attack is the clear's attack value before cancellation.
	Attack int
	// Sent is what remained after cancelling queued garbage.
	Sent      int
	Points    int
	ToppedOut bool
}

// Player drives one side of a match: a field, its garbage ledger, the
// piece sequence, the hold slot and the timing of gravity and lock delay.
// A Player is not safe for concurrent use; each side owns its own.
type Player struct {
	opts   Options
	field  *Field
	ledger *Ledger
	bag    *Bag
	piece  *Piece
	spawnY int

	held     Kind
	hasHeld  bool
	holdUsed bool

	stats Stats
	stop  StopReason
	last  LockEvent

	gravityAcc time.Duration
	lockAcc    time.Duration
	lockResets int
}

// spawnRow is the row pieces spawn on: two rows above the visible area.
func spawnRow(height, visible int) int {
	return max(0, height-visible-2)
}

// NewPlayer creates a player and spawns its first piece.
func NewPlayer(opts Options) *Player {
	opts.fill()
	field := NewField(opts.Width, opts.Height, opts.GarbageRand)
	p := &Player{
		opts:   opts,
		field:  field,
		ledger: NewLedger(field),
		bag:    NewBag(opts.Seed),
		spawnY: spawnRow(opts.Height, opts.Visible),
	}
	p.Restart()
	return p
}

// Restart resets the field, the sequence and the stats. It does not tell
// the opponent; see RequestRestart.
func (p *Player) Restart() {
	p.field.Reset()
	p.bag.Reset()
	p.hasHeld = false
	p.holdUsed = false
	p.stats = Stats{Level: p.opts.Level(0)}
	p.stop = StopNone
	p.last = LockEvent{}
	p.spawn(p.bag.Next())
}

// RequestRestart restarts locally and asks the opponent to do the same.
func (p *Player) RequestRestart() error {
	p.Restart()
	return p.send(multiplayer.Restart())
}

// Quit stops play and tells the opponent.
func (p *Player) Quit() error {
	if p.stop == StopNone {
		p.stop = StopQuit
	}
	return p.send(multiplayer.Quit())
}

func (p *Player) send(msg multiplayer.Message) error {
	if p.opts.Outbox == nil {
		return nil
	}
	if err := p.opts.Outbox.Send(msg); err != nil {
		if errors.Is(err, multiplayer.ErrLinkClosed) && p.stop == StopNone {
			p.stop = StopLinkLost
		}
		return fmt.Errorf("send %s: %w", msg, err)
	}
	return nil
}

func (p *Player) spawn(k Kind) {
	p.piece = Spawn(k, p.opts.Width, p.spawnY)
	p.field.LastRotationApplied = false
	p.field.LastKickIndex = 0
	p.gravityAcc = 0
	p.lockAcc = 0
	p.lockResets = 0
	if p.field.CheckCollision(p.piece, 0, 0) {
		p.stop = StopToppedOut
	}
}

// Active reports whether the player is still in play.
func (p *Player) Active() bool {
	return p.stop == StopNone
}

// Stopped returns why the player left play, StopNone while active.
func (p *Player) Stopped() StopReason {
	return p.stop
}

// Field returns the player's field. Callers must treat it as read-only.
func (p *Player) Field() *Field { return p.field }

// Piece returns the active piece. Callers must treat it as read-only.
func (p *Player) Piece() *Piece { return p.piece }

// Held returns the kind in the hold slot, if any.
func (p *Player) Held() (Kind, bool) { return p.held, p.hasHeld }

// HoldUsed reports whether hold was already used for the active piece.
func (p *Player) HoldUsed() bool { return p.holdUsed }

// Preview returns the upcoming pieces.
func (p *Player) Preview() []Kind { return p.bag.Peek(p.opts.Preview) }

// Stats returns a copy of the running tally.
func (p *Player) Stats() Stats { return p.stats }

// LastLock returns the most recent lock event.
func (p *Player) LastLock() LockEvent { return p.last }

// GarbageQueued returns incoming garbage not yet on the board.
func (p *Player) GarbageQueued() int { return p.ledger.Queued() }

// Seed returns the seed of the piece sequence.
func (p *Player) Seed() uint32 { return p.bag.Seed() }

// Visible returns the number of rows shown to the player.
func (p *Player) Visible() int { return p.opts.Visible }

// Ghost returns the row the active piece would land on.
func (p *Player) Ghost() int {
	return p.piece.GhostRow(p.field)
}

// SideStats converts the tally to what a match referee needs.
func (p *Player) SideStats() multiplayer.SideStats {
	return multiplayer.SideStats{
		Score:     p.stats.Score,
		Lines:     p.stats.Lines,
		Sent:      p.stats.Sent,
		Received:  p.stats.Received,
		ToppedOut: p.stop == StopToppedOut,
		Quit:      p.stop == StopQuit,
	}
}

// Move shifts the active piece horizontally by dx columns.
func (p *Player) Move(dx int) bool {
	if !p.Active() || !p.piece.AttemptMove(p.field, dx, 0) {
		return false
	}
	p.manipulated()
	return true
}

// Rotate turns the active piece, applying wall kicks.
func (p *Player) Rotate(clockwise bool) bool {
	if !p.Active() || !p.piece.AttemptRotate(p.field, clockwise) {
		return false
	}
	p.manipulated()
	return true
}

// SoftDrop moves the active piece down one row, scoring a point.
func (p *Player) SoftDrop() bool {
	if !p.Active() || !p.piece.AttemptMove(p.field, 0, 1) {
		return false
	}
	p.stats.Score += softDropPoints
	p.gravityAcc = 0
	return true
}

// HardDrop drops the active piece to its ghost row and locks it.
func (p *Player) HardDrop() (LockEvent, error) {
	if !p.Active() {
		return LockEvent{}, nil
	}
	// Moving clears the rotation flag, so a piece that is already resting
	// keeps any spin it earned.
	if dy := p.Ghost() - p.piece.Y; dy > 0 {
		p.piece.AttemptMove(p.field, 0, dy)
		p.stats.Score += hardDropPoints * dy
	}
	return p.Lock()
}

// Hold swaps the active piece into the hold slot. It is allowed once per
// piece; the swapped-in piece starts again from its spawn position.
func (p *Player) Hold() bool {
	if !p.Active() || p.opts.DisableHold || p.holdUsed {
		return false
	}
	current := p.piece.Kind
	if p.hasHeld {
		p.spawn(p.held)
	} else {
		p.spawn(p.bag.Next())
	}
	p.held = current
	p.hasHeld = true
	p.holdUsed = true
	return true
}

// Lock places the active piece, resolves lines, settles the attack and
// spawns the next piece.
func (p *Player) Lock() (LockEvent, error) {
	if !p.Active() {
		return LockEvent{}, nil
	}
	if err := p.field.Place(p.piece); err != nil {
		return LockEvent{}, err
	}
	res, err := p.field.ResolveLines(p.piece)
	if err != nil {
		return LockEvent{}, err
	}

	ev := LockEvent{Result: res}
	p.stats.Pieces++
	var sendErr error
	if res != nil {
		ev.Points = ScoreFor(res, p.stats.Level)
		p.stats.Score += ev.Points
		p.stats.Lines += res.Lines
		p.stats.Level = p.opts.Level(p.stats.Lines)
		p.stats.MaxCombo = max(p.stats.MaxCombo, res.Combo)
		if res.Type == ClearTetris {
			p.stats.Tetrises++
		}
		if res.Spin != SpinNone {
			p.stats.TSpins++
		}
		if res.PerfectClear {
			p.stats.PerfectClears++
		}

		ev.Attack = AttackValue(res)
		ev.Sent = p.ledger.SendGarbage(ev.Attack)
		if ev.Sent > 0 {
			p.stats.Sent += ev.Sent
			sendErr = p.send(multiplayer.Garbage(ev.Sent))
		}
	}

	p.holdUsed = false
	if p.Active() {
		p.spawn(p.bag.Next())
	}
	ev.ToppedOut = p.stop == StopToppedOut
	p.last = ev
	return ev, sendErr
}

// Apply handles one message from the opponent.
func (p *Player) Apply(msg multiplayer.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	switch msg.Type {
	case multiplayer.MessageGarbage:
		if p.Active() {
			p.ledger.TakeGarbage(msg.Lines)
			p.stats.Received += msg.Lines
		}
	case multiplayer.MessageRestart:
		p.Restart()
	case multiplayer.MessageQuit:
		// A side that already left play keeps its own reason.
		if p.stop == StopNone {
			p.stop = StopPeerQuit
		}
	}
	return nil
}

// Poll applies every message currently waiting in inbox, in order. Once
// the opponent quits the rest of the batch is dropped. A closed inbox
// takes the player out of play.
func (p *Player) Poll(inbox Inbox) error {
	msgs, err := inbox.Poll()
	for _, msg := range msgs {
		if applyErr := p.Apply(msg); applyErr != nil {
			return applyErr
		}
		if p.stop == StopPeerQuit {
			return nil
		}
	}
	if err != nil {
		if errors.Is(err, multiplayer.ErrLinkClosed) && p.stop == StopNone {
			p.stop = StopLinkLost
		}
		return err
	}
	return nil
}

// Tick advances gravity and the lock-delay clock by dt. It returns a lock
// event when the piece locked during this tick.
func (p *Player) Tick(dt time.Duration, softDrop bool) (*LockEvent, error) {
	if !p.Active() {
		return nil, nil
	}

	interval := p.opts.Gravity(p.stats.Level)
	if softDrop {
		interval /= time.Duration(p.opts.SoftDropFactor)
	}
	interval = max(interval, time.Millisecond)

	p.gravityAcc += dt
	for p.gravityAcc >= interval {
		p.gravityAcc -= interval
		if !p.piece.AttemptMove(p.field, 0, 1) {
			p.gravityAcc = 0
			break
		}
		p.lockAcc = 0
		if softDrop {
			p.stats.Score += softDropPoints
		}
	}

	if !p.field.CheckCollision(p.piece, 0, 1) {
		p.lockAcc = 0
		return nil, nil
	}
	p.lockAcc += dt
	if p.lockAcc < p.opts.LockDelay {
		return nil, nil
	}
	ev, err := p.Lock()
	return &ev, err
}

// manipulated resets the lock clock after a successful move or rotation
// while grounded, a limited number of times per piece.
func (p *Player) manipulated() {
	if !p.field.CheckCollision(p.piece, 0, 1) {
		return
	}
	if p.lockResets < p.opts.MaxLockResets {
		p.lockResets++
		p.lockAcc = 0
	}
}
