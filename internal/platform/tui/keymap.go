package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// PlayKeyMap binds one player's keys to game actions.
type PlayKeyMap struct {
	Left      key.Binding
	Right     key.Binding
	SoftDrop  key.Binding
	HardDrop  key.Binding
	RotateCW  key.Binding
	RotateCCW key.Binding
	Hold      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.RotateCW, k.HardDrop, k.Hold}
}

// FullHelp returns key bindings for the full help view.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.SoftDrop, k.HardDrop},
		{k.RotateCW, k.RotateCCW, k.Hold},
	}
}

func (k PlayKeyMap) bindings() []struct {
	b key.Binding
	a core.Action
} {
	return []struct {
		b key.Binding
		a core.Action
	}{
		{k.Left, core.ActionLeft},
		{k.Right, core.ActionRight},
		{k.SoftDrop, core.ActionSoftDrop},
		{k.HardDrop, core.ActionHardDrop},
		{k.RotateCW, core.ActionRotateCW},
		{k.RotateCCW, core.ActionRotateCCW},
		{k.Hold, core.ActionHold},
	}
}

// Action returns the game action a key press maps to.
func (k PlayKeyMap) Action(msg tea.KeyMsg) core.Action {
	for _, kb := range k.bindings() {
		if key.Matches(msg, kb.b) {
			return kb.a
		}
	}
	return core.ActionNone
}

// SoloKeyMap is the single-player layout: arrows plus z/x/c and space.
func SoloKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		SoftDrop:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "soft drop")),
		HardDrop:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "hard drop")),
		RotateCW:  key.NewBinding(key.WithKeys("up", "x", "k"), key.WithHelp("↑/x", "rotate")),
		RotateCCW: key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "rotate ccw")),
		Hold:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "hold")),
	}
}

// LeftKeyMap is player one's half of the keyboard in local versus.
func LeftKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Left:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "left")),
		Right:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "right")),
		SoftDrop:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "soft drop")),
		HardDrop:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "hard drop")),
		RotateCW:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "rotate")),
		RotateCCW: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rotate ccw")),
		Hold:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "hold")),
	}
}

// RightKeyMap is player two's half of the keyboard in local versus.
func RightKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		SoftDrop:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "soft drop")),
		HardDrop:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "hard drop")),
		RotateCW:  key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "rotate")),
		RotateCCW: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "rotate ccw")),
		Hold:      key.NewBinding(key.WithKeys("."), key.WithHelp(".", "hold")),
	}
}

// GlobalKeyMap holds keys that are not tied to a player.
type GlobalKeyMap struct {
	Pause      key.Binding
	Restart    key.Binding
	Back       key.Binding
	Quit       key.Binding
	Screenshot key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GlobalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Restart, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GlobalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Pause, k.Restart, k.Back, k.Quit, k.Screenshot}}
}

// DefaultGlobalKeyMap returns the global bindings.
func DefaultGlobalKeyMap() GlobalKeyMap {
	return GlobalKeyMap{
		Pause:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Restart:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Back:       key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "menu")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Screenshot: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "screenshot")),
	}
}

// KeyMapper translates key messages into per-player input frames.
type KeyMapper struct {
	Global  GlobalKeyMap
	players map[core.PlayerID]PlayKeyMap
}

// NewKeyMapper creates a mapper for a solo game.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{
		Global:  DefaultGlobalKeyMap(),
		players: map[core.PlayerID]PlayKeyMap{core.Player1: SoloKeyMap()},
	}
}

// NewVersusKeyMapper creates a mapper splitting the keyboard between two
// players. With cpu set only player one's keys are bound, using the solo
// layout.
func NewVersusKeyMapper(cpu bool) *KeyMapper {
	if cpu {
		return NewKeyMapper()
	}
	return &KeyMapper{
		Global: DefaultGlobalKeyMap(),
		players: map[core.PlayerID]PlayKeyMap{
			core.Player1: LeftKeyMap(),
			core.Player2: RightKeyMap(),
		},
	}
}

// Player returns the bindings of one player.
func (km *KeyMapper) Player(id core.PlayerID) (PlayKeyMap, bool) {
	k, ok := km.players[id]
	return k, ok
}

// MapKey records a key press into frame. Global keys are recorded for
// player one. It reports whether the key asked to quit.
func (km *KeyMapper) MapKey(msg tea.KeyMsg, frame *core.MultiInputFrame) (isQuit bool) {
	switch {
	case key.Matches(msg, km.Global.Quit):
		return true
	case key.Matches(msg, km.Global.Pause):
		frame.Set(core.Player1, core.ActionPause)
		return false
	case key.Matches(msg, km.Global.Restart):
		frame.Set(core.Player1, core.ActionRestart)
		return false
	}
	// Player one's keys win when both maps bind the same key.
	for _, id := range []core.PlayerID{core.Player1, core.Player2} {
		k, ok := km.players[id]
		if !ok {
			continue
		}
		if a := k.Action(msg); a != core.ActionNone {
			frame.Set(id, a)
			return false
		}
	}
	return false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
