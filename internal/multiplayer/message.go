package multiplayer

import (
	"errors"
	"fmt"
)

// MessageType tags a Message exchanged between the two sides of a match.
type MessageType int

const (
	// MessageQuit tells the peer to stop simulating. It is terminal.
	MessageQuit MessageType = iota + 1
	// MessageRestart tells the peer to reset its own side.
	MessageRestart
	// MessageGarbage carries a net attack of Lines rows.
	MessageGarbage
)

// String returns the wire name of the message type.
func (t MessageType) String() string {
	switch t {
	case MessageQuit:
		return "QUIT"
	case MessageRestart:
		return "RESTART"
	case MessageGarbage:
		return "GARBAGE"
	default:
		return fmt.Sprintf("MessageType(%d)", int(t))
	}
}

// Message is the only thing the two sides of a match share.
type Message struct {
	Type MessageType
	// Lines is the garbage amount; only meaningful for MessageGarbage.
	Lines int
}

// ErrInvalidMessage is returned by Validate.
var ErrInvalidMessage = errors.New("multiplayer: invalid message")

// Quit builds a QUIT message.
func Quit() Message {
	return Message{Type: MessageQuit}
}

// Restart builds a RESTART message.
func Restart() Message {
	return Message{Type: MessageRestart}
}

// Garbage builds a GARBAGE(n) message.
func Garbage(n int) Message {
	return Message{Type: MessageGarbage, Lines: n}
}

// Validate rejects unknown types and negative garbage amounts.
func (m Message) Validate() error {
	switch m.Type {
	case MessageQuit, MessageRestart:
		return nil
	case MessageGarbage:
		if m.Lines < 0 {
			return fmt.Errorf("%w: negative garbage %d", ErrInvalidMessage, m.Lines)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidMessage, m.Type)
	}
}

// String formats the message for logs, e.g. "GARBAGE(4)".
func (m Message) String() string {
	if m.Type == MessageGarbage {
		return fmt.Sprintf("GARBAGE(%d)", m.Lines)
	}
	return m.Type.String()
}
