package multiplayer

import (
	"errors"
	"fmt"
	"sync"
)

// ErrLinkClosed is returned once either end of a link has been closed and
// nothing is left to read.
var ErrLinkClosed = errors.New("multiplayer: link closed")

// DefaultPipeBuffer is the per-direction buffer used when none is given.
const DefaultPipeBuffer = 256

// Link is one end of an ordered, reliable, bidirectional message channel.
type Link interface {
	// Send queues a message for the peer. It fails with ErrLinkClosed once
	// either end is closed.
	Send(msg Message) error

	// Poll returns every message currently buffered, without waiting.
	// After the peer closes, buffered messages are still delivered; the
	// following Poll reports ErrLinkClosed.
	Poll() ([]Message, error)

	// Close releases this end. Safe to call multiple times.
	Close() error
}

// pipeEnd is one side of a channel pair. Data channels are never closed;
// shutdown is signalled through the done channels instead.
type pipeEnd struct {
	in       <-chan Message
	out      chan<- Message
	done     chan struct{}
	peerDone <-chan struct{}
	once     *sync.Once
}

// NewPipe returns two connected link ends. buffer is the number of
// messages each direction holds before Send blocks.
func NewPipe(buffer int) (Link, Link) {
	if buffer < 1 {
		buffer = DefaultPipeBuffer
	}
	ab := make(chan Message, buffer)
	ba := make(chan Message, buffer)
	aDone := make(chan struct{})
	bDone := make(chan struct{})

	a := &pipeEnd{in: ba, out: ab, done: aDone, peerDone: bDone, once: &sync.Once{}}
	b := &pipeEnd{in: ab, out: ba, done: bDone, peerDone: aDone, once: &sync.Once{}}
	return a, b
}

func (e *pipeEnd) Send(msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	select {
	case <-e.done:
		return ErrLinkClosed
	case <-e.peerDone:
		return ErrLinkClosed
	default:
	}

	select {
	case e.out <- msg:
		return nil
	case <-e.done:
		return ErrLinkClosed
	case <-e.peerDone:
		return ErrLinkClosed
	}
}

func (e *pipeEnd) Poll() ([]Message, error) {
	select {
	case <-e.done:
		return nil, ErrLinkClosed
	default:
	}

	var msgs []Message
	for {
		select {
		case msg := <-e.in:
			msgs = append(msgs, msg)
		default:
			if len(msgs) == 0 {
				select {
				case <-e.peerDone:
					return nil, fmt.Errorf("peer gone: %w", ErrLinkClosed)
				default:
				}
			}
			return msgs, nil
		}
	}
}

func (e *pipeEnd) Close() error {
	e.once.Do(func() {
		close(e.done)
	})
	return nil
}
