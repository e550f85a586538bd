// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"context"
	"errors"
	"sync"
)

// ErrChannelClosed is returned when emitting on or reading from a closed channel.
var ErrChannelClosed = errors.New("composer channel closed")

// =============================================================================
// CHANNEL
// =============================================================================

// Channel is the host's handle for commanding a composer.
//
// Emitting never blocks: commands are queued without bound and read back in
// issuance order. Channel is safe for concurrent use.
type Channel struct {
	mu      sync.Mutex
	pending []Command
	signal  chan struct{}
	closed  bool
}

func newChannel() *Channel {
	return &Channel{signal: make(chan struct{}, 1)}
}

// Focus queues a FOCUS command.
func (ch *Channel) Focus() error {
	return ch.Emit(Command{Kind: CommandFocus})
}

// InsertText queues an INSERT_TEXT command carrying text.
func (ch *Channel) InsertText(text string) error {
	return ch.Emit(Command{Kind: CommandInsertText, Text: text})
}

// Send queues a SEND command. The outcome is reported through Config.Send.
func (ch *Channel) Send() error {
	return ch.Emit(Command{Kind: CommandSend})
}

// Clear queues a CLEAR command.
func (ch *Channel) Clear() error {
	return ch.Emit(Command{Kind: CommandClear})
}

// Emit queues cmd.
func (ch *Channel) Emit(cmd Command) error {
	if _, err := ParseCommandKind(string(cmd.Kind)); err != nil {
		return err
	}

	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return ErrChannelClosed
	}
	ch.pending = append(ch.pending, cmd)
	ch.mu.Unlock()

	select {
	case ch.signal <- struct{}{}:
	default:
	}
	return nil
}

// TryNext returns the oldest queued command without waiting.
func (ch *Channel) TryNext() (Command, bool) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.popLocked()
}

// Next waits for the oldest queued command. It returns ErrChannelClosed once
// the channel is closed and drained.
func (ch *Channel) Next(ctx context.Context) (Command, error) {
	for {
		ch.mu.Lock()
		if cmd, ok := ch.popLocked(); ok {
			ch.mu.Unlock()
			return cmd, nil
		}
		closed := ch.closed
		ch.mu.Unlock()

		if closed {
			return Command{}, ErrChannelClosed
		}

		select {
		case <-ctx.Done():
			return Command{}, ctx.Err()
		case <-ch.signal:
		}
	}
}

// Pending returns the number of queued commands.
func (ch *Channel) Pending() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return len(ch.pending)
}

// Closed reports whether Close has been called.
func (ch *Channel) Closed() bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.closed
}

// Close stops accepting commands. Queued commands can still be read.
func (ch *Channel) Close() {
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return
	}
	ch.closed = true
	ch.mu.Unlock()

	select {
	case ch.signal <- struct{}{}:
	default:
	}
}

func (ch *Channel) popLocked() (Command, bool) {
	if len(ch.pending) == 0 {
		return Command{}, false
	}
	cmd := ch.pending[0]
	ch.pending[0] = Command{}
	ch.pending = ch.pending[1:]
	return cmd, true
}
