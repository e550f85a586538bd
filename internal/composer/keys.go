// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// =============================================================================
// KEY EVENTS
// =============================================================================

// KeyType classifies a key press.
type KeyType int

const (
	// KeyRunes is printable input carried in KeyEvent.Runes.
	KeyRunes KeyType = iota
	KeyEnter
	KeyNewline
	KeyBackspace
	KeyDelete
	KeyDeleteWord
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyEscape

	// KeyOther is any key the composer does not edit with. It is still
	// reported to NotifyKeyDown.
	KeyOther
)

var keyNames = map[KeyType]string{
	KeyRunes:      "runes",
	KeyEnter:      "enter",
	KeyNewline:    "newline",
	KeyBackspace:  "backspace",
	KeyDelete:     "delete",
	KeyDeleteWord: "delete_word",
	KeyLeft:       "left",
	KeyRight:      "right",
	KeyHome:       "home",
	KeyEnd:        "end",
	KeyEscape:     "esc",
	KeyOther:      "other",
}

func (k KeyType) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// KeyEvent is a key press delivered to the composer.
type KeyEvent struct {
	Type  KeyType
	Runes []rune

	// Name is the host's own name for the key, e.g. "ctrl+k".
	Name string
}

// String returns the key's display name.
func (e KeyEvent) String() string {
	if e.Name != "" {
		return e.Name
	}
	if e.Type == KeyRunes {
		return string(e.Runes)
	}
	return e.Type.String()
}

// =============================================================================
// KEY NOTIFIER
// =============================================================================

// DefaultKeyBuffer is the number of key events that may wait for delivery.
const DefaultKeyBuffer = 64

// keyNotifier delivers key events to a callback on its own goroutine. When
// the callback falls behind and the buffer fills, events are dropped.
type keyNotifier struct {
	fn      func(KeyEvent)
	events  chan KeyEvent
	dropped atomic.Uint64
	logger  *slog.Logger

	once sync.Once
	done chan struct{}
}

func newKeyNotifier(fn func(KeyEvent), size int, logger *slog.Logger) *keyNotifier {
	if size <= 0 {
		size = DefaultKeyBuffer
	}
	n := &keyNotifier{
		fn:     fn,
		events: make(chan KeyEvent, size),
		logger: logger,
		done:   make(chan struct{}),
	}
	go n.run()
	return n
}

func (n *keyNotifier) run() {
	defer close(n.done)
	for ev := range n.events {
		n.deliver(ev)
	}
}

func (n *keyNotifier) deliver(ev KeyEvent) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("KEYDOWN_PANIC", "key", ev.String(), "panic", r)
		}
	}()
	n.fn(ev)
}

// notify queues ev without blocking.
func (n *keyNotifier) notify(ev KeyEvent) {
	select {
	case n.events <- ev:
	default:
		if n.dropped.Add(1) == 1 {
			n.logger.Warn("KEYDOWN_DROPPED", "key", ev.String())
		}
	}
}

// stop delivers the queued events and waits for the goroutine to exit.
func (n *keyNotifier) stop() {
	n.once.Do(func() {
		close(n.events)
	})
	<-n.done
}
