// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package host is the application side of a composer: it owns the channel
// handle, validates sends, forwards accepted messages to the outbox and
// switches the composer between draft spaces.
//
// Host methods that touch the composer must be called from the goroutine
// that owns it (the Bubble Tea update loop, the line-mode loop or the bridge
// pump). The send gate and counters are safe to read from anywhere.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jeranaias/composer-tui/internal/composer"
	"github.com/jeranaias/composer-tui/internal/draft"
	"github.com/jeranaias/composer-tui/internal/logging"
	"github.com/jeranaias/composer-tui/internal/mention"
	"github.com/jeranaias/composer-tui/internal/outbox"
)

// Placeholders offered by the playground.
const (
	DefaultPlaceholder   = "Write your message in this space."
	AlternatePlaceholder = "This is a new placeholder"
)

// ErrSendFailed is logged when the host rejects a send on purpose.
var ErrSendFailed = errors.New("send failure requested by host")

// Submitter accepts outgoing messages. *outbox.Dispatcher implements it.
type Submitter interface {
	Submit(msg outbox.Message) error
}

// Options configures a Host.
type Options struct {
	// Drafts persists the content of each space. Required.
	Drafts draft.Store

	// Outbox receives accepted messages. Optional.
	Outbox Submitter

	// Mentions supplies mention candidates. Optional.
	Mentions mention.Provider

	// Composer are the initial composer options.
	Composer composer.Options

	// Space is the initial draft space. Default "1".
	Space string

	// KeyBuffer bounds pending key notifications.
	KeyBuffer int

	// OnKey is told about every key press, on the notifier goroutine.
	OnKey func(composer.KeyEvent)

	Logger *slog.Logger
}

// Host drives one composer.
type Host struct {
	comp    *composer.Composer
	channel *composer.Channel
	drafts  draft.Store
	outbox  Submitter
	onKey   func(composer.KeyEvent)
	logger  *slog.Logger

	mu       sync.Mutex
	space    string
	failSend bool
	lastSent string
	hasSent  bool

	accepted atomic.Int64
	rejected atomic.Int64
	keys     atomic.Int64
}

// New binds the initial space, creates the composer and mounts it.
func New(ctx context.Context, opts Options) (*Host, error) {
	if opts.Drafts == nil {
		return nil, errors.New("host: draft store is required")
	}
	space := opts.Space
	if space == "" {
		space = "1"
	}
	if opts.Composer.Placeholder == "" {
		opts.Composer.Placeholder = DefaultPlaceholder
	}

	h := &Host{
		drafts: opts.Drafts,
		outbox: opts.Outbox,
		onKey:  opts.OnKey,
		logger: logging.OrDefault(opts.Logger),
		space:  space,
	}

	d, err := draft.Bind(ctx, h.drafts, space, h.logger)
	if err != nil {
		return nil, fmt.Errorf("load draft for space %s: %w", space, err)
	}

	h.comp = composer.New(composer.Config{
		SetChannel:    func(ch *composer.Channel) { h.channel = ch },
		Send:          h.send,
		NotifyKeyDown: h.keyDown,
		KeyBuffer:     opts.KeyBuffer,
		Mentions:      opts.Mentions,
		Draft:         d,
		Options:       opts.Composer,
		Logger:        h.logger,
	})
	if err := h.comp.Mount(); err != nil {
		return nil, err
	}

	h.logger.Info("HOST_READY", "space", space, "disabled", opts.Composer.Disabled)
	return h, nil
}

// Composer returns the hosted composer.
func (h *Host) Composer() *composer.Composer {
	return h.comp
}

// Channel returns the command channel handed over at mount.
func (h *Host) Channel() *composer.Channel {
	return h.channel
}

// Close closes the composer. The draft store is owned by the caller.
func (h *Host) Close() {
	h.comp.Close()
}

// =============================================================================
// SEND GATE
// =============================================================================

func (h *Host) send(value string) bool {
	h.mu.Lock()
	h.lastSent = value
	h.hasSent = true
	fail := h.failSend
	space := h.space
	h.mu.Unlock()

	if fail {
		h.rejected.Add(1)
		h.logger.Info("SEND_REJECTED", "space", space, "reason", ErrSendFailed)
		return false
	}

	if h.outbox != nil {
		msg := outbox.NewMessage(space, value, h.comp.MentionSpans())
		if err := h.outbox.Submit(msg); err != nil {
			h.rejected.Add(1)
			h.logger.Warn("SEND_REJECTED", "space", space, "error", err)
			return false
		}
	}

	h.accepted.Add(1)
	return true
}

func (h *Host) keyDown(ev composer.KeyEvent) {
	h.keys.Add(1)
	h.logger.Debug("KEY_PRESSED", "key", ev.String())
	if h.onKey != nil {
		h.onKey(ev)
	}
}

// LastSent returns the most recent value offered to the send gate.
func (h *Host) LastSent() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastSent, h.hasSent
}

// SetFailSend makes every following send fail (true) or succeed (false).
func (h *Host) SetFailSend(fail bool) {
	h.mu.Lock()
	h.failSend = fail
	h.mu.Unlock()
}

// ToggleFailSend flips the send failure switch and returns the new value.
func (h *Host) ToggleFailSend() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failSend = !h.failSend
	return h.failSend
}

// FailSend reports whether sends are being failed.
func (h *Host) FailSend() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.failSend
}

// Stats reports accepted and rejected sends and key presses seen.
func (h *Host) Stats() (accepted, rejected, keys int64) {
	return h.accepted.Load(), h.rejected.Load(), h.keys.Load()
}

// =============================================================================
// SPACES
// =============================================================================

// Space returns the current draft space.
func (h *Host) Space() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.space
}

// OtherSpace returns the space the playground toggles to: "2" from "1" and
// "1" from anything else.
func (h *Host) OtherSpace() string {
	if h.Space() == "1" {
		return "2"
	}
	return "1"
}

// ShowSpace switches the composer to the draft of space. The previous
// content stays saved under its own space.
func (h *Host) ShowSpace(ctx context.Context, space string) error {
	d, err := draft.Bind(ctx, h.drafts, space, h.logger)
	if err != nil {
		return fmt.Errorf("load draft for space %s: %w", space, err)
	}

	h.mu.Lock()
	h.space = space
	h.lastSent = ""
	h.hasSent = false
	h.mu.Unlock()

	h.comp.SetDraft(d)
	h.logger.Info("SPACE_SHOWN", "space", space, "length", len(d.Value))
	return nil
}

// =============================================================================
// OPTIONS
// =============================================================================

// ToggleDisabled flips the disabled option and returns the new value.
func (h *Host) ToggleDisabled() bool {
	opts := h.comp.Options()
	opts.Disabled = !opts.Disabled
	h.comp.Reconfigure(opts)
	return opts.Disabled
}

// ToggleMarkdown flips markdown rendering and returns true when enabled.
func (h *Host) ToggleMarkdown() bool {
	opts := h.comp.Options()
	opts.Markdown.Disabled = !opts.Markdown.Disabled
	h.comp.Reconfigure(opts)
	return !opts.Markdown.Disabled
}

// SetPlaceholder replaces the placeholder.
func (h *Host) SetPlaceholder(text string) {
	opts := h.comp.Options()
	opts.Placeholder = text
	h.comp.Reconfigure(opts)
}
