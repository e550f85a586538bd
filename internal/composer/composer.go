// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/jeranaias/composer-tui/internal/entity"
	"github.com/jeranaias/composer-tui/internal/logging"
	"github.com/jeranaias/composer-tui/internal/mention"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrAlreadyMounted is returned by a second Mount.
	ErrAlreadyMounted = errors.New("composer already mounted")

	// ErrNotMounted is returned when an operation needs a mounted composer.
	ErrNotMounted = errors.New("composer not mounted")

	// ErrNoMentionQuery is returned by AcceptMention when the cursor is not
	// inside an "@query" token.
	ErrNoMentionQuery = errors.New("no mention query at cursor")
)

// =============================================================================
// STATE
// =============================================================================

// State is the composer lifecycle state.
type State int

const (
	// StateUninitialized is the state before Mount.
	StateUninitialized State = iota

	// StateReady is entered once the channel has been delivered.
	StateReady

	// StateClosed is entered by Close.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Outcome describes what applying a command or key did.
type Outcome int

const (
	// OutcomeNone means nothing changed.
	OutcomeNone Outcome = iota
	OutcomeFocused
	OutcomeEdited
	OutcomeSent
	OutcomeRejected
	OutcomeCleared

	// OutcomeEmpty means a send was requested with nothing to send.
	OutcomeEmpty

	// OutcomeSuppressed means the composer is disabled and ignored the input.
	OutcomeSuppressed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFocused:
		return "focused"
	case OutcomeEdited:
		return "edited"
	case OutcomeSent:
		return "sent"
	case OutcomeRejected:
		return "rejected"
	case OutcomeCleared:
		return "cleared"
	case OutcomeEmpty:
		return "empty"
	case OutcomeSuppressed:
		return "suppressed"
	default:
		return "none"
	}
}

// Result reports the effect of one command or key.
type Result struct {
	Outcome Outcome

	// Value is the content offered to Send for OutcomeSent and OutcomeRejected.
	Value string
}

// =============================================================================
// CONFIG
// =============================================================================

// Config wires a composer to its host.
type Config struct {
	// SetChannel receives the command channel once, during Mount.
	SetChannel func(*Channel)

	// Send validates outgoing content. True clears the content, false keeps
	// it. A nil Send accepts everything.
	Send func(value string) bool

	// NotifyKeyDown is told about every key press on a separate goroutine.
	NotifyKeyDown func(KeyEvent)

	// KeyBuffer bounds pending key notifications. Default DefaultKeyBuffer.
	KeyBuffer int

	// Mentions supplies mention candidates and their rendering. Optional.
	Mentions mention.Provider

	// Draft seeds the content and receives every change. Optional.
	Draft *Draft

	// Options are the initial settings.
	Options Options

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// =============================================================================
// COMPOSER
// =============================================================================

// Composer owns message content and applies host commands and key presses.
type Composer struct {
	cfg      Config
	opts     Options
	draft    *Draft
	buf      buffer
	state    State
	focused  bool
	channel  *Channel
	notifier *keyNotifier
	logger   *slog.Logger
}

// New creates an unmounted composer seeded from cfg.Draft.
func New(cfg Config) *Composer {
	c := &Composer{
		cfg:    cfg,
		opts:   cfg.Options,
		draft:  cfg.Draft,
		logger: logging.OrDefault(cfg.Logger),
	}
	if c.draft != nil {
		c.buf.set(c.draft.Value)
	}
	return c
}

// Mount creates the command channel, hands it to the host and enters
// StateReady.
func (c *Composer) Mount() error {
	if c.state != StateUninitialized {
		return ErrAlreadyMounted
	}

	c.channel = newChannel()
	if c.cfg.NotifyKeyDown != nil {
		c.notifier = newKeyNotifier(c.cfg.NotifyKeyDown, c.cfg.KeyBuffer, c.logger)
	}
	if c.cfg.SetChannel != nil {
		c.cfg.SetChannel(c.channel)
	}
	c.state = StateReady

	c.logger.Debug("COMPOSER_MOUNTED", "draft", c.DraftID(), "disabled", c.opts.Disabled)
	return nil
}

// Close closes the channel and flushes pending key notifications.
func (c *Composer) Close() {
	if c.state == StateClosed {
		return
	}
	if c.channel != nil {
		c.channel.Close()
	}
	if c.notifier != nil {
		c.notifier.stop()
	}
	c.state = StateClosed
}

// Channel returns the command channel, or nil before Mount.
func (c *Composer) Channel() *Channel {
	return c.channel
}

// State returns the lifecycle state.
func (c *Composer) State() State {
	return c.state
}

// Value returns the content.
func (c *Composer) Value() string {
	return c.buf.String()
}

// Cursor returns the cursor position in runes.
func (c *Composer) Cursor() int {
	return c.buf.cursor
}

// Focused reports whether the composer has focus.
func (c *Composer) Focused() bool {
	return c.focused
}

// Blur removes focus.
func (c *Composer) Blur() {
	c.focused = false
}

// Options returns the current settings.
func (c *Composer) Options() Options {
	return c.opts
}

// Mentions returns the provider, or nil.
func (c *Composer) Mentions() mention.Provider {
	return c.cfg.Mentions
}

// MentionSpans returns the mentions still intact in the content.
func (c *Composer) MentionSpans() []MentionSpan {
	out := make([]MentionSpan, len(c.buf.spans))
	copy(out, c.buf.spans)
	return out
}

// DraftID returns the current draft's space ID, or "".
func (c *Composer) DraftID() string {
	if c.draft == nil {
		return ""
	}
	return c.draft.ID
}

// Reconfigure replaces the settings. Content and channel are kept.
func (c *Composer) Reconfigure(opts Options) {
	if opts != c.opts {
		c.logger.Debug("COMPOSER_RECONFIGURED",
			"disabled", opts.Disabled,
			"markdown_disabled", opts.Markdown.Disabled,
		)
	}
	c.opts = opts
}

// SetDraft switches to another draft and reseeds the content from it.
func (c *Composer) SetDraft(d *Draft) {
	c.draft = d
	value := ""
	if d != nil {
		value = d.Value
	}
	c.buf.set(value)
	c.logger.Debug("DRAFT_SWITCHED", "draft", c.DraftID(), "length", len(value))
}

// =============================================================================
// COMMANDS
// =============================================================================

// Apply applies one command. Before Mount and after Close nothing happens.
func (c *Composer) Apply(cmd Command) Result {
	if c.state != StateReady {
		return Result{}
	}

	switch cmd.Kind {
	case CommandFocus:
		c.focused = true
		return Result{Outcome: OutcomeFocused}

	case CommandInsertText:
		if c.opts.Disabled {
			return Result{Outcome: OutcomeSuppressed}
		}
		if cmd.Text == "" {
			return Result{}
		}
		c.buf.insert(cmd.Text)
		c.changed()
		return Result{Outcome: OutcomeEdited}

	case CommandSend:
		if c.opts.Disabled {
			return Result{Outcome: OutcomeSuppressed}
		}
		return c.send()

	case CommandClear:
		c.buf.reset()
		c.changed()
		return Result{Outcome: OutcomeCleared}
	}

	c.logger.Warn("UNKNOWN_COMMAND", "kind", string(cmd.Kind))
	return Result{}
}

// ApplyPending applies every queued channel command in order.
func (c *Composer) ApplyPending() []Result {
	if c.channel == nil {
		return nil
	}
	var results []Result
	for {
		cmd, ok := c.channel.TryNext()
		if !ok {
			return results
		}
		results = append(results, c.Apply(cmd))
	}
}

func (c *Composer) send() Result {
	value := c.buf.String()
	if strings.TrimSpace(value) == "" {
		return Result{Outcome: OutcomeEmpty}
	}

	accepted := true
	if c.cfg.Send != nil {
		accepted = c.cfg.Send(value)
	}
	if !accepted {
		c.logger.Info("SEND_REJECTED", "draft", c.DraftID(), "length", len(value))
		return Result{Outcome: OutcomeRejected, Value: value}
	}

	c.logger.Info("SEND_ACCEPTED", "draft", c.DraftID(), "length", len(value))
	c.buf.reset()
	c.changed()
	return Result{Outcome: OutcomeSent, Value: value}
}

// changed saves the content into the draft.
func (c *Composer) changed() {
	c.draft.save(c.buf.String())
}

// =============================================================================
// KEYS
// =============================================================================

// HandleKey reports ev to NotifyKeyDown and applies it unless disabled.
func (c *Composer) HandleKey(ev KeyEvent) Result {
	c.NotifyKey(ev)
	return c.ApplyKey(ev)
}

// NotifyKey queues ev for NotifyKeyDown without editing. Widgets that
// consume a key themselves (suggestion navigation) still report it here.
func (c *Composer) NotifyKey(ev KeyEvent) {
	if c.state != StateReady || c.notifier == nil {
		return
	}
	c.notifier.notify(ev)
}

// ApplyKey edits the buffer for ev without notifying.
func (c *Composer) ApplyKey(ev KeyEvent) Result {
	if c.state != StateReady {
		return Result{}
	}
	if c.opts.Disabled {
		return Result{Outcome: OutcomeSuppressed}
	}

	before := c.buf.String()
	switch ev.Type {
	case KeyRunes:
		c.buf.insert(string(ev.Runes))
	case KeyNewline:
		c.buf.insert("\n")
	case KeyEnter:
		return c.send()
	case KeyBackspace:
		c.buf.backspace()
	case KeyDelete:
		c.buf.deleteForward()
	case KeyDeleteWord:
		c.buf.deleteWordBackward()
	case KeyLeft:
		c.buf.left()
	case KeyRight:
		c.buf.right()
	case KeyHome:
		c.buf.home()
	case KeyEnd:
		c.buf.end()
	default:
		return Result{}
	}

	if c.buf.String() != before {
		c.changed()
		return Result{Outcome: OutcomeEdited}
	}
	return Result{}
}

// =============================================================================
// MENTIONS
// =============================================================================

// MentionQuery returns the text after "@" when the cursor sits at the end of
// an "@query" token.
func (c *Composer) MentionQuery() (string, bool) {
	if c.cfg.Mentions == nil || c.opts.Disabled {
		return "", false
	}
	query, _, ok := c.buf.mentionToken()
	return query, ok
}

// AcceptMention replaces the "@query" token at the cursor with the entity's
// display text followed by a space and records the mention span.
func (c *Composer) AcceptMention(e entity.Entity) error {
	if c.state != StateReady {
		return ErrNotMounted
	}
	if c.cfg.Mentions == nil {
		return ErrNoMentionQuery
	}
	_, start, ok := c.buf.mentionToken()
	if !ok {
		return ErrNoMentionQuery
	}

	display := []rune(c.cfg.Mentions.GetDisplay(e))
	end := c.buf.tokenEnd()

	c.buf.replace(start, end, append(display, ' '))
	c.buf.addSpan(MentionSpan{EntityID: e.ID, Start: start, End: start + len(display)})
	c.changed()

	c.logger.Debug("MENTION_ACCEPTED", "entity", e.ID, "type", e.ObjectType.String())
	return nil
}

// Segment is a run of content that is either plain text or a mention.
type Segment struct {
	Text     string
	EntityID string
}

// Segments splits the content into plain and mention runs in order.
func (c *Composer) Segments() []Segment {
	var out []Segment
	pos := 0
	text := c.buf.text
	for _, s := range sortedSpans(c.buf.spans) {
		if s.Start > pos {
			out = append(out, Segment{Text: string(text[pos:s.Start])})
		}
		out = append(out, Segment{Text: string(text[s.Start:s.End]), EntityID: s.EntityID})
		pos = s.End
	}
	if pos < len(text) {
		out = append(out, Segment{Text: string(text[pos:])})
	}
	return out
}

func sortedSpans(spans []MentionSpan) []MentionSpan {
	out := make([]MentionSpan, len(spans))
	copy(out, spans)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
