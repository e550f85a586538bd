// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/composer-tui/internal/entity"
	"github.com/jeranaias/composer-tui/internal/logging"
	"github.com/jeranaias/composer-tui/internal/mention"
)

// host records what a composer reports back.
type host struct {
	mu      sync.Mutex
	channel *Channel
	sent    []string
	accept  bool
	keys    []KeyEvent
	saved   []string
}

func newHost() *host {
	return &host{accept: true}
}

func (h *host) config() Config {
	return Config{
		SetChannel: func(ch *Channel) { h.channel = ch },
		Send: func(value string) bool {
			h.sent = append(h.sent, value)
			return h.accept
		},
		NotifyKeyDown: func(ev KeyEvent) {
			h.mu.Lock()
			h.keys = append(h.keys, ev)
			h.mu.Unlock()
		},
		Draft: &Draft{ID: "1", Save: func(value, id string) {
			h.saved = append(h.saved, id+":"+value)
		}},
		Logger: logging.Discard(),
	}
}

func mountComposer(t *testing.T, h *host, cfg Config) *Composer {
	t.Helper()
	c := New(cfg)
	assert.Equal(t, StateUninitialized, c.State())
	require.NoError(t, c.Mount())
	require.NotNil(t, h.channel)
	assert.Equal(t, StateReady, c.State())
	t.Cleanup(c.Close)
	return c
}

func typeText(c *Composer, s string) {
	for _, r := range s {
		c.HandleKey(KeyEvent{Type: KeyRunes, Runes: []rune{r}})
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

func TestParseCommandKind(t *testing.T) {
	tests := []struct {
		in   string
		want CommandKind
		err  bool
	}{
		{"FOCUS", CommandFocus, false},
		{"insert_text", CommandInsertText, false},
		{" SEND ", CommandSend, false},
		{"Clear", CommandClear, false},
		{"BLUR", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCommandKind(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, ErrUnknownCommand)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInsertThenSend(t *testing.T) {
	h := newHost()
	c := mountComposer(t, h, h.config())

	require.NoError(t, h.channel.InsertText("🎉"))
	require.NoError(t, h.channel.Send())

	results := c.ApplyPending()
	require.Len(t, results, 2)
	assert.Equal(t, OutcomeEdited, results[0].Outcome)
	assert.Equal(t, OutcomeSent, results[1].Outcome)

	require.Len(t, h.sent, 1)
	assert.Contains(t, h.sent[0], "🎉")
	assert.Equal(t, "", c.Value())
}

func TestRejectedSendRetainsContent(t *testing.T) {
	h := newHost()
	h.accept = false
	c := mountComposer(t, h, h.config())

	typeText(c, "hello")
	res := c.Apply(Command{Kind: CommandSend})

	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.Equal(t, "hello", res.Value)
	assert.Equal(t, "hello", c.Value())

	res = c.Apply(Command{Kind: CommandClear})
	assert.Equal(t, OutcomeCleared, res.Outcome)
	assert.Equal(t, "", c.Value())
}

func TestClearOnEmpty(t *testing.T) {
	h := newHost()
	c := mountComposer(t, h, h.config())

	assert.Equal(t, OutcomeCleared, c.Apply(Command{Kind: CommandClear}).Outcome)
	assert.Equal(t, "", c.Value())
}

func TestSendEmptyDoesNotCallSend(t *testing.T) {
	h := newHost()
	c := mountComposer(t, h, h.config())

	assert.Equal(t, OutcomeEmpty, c.Apply(Command{Kind: CommandSend}).Outcome)
	typeText(c, "   ")
	assert.Equal(t, OutcomeEmpty, c.Apply(Command{Kind: CommandSend}).Outcome)
	assert.Empty(t, h.sent)
	assert.Equal(t, "   ", c.Value())
}

func TestNilSendAccepts(t *testing.T) {
	h := newHost()
	cfg := h.config()
	cfg.Send = nil
	c := mountComposer(t, h, cfg)

	typeText(c, "hi")
	assert.Equal(t, OutcomeSent, c.Apply(Command{Kind: CommandSend}).Outcome)
	assert.Equal(t, "", c.Value())
}

func TestCommandsApplyInOrder(t *testing.T) {
	h := newHost()
	c := mountComposer(t, h, h.config())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, s := range []string{"a", "b", "c", "d"} {
			assert.NoError(t, h.channel.InsertText(s))
		}
	}()
	wg.Wait()

	c.ApplyPending()
	assert.Equal(t, "abcd", c.Value())
}

func TestFocus(t *testing.T) {
	h := newHost()
	c := mountComposer(t, h, h.config())

	assert.False(t, c.Focused())
	assert.Equal(t, OutcomeFocused, c.Apply(Command{Kind: CommandFocus}).Outcome)
	assert.True(t, c.Focused())

	c.Blur()
	assert.False(t, c.Focused())
}

func TestApplyBeforeMount(t *testing.T) {
	c := New(Config{Logger: logging.Discard()})
	assert.Equal(t, Result{}, c.Apply(Command{Kind: CommandInsertText, Text: "x"}))
	assert.Equal(t, "", c.Value())
	assert.Nil(t, c.Channel())
}

func TestMountTwice(t *testing.T) {
	h := newHost()
	c := mountComposer(t, h, h.config())
	assert.ErrorIs(t, c.Mount(), ErrAlreadyMounted)
}

// =============================================================================
// CHANNEL
// =============================================================================

func TestChannel_Closed(t *testing.T) {
	h := newHost()
	c := mountComposer(t, h, h.config())

	require.NoError(t, h.channel.InsertText("kept"))
	c.Close()
	assert.Equal(t, StateClosed, c.State())

	assert.ErrorIs(t, h.channel.Send(), ErrChannelClosed)
	assert.True(t, h.channel.Closed())

	cmd, err := h.channel.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Command{Kind: CommandInsertText, Text: "kept"}, cmd)

	_, err = h.channel.Next(context.Background())
	assert.ErrorIs(t, err, ErrChannelClosed)
}

func TestChannel_NextWaits(t *testing.T) {
	ch := newChannel()

	got := make(chan Command, 1)
	go func() {
		cmd, err := ch.Next(context.Background())
		if err == nil {
			got <- cmd
		}
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, ch.Focus())

	select {
	case cmd := <-got:
		assert.Equal(t, CommandFocus, cmd.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("Next did not return")
	}
}

func TestChannel_NextContext(t *testing.T) {
	ch := newChannel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := ch.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestChannel_EmitUnknown(t *testing.T) {
	ch := newChannel()
	assert.ErrorIs(t, ch.Emit(Command{Kind: "BLUR"}), ErrUnknownCommand)
	assert.Equal(t, 0, ch.Pending())
}

// =============================================================================
// OPTIONS
// =============================================================================

func TestDisabledPolicy(t *testing.T) {
	h := newHost()
	cfg := h.config()
	cfg.Draft.Value = "draft"
	c := mountComposer(t, h, cfg)

	c.Reconfigure(Options{Disabled: true})

	assert.Equal(t, OutcomeSuppressed, c.HandleKey(KeyEvent{Type: KeyRunes, Runes: []rune("x")}).Outcome)
	assert.Equal(t, OutcomeSuppressed, c.Apply(Command{Kind: CommandInsertText, Text: "y"}).Outcome)
	assert.Equal(t, OutcomeSuppressed, c.Apply(Command{Kind: CommandSend}).Outcome)
	assert.Equal(t, "draft", c.Value())
	assert.Empty(t, h.sent)

	assert.Equal(t, OutcomeFocused, c.Apply(Command{Kind: CommandFocus}).Outcome)
	assert.Equal(t, OutcomeCleared, c.Apply(Command{Kind: CommandClear}).Outcome)
	assert.Equal(t, "", c.Value())

	c.Reconfigure(Options{})
	assert.Equal(t, OutcomeEdited, c.Apply(Command{Kind: CommandInsertText, Text: "y"}).Outcome)
	assert.Equal(t, "y", c.Value())
}

func TestReconfigureKeepsChannelAndContent(t *testing.T) {
	h := newHost()
	c := mountComposer(t, h, h.config())
	ch := c.Channel()

	typeText(c, "abc")
	c.Reconfigure(Options{Placeholder: "Say hi", Markdown: MarkdownOptions{Disabled: true}})

	assert.Same(t, ch, c.Channel())
	assert.Equal(t, "abc", c.Value())
	assert.Equal(t, "Say hi", c.Options().Placeholder)
	assert.True(t, c.Options().Markdown.Disabled)
}

// =============================================================================
// DRAFTS
// =============================================================================

func TestDraftSeedAndSave(t *testing.T) {
	h := newHost()
	cfg := h.config()
	cfg.Draft.Value = "seed"
	c := mountComposer(t, h, cfg)

	assert.Equal(t, "seed", c.Value())
	typeText(c, "!")
	require.NoError(t, h.channel.InsertText("?"))
	c.ApplyPending()

	assert.Equal(t, []string{"1:seed!", "1:seed!?"}, h.saved)
}

func TestSetDraft(t *testing.T) {
	h := newHost()
	c := mountComposer(t, h, h.config())
	typeText(c, "one")

	var saved []string
	c.SetDraft(&Draft{ID: "2", Value: "two", Save: func(value, id string) {
		saved = append(saved, id+":"+value)
	}})

	assert.Equal(t, "two", c.Value())
	assert.Equal(t, "2", c.DraftID())

	typeText(c, "!")
	assert.Equal(t, []string{"2:two!"}, saved)

	c.SetDraft(nil)
	assert.Equal(t, "", c.Value())
	assert.Equal(t, "", c.DraftID())
}

// =============================================================================
// KEYS
// =============================================================================

func TestHandleKey_Editing(t *testing.T) {
	h := newHost()
	c := mountComposer(t, h, h.config())

	typeText(c, "helo")
	c.HandleKey(KeyEvent{Type: KeyLeft})
	c.HandleKey(KeyEvent{Type: KeyRunes, Runes: []rune("l")})
	assert.Equal(t, "hello", c.Value())
	assert.Equal(t, 4, c.Cursor())

	c.HandleKey(KeyEvent{Type: KeyEnd})
	c.HandleKey(KeyEvent{Type: KeyNewline})
	typeText(c, "world")
	assert.Equal(t, "hello\nworld", c.Value())

	c.HandleKey(KeyEvent{Type: KeyDeleteWord})
	assert.Equal(t, "hello\n", c.Value())

	c.HandleKey(KeyEvent{Type: KeyHome})
	c.HandleKey(KeyEvent{Type: KeyDelete})
	assert.Equal(t, "ello\n", c.Value())
	c.HandleKey(KeyEvent{Type: KeyBackspace})
	assert.Equal(t, "ello\n", c.Value())

	c.HandleKey(KeyEvent{Type: KeyRight})
	c.HandleKey(KeyEvent{Type: KeyBackspace})
	assert.Equal(t, "llo\n", c.Value())

	res := c.HandleKey(KeyEvent{Type: KeyEnter})
	assert.Equal(t, OutcomeSent, res.Outcome)
	assert.Equal(t, []string{"llo\n"}, h.sent)
}

func TestHandleKey_Notifies(t *testing.T) {
	h := newHost()
	c := mountComposer(t, h, h.config())

	typeText(c, "ab")
	c.HandleKey(KeyEvent{Type: KeyOther, Name: "ctrl+k"})
	c.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.keys, 3)
	assert.Equal(t, "a", h.keys[0].String())
	assert.Equal(t, "ctrl+k", h.keys[2].String())
}

func TestNotifyKeyAndApplyKey(t *testing.T) {
	h := newHost()
	c := mountComposer(t, h, h.config())

	c.NotifyKey(KeyEvent{Type: KeyOther, Name: "down"})
	c.ApplyKey(KeyEvent{Type: KeyRunes, Runes: []rune("x")})
	assert.Equal(t, "x", c.Value())
	c.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.keys, 1)
	assert.Equal(t, "down", h.keys[0].String())
}

func TestHandleKey_SlowListenerDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	delivered := 0

	var ch *Channel
	c := New(Config{
		SetChannel: func(c *Channel) { ch = c },
		NotifyKeyDown: func(KeyEvent) {
			<-release
			mu.Lock()
			delivered++
			mu.Unlock()
		},
		KeyBuffer: 2,
		Logger:    logging.Discard(),
	})
	require.NoError(t, c.Mount())
	require.NotNil(t, ch)

	done := make(chan struct{})
	go func() {
		typeText(c, "abcdefghij")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("HandleKey blocked on a slow listener")
	}
	assert.Equal(t, "abcdefghij", c.Value())

	close(release)
	c.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Less(t, delivered, 10)
	assert.GreaterOrEqual(t, delivered, 1)
}

// =============================================================================
// MENTIONS
// =============================================================================

func mentionComposer(t *testing.T) (*Composer, []entity.Entity) {
	t.Helper()
	users, err := entity.SampleDirectory(entity.NewSanitizer(&entity.SequenceGenerator{Prefix: "u"}))
	require.NoError(t, err)

	h := newHost()
	cfg := h.config()
	cfg.Mentions = mention.NewDirectory(nil, users)
	return mountComposer(t, h, cfg), users
}

func TestMentionQuery(t *testing.T) {
	c, _ := mentionComposer(t)

	tests := []struct {
		typed string
		query string
		ok    bool
	}{
		{"@", "", true},
		{"@ph", "ph", true},
		{"hi @Le", "Le", true},
		{"mail@host", "", false},
		{"@fry done", "", false},
		{"plain", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.typed, func(t *testing.T) {
			c.Apply(Command{Kind: CommandClear})
			typeText(c, tt.typed)
			q, ok := c.MentionQuery()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.query, q)
		})
	}
}

func TestAcceptMention(t *testing.T) {
	c, users := mentionComposer(t)
	fry, all := users[3], users[0]

	typeText(c, "hey @phi")
	require.NoError(t, c.AcceptMention(fry))
	assert.Equal(t, "hey Philip ", c.Value())

	typeText(c, "and @a")
	require.NoError(t, c.AcceptMention(all))
	assert.Equal(t, "hey Philip and All ", c.Value())

	spans := c.MentionSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, MentionSpan{EntityID: fry.ID, Start: 4, End: 10}, spans[0])
	assert.Equal(t, MentionSpan{EntityID: all.ID, Start: 15, End: 18}, spans[1])

	segments := c.Segments()
	assert.Equal(t, []Segment{
		{Text: "hey "},
		{Text: "Philip", EntityID: fry.ID},
		{Text: " and "},
		{Text: "All", EntityID: all.ID},
		{Text: " "},
	}, segments)

	_, ok := c.MentionQuery()
	assert.False(t, ok)
	assert.ErrorIs(t, c.AcceptMention(fry), ErrNoMentionQuery)
}

func TestMentionSpanDroppedWhenEdited(t *testing.T) {
	c, users := mentionComposer(t)

	typeText(c, "@le")
	require.NoError(t, c.AcceptMention(users[4]))
	assert.Equal(t, "Turanga ", c.Value())

	// Inserting before the mention shifts it.
	c.HandleKey(KeyEvent{Type: KeyHome})
	typeText(c, "> ")
	require.Len(t, c.MentionSpans(), 1)
	assert.Equal(t, 2, c.MentionSpans()[0].Start)

	// Editing inside the mention breaks it.
	c.HandleKey(KeyEvent{Type: KeyRight})
	c.HandleKey(KeyEvent{Type: KeyDelete})
	assert.Empty(t, c.MentionSpans())
}
