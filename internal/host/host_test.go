// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package host

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/composer-tui/internal/composer"
	"github.com/jeranaias/composer-tui/internal/draft"
	"github.com/jeranaias/composer-tui/internal/logging"
	"github.com/jeranaias/composer-tui/internal/outbox"
)

type recordingOutbox struct {
	msgs []outbox.Message
	err  error
}

func (o *recordingOutbox) Submit(msg outbox.Message) error {
	if o.err != nil {
		return o.err
	}
	o.msgs = append(o.msgs, msg)
	return nil
}

func newHost(t *testing.T, store draft.Store, out Submitter) *Host {
	t.Helper()
	h, err := New(context.Background(), Options{
		Drafts: store,
		Outbox: out,
		Logger: logging.Discard(),
	})
	require.NoError(t, err)
	require.NotNil(t, h.Channel())
	t.Cleanup(h.Close)
	return h
}

func apply(h *Host) []composer.Result {
	return h.Composer().ApplyPending()
}

func TestNew_RequiresDrafts(t *testing.T) {
	_, err := New(context.Background(), Options{})
	assert.Error(t, err)
}

func TestHost_DefaultsAndSeed(t *testing.T) {
	store := draft.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "1", "left over"))

	h := newHost(t, store, nil)
	assert.Equal(t, "1", h.Space())
	assert.Equal(t, "2", h.OtherSpace())
	assert.Equal(t, DefaultPlaceholder, h.Composer().Options().Placeholder)
	assert.Equal(t, "left over", h.Composer().Value())
}

func TestHost_SendPublishesToOutbox(t *testing.T) {
	out := &recordingOutbox{}
	h := newHost(t, draft.NewMemoryStore(), out)

	require.NoError(t, h.Channel().InsertText("🎉"))
	require.NoError(t, h.Channel().Send())
	results := apply(h)

	require.Len(t, results, 2)
	assert.Equal(t, composer.OutcomeSent, results[1].Outcome)
	require.Len(t, out.msgs, 1)
	assert.Equal(t, "🎉", out.msgs[0].Text)
	assert.Equal(t, "1", out.msgs[0].SpaceID)

	last, ok := h.LastSent()
	assert.True(t, ok)
	assert.Equal(t, "🎉", last)

	accepted, rejected, _ := h.Stats()
	assert.Equal(t, int64(1), accepted)
	assert.Equal(t, int64(0), rejected)
}

func TestHost_FailSendRetainsContent(t *testing.T) {
	out := &recordingOutbox{}
	h := newHost(t, draft.NewMemoryStore(), out)
	assert.True(t, h.ToggleFailSend())

	require.NoError(t, h.Channel().InsertText("keep me"))
	require.NoError(t, h.Channel().Send())
	results := apply(h)

	assert.Equal(t, composer.OutcomeRejected, results[1].Outcome)
	assert.Equal(t, "keep me", h.Composer().Value())
	assert.Empty(t, out.msgs)

	h.SetFailSend(false)
	require.NoError(t, h.Channel().Send())
	results = apply(h)
	assert.Equal(t, composer.OutcomeSent, results[0].Outcome)
	assert.Equal(t, "", h.Composer().Value())
}

func TestHost_OutboxFullRejects(t *testing.T) {
	out := &recordingOutbox{err: outbox.ErrQueueFull}
	h := newHost(t, draft.NewMemoryStore(), out)

	require.NoError(t, h.Channel().InsertText("later"))
	require.NoError(t, h.Channel().Send())
	results := apply(h)

	assert.Equal(t, composer.OutcomeRejected, results[1].Outcome)
	assert.Equal(t, "later", h.Composer().Value())
}

func TestHost_ShowSpaceKeepsDrafts(t *testing.T) {
	store := draft.NewMemoryStore()
	h := newHost(t, store, nil)

	require.NoError(t, h.Channel().InsertText("space one"))
	apply(h)

	require.NoError(t, h.ShowSpace(context.Background(), h.OtherSpace()))
	assert.Equal(t, "2", h.Space())
	assert.Equal(t, "", h.Composer().Value())
	assert.Equal(t, "2", h.Composer().DraftID())

	require.NoError(t, h.Channel().InsertText("space two"))
	apply(h)

	require.NoError(t, h.ShowSpace(context.Background(), h.OtherSpace()))
	assert.Equal(t, "space one", h.Composer().Value())

	v, err := store.Load(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "space two", v)
}

func TestHost_Toggles(t *testing.T) {
	h := newHost(t, draft.NewMemoryStore(), nil)

	assert.True(t, h.ToggleDisabled())
	assert.True(t, h.Composer().Options().Disabled)
	assert.False(t, h.ToggleDisabled())

	assert.False(t, h.ToggleMarkdown())
	assert.True(t, h.Composer().Options().Markdown.Disabled)
	assert.True(t, h.ToggleMarkdown())

	h.SetPlaceholder(AlternatePlaceholder)
	assert.Equal(t, AlternatePlaceholder, h.Composer().Options().Placeholder)
}
