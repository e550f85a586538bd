// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package playground

import (
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/composer-tui/internal/composer"
	"github.com/jeranaias/composer-tui/internal/draft"
	"github.com/jeranaias/composer-tui/internal/entity"
	"github.com/jeranaias/composer-tui/internal/host"
	"github.com/jeranaias/composer-tui/internal/logging"
	"github.com/jeranaias/composer-tui/internal/mention"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type driver struct {
	t    *testing.T
	m    tea.Model
	msgs chan tea.Msg
	quit bool
}

func newDriver(t *testing.T) (*driver, *host.Host) {
	t.Helper()
	users, err := entity.SampleDirectory(entity.NewSanitizer(&entity.SequenceGenerator{Prefix: "u"}))
	require.NoError(t, err)

	h, err := host.New(context.Background(), host.Options{
		Drafts:   draft.NewMemoryStore(),
		Mentions: mention.NewDirectory(mention.NewRenderer(), users),
		Composer: composer.Options{Markdown: composer.MarkdownOptions{Disabled: true}},
		Logger:   logging.Discard(),
	})
	require.NoError(t, err)
	t.Cleanup(h.Close)

	d := &driver{t: t, m: New(context.Background(), h, Options{Logger: logging.Discard()}), msgs: make(chan tea.Msg, 256)}
	d.exec(d.m.Init())
	d.settle()
	require.True(t, h.Composer().Focused())
	return d, h
}

func (d *driver) exec(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() { d.msgs <- cmd() }()
}

func (d *driver) send(msg tea.Msg) {
	var cmd tea.Cmd
	d.m, cmd = d.m.Update(msg)
	d.exec(cmd)
}

func (d *driver) settle() {
	for {
		select {
		case msg := <-d.msgs:
			switch msg := msg.(type) {
			case nil, spinner.TickMsg:
			case tea.QuitMsg:
				d.quit = true
			case tea.BatchMsg:
				for _, c := range msg {
					d.exec(c)
				}
			default:
				d.send(msg)
			}
		case <-time.After(50 * time.Millisecond):
			return
		}
	}
}

func (d *driver) key(k tea.KeyType) {
	d.send(tea.KeyMsg{Type: k})
	d.settle()
}

func (d *driver) typeText(s string) {
	d.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	d.settle()
}

func (d *driver) view() string {
	return ansi.Strip(d.m.View())
}

func TestPlayground_EmojiThenSend(t *testing.T) {
	d, h := newDriver(t)

	d.key(tea.KeyCtrlO)
	assert.Equal(t, Emoji, h.Composer().Value())

	d.key(tea.KeyCtrlS)
	last, ok := h.LastSent()
	require.True(t, ok)
	assert.Equal(t, Emoji, last)
	assert.Equal(t, "", h.Composer().Value())
	assert.Contains(t, d.view(), `Sending: "🎉"`)
	assert.Contains(t, d.view(), "sent")
}

func TestPlayground_FailSendKeepsContent(t *testing.T) {
	d, h := newDriver(t)

	d.key(tea.KeyCtrlX)
	assert.True(t, h.FailSend())

	d.typeText("hello")
	d.key(tea.KeyEnter)
	assert.Equal(t, "hello", h.Composer().Value())
	assert.Contains(t, d.view(), "send failed")

	d.key(tea.KeyCtrlL)
	assert.Equal(t, "", h.Composer().Value())
}

func TestPlayground_SwitchSpaces(t *testing.T) {
	d, h := newDriver(t)

	d.typeText("first")
	d.key(tea.KeyCtrlT)
	assert.Equal(t, "2", h.Space())
	assert.Equal(t, "", h.Composer().Value())
	assert.Contains(t, d.view(), "space 2")

	d.typeText("second")
	d.key(tea.KeyCtrlT)
	assert.Equal(t, "1", h.Space())
	assert.Equal(t, "first", h.Composer().Value())
}

func TestPlayground_DisableBlocksTyping(t *testing.T) {
	d, h := newDriver(t)

	d.key(tea.KeyCtrlD)
	require.True(t, h.Composer().Options().Disabled)
	d.typeText("nope")
	d.key(tea.KeyCtrlO)
	assert.Equal(t, "", h.Composer().Value())
	assert.Contains(t, d.view(), "[disabled]")

	d.key(tea.KeyCtrlD)
	d.typeText("yes")
	assert.Equal(t, "yes", h.Composer().Value())
}

func TestPlayground_MentionButtonOpensPopup(t *testing.T) {
	d, h := newDriver(t)

	d.key(tea.KeyCtrlR)
	assert.Equal(t, "@", h.Composer().Value())
	assert.True(t, d.m.(Model).Editor().Popup().IsOpen())
	assert.Len(t, d.m.(Model).Editor().Popup().Entities(), 14)

	d.typeText("jo")
	d.key(tea.KeyTab)
	assert.Equal(t, "John ", h.Composer().Value())
}

func TestPlayground_BlurAndFocus(t *testing.T) {
	d, h := newDriver(t)

	d.key(tea.KeyEsc)
	assert.False(t, h.Composer().Focused())
	d.typeText("ignored")
	assert.Equal(t, "", h.Composer().Value())

	d.key(tea.KeyCtrlG)
	assert.True(t, h.Composer().Focused())
}

func TestPlayground_PlaceholderAndQuit(t *testing.T) {
	d, _ := newDriver(t)
	assert.Contains(t, d.view(), host.DefaultPlaceholder)

	d.key(tea.KeyCtrlY)
	assert.Contains(t, d.view(), host.AlternatePlaceholder)

	d.key(tea.KeyCtrlC)
	assert.True(t, d.quit)
}
