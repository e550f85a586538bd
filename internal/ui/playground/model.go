// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package playground is the interactive terminal host for a composer. It
// mirrors a component story: the composer plus buttons, here bound to keys,
// that drive the command channel and flip the composer options.
package playground

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	json "github.com/goccy/go-json"

	"github.com/jeranaias/composer-tui/internal/composer"
	"github.com/jeranaias/composer-tui/internal/host"
	"github.com/jeranaias/composer-tui/internal/logging"
	"github.com/jeranaias/composer-tui/internal/ui/editor"
	"github.com/jeranaias/composer-tui/internal/ui/styles"
)

// Emoji is the text inserted by the emoji action.
const Emoji = "🎉"

// maxLogLines bounds the event log.
const maxLogLines = 8

// Options configures the playground.
type Options struct {
	Theme          *styles.Theme
	MaxSuggestions int
	Logger         *slog.Logger
}

type logLine struct {
	at   time.Time
	text string
}

// Model is the playground Bubble Tea model.
type Model struct {
	ctx      context.Context
	host     *host.Host
	editor   editor.Model
	theme    *styles.Theme
	keys     KeyMap
	help     help.Model
	logger   *slog.Logger
	log      []logLine
	showHelp bool
	quitting bool
	width    int
	height   int
}

// New creates a playground around h. The composer is focused once the
// program starts.
func New(ctx context.Context, h *host.Host, opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	logger := logging.OrDefault(opts.Logger)

	return Model{
		ctx:  ctx,
		host: h,
		editor: editor.New(h.Composer(), editor.Options{
			Theme:          theme,
			MaxSuggestions: opts.MaxSuggestions,
			Logger:         logger,
		}),
		theme:  theme,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		logger: logger,
		width:  80,
	}
}

// Init starts the editor and focuses the composer.
func (m Model) Init() tea.Cmd {
	if err := m.host.Channel().Focus(); err != nil {
		m.logger.Warn("FOCUS_FAILED", "error", err)
	}
	return m.editor.Init()
}

// Editor returns the composer widget.
func (m Model) Editor() editor.Model {
	return m.editor
}

// Host returns the host.
func (m Model) Host() *host.Host {
	return m.host
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles playground actions and forwards everything else to the
// editor.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if cmd, handled := m.handleAction(msg); handled {
			return m, cmd
		}

	case editor.ResultMsg:
		m.record(msg)
		return m, nil

	case editor.ChannelClosedMsg:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		m.quitting = true
		return m, tea.Batch(cmd, tea.Quit)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// handleAction runs a playground action. Actions go through the channel the
// way a host application would issue them.
func (m *Model) handleAction(msg tea.KeyMsg) (tea.Cmd, bool) {
	ch := m.host.Channel()
	comp := m.host.Composer()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return nil, true

	case key.Matches(msg, m.keys.Focus):
		return m.emit(ch.Focus()), true

	case key.Matches(msg, m.keys.Blur):
		if m.editor.Popup().IsOpen() || !comp.Focused() {
			return nil, false
		}
		comp.Blur()
		m.addLog("blurred")
		return nil, true

	case key.Matches(msg, m.keys.Emoji):
		return m.emit(ch.InsertText(Emoji)), true

	case key.Matches(msg, m.keys.Mention):
		return m.emit(ch.InsertText("@")), true

	case key.Matches(msg, m.keys.Send):
		return m.emit(ch.Send()), true

	case key.Matches(msg, m.keys.Clear):
		return m.emit(ch.Clear()), true

	case key.Matches(msg, m.keys.Space):
		other := m.host.OtherSpace()
		if err := m.host.ShowSpace(m.ctx, other); err != nil {
			m.addLog("space " + other + ": " + err.Error())
			return nil, true
		}
		m.addLog("showing space " + other)
		return m.refresh(), true

	case key.Matches(msg, m.keys.FailSend):
		if m.host.ToggleFailSend() {
			m.addLog("sends will fail")
		} else {
			m.addLog("sends will succeed")
		}
		return nil, true

	case key.Matches(msg, m.keys.Disable):
		if m.host.ToggleDisabled() {
			m.addLog("disabled")
		} else {
			m.addLog("enabled")
		}
		return m.refresh(), true

	case key.Matches(msg, m.keys.Markdown):
		if m.host.ToggleMarkdown() {
			m.addLog("markdown enabled")
		} else {
			m.addLog("markdown disabled")
		}
		return m.refresh(), true

	case key.Matches(msg, m.keys.Placeholder):
		m.host.SetPlaceholder(host.AlternatePlaceholder)
		return nil, true
	}

	return nil, false
}

func (m *Model) emit(err error) tea.Cmd {
	if err != nil {
		m.addLog("channel: " + err.Error())
	}
	return nil
}

func (m *Model) refresh() tea.Cmd {
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(editor.RefreshMsg{})
	return cmd
}

// record logs a composer outcome the way the story prints it.
func (m *Model) record(msg editor.ResultMsg) {
	res := msg.Result
	switch res.Outcome {
	case composer.OutcomeSent:
		m.addLog("sent " + quote(res.Value))
	case composer.OutcomeRejected:
		m.addLog("send failed, kept " + quote(res.Value))
	case composer.OutcomeCleared:
		m.addLog("cleared")
	case composer.OutcomeFocused:
		m.addLog("focused")
	case composer.OutcomeEmpty:
		m.addLog("nothing to send")
	case composer.OutcomeSuppressed:
		if msg.Command != nil {
			m.addLog(msg.Command.Kind.String() + " ignored while disabled")
		}
	}
}

func (m *Model) addLog(text string) {
	m.log = append(m.log, logLine{at: time.Now(), text: text})
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

// quote renders v as a JSON string.
func quote(v string) string {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	return string(b)
}
