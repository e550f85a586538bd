// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/composer-tui/internal/composer"
	"github.com/jeranaias/composer-tui/internal/entity"
	"github.com/jeranaias/composer-tui/internal/logging"
	"github.com/jeranaias/composer-tui/internal/mention"
	"github.com/jeranaias/composer-tui/internal/ui/styles"
)

// DefaultFilterTimeout bounds one Filter call.
const DefaultFilterTimeout = 2 * time.Second

// Options configures the widget.
type Options struct {
	Theme *styles.Theme

	// FilterTimeout bounds one Filter call. Default DefaultFilterTimeout.
	FilterTimeout time.Duration

	// MaxSuggestions is the popup height in rows. Default 6.
	MaxSuggestions int

	Logger *slog.Logger
}

// preview caches the rendered markdown for one source text and width.
type preview struct {
	renderer *glamour.TermRenderer
	width    int
	source   string
	rendered string
}

// Model is the composer widget. The composer must be mounted before Init.
type Model struct {
	comp    *composer.Composer
	theme   *styles.Theme
	keys    KeyMap
	querier *mention.Querier
	popup   *SuggestionPopup
	spinner spinner.Model
	preview *preview
	logger  *slog.Logger

	// mentioned remembers accepted entities so spans render styled.
	mentioned map[string]entity.Entity

	// dismissed holds the query the user closed the popup on.
	dismissed     string
	isDismissed   bool
	filterTimeout time.Duration
	closed        bool
	width         int
	height        int
}

// New creates a widget for comp.
func New(comp *composer.Composer, opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	logger := logging.OrDefault(opts.Logger)
	timeout := opts.FilterTimeout
	if timeout <= 0 {
		timeout = DefaultFilterTimeout
	}

	return Model{
		comp:          comp,
		theme:         theme,
		keys:          DefaultKeyMap(),
		querier:       &mention.Querier{Logger: logger},
		popup:         NewSuggestionPopup(comp.Mentions(), theme, opts.MaxSuggestions),
		spinner:       spinner.New(spinner.WithSpinner(styles.DotsSpinner.Bubble()), spinner.WithStyle(theme.Spinner)),
		preview:       &preview{},
		logger:        logger,
		mentioned:     make(map[string]entity.Entity),
		filterTimeout: timeout,
		width:         80,
	}
}

// Init starts reading the composer channel.
func (m Model) Init() tea.Cmd {
	if m.comp.Channel() == nil {
		return nil
	}
	return waitForCommand(m.comp.Channel())
}

// Composer returns the wrapped composer.
func (m Model) Composer() *composer.Composer {
	return m.comp
}

// Keys returns the widget bindings.
func (m Model) Keys() KeyMap {
	return m.keys
}

// Popup returns the suggestion popup.
func (m Model) Popup() *SuggestionPopup {
	return m.popup
}

// Closed reports whether the channel has been closed.
func (m Model) Closed() bool {
	return m.closed
}

// SetSize sets the widget width and height.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles keys, channel commands and filter results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.updatePreview()
		return m, nil

	case CommandMsg:
		return m.handleCommand(msg.Command)

	case ChannelClosedMsg:
		m.closed = true
		m.closePopup()
		return m, nil

	case SuggestionsMsg:
		if !m.querier.Accept(msg.Result.Ticket) || !m.popup.IsOpen() {
			m.logger.Debug("FILTER_SUPERSEDED", "query", msg.Result.Query, "ticket", msg.Result.Ticket)
			return m, nil
		}
		m.popup.SetEntities(msg.Result.Entities, msg.Result.Err)
		return m, nil

	case spinner.TickMsg:
		if !m.popup.IsOpen() || !m.popup.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case RefreshMsg:
		m.updatePreview()
		return m, m.refreshSuggestions()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleCommand(cmd composer.Command) (Model, tea.Cmd) {
	res := m.comp.Apply(cmd)
	m.logger.Debug("COMMAND_APPLIED", "kind", cmd.Kind.String(), "outcome", res.Outcome.String())
	m.updatePreview()

	cmds := []tea.Cmd{waitForCommand(m.comp.Channel()), m.refreshSuggestions()}
	if res.Outcome != composer.OutcomeNone {
		c := cmd
		cmds = append(cmds, emit(ResultMsg{Result: res, Command: &c}))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.comp.Focused() || m.comp.State() != composer.StateReady {
		return m, nil
	}

	ev := KeyEvent(msg)
	m.comp.NotifyKey(ev)

	if m.popup.IsOpen() {
		switch {
		case key.Matches(msg, m.keys.Next):
			m.popup.Next()
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.popup.Prev()
			return m, nil
		case key.Matches(msg, m.keys.Dismiss):
			m.dismissed = m.popup.Query()
			m.isDismissed = true
			m.closePopup()
			return m, nil
		case key.Matches(msg, m.keys.Accept):
			if e, ok := m.popup.Selected(); ok {
				return m.acceptMention(e, msg.String())
			}
			// Nothing to pick yet. With no matches Enter sends as typed.
			if m.popup.Loading() {
				return m, nil
			}
		}
	}

	res := m.comp.ApplyKey(ev)
	m.updatePreview()

	cmds := []tea.Cmd{m.refreshSuggestions()}
	if res.Outcome != composer.OutcomeNone {
		cmds = append(cmds, emit(ResultMsg{Result: res, Key: ev.String()}))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) acceptMention(e entity.Entity, keyName string) (Model, tea.Cmd) {
	if err := m.comp.AcceptMention(e); err != nil {
		m.logger.Warn("MENTION_REJECTED", "entity", e.ID, "error", err)
		m.closePopup()
		return m, nil
	}
	m.mentioned[e.ID] = e
	m.closePopup()
	m.updatePreview()
	return m, emit(ResultMsg{Result: composer.Result{Outcome: composer.OutcomeEdited}, Key: keyName})
}

// refreshSuggestions opens, updates or closes the popup for the token at
// the cursor.
func (m *Model) refreshSuggestions() tea.Cmd {
	query, ok := m.comp.MentionQuery()
	if !ok || !m.comp.Focused() {
		m.isDismissed = false
		m.closePopup()
		return nil
	}
	if m.isDismissed && query == m.dismissed {
		return nil
	}
	m.isDismissed = false
	if m.popup.IsOpen() && query == m.popup.Query() {
		return nil
	}

	m.popup.Open(query)
	ticket := m.querier.Begin()
	return tea.Batch(
		filterCmd(m.querier, m.comp.Mentions(), ticket, query, m.filterTimeout),
		m.spinner.Tick,
	)
}

func (m *Model) closePopup() {
	if m.popup.IsOpen() {
		m.querier.Invalidate()
	}
	m.popup.Close()
}

// updatePreview re-renders the markdown preview when the content or width
// changed. The preview is empty while markdown is disabled.
func (m *Model) updatePreview() {
	if m.comp.Options().Markdown.Disabled {
		m.preview.source = ""
		m.preview.rendered = ""
		return
	}

	value := m.comp.Value()
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	if value == m.preview.source && width == m.preview.width && m.preview.renderer != nil {
		return
	}
	m.preview.source = value
	if strings.TrimSpace(value) == "" {
		m.preview.rendered = ""
		return
	}

	if m.preview.renderer == nil || width != m.preview.width {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			m.logger.Warn("PREVIEW_FAILED", "error", err)
			m.preview.rendered = ""
			return
		}
		m.preview.renderer = r
		m.preview.width = width
	}

	out, err := m.preview.renderer.Render(value)
	if err != nil {
		m.logger.Warn("PREVIEW_FAILED", "error", err)
		m.preview.rendered = ""
		return
	}
	m.preview.rendered = strings.Trim(out, "\n")
}
