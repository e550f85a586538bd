// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/composer-tui/internal/composer"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the bindings the widget handles itself. Everything else is
// passed to the composer as an editing key.
type KeyMap struct {
	Send    key.Binding
	Newline key.Binding

	// Suggestion popup
	Accept  key.Binding
	Next    key.Binding
	Prev    key.Binding
	Dismiss key.Binding
}

// DefaultKeyMap returns the default widget bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter", "ctrl+j"),
			key.WithHelp("A-Enter", "new line"),
		),
		Accept: key.NewBinding(
			key.WithKeys("tab", "enter"),
			key.WithHelp("Tab", "insert mention"),
		),
		Next: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("down", "next suggestion"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "ctrl+p", "shift+tab"),
			key.WithHelp("up", "previous suggestion"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "close suggestions"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Newline, k.Accept}
}

// FullHelp returns all bindings grouped for the help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Newline},
		{k.Accept, k.Next, k.Prev, k.Dismiss},
	}
}

// =============================================================================
// KEY TRANSLATION
// =============================================================================

// KeyEvent converts a Bubble Tea key press into a composer key event.
func KeyEvent(msg tea.KeyMsg) composer.KeyEvent {
	ev := composer.KeyEvent{Name: msg.String()}

	switch msg.Type {
	case tea.KeyRunes:
		ev.Type = composer.KeyRunes
		ev.Runes = msg.Runes
	case tea.KeySpace:
		ev.Type = composer.KeyRunes
		ev.Runes = []rune{' '}
	case tea.KeyEnter:
		ev.Type = composer.KeyEnter
		if msg.Alt {
			ev.Type = composer.KeyNewline
		}
	case tea.KeyCtrlJ:
		ev.Type = composer.KeyNewline
	case tea.KeyBackspace:
		ev.Type = composer.KeyBackspace
	case tea.KeyDelete:
		ev.Type = composer.KeyDelete
	case tea.KeyCtrlW:
		ev.Type = composer.KeyDeleteWord
	case tea.KeyLeft, tea.KeyCtrlB:
		ev.Type = composer.KeyLeft
	case tea.KeyRight, tea.KeyCtrlF:
		ev.Type = composer.KeyRight
	case tea.KeyHome, tea.KeyCtrlA:
		ev.Type = composer.KeyHome
	case tea.KeyEnd, tea.KeyCtrlE:
		ev.Type = composer.KeyEnd
	case tea.KeyEsc:
		ev.Type = composer.KeyEscape
	default:
		ev.Type = composer.KeyOther
	}
	return ev
}
