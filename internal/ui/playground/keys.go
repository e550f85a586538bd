// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package playground

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the playground actions. They work whether or not the
// composer is focused, so they all use control keys.
type KeyMap struct {
	Focus       key.Binding
	Blur        key.Binding
	Emoji       key.Binding
	Mention     key.Binding
	Send        key.Binding
	Clear       key.Binding
	Space       key.Binding
	FailSend    key.Binding
	Disable     key.Binding
	Markdown    key.Binding
	Placeholder key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default playground bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Focus: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "focus"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "blur"),
		),
		Emoji: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "insert emoji"),
		),
		Mention: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "@mention"),
		),
		Send: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "SEND"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "CLEAR"),
		),
		Space: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "other space"),
		),
		FailSend: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "toggle send failure"),
		),
		Disable: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "toggle disabled"),
		),
		Markdown: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("C-k", "toggle markdown"),
		),
		Placeholder: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "change placeholder"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Emoji, k.Space, k.Help, k.Quit}
}

// FullHelp returns every binding grouped by purpose.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.Blur, k.Emoji, k.Mention},
		{k.Send, k.Clear, k.Space},
		{k.FailSend, k.Disable, k.Markdown, k.Placeholder},
		{k.Help, k.Quit},
	}
}
