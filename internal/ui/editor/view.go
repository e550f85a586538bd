// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/composer-tui/internal/composer"
)

// View renders the popup, the input box and the markdown preview.
func (m Model) View() string {
	var parts []string
	if popup := m.popup.View(m.spinner.View()); popup != "" {
		parts = append(parts, popup)
	}
	parts = append(parts, m.renderInput())
	if m.preview.rendered != "" {
		parts = append(parts, m.theme.Preview.Width(m.innerWidth()).Render(m.preview.rendered))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Preview returns the rendered markdown preview.
func (m Model) Preview() string {
	return m.preview.rendered
}

func (m Model) innerWidth() int {
	w := m.width - 4
	if w < 10 {
		w = 10
	}
	return w
}

func (m Model) renderInput() string {
	opts := m.comp.Options()
	focused := m.comp.Focused()

	box := m.theme.Input
	switch {
	case opts.Disabled:
		box = m.theme.InputDisabled
	case focused:
		box = m.theme.InputFocused
	}

	var content string
	if m.comp.Value() == "" {
		placeholder := opts.Placeholder
		if placeholder == "" {
			placeholder = composer.DefaultPlaceholder
		}
		content = m.theme.Placeholder.Render(placeholder)
		if focused && !opts.Disabled {
			content = m.theme.Cursor.Render(" ") + content
		}
	} else {
		content = m.renderContent(focused && !opts.Disabled)
	}

	return box.Width(m.innerWidth()).Render(content)
}

// renderContent renders the text with mentions styled and the cursor shown
// as a reversed cell.
func (m Model) renderContent(showCursor bool) string {
	var b strings.Builder
	cursor := m.comp.Cursor()
	provider := m.comp.Mentions()
	pos := 0

	for _, seg := range m.comp.Segments() {
		runes := []rune(seg.Text)
		end := pos + len(runes)
		e, known := m.mentioned[seg.EntityID]
		cursorInside := showCursor && cursor >= pos && cursor < end

		if seg.EntityID != "" && known && provider != nil && !cursorInside {
			b.WriteString(provider.RenderInsert(e))
		} else {
			for i, r := range runes {
				if showCursor && pos+i == cursor {
					b.WriteString(m.cursorCell(r))
					continue
				}
				b.WriteRune(r)
			}
		}
		pos = end
	}

	if showCursor && cursor >= pos {
		b.WriteString(m.theme.Cursor.Render(" "))
	}
	return b.String()
}

func (m Model) cursorCell(r rune) string {
	if r == '\n' {
		return m.theme.Cursor.Render(" ") + "\n"
	}
	return m.theme.Cursor.Render(string(r))
}
