// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package playground

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the header, the composer, the sending line, the event log and
// the help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.editor.View(),
		m.renderSending(),
		m.renderLog(),
		m.renderStatusBar(),
	}
	if m.showHelp {
		sections = append(sections, m.help.FullHelpView(m.keys.FullHelp()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("composer")
	space := m.theme.HeaderSpace.Render("space " + m.host.Space())

	opts := m.host.Composer().Options()
	flags := []string{
		m.flag("disabled", opts.Disabled),
		m.flag("markdown", !opts.Markdown.Disabled),
		m.flag("send fails", m.host.FailSend()),
	}
	return m.theme.Header.Render(title + "  " + space + "  " + strings.Join(flags, " "))
}

func (m Model) flag(name string, on bool) string {
	if on {
		return m.theme.StatusFlagOn.Render("[" + name + "]")
	}
	return m.theme.StatusFlag.Render(name)
}

func (m Model) renderSending() string {
	last, _ := m.host.LastSent()
	return m.theme.LogLine.Render("Sending: " + quote(last))
}

func (m Model) renderLog() string {
	if len(m.log) == 0 {
		return m.theme.LogTime.Render("no events yet")
	}
	lines := make([]string, 0, len(m.log))
	for _, l := range m.log {
		lines = append(lines, m.theme.LogTime.Render(l.at.Format("15:04:05"))+" "+m.theme.LogLine.Render(l.text))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatusBar() string {
	accepted, rejected, keys := m.host.Stats()
	counts := fmt.Sprintf("sent %d  failed %d  keys %d", accepted, rejected, keys)
	return m.theme.StatusBar.Render(counts + "  " + m.help.ShortHelpView(m.keys.ShortHelp()))
}
