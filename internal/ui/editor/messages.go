// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/composer-tui/internal/composer"
	"github.com/jeranaias/composer-tui/internal/mention"
)

// =============================================================================
// CHANNEL MESSAGES
// =============================================================================

// CommandMsg carries one command read from the composer channel.
type CommandMsg struct {
	Command composer.Command
}

// ChannelClosedMsg signals that the composer channel was closed.
type ChannelClosedMsg struct{}

// waitForCommand blocks until the next channel command.
func waitForCommand(ch *composer.Channel) tea.Cmd {
	return func() tea.Msg {
		cmd, err := ch.Next(context.Background())
		if err != nil {
			return ChannelClosedMsg{}
		}
		return CommandMsg{Command: cmd}
	}
}

// =============================================================================
// MENTION MESSAGES
// =============================================================================

// SuggestionsMsg delivers the result of one Filter call.
type SuggestionsMsg struct {
	Result mention.Result
}

// filterCmd runs Filter off the update loop.
func filterCmd(q *mention.Querier, p mention.Provider, ticket uint64, query string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return SuggestionsMsg{Result: q.Run(ctx, p, ticket, query)}
	}
}

// =============================================================================
// HOST MESSAGES
// =============================================================================

// ResultMsg reports the effect of a key press or channel command to the host.
type ResultMsg struct {
	Result composer.Result

	// Command is set when the result came from the channel.
	Command *composer.Command

	// Key is the key name when the result came from the keyboard.
	Key string
}

// RefreshMsg asks the widget to re-read the composer after the host changed
// its options or draft.
type RefreshMsg struct{}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
