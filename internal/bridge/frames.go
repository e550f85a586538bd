// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bridge

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/jeranaias/composer-tui/internal/composer"
)

// =============================================================================
// FRAMES
// =============================================================================

// CommandFrame is an inbound command.
type CommandFrame struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Event types sent to clients.
const (
	EventSent     = "sent"
	EventRejected = "rejected"
	EventCleared  = "cleared"
	EventEdited   = "edited"
	EventFocused  = "focused"
	EventIgnored  = "ignored"
	EventError    = "error"
)

// EventFrame is an outbound event.
type EventFrame struct {
	Type    string `json:"type"`
	Space   string `json:"space,omitempty"`
	Value   string `json:"value,omitempty"`
	Command string `json:"command,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DecodeCommand parses an inbound frame into a command.
func DecodeCommand(data []byte) (composer.Command, error) {
	var frame CommandFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return composer.Command{}, fmt.Errorf("decode frame: %w", err)
	}
	kind, err := composer.ParseCommandKind(frame.Type)
	if err != nil {
		return composer.Command{}, err
	}
	cmd := composer.Command{Kind: kind}
	if kind == composer.CommandInsertText {
		cmd.Text = frame.Text
	}
	return cmd, nil
}

// EventFor describes the result of applying cmd as an outbound frame.
func EventFor(cmd composer.Command, res composer.Result, space string) EventFrame {
	ev := EventFrame{Space: space, Command: cmd.Kind.String()}
	switch res.Outcome {
	case composer.OutcomeSent:
		ev.Type, ev.Value = EventSent, res.Value
	case composer.OutcomeRejected:
		ev.Type, ev.Value = EventRejected, res.Value
	case composer.OutcomeCleared:
		ev.Type = EventCleared
	case composer.OutcomeEdited:
		ev.Type = EventEdited
	case composer.OutcomeFocused:
		ev.Type = EventFocused
	default:
		ev.Type = EventIgnored
	}
	return ev
}
