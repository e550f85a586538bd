// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// COMMANDS
// =============================================================================

// CommandKind names a host to composer command.
type CommandKind string

const (
	// CommandFocus moves input focus to the composer.
	CommandFocus CommandKind = "FOCUS"

	// CommandInsertText inserts the command text at the cursor.
	CommandInsertText CommandKind = "INSERT_TEXT"

	// CommandSend submits the content through the Send gate.
	CommandSend CommandKind = "SEND"

	// CommandClear empties the content unconditionally.
	CommandClear CommandKind = "CLEAR"
)

// ErrUnknownCommand is returned when a command name is not recognized.
var ErrUnknownCommand = errors.New("unknown composer command")

// AllCommandKinds lists every command kind in wire order.
func AllCommandKinds() []CommandKind {
	return []CommandKind{CommandFocus, CommandInsertText, CommandSend, CommandClear}
}

// ParseCommandKind parses a wire name such as "INSERT_TEXT". Matching ignores
// case and surrounding whitespace.
func ParseCommandKind(s string) (CommandKind, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, k := range AllCommandKinds() {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// String returns the wire name.
func (k CommandKind) String() string {
	return string(k)
}

// Command is one instruction sent over a Channel.
type Command struct {
	Kind CommandKind

	// Text is the payload of CommandInsertText and empty otherwise.
	Text string
}

func (c Command) String() string {
	if c.Kind == CommandInsertText {
		return fmt.Sprintf("%s(%q)", c.Kind, c.Text)
	}
	return string(c.Kind)
}
