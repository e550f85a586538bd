// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package editor is the Bubble Tea widget around a composer.Composer.
//
// The widget translates key presses into composer key events, applies
// channel commands as they arrive, runs mention filtering as commands and
// renders the input box, the suggestion popup and an optional markdown
// preview.
//
// # Message Flow
//
//   - Init starts a command that waits on the composer channel. Each
//     CommandMsg is applied and the wait is restarted, so commands are
//     applied one at a time in issuance order.
//   - An "@query" token at the cursor starts a filter. Results return as
//     SuggestionsMsg and are dropped unless their ticket is the latest.
//   - Every applied key or command that had an effect is reported to the
//     host as a ResultMsg.
//
// # Usage
//
//	ed := editor.New(comp, editor.Options{Theme: theme, Logger: logger})
//	cmd := ed.Init()
//	...
//	ed, cmd = ed.Update(msg)
package editor
