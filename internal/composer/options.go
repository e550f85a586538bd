// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

// Options are the runtime-changeable composer settings.
type Options struct {
	// Disabled suppresses key editing and channel INSERT_TEXT/SEND.
	// FOCUS and CLEAR still apply.
	Disabled bool

	// Markdown controls the rendered preview.
	Markdown MarkdownOptions

	// Placeholder is shown while the content is empty.
	Placeholder string
}

// MarkdownOptions controls markdown preview rendering.
type MarkdownOptions struct {
	Disabled bool
}

// DefaultPlaceholder is used by hosts that do not set one.
const DefaultPlaceholder = "Type a message, @ to mention"

// Draft is the persistence handle a composer seeds from and saves into.
type Draft struct {
	// ID is the space the draft belongs to.
	ID string

	// Value is the initial content.
	Value string

	// Save is called with the full content and ID on every content change.
	Save func(value, id string)
}

func (d *Draft) save(value string) {
	if d == nil || d.Save == nil {
		return
	}
	d.Save(value, d.ID)
}
