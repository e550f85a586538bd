// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"context"

	"github.com/charmbracelet/x/ansi"

	"github.com/jeranaias/composer-tui/internal/entity"
)

// =============================================================================
// PROVIDER CONTRACT
// =============================================================================

// Provider supplies mention candidates and their rendered forms.
//
// Entities passed to a Provider are expected to be sanitized: ID and
// ObjectType are always set.
type Provider interface {
	// Filter returns candidates whose display name starts with query,
	// ignoring case. An empty query returns every candidate.
	Filter(ctx context.Context, query string) ([]entity.Entity, error)

	// RenderSuggestion renders one row of the suggestion list.
	RenderSuggestion(e entity.Entity, state SuggestionState) Suggestion

	// RenderInsert renders the styled inline form inserted into a message.
	RenderInsert(e entity.Entity) string

	// GetDisplay returns the plain text of RenderInsert.
	GetDisplay(e entity.Entity) string
}

// SuggestionState describes how a suggestion row is being shown.
type SuggestionState struct {
	// Active is true for the currently highlighted row.
	Active bool
}

// Suggestion is a rendered suggestion row.
type Suggestion struct {
	// Key identifies the row. It is the entity ID.
	Key string

	// Render is the styled row content.
	Render string
}

// PlainText strips terminal escape sequences from s.
func PlainText(s string) string {
	return ansi.Strip(s)
}

// FilterEntities returns the entities in list whose display name starts with
// query, ignoring case, preserving order. An empty query returns list.
func FilterEntities(list []entity.Entity, query string) []entity.Entity {
	if query == "" {
		out := make([]entity.Entity, len(list))
		copy(out, list)
		return out
	}

	folded := entity.Fold(query)
	var out []entity.Entity
	for _, e := range list {
		if entity.HasFoldedPrefix(e.DisplayName, folded) {
			out = append(out, e)
		}
	}
	return out
}
