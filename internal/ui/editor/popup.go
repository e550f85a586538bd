// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"strconv"
	"strings"

	"github.com/jeranaias/composer-tui/internal/entity"
	"github.com/jeranaias/composer-tui/internal/mention"
	"github.com/jeranaias/composer-tui/internal/ui/styles"
)

// =============================================================================
// SUGGESTION POPUP COMPONENT
// =============================================================================

// SuggestionPopup lists mention candidates for the current "@query".
type SuggestionPopup struct {
	provider   mention.Provider
	theme      *styles.Theme
	entities   []entity.Entity
	query      string
	selected   int
	maxVisible int
	open       bool
	loading    bool
	failed     bool
}

// NewSuggestionPopup creates a closed popup.
func NewSuggestionPopup(provider mention.Provider, theme *styles.Theme, maxVisible int) *SuggestionPopup {
	if maxVisible < 1 {
		maxVisible = 6
	}
	return &SuggestionPopup{
		provider:   provider,
		theme:      theme,
		maxVisible: maxVisible,
	}
}

// Open shows the popup in its loading state for query.
func (p *SuggestionPopup) Open(query string) {
	p.open = true
	p.loading = true
	p.failed = false
	p.query = query
}

// Close hides the popup and drops its candidates.
func (p *SuggestionPopup) Close() {
	p.open = false
	p.loading = false
	p.failed = false
	p.entities = nil
	p.selected = 0
	p.query = ""
}

// IsOpen reports whether the popup is shown.
func (p *SuggestionPopup) IsOpen() bool {
	return p.open
}

// Loading reports whether the popup is waiting for filter results.
func (p *SuggestionPopup) Loading() bool {
	return p.open && p.loading
}

// Query returns the query the popup was opened for.
func (p *SuggestionPopup) Query() string {
	return p.query
}

// SetEntities replaces the candidates. A failed filter shows no candidates.
func (p *SuggestionPopup) SetEntities(list []entity.Entity, err error) {
	p.loading = false
	p.failed = err != nil
	p.entities = list
	if p.failed {
		p.entities = nil
	}
	p.selected = 0
}

// Entities returns the current candidates.
func (p *SuggestionPopup) Entities() []entity.Entity {
	return p.entities
}

// Next selects the next candidate.
func (p *SuggestionPopup) Next() {
	if len(p.entities) == 0 {
		return
	}
	p.selected = (p.selected + 1) % len(p.entities)
}

// Prev selects the previous candidate.
func (p *SuggestionPopup) Prev() {
	if len(p.entities) == 0 {
		return
	}
	p.selected--
	if p.selected < 0 {
		p.selected = len(p.entities) - 1
	}
}

// Selected returns the highlighted candidate.
func (p *SuggestionPopup) Selected() (entity.Entity, bool) {
	if !p.open || p.selected < 0 || p.selected >= len(p.entities) {
		return entity.Entity{}, false
	}
	return p.entities[p.selected], true
}

// View renders the popup. spin is shown while results are loading.
func (p *SuggestionPopup) View(spin string) string {
	if !p.open {
		return ""
	}

	title := p.theme.PopupTitle.Render("@" + p.query)
	if n := len(p.entities); n > 0 {
		title += p.theme.PopupEmpty.Render("  " + strconv.Itoa(n) + " found")
	}

	var body string
	switch {
	case p.loading && len(p.entities) == 0:
		body = spin + p.theme.PopupEmpty.Render(" searching")
	case p.failed:
		body = p.theme.PopupError.Render(styles.StatusIndicators.Warning + " suggestions unavailable")
	case len(p.entities) == 0:
		body = p.theme.PopupEmpty.Render("no matches")
	default:
		body = p.renderRows()
	}

	return p.theme.Popup.Render(title + "\n" + body)
}

// renderRows renders a scrolling window centered on the selection.
func (p *SuggestionPopup) renderRows() string {
	start, end := 0, len(p.entities)
	if len(p.entities) > p.maxVisible {
		start = p.selected - p.maxVisible/2
		if start < 0 {
			start = 0
		}
		end = start + p.maxVisible
		if end > len(p.entities) {
			end = len(p.entities)
			start = end - p.maxVisible
		}
	}

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		s := p.provider.RenderSuggestion(p.entities[i], mention.SuggestionState{Active: i == p.selected})
		rows = append(rows, s.Render)
	}
	if start > 0 || end < len(p.entities) {
		rows = append(rows, p.theme.PopupEmpty.Render("  "+strconv.Itoa(len(p.entities)-(end-start))+" more"))
	}
	return strings.Join(rows, "\n")
}
