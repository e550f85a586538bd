// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/jeranaias/composer-tui/internal/entity"
	"github.com/jeranaias/composer-tui/internal/ui/styles"
)

// =============================================================================
// RENDERER
// =============================================================================

// DefaultNameWidth is the width of the name column in a suggestion row.
const DefaultNameWidth = 24

// Renderer implements the rendering half of Provider. Providers embed it.
type Renderer struct {
	profile   termenv.Profile
	dark      bool
	nameWidth int
}

// NewRenderer creates a renderer for the current terminal color profile.
func NewRenderer() *Renderer {
	return &Renderer{
		profile:   lipgloss.ColorProfile(),
		dark:      lipgloss.HasDarkBackground(),
		nameWidth: DefaultNameWidth,
	}
}

// SetNameWidth sets the name column width of suggestion rows.
func (r *Renderer) SetNameWidth(width int) {
	if width < 4 {
		width = 4
	}
	r.nameWidth = width
}

// RenderSuggestion renders one suggestion row. The active row is highlighted
// and marked with ">".
func (r *Renderer) RenderSuggestion(e entity.Entity, state SuggestionState) Suggestion {
	name := runewidth.FillRight(runewidth.Truncate(e.DisplayName, r.nameWidth, "..."), r.nameWidth)

	indicatorStyle := lipgloss.NewStyle().Width(2).Foreground(styles.Cyan)
	nameStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)
	detailStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	indicator := " "
	if state.Active {
		indicator = ">"
		nameStyle = nameStyle.
			Background(styles.Cyan).
			Foreground(styles.Surface).
			Bold(true)
		detailStyle = detailStyle.Foreground(styles.TextSecondary)
	}

	return Suggestion{
		Key: e.ID,
		Render: lipgloss.JoinHorizontal(
			lipgloss.Left,
			indicatorStyle.Render(indicator),
			nameStyle.Render(name),
			detailStyle.Render(" "+detail(e)),
		),
	}
}

// RenderInsert renders the inline mention. It is styled with termenv rather
// than lipgloss so the text is never padded or reflowed.
func (r *Renderer) RenderInsert(e entity.Entity) string {
	color := styles.Cyan.Light
	if r.dark {
		color = styles.Cyan.Dark
	}
	if e.IsGroup() {
		color = styles.Amber.Light
		if r.dark {
			color = styles.Amber.Dark
		}
	}
	return r.profile.String(r.GetDisplay(e)).
		Foreground(r.profile.Color(color)).
		Bold().
		String()
}

// GetDisplay returns the inserted text: the first name of a person and the
// full name of anything else.
func (r *Renderer) GetDisplay(e entity.Entity) string {
	return e.Display()
}

// detail describes the entity kind for the suggestion row.
func detail(e entity.Entity) string {
	if !e.IsGroup() {
		return ""
	}
	members, err := entity.DecodeMembers(e.Items)
	if err != nil || len(members) == 0 {
		return "group"
	}
	if len(members) == 1 {
		return "group, 1 member"
	}
	return "group, " + strconv.Itoa(len(members)) + " members"
}
