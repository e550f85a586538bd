// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the composer screens.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderSpace lipgloss.Style

	// ==========================================================================
	// COMPOSER INPUT
	// ==========================================================================

	Input         lipgloss.Style
	InputFocused  lipgloss.Style
	InputDisabled lipgloss.Style
	Placeholder   lipgloss.Style
	Cursor        lipgloss.Style
	Preview       lipgloss.Style

	// ==========================================================================
	// SUGGESTION POPUP
	// ==========================================================================

	Popup      lipgloss.Style
	PopupTitle lipgloss.Style
	PopupEmpty lipgloss.Style
	PopupError lipgloss.Style

	// ==========================================================================
	// STATUS AND LOG
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusFlagOn lipgloss.Style
	StatusFlag   lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	LogTime      lipgloss.Style
	LogLine      lipgloss.Style
	Spinner      lipgloss.Style
}

// NewTheme creates a theme for the current terminal.
func NewTheme() *Theme {
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)
	t.HeaderSpace = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Input = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputFocused = t.Input.Copy().
		BorderForeground(FocusRing)
	t.InputDisabled = t.Input.Copy().
		BorderForeground(Amber).
		Foreground(TextMuted)
	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.Cursor = lipgloss.NewStyle().
		Reverse(true)
	t.Preview = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay)

	t.Popup = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)
	t.PopupTitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)
	t.PopupEmpty = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.PopupError = lipgloss.NewStyle().
		Foreground(Rose)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)
	t.StatusFlag = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.StatusFlagOn = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.LogTime = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.LogLine = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)
