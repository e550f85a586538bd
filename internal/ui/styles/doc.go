// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the composer TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection.

# Colors (colors.go)

  - Cyan - user mentions, brand
  - Amber - group mentions, disabled composer
  - Purple - focus ring, selected suggestion
  - Emerald / Rose - accepted / rejected sends

# Theme (theme.go)

Theme groups the lipgloss styles used by the composer model and the
playground host: header, input box in its focused/blurred/disabled states,
suggestion popup, status bar and event log.

	theme := styles.NewTheme()
	theme.SetSize(width, height)
	box := theme.InputFocused.Width(width - 2).Render(text)

# Animations (animations.go)

SpinnerConfig values convert to bubbles spinners with Bubble().
*/
package styles
