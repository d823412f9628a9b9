// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the profchat TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection.

# Color System (colors.go)

  - Purple - Assistant turns, selected professor
  - Cyan - Brand color, user turns, focus ring
  - Emerald - Success states
  - Amber - Streaming and pending states
  - Rose - Errors

# Theme System (theme.go)

The Theme struct detects terminal capabilities with termenv and builds every
lipgloss style used by the chat view:

	theme := styles.NewTheme()
	header := theme.Header.Render("profchat")

SetSize feeds the responsive layout mode that sizes transcript bubbles, and
GlamourStyle turns the "auto" markdown style into dark, light or notty from
the detected background and color profile.
*/
package styles
