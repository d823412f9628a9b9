// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER & STATUS
	// ==========================================================================

	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	StatusBar   lipgloss.Style
	StatusError lipgloss.Style
	StatusBusy  lipgloss.Style
	Help        lipgloss.Style

	// ==========================================================================
	// PERSONA BAR
	// ==========================================================================

	PersonaBar      lipgloss.Style
	PersonaChip     lipgloss.Style
	PersonaSelected lipgloss.Style
	PersonaCursor   lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	RoleLabel       lipgloss.Style
	Placeholder     lipgloss.Style

	// ==========================================================================
	// COMPOSER & FORM
	// ==========================================================================

	InputContainer lipgloss.Style
	InputFocused   lipgloss.Style
	FormTitle      lipgloss.Style
	FormLabel      lipgloss.Style
	Muted          lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.StatusError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.StatusBusy = lipgloss.NewStyle().
		Foreground(Amber)

	t.Help = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Persona bar
	t.PersonaBar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PersonaChip = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.PersonaSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Bold(true).
		Padding(0, 1)

	t.PersonaCursor = lipgloss.NewStyle().
		Foreground(Cyan).
		Underline(true).
		Padding(0, 1)

	// Transcript
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)

	t.RoleLabel = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Composer and ingestion form
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputFocused = t.InputContainer.
		BorderForeground(Cyan)

	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(10)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// GlamourStyle resolves "auto" (or an empty name) to the glamour style that
// fits the detected terminal. Other names are returned unchanged.
func (t *Theme) GlamourStyle(name string) string {
	if name != "" && name != "auto" {
		return name
	}
	switch {
	case t.ColorProfile == termenv.Ascii:
		return "notty"
	case t.IsDark:
		return "dark"
	default:
		return "light"
	}
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// BubbleWidth returns the maximum width of a transcript bubble.
func (t *Theme) BubbleWidth() int {
	w := t.Width * 3 / 4
	if t.GetLayoutMode() == LayoutNarrow {
		w = t.Width - 2
	}
	if w < 20 {
		w = 20
	}
	return w
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
	LayoutWide                     // > 100 columns
)
