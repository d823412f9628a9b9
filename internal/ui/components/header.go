// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/profchat/internal/ui/styles"
)

// =============================================================================
// HEADER
// =============================================================================

// Header is the title line: brand, the selected professor and the backend
// host.
type Header struct {
	Title   string
	Persona string
	Host    string
	Width   int
	theme   *styles.Theme
}

// NewHeader creates a header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "profchat",
		Width: 80,
		theme: theme,
	}
}

// View renders the header on a single line.
func (h *Header) View() string {
	accent := lipgloss.NewStyle().Foreground(styles.Purple)
	brand := accent.Render("<") + h.theme.HeaderBrand.Render(h.Title) + accent.Render(">")

	parts := []string{brand}
	if h.Persona != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true).Render(h.Persona))
	} else {
		parts = append(parts, h.theme.Muted.Render("no professor selected"))
	}
	if h.Host != "" {
		parts = append(parts, h.theme.Muted.Render(h.Host))
	}

	sep := h.theme.Muted.Render(" | ")
	return h.theme.Header.Width(h.Width).Render(strings.Join(parts, sep))
}
