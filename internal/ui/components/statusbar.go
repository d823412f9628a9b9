// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/profchat/internal/ui/styles"
	"github.com/jeranaias/profchat/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar shows the controller state on the left and key hints on the
// right. An error, then an info message, replaces the state text.
type StatusBar struct {
	State   string
	Info    string
	Spinner string
	Err     error
	Hints   string
	Width   int

	theme *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme, Width: 80}
}

// View renders the bar on one line.
func (s *StatusBar) View() string {
	var left string
	switch {
	case s.Err != nil:
		left = s.theme.StatusError.Render(styles.StatusIndicators.Error + " " + s.Err.Error())
	case s.Info != "":
		left = s.theme.Muted.Render(styles.StatusIndicators.Success + " " + s.Info)
	case s.Spinner != "":
		left = s.Spinner + " " + s.theme.StatusBusy.Render(s.State)
	default:
		left = s.State
	}

	inner := s.Width - 2
	hints := s.theme.Help.Render(s.Hints)
	gap := inner - lipgloss.Width(left) - util.StringWidth(s.Hints)
	if gap < 1 {
		return s.theme.StatusBar.Width(s.Width).Render(left)
	}
	return s.theme.StatusBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + hints)
}
