// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"
)

// View renders the model.
func (m Model) View() string {
	if !m.ready {
		return "\n  Loading professors..."
	}

	parts := []string{m.header.View()}
	if m.layout.DirectoryPosition != DirectoryBottom {
		parts = append(parts, m.personas.View())
	}
	parts = append(parts, m.viewport.View())
	if m.formVisible() {
		parts = append(parts, m.form.View())
	}
	parts = append(parts, m.composer.View())
	if m.layout.DirectoryPosition == DirectoryBottom {
		parts = append(parts, m.personas.View())
	}
	parts = append(parts, m.status.View())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
