// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/profchat/internal/ui/styles"
)

// =============================================================================
// COMPOSER
// =============================================================================

const (
	composerPlaceholder = "Ask a question..."
	composerNoPersona   = "Select a professor to start"
)

// Composer is the single-line message input. Enter is handled by the
// parent; the composer never submits on its own.
type Composer struct {
	input   textinput.Model
	width   int
	focused bool
	theme   *styles.Theme
}

// NewComposer creates a composer.
func NewComposer(theme *styles.Theme) *Composer {
	ti := textinput.New()
	ti.Placeholder = composerNoPersona
	ti.CharLimit = 0
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.Cyan)

	return &Composer{input: ti, width: 80, theme: theme}
}

// Focus focuses the input.
func (c *Composer) Focus() tea.Cmd {
	c.focused = true
	return c.input.Focus()
}

// Blur removes focus from the input.
func (c *Composer) Blur() {
	c.focused = false
	c.input.Blur()
}

// Focused returns whether the input is focused.
func (c *Composer) Focused() bool {
	return c.focused
}

// Value returns the current text.
func (c *Composer) Value() string {
	return c.input.Value()
}

// SetValue replaces the text.
func (c *Composer) SetValue(s string) {
	c.input.SetValue(s)
}

// SetWidth sets the outer width.
func (c *Composer) SetWidth(w int) {
	c.width = w
	c.input.Width = w - 6
	if c.input.Width < 10 {
		c.input.Width = 10
	}
}

// SetStatus picks the placeholder for the controller state.
func (c *Composer) SetStatus(selected, sending bool) {
	switch {
	case sending:
		c.input.Placeholder = ThinkingText
	case selected:
		c.input.Placeholder = composerPlaceholder
	default:
		c.input.Placeholder = composerNoPersona
	}
}

// Placeholder returns the current placeholder text.
func (c *Composer) Placeholder() string {
	return c.input.Placeholder
}

// Update forwards msg to the text input.
func (c *Composer) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// View renders the composer.
func (c *Composer) View() string {
	style := c.theme.InputContainer
	if c.focused {
		style = c.theme.InputFocused
	}
	return style.Width(c.width - 2).Render(c.input.View())
}
