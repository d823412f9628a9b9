// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/profchat/internal/model"
	"github.com/jeranaias/profchat/internal/ui/styles"
	"github.com/jeranaias/profchat/internal/util"
)

// =============================================================================
// TURN BUBBLE
// =============================================================================

// ThinkingText is shown in an assistant placeholder that has no text yet.
const ThinkingText = "Thinking..."

// TurnBubble renders one transcript turn. User turns are right-aligned plain
// text; assistant turns are left-aligned markdown.
type TurnBubble struct {
	Turn      model.Turn
	Width     int
	Streaming bool
	Persona   string

	theme *styles.Theme
	md    *Markdown
}

// NewTurnBubble creates a bubble for turn.
func NewTurnBubble(turn model.Turn, theme *styles.Theme, md *Markdown) *TurnBubble {
	return &TurnBubble{
		Turn:  turn,
		Width: 80,
		theme: theme,
		md:    md,
	}
}

// View renders the bubble at b.Width.
func (b *TurnBubble) View() string {
	if b.Turn.Role == model.RoleUser {
		return b.renderUser()
	}
	return b.renderAssistant()
}

// bubbleFrame is the border plus padding around bubble content.
const bubbleFrame = 4

// maxContentWidth follows the theme's layout mode: three quarters of the
// screen when wide, nearly all of it when narrow.
func (b *TurnBubble) maxContentWidth() int {
	w := b.theme.BubbleWidth()
	if w > b.Width && b.Width > 0 {
		w = b.Width
	}
	w -= bubbleFrame
	if w < 16 {
		w = 16
	}
	return w
}

func (b *TurnBubble) renderUser() string {
	content := b.Turn.Content
	inner := b.maxContentWidth()
	wrapped := lipgloss.NewStyle().Width(inner).Render(content)
	if util.StringWidth(content) < inner {
		wrapped = content
	}

	bubble := b.theme.UserBubble.Render(wrapped)
	header := b.theme.RoleLabel.Render(b.Turn.Role.DisplayName())

	return lipgloss.NewStyle().
		Width(b.Width).
		Align(lipgloss.Right).
		Render(lipgloss.JoinVertical(lipgloss.Right, header, bubble))
}

func (b *TurnBubble) renderAssistant() string {
	inner := b.maxContentWidth()

	var body string
	switch {
	case b.Turn.IsEmpty() && b.Streaming:
		body = b.theme.Placeholder.Render(ThinkingText)
	case b.Turn.IsEmpty():
		body = b.theme.Placeholder.Render("(no reply)")
	case b.md != nil:
		body = b.md.Render(b.Turn.Content, inner)
	default:
		body = lipgloss.NewStyle().Width(inner).Render(b.Turn.Content)
	}
	if b.Streaming && !b.Turn.IsEmpty() {
		body += b.theme.StatusBusy.Render(" ▌")
	}

	label := b.Turn.Role.DisplayName()
	if b.Persona != "" {
		label = b.Persona
	}
	header := b.theme.RoleLabel.Render(label)

	return lipgloss.JoinVertical(lipgloss.Left, header, b.theme.AssistantBubble.Render(body))
}

// RenderTranscript renders all turns separated by blank lines. The last
// assistant turn is marked as streaming when streaming is set.
func RenderTranscript(turns []model.Turn, persona string, width int, streaming bool, theme *styles.Theme, md *Markdown) string {
	parts := make([]string, 0, len(turns))
	for i, t := range turns {
		b := NewTurnBubble(t, theme, md)
		b.Width = width
		b.Persona = persona
		b.Streaming = streaming && i == len(turns)-1 && t.Role == model.RoleAssistant
		parts = append(parts, b.View())
	}
	return strings.Join(parts, "\n\n")
}
