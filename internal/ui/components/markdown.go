// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// Markdown renders assistant turns through glamour. Renderers are cached per
// wrap width since building one parses the whole style sheet.
type Markdown struct {
	mu        sync.Mutex
	style     string
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdown creates a renderer for a glamour style name ("auto", "dark",
// "light", "notty", ...).
func NewMarkdown(style string) *Markdown {
	if style == "" {
		style = "auto"
	}
	return &Markdown{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Render renders text wrapped at width. When rendering fails the text is
// returned unchanged.
func (m *Markdown) Render(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	r, err := m.renderer(width)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

func (m *Markdown) renderer(width int) (*glamour.TermRenderer, error) {
	if width < 20 {
		width = 20
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.renderers[width]; ok {
		return r, nil
	}

	styleOpt := glamour.WithStandardStyle(m.style)
	if m.style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}
	m.renderers[width] = r
	return r, nil
}
