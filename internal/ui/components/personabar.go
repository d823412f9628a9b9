// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/profchat/internal/ui/styles"
	"github.com/jeranaias/profchat/internal/util"
)

// =============================================================================
// PERSONA BAR
// =============================================================================

// MaxPersonaWidth caps the width of a single professor name.
const MaxPersonaWidth = 24

// PersonaBar lists the directory in server order with the selected persona
// highlighted and a movable cursor.
type PersonaBar struct {
	Names    []string
	Selected string
	Cursor   int
	Focused  bool
	Width    int
	// Loading shows a placeholder while the first refresh is in flight.
	Loading  bool

	theme *styles.Theme
}

// NewPersonaBar creates an empty bar.
func NewPersonaBar(theme *styles.Theme) *PersonaBar {
	return &PersonaBar{theme: theme, Width: 80}
}

// SetNames replaces the list, keeping the cursor in range.
func (p *PersonaBar) SetNames(names []string) {
	p.Names = names
	p.clamp()
}

// Move shifts the cursor by delta, wrapping at both ends.
func (p *PersonaBar) Move(delta int) {
	if len(p.Names) == 0 {
		p.Cursor = 0
		return
	}
	p.Cursor = ((p.Cursor+delta)%len(p.Names) + len(p.Names)) % len(p.Names)
}

// Current returns the name under the cursor, or "".
func (p *PersonaBar) Current() string {
	if p.Cursor < 0 || p.Cursor >= len(p.Names) {
		return ""
	}
	return p.Names[p.Cursor]
}

// Labels returns the display labels in order, truncated to MaxPersonaWidth.
func (p *PersonaBar) Labels() []string {
	out := make([]string, len(p.Names))
	for i, n := range p.Names {
		out[i] = util.TruncateWidth(n, MaxPersonaWidth)
	}
	return out
}

func (p *PersonaBar) clamp() {
	if p.Cursor >= len(p.Names) {
		p.Cursor = len(p.Names) - 1
	}
	if p.Cursor < 0 {
		p.Cursor = 0
	}
}

// View renders the bar. When the chips do not fit on one line they wrap.
func (p *PersonaBar) View() string {
	if len(p.Names) == 0 {
		msg := "No professors available"
		if p.Loading {
			msg = "Loading professors..."
		}
		return p.theme.PersonaBar.Render(p.theme.Muted.Render(msg))
	}

	var (
		lines []string
		line  []string
		used  int
	)
	avail := p.Width - 2
	for i, label := range p.Labels() {
		var chip string
		switch {
		case p.Names[i] == p.Selected:
			chip = p.theme.PersonaSelected.Render(label)
		case p.Focused && i == p.Cursor:
			chip = p.theme.PersonaCursor.Render(label)
		default:
			chip = p.theme.PersonaChip.Render(label)
		}
		w := util.StringWidth(label) + 2
		if used > 0 && used+w > avail {
			lines = append(lines, strings.Join(line, ""))
			line, used = nil, 0
		}
		line = append(line, chip)
		used += w
	}
	lines = append(lines, strings.Join(line, ""))

	return p.theme.PersonaBar.Width(p.Width).Render(strings.Join(lines, "\n"))
}
