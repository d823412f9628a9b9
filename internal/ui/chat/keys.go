// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
type KeyMap struct {
	Submit    key.Binding
	Cancel    key.Binding
	Quit      key.Binding
	NextFocus key.Binding
	PrevFocus key.Binding
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Reload    key.Binding
	Export    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stop reply"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/→", "choose"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp/PgDn", "scroll"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "reload professors"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save"),
		),
	}
}

// hintsFor returns the status bar hints for a focus area.
func (k KeyMap) hintsFor(f focusArea) string {
	var bindings []key.Binding
	switch f {
	case focusPersonas:
		bindings = []key.Binding{k.Left, withHelp(k.Submit, "select"), k.NextFocus, k.Quit}
	case focusIngest:
		bindings = []key.Binding{withHelp(k.Submit, "add"), withHelp(k.Up, "↑/↓", "field"), k.NextFocus, k.Quit}
	default:
		bindings = []key.Binding{k.Submit, k.Cancel, k.NextFocus, k.Export, k.Quit}
	}

	out := ""
	for i, b := range bindings {
		h := b.Help()
		if i > 0 {
			out += "  "
		}
		out += h.Key + " " + h.Desc
	}
	return out
}

func withHelp(b key.Binding, args ...string) key.Binding {
	h := b.Help()
	switch len(args) {
	case 1:
		b.SetHelp(h.Key, args[0])
	case 2:
		b.SetHelp(args[0], args[1])
	}
	return b
}
