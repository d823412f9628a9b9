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
// INGESTION FORM
// =============================================================================

// IngestField identifies a form field.
type IngestField int

const (
	FieldName IngestField = iota
	FieldCollege
)

// IngestForm collects a professor name and college for ingestion.
type IngestForm struct {
	name    textinput.Model
	college textinput.Model
	focus   IngestField
	active  bool
	busy    bool
	width   int
	theme   *styles.Theme
}

// NewIngestForm creates a form with the college pre-filled.
func NewIngestForm(theme *styles.Theme, college string) *IngestForm {
	name := textinput.New()
	name.Placeholder = "Professor name"
	name.Prompt = ""
	name.CharLimit = 200

	col := textinput.New()
	col.Placeholder = "College"
	col.Prompt = ""
	col.CharLimit = 200
	col.SetValue(college)

	return &IngestForm{name: name, college: col, width: 80, theme: theme}
}

// Activate focuses the form on field.
func (f *IngestForm) Activate(field IngestField) tea.Cmd {
	f.active = true
	f.focus = field
	if field == FieldName {
		f.college.Blur()
		return f.name.Focus()
	}
	f.name.Blur()
	return f.college.Focus()
}

// Deactivate removes focus from both fields.
func (f *IngestForm) Deactivate() {
	f.active = false
	f.name.Blur()
	f.college.Blur()
}

// Active reports whether the form has focus.
func (f *IngestForm) Active() bool {
	return f.active
}

// Focus returns the focused field.
func (f *IngestForm) Focus() IngestField {
	return f.focus
}

// Next moves focus to the other field.
func (f *IngestForm) Next() tea.Cmd {
	if f.focus == FieldName {
		return f.Activate(FieldCollege)
	}
	return f.Activate(FieldName)
}

// Values returns the field contents.
func (f *IngestForm) Values() (name, college string) {
	return f.name.Value(), f.college.Value()
}

// SetValues replaces the field contents.
func (f *IngestForm) SetValues(name, college string) {
	f.name.SetValue(name)
	f.college.SetValue(college)
}

// SetBusy marks a submission as in flight.
func (f *IngestForm) SetBusy(busy bool) {
	f.busy = busy
}

// SetWidth sets the outer width.
func (f *IngestForm) SetWidth(w int) {
	f.width = w
	f.name.Width = w - 16
	f.college.Width = w - 16
}

// Update forwards msg to the focused field.
func (f *IngestForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == FieldName {
		f.name, cmd = f.name.Update(msg)
	} else {
		f.college, cmd = f.college.Update(msg)
	}
	return cmd
}

// View renders the form.
func (f *IngestForm) View() string {
	title := f.theme.FormTitle.Render("Add a professor")
	if f.busy {
		title += f.theme.StatusBusy.Render("  submitting...")
	}
	rows := []string{
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, f.theme.FormLabel.Render("Name"), f.name.View()),
		lipgloss.JoinHorizontal(lipgloss.Top, f.theme.FormLabel.Render("College"), f.college.View()),
	}
	style := f.theme.InputContainer
	if f.active {
		style = f.theme.InputFocused
	}
	return style.Width(f.width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
