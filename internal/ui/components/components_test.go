// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/profchat/internal/model"
	"github.com/jeranaias/profchat/internal/ui/styles"
)

func testTheme() *styles.Theme {
	theme := styles.NewTheme()
	theme.SetSize(80, 24)
	return theme
}

// widestLine returns the display width of the widest line once padding is
// trimmed.
func widestLine(s string) int {
	w := 0
	for _, line := range strings.Split(plain(s), "\n") {
		if lw := lipgloss.Width(strings.TrimSpace(line)); lw > w {
			w = lw
		}
	}
	return w
}

func plain(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == 0x1b:
			inEsc = true
		case inEsc && ((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// =============================================================================
// PERSONA BAR
// =============================================================================

func TestPersonaBar_ShowsNamesInOrder(t *testing.T) {
	bar := NewPersonaBar(testTheme())
	bar.Width = 200
	bar.SetNames([]string{"Turing", "Lovelace", "Hopper"})

	out := plain(bar.View())
	iT := strings.Index(out, "Turing")
	iL := strings.Index(out, "Lovelace")
	iH := strings.Index(out, "Hopper")
	require.True(t, iT >= 0 && iL >= 0 && iH >= 0, out)
	assert.Less(t, iT, iL)
	assert.Less(t, iL, iH)
}

func TestPersonaBar_Empty(t *testing.T) {
	bar := NewPersonaBar(testTheme())
	assert.Contains(t, plain(bar.View()), "No professors available")
	assert.Equal(t, "", bar.Current())
}

func TestPersonaBar_LoadingPlaceholder(t *testing.T) {
	bar := NewPersonaBar(testTheme())
	bar.Loading = true
	assert.Contains(t, plain(bar.View()), "Loading professors...")

	bar.SetNames([]string{"Turing"})
	out := plain(bar.View())
	assert.Contains(t, out, "Turing")
	assert.NotContains(t, out, "Loading")
}

func TestPersonaBar_MoveWraps(t *testing.T) {
	bar := NewPersonaBar(testTheme())
	bar.SetNames([]string{"A", "B", "C"})

	bar.Move(-1)
	assert.Equal(t, "C", bar.Current())
	bar.Move(1)
	assert.Equal(t, "A", bar.Current())
	bar.Move(4)
	assert.Equal(t, "B", bar.Current())
}

func TestPersonaBar_SetNamesClampsCursor(t *testing.T) {
	bar := NewPersonaBar(testTheme())
	bar.SetNames([]string{"A", "B", "C"})
	bar.Cursor = 2
	bar.SetNames([]string{"A"})
	assert.Equal(t, 0, bar.Cursor)
}

func TestPersonaBar_TruncatesLongNames(t *testing.T) {
	bar := NewPersonaBar(testTheme())
	long := strings.Repeat("x", MaxPersonaWidth*2)
	bar.SetNames([]string{long})

	labels := bar.Labels()
	require.Len(t, labels, 1)
	assert.LessOrEqual(t, lipgloss.Width(labels[0]), MaxPersonaWidth)
	assert.True(t, strings.HasSuffix(labels[0], "..."))
}

// =============================================================================
// TURN BUBBLES
// =============================================================================

func TestTurnBubble_User(t *testing.T) {
	b := NewTurnBubble(model.NewTurn(model.RoleUser, "Hello"), testTheme(), nil)
	b.Width = 60
	out := plain(b.View())
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, model.RoleUser.DisplayName())
}

func TestTurnBubble_WidthFollowsLayoutMode(t *testing.T) {
	long := strings.Repeat("lecture ", 40)

	narrow := styles.NewTheme()
	narrow.SetSize(50, 20)
	b := NewTurnBubble(model.NewTurn(model.RoleUser, long), narrow, nil)
	b.Width = 50
	got := widestLine(b.View())
	assert.Greater(t, got, 50*3/4, "narrow layout should use nearly the full width")
	assert.LessOrEqual(t, got, narrow.BubbleWidth())

	wide := styles.NewTheme()
	wide.SetSize(120, 40)
	b = NewTurnBubble(model.NewTurn(model.RoleUser, long), wide, nil)
	b.Width = 120
	got = widestLine(b.View())
	assert.LessOrEqual(t, got, wide.BubbleWidth())
	assert.Greater(t, got, 60)
}

func TestTurnBubble_ThinkingPlaceholder(t *testing.T) {
	b := NewTurnBubble(model.NewTurn(model.RoleAssistant, ""), testTheme(), nil)
	b.Streaming = true
	assert.Contains(t, plain(b.View()), ThinkingText)

	b.Streaming = false
	assert.NotContains(t, plain(b.View()), ThinkingText)
}

func TestTurnBubble_AssistantUsesPersonaLabel(t *testing.T) {
	b := NewTurnBubble(model.NewTurn(model.RoleAssistant, "Hi there"), testTheme(), NewMarkdown("notty"))
	b.Persona = "Turing"
	out := plain(b.View())
	assert.Contains(t, out, "Turing")
	assert.Contains(t, out, "Hi there")
}

func TestRenderTranscript_Order(t *testing.T) {
	turns := []model.Turn{
		model.NewTurn(model.RoleAssistant, "Greetings"),
		model.NewTurn(model.RoleUser, "Question"),
		model.NewTurn(model.RoleAssistant, ""),
	}
	out := plain(RenderTranscript(turns, "Turing", 80, true, testTheme(), nil))
	iG := strings.Index(out, "Greetings")
	iQ := strings.Index(out, "Question")
	iT := strings.Index(out, ThinkingText)
	require.True(t, iG >= 0 && iQ >= 0 && iT >= 0, out)
	assert.Less(t, iG, iQ)
	assert.Less(t, iQ, iT)
}

func TestMarkdown_RenderAndCache(t *testing.T) {
	md := NewMarkdown("notty")
	out := md.Render("**bold** text", 40)
	assert.Contains(t, out, "bold")
	assert.Contains(t, out, "text")

	md.Render("again", 40)
	assert.Len(t, md.renderers, 1)
	md.Render("again", 60)
	assert.Len(t, md.renderers, 2)
}

func TestMarkdown_BlankPassesThrough(t *testing.T) {
	md := NewMarkdown("")
	assert.Equal(t, "  ", md.Render("  ", 40))
	assert.Empty(t, md.renderers)
}

// =============================================================================
// COMPOSER / FORM / STATUS
// =============================================================================

func TestComposer_Placeholders(t *testing.T) {
	c := NewComposer(testTheme())
	assert.Equal(t, composerNoPersona, c.Placeholder())

	c.SetStatus(true, false)
	assert.Equal(t, composerPlaceholder, c.Placeholder())

	c.SetStatus(true, true)
	assert.Equal(t, ThinkingText, c.Placeholder())
}

func TestComposer_Value(t *testing.T) {
	c := NewComposer(testTheme())
	c.SetValue("draft")
	assert.Equal(t, "draft", c.Value())
	c.Focus()
	assert.True(t, c.Focused())
	c.Blur()
	assert.False(t, c.Focused())
}

func TestComposer_KeepsLongPrompt(t *testing.T) {
	c := NewComposer(testTheme())
	c.Focus()
	long := strings.Repeat("why ", 1250)
	c.SetValue(long)
	c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Equal(t, long+"?", c.Value())
	assert.Len(t, c.Value(), 5001)
}

func TestIngestForm_FocusAndValues(t *testing.T) {
	f := NewIngestForm(testTheme(), "Stony Brook University")
	name, college := f.Values()
	assert.Equal(t, "", name)
	assert.Equal(t, "Stony Brook University", college)

	f.Activate(FieldName)
	assert.True(t, f.Active())
	assert.Equal(t, FieldName, f.Focus())
	f.Next()
	assert.Equal(t, FieldCollege, f.Focus())
	f.Next()
	assert.Equal(t, FieldName, f.Focus())

	f.SetValues("Newton", "Cambridge")
	name, college = f.Values()
	assert.Equal(t, "Newton", name)
	assert.Equal(t, "Cambridge", college)

	f.Deactivate()
	assert.False(t, f.Active())
}

func TestStatusBar_ErrorReplacesState(t *testing.T) {
	s := NewStatusBar(testTheme())
	s.Width = 120
	s.State = "idle"
	s.Hints = "enter send"
	assert.Contains(t, plain(s.View()), "idle")

	s.Err = errors.New("connection refused")
	out := plain(s.View())
	assert.Contains(t, out, "connection refused")
	assert.NotContains(t, out, "idle")
}

func TestStatusBar_InfoReplacesState(t *testing.T) {
	s := NewStatusBar(testTheme())
	s.Width = 120
	s.State = "idle"
	s.Info = "saved /tmp/x.md"
	out := plain(s.View())
	assert.Contains(t, out, "saved /tmp/x.md")
	assert.NotContains(t, out, "idle")
}

func TestHeader_ShowsPersona(t *testing.T) {
	h := NewHeader(testTheme())
	h.Width = 100
	assert.Contains(t, plain(h.View()), "no professor selected")
	h.Persona = "Turing"
	h.Host = "http://127.0.0.1:5000"
	out := plain(h.View())
	assert.Contains(t, out, "Turing")
	assert.Contains(t, out, "127.0.0.1:5000")
}
