// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/profchat/internal/model"
)

func sampleConversation() *Conversation {
	return NewConversation("Turing", "http://127.0.0.1:5000", []model.Turn{
		model.NewTurn(model.RoleAssistant, "How can I help you learn about Turing?"),
		model.NewTurn(model.RoleUser, "Hello"),
		model.NewTurn(model.RoleAssistant, "Hi **there**"),
	})
}

func TestMarkdownExporter_FrontMatterAndTurns(t *testing.T) {
	data, err := NewMarkdownExporter().Export(sampleConversation())
	require.NoError(t, err)
	out := string(data)

	require.True(t, strings.HasPrefix(out, "---\n"))
	end := strings.Index(out[4:], "---\n")
	require.Greater(t, end, 0)

	var fm frontMatter
	require.NoError(t, yaml.Unmarshal([]byte(out[4:4+end]), &fm))
	assert.Equal(t, "Turing", fm.Professor)
	assert.Equal(t, "Hello", fm.Title)
	assert.Equal(t, 3, fm.Turns)
	assert.Equal(t, "profchat", fm.Generator)

	assert.Contains(t, out, "# Conversation with Turing")
	iGreet := strings.Index(out, "How can I help")
	iUser := strings.Index(out, "Hello")
	iReply := strings.Index(out, "Hi **there**")
	assert.Less(t, iGreet, iUser)
	assert.Less(t, iUser, iReply)
}

func TestConversation_TitleFromFirstQuestion(t *testing.T) {
	long := strings.Repeat("why ", 30)
	conv := NewConversation("Turing", "", []model.Turn{
		model.NewTurn(model.RoleAssistant, "How can I help you learn about Turing?"),
		model.NewTurn(model.RoleUser, long),
		model.NewTurn(model.RoleUser, "second"),
	})
	title := conv.Title()
	assert.Len(t, []rune(title), TitleLength)
	assert.True(t, strings.HasSuffix(title, "..."))

	greetingOnly := NewConversation("Turing", "", []model.Turn{
		model.NewTurn(model.RoleAssistant, "How can I help you learn about Turing?"),
	})
	assert.Empty(t, greetingOnly.Title())
}

func TestMarkdownExporter_EmptyPlaceholder(t *testing.T) {
	conv := NewConversation("Turing", "", []model.Turn{
		model.NewTurn(model.RoleUser, "Hello"),
		model.NewTurn(model.RoleAssistant, ""),
	})
	data, err := (&MarkdownExporter{}).Export(conv)
	require.NoError(t, err)
	assert.Contains(t, string(data), "_(no reply)_")
	assert.NotContains(t, string(data), "<sub>")
}

func TestJSONExporter(t *testing.T) {
	data, err := NewJSONExporter().Export(sampleConversation())
	require.NoError(t, err)

	var got struct {
		Professor string       `json:"professor"`
		Turns     []model.Turn `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Turing", got.Professor)
	require.Len(t, got.Turns, 3)
	assert.Equal(t, model.RoleUser, got.Turns[1].Role)
}

func TestExport_RejectsEmpty(t *testing.T) {
	_, err := NewJSONExporter().Export(NewConversation("Turing", "", nil))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = NewMarkdownExporter().Export(NewConversation("", "", []model.Turn{model.NewTurn(model.RoleUser, "x")}))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
		ok     bool
	}{
		{"", ".md", true},
		{"md", ".md", true},
		{"Markdown", ".md", true},
		{".json", ".json", true},
		{"html", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			e, err := ForFormat(tt.format)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ext, e.FileExtension())
		})
	}
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	path, err := ToFile(sampleConversation(), NewMarkdownExporter(), dir)
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "profchat_Turing_"))
	assert.Equal(t, ".md", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Hi **there**")
}

func TestToFile_EmptyWritesNothing(t *testing.T) {
	dir := t.TempDir()
	_, err := ToFile(NewConversation("Turing", "", nil), NewJSONExporter(), dir)
	assert.ErrorIs(t, err, ErrEmpty)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Turing", "Turing"},
		{"Ada Lovelace", "Ada_Lovelace"},
		{"a/b:c", "a-b-c"},
		{"", "conversation"},
		{strings.Repeat("x", 80), strings.Repeat("x", 50)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}
