// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/profchat/internal/model"
	"github.com/jeranaias/profchat/internal/util"
)

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation is the exported snapshot of one persona's transcript.
type Conversation struct {
	Persona    string       `json:"professor" yaml:"professor"`
	Host       string       `json:"host,omitempty" yaml:"host,omitempty"`
	ExportedAt time.Time    `json:"exported_at" yaml:"exported_at"`
	Turns      []model.Turn `json:"turns" yaml:"-"`
}

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = errors.New("conversation is empty")

// NewConversation snapshots turns for persona.
func NewConversation(persona, host string, turns []model.Turn) *Conversation {
	return &Conversation{
		Persona:    persona,
		Host:       host,
		ExportedAt: time.Now(),
		Turns:      append([]model.Turn(nil), turns...),
	}
}

// TitleLength caps the title derived from the first question.
const TitleLength = 60

// Title previews the first question asked, or "" when there is none.
func (c *Conversation) Title() string {
	for _, t := range c.Turns {
		if t.Role == model.RoleUser && !t.IsEmpty() {
			return t.Preview(TitleLength)
		}
	}
	return ""
}

func (c *Conversation) validate() error {
	if c == nil || c.Persona == "" || len(c.Turns) == 0 {
		return ErrEmpty
	}
	return nil
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a conversation into one file format.
type Exporter interface {
	// Export returns the file content.
	Export(conv *Conversation) ([]byte, error)

	// FileExtension returns the extension including the dot.
	FileExtension() string
}

// ForFormat returns the exporter for "md"/"markdown" or "json".
func ForFormat(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "", "md", "markdown":
		return NewMarkdownExporter(), nil
	case "json":
		return NewJSONExporter(), nil
	}
	return nil, fmt.Errorf("unknown export format %q (use md or json)", format)
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ToFile writes conv into dir with a generated name and returns the path.
func ToFile(conv *Conversation, exporter Exporter, dir string) (string, error) {
	if err := conv.validate(); err != nil {
		return "", err
	}
	content, err := exporter.Export(conv)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	if dir == "" {
		dir = "."
	}
	name := fmt.Sprintf("profchat_%s_%s%s",
		sanitizeFilename(conv.Persona),
		conv.ExportedAt.Format("20060102_150405"),
		exporter.FileExtension(),
	)
	path := filepath.Join(dir, name)
	if err := util.AtomicWriteFile(path, content, 0644, 0755); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// sanitizeFilename replaces characters that are invalid in file names.
func sanitizeFilename(s string) string {
	const maxLen = 50
	if r := []rune(s); len(r) > maxLen {
		s = string(r[:maxLen])
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r), r < 32, r == 127:
			b.WriteRune('-')
		case r == ' ' || r == '\t':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "conversation"
	}
	return b.String()
}
