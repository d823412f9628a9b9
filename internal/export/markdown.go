// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/profchat/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter writes a front matter block followed by one section per
// turn. Assistant text is already markdown and is written unchanged.
type MarkdownExporter struct {
	// IncludeTimestamps adds the time of each turn to its heading.
	IncludeTimestamps bool
}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{IncludeTimestamps: true}
}

type frontMatter struct {
	Title     string `yaml:"title,omitempty"`
	Professor string `yaml:"professor"`
	Host      string `yaml:"host,omitempty"`
	Date      string `yaml:"date"`
	Turns     int    `yaml:"turns"`
	Generator string `yaml:"generator"`
}

// Export renders conv as Markdown.
func (e *MarkdownExporter) Export(conv *Conversation) ([]byte, error) {
	if err := conv.validate(); err != nil {
		return nil, err
	}

	fm, err := yaml.Marshal(frontMatter{
		Title:     conv.Title(),
		Professor: conv.Persona,
		Host:      conv.Host,
		Date:      conv.ExportedAt.Format(time.RFC3339),
		Turns:     len(conv.Turns),
		Generator: "profchat",
	})
	if err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(fm)
	sb.WriteString("---\n\n")
	fmt.Fprintf(&sb, "# Conversation with %s\n\n", escapeMarkdown(conv.Persona))

	for i, t := range conv.Turns {
		label := e.roleLabel(t.Role, conv.Persona)
		if e.IncludeTimestamps && !t.Timestamp.IsZero() {
			fmt.Fprintf(&sb, "### %s <sub>%s</sub>\n\n", label, t.Timestamp.Format("15:04:05"))
		} else {
			fmt.Fprintf(&sb, "### %s\n\n", label)
		}

		content := strings.TrimSpace(t.Content)
		if content == "" {
			content = "_(no reply)_"
		}
		sb.WriteString(content)
		sb.WriteString("\n\n")
		if i < len(conv.Turns)-1 {
			sb.WriteString("---\n\n")
		}
	}
	return []byte(sb.String()), nil
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

func (e *MarkdownExporter) roleLabel(role model.Role, persona string) string {
	if role == model.RoleAssistant {
		return escapeMarkdown(persona)
	}
	return role.DisplayName()
}

// escapeMarkdown escapes characters that would break a heading.
func escapeMarkdown(s string) string {
	return strings.NewReplacer(
		"#", `\#`,
		"*", `\*`,
		"_", `\_`,
		"[", `\[`,
		"]", `\]`,
	).Replace(s)
}
