// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/profchat/internal/export"
	"github.com/jeranaias/profchat/internal/session"
)

// loadDirectoryCmd refreshes the professor directory.
func loadDirectoryCmd(ctx context.Context, dir Directory, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return DirectoryLoadedMsg{Err: dir.Refresh(ctx)}
	}
}

// submitIngestCmd sends the controller's ingestion form.
func submitIngestCmd(ctx context.Context, ctrl *session.Controller, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return IngestDoneMsg{Err: ctrl.SubmitIngest(ctx)}
	}
}

// exportCmd writes the current transcript as Markdown into dir.
func exportCmd(ctrl *session.Controller, host, dir string) tea.Cmd {
	conv := export.NewConversation(ctrl.Persona(), host, ctrl.Transcript())
	return func() tea.Msg {
		path, err := export.ToFile(conv, export.NewMarkdownExporter(), dir)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// waitForConfigCmd delivers the next configuration reload.
func waitForConfigCmd(ch <-chan ConfigReloadedMsg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
