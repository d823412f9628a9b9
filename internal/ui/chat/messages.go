// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/profchat/internal/config"
)

// =============================================================================
// DIRECTORY MESSAGES
// =============================================================================

// DirectoryLoadedMsg carries the result of a directory refresh. A failed
// refresh keeps the previous list.
type DirectoryLoadedMsg struct {
	Err error
}

// IngestDoneMsg is sent when an ingestion request finishes. A completed
// exchange has already refreshed the directory.
type IngestDoneMsg struct {
	Err error
}

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamUpdateMsg signals that the streaming placeholder changed.
type StreamUpdateMsg struct {
	run *streamRun
}

// StreamDoneMsg is sent when a streamed reply ends, successfully or not.
type StreamDoneMsg struct {
	Persona string
	Final   string
	Err     error

	run *streamRun
}

// ExportDoneMsg is sent when the transcript has been written to a file.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg carries a configuration re-read after the file changed.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}
