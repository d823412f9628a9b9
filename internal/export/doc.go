// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a professor conversation to a file.
//
// Two formats are supported: Markdown with a YAML front matter block, and
// JSON. Both are produced from a Conversation snapshot so the exporter never
// touches live session state.
package export
