// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the full-screen Bubble Tea model for profchat.

# Layout

	header
	persona bar        (top, or bottom when directory_position = "bottom")
	transcript         (viewport)
	ingestion form     (only with no professor selected and show_ingest_form)
	composer
	status bar

# Focus

tab cycles focus between the composer, the persona bar and the ingestion
form. In the persona bar left/right move the cursor and enter toggles the
professor under it. In the composer enter submits. esc cancels a streaming
reply; ctrl+c quits.

# Streaming

A submitted message runs in a tea.Cmd goroutine through the session
controller. Each applied snapshot signals a one-slot channel; a re-armed
tea.Cmd waits on it and delivers StreamUpdateMsg, so bursts of chunks
coalesce into one redraw. The controller owns the transcript; the model only
renders copies from session.View.
*/
package chat
