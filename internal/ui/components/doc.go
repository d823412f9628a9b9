// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the styled building blocks of the profchat TUI.

# Components

Header (header.go) - Brand, selected professor and backend host.
PersonaBar (personabar.go) - The professor directory in server order.
TurnBubble (message.go) - One transcript turn; assistant turns are markdown.
Markdown (markdown.go) - glamour renderer cached per wrap width.
Composer (input.go) - Single-line message input.
IngestForm (ingestform.go) - Name and college fields for adding a professor.
StatusBar (statusbar.go) - State, last error and key hints.

Components hold no session state. The chat model copies what it needs from
a session.View into them before each render.
*/
package components
