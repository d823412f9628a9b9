// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the chat controller that owns all mutable
// client state.
//
// A Controller holds the selected professor persona, the transcript, the
// pending draft and the ingestion form fields. Every mutation goes through
// it, so the TUI, the line-mode REPL and the one-shot commands share the
// same rules.
//
// # States
//
//	NoPersonaSelected -> PersonaSelected -> Sending -> Idle
//
// Sending returns to Idle when the stream completes or fails. Selecting the
// already selected persona deselects it. Changing persona while Sending
// cancels the in-flight stream; its late snapshots are dropped by the
// transcript's generation guard.
//
// # Usage
//
//	ctl := session.New(client, dir, session.DefaultConfig(), log)
//	ctl.Select("Turing")
//	ctl.SetDraft("Hello")
//	final, err := ctl.Send(ctx, func(text string) {
//	    fmt.Print("\r", text)
//	})
package session
