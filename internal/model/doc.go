// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat turns and transcripts.
//
// This package defines the core domain types used throughout the application
// for representing a conversation with one professor persona.
//
// # Key Types
//
//   - Turn: Single message with role, content, timestamp and ID
//   - Transcript: Ordered turns scoped to one selected persona
//   - Handle: Reference to the assistant placeholder a stream may fill
//   - Role: Turn role enumeration (user, assistant)
//
// # Usage
//
// Reset the transcript when a persona is selected, then pair every user
// message with an empty assistant placeholder:
//
//	t := model.NewTranscript()
//	t.Reset("How can I help you learn about Turing?")
//	h := t.AppendUserAndPlaceholder("Hello")
//	_ = t.Update(h, "Hi")
//	_ = t.Update(h, "Hi there")
//
// Only the last turn is ever mutated after it is appended. Handles carry the
// transcript generation, so a stream that outlives a Reset cannot write into
// the new conversation.
package model
