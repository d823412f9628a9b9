// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat turns and transcripts.
package model

import "errors"

var (
	// ErrEmptyTranscript is returned when the last turn is mutated on an empty transcript.
	ErrEmptyTranscript = errors.New("transcript is empty")

	// ErrStaleHandle is returned when a handle no longer targets the last turn
	// of the current conversation.
	ErrStaleHandle = errors.New("stale transcript handle")
)

// Handle identifies the assistant placeholder created by AppendUserAndPlaceholder.
type Handle struct {
	Index      int
	Generation uint64
}

// Transcript is the ordered list of turns for the selected persona.
//
// Transcript is not safe for concurrent use; the session controller owns it
// and serializes access.
type Transcript struct {
	turns      []Turn
	generation uint64
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{turns: make([]Turn, 0)}
}

// Reset replaces the whole transcript with a single assistant greeting.
// An empty greeting leaves the transcript empty.
func (t *Transcript) Reset(greeting string) {
	t.generation++
	t.turns = make([]Turn, 0, 8)
	if greeting != "" {
		t.turns = append(t.turns, NewTurn(RoleAssistant, greeting))
	}
}

// AppendUserAndPlaceholder appends the user's turn together with an empty
// assistant turn and returns a handle to the latter.
func (t *Transcript) AppendUserAndPlaceholder(text string) Handle {
	t.turns = append(t.turns, NewTurn(RoleUser, text), NewTurn(RoleAssistant, ""))
	return Handle{Index: len(t.turns) - 1, Generation: t.generation}
}

// UpdateLast replaces the content of the last turn.
func (t *Transcript) UpdateLast(content string) error {
	if len(t.turns) == 0 {
		return ErrEmptyTranscript
	}
	t.turns[len(t.turns)-1].Content = content
	return nil
}

// Update replaces the content of the turn h points to, provided it is still
// the last turn of the same conversation.
func (t *Transcript) Update(h Handle, content string) error {
	if !t.Valid(h) {
		return ErrStaleHandle
	}
	return t.UpdateLast(content)
}

// Valid reports whether h still targets the last turn of this conversation.
func (t *Transcript) Valid(h Handle) bool {
	return h.Generation == t.generation && h.Index == len(t.turns)-1
}

// Generation returns the number of resets performed so far.
func (t *Transcript) Generation() uint64 {
	return t.generation
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Last returns the most recent turn.
func (t *Transcript) Last() (Turn, bool) {
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// Turns returns a copy of all turns in conversation order.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Wire converts the transcript to the history format sent to the backend.
// When excludeLast is set the trailing turn (the pending placeholder) is
// left out.
func (t *Transcript) Wire(excludeLast bool) []WireTurn {
	n := len(t.turns)
	if excludeLast && n > 0 {
		n--
	}
	out := make([]WireTurn, 0, n)
	for _, turn := range t.turns[:n] {
		out = append(out, turn.Wire())
	}
	return out
}
