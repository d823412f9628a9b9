// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"

	"github.com/jeranaias/profchat/internal/model"
)

// State is the controller's lifecycle state.
type State int

const (
	StateNoPersona State = iota
	StatePersonaSelected
	StateSending
	StateIdle
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNoPersona:
		return "NoPersonaSelected"
	case StatePersonaSelected:
		return "PersonaSelected"
	case StateSending:
		return "Sending"
	case StateIdle:
		return "Idle"
	default:
		return "Unknown"
	}
}

// CanSend reports whether a submission is accepted in this state.
func (s State) CanSend() bool {
	return s == StatePersonaSelected || s == StateIdle
}

var (
	// ErrEmptyDraft is returned when submitting an empty draft.
	ErrEmptyDraft = errors.New("draft is empty")

	// ErrNoPersona is returned when submitting with no persona selected.
	ErrNoPersona = errors.New("no professor selected")

	// ErrBusy is returned when submitting while a reply is streaming.
	ErrBusy = errors.New("a reply is still streaming")

	// ErrIncompleteForm is returned when an ingestion field is empty.
	ErrIncompleteForm = errors.New("professor name and college are both required")

	// ErrSuperseded is returned when an exchange was abandoned by a persona
	// change before its stream started.
	ErrSuperseded = errors.New("exchange superseded by persona change")
)

// IsNoOp reports whether err is a validation refusal that left all state
// untouched.
func IsNoOp(err error) bool {
	return errors.Is(err, ErrEmptyDraft) || errors.Is(err, ErrIncompleteForm)
}

// View is a consistent copy of the controller state for rendering.
type View struct {
	State         State
	Persona       string
	Turns         []model.Turn
	Generation    uint64
	Draft         string
	IngestName    string
	IngestCollege string
	Ingesting     bool
	LastErr       error
}

// Selected reports whether a persona is selected.
func (v View) Selected() bool {
	return v.Persona != ""
}
