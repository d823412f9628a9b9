// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"errors"
	"net"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	RequestID  string
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a ClientError of the same type, so the
// sentinel values below work with errors.Is.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	return ok && t.Type == e.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeInvalidResponse
	ErrTypeHTTPStatus
	ErrTypeNoBody
)

// String returns a short name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	case ErrTypeHTTPStatus:
		return "http_status"
	case ErrTypeNoBody:
		return "no_body"
	default:
		return "unknown"
	}
}

// Sentinel errors for easy checking.
var (
	ErrConnection      = &ClientError{Type: ErrTypeConnection, Message: "backend unreachable"}
	ErrTimeout         = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrInvalidResponse = &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid response"}
	ErrHTTPStatus      = &ClientError{Type: ErrTypeHTTPStatus, Message: "unexpected status"}
	ErrNoBody          = &ClientError{Type: ErrTypeNoBody, Message: "response has no body"}
)

// IsTimeout reports whether err is a backend timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsConnection reports whether err is a transport-level failure.
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsNoBody reports whether err is a missing-body failure.
func IsNoBody(err error) bool {
	return errors.Is(err, ErrNoBody)
}

// Completed reports whether err (possibly nil) means the HTTP exchange
// finished with a response, whatever its status.
func Completed(err error) bool {
	if err == nil {
		return true
	}
	var ce *ClientError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Type == ErrTypeHTTPStatus || ce.Type == ErrTypeInvalidResponse || ce.Type == ErrTypeNoBody
}

// transportError maps an http.Client.Do failure to a ClientError.
func transportError(err error, requestID string) *ClientError {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", RequestID: requestID, Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: "backend unreachable", RequestID: requestID, Cause: err}
}

func statusError(op, status string, code int, requestID string) *ClientError {
	return &ClientError{
		Type:       ErrTypeHTTPStatus,
		Message:    op + " failed: " + status,
		StatusCode: code,
		RequestID:  requestID,
	}
}
