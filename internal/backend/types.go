// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"io"

	"github.com/jeranaias/profchat/internal/model"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the request body for /chat_with_professor.
type ChatRequest struct {
	Professor string            `json:"professor"`
	History   []model.WireTurn `json:"history"`
}

// IngestRequest is the request body for /scrape_and_upload_professor.
type IngestRequest struct {
	Professor string `json:"professor"`
	College   string `json:"college"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ProfessorsResponse is the response body of /professors.
// Professors is a pointer so a missing field can be told apart from an
// empty list.
type ProfessorsResponse struct {
	Professors *[]string `json:"professors"`
}

// ChatStream is an open streamed reply from /chat_with_professor.
type ChatStream struct {
	// Body is nil when the response carried no body.
	Body io.Reader

	// ContentType is the response Content-Type header, used to pick a charset.
	ContentType string

	// StatusCode is the HTTP status of the response.
	StatusCode int

	// RequestID is the X-Request-ID sent with the request.
	RequestID string

	closer io.Closer
}

// Close releases the underlying connection.
func (s *ChatStream) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// IngestResult describes a completed ingestion exchange.
type IngestResult struct {
	StatusCode int
	RequestID  string
}
