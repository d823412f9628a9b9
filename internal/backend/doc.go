// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the professor chat service.
//
// The service exposes three endpoints:
//
//   - GET  /professors                   -> {"professors": ["Turing", ...]}
//   - POST /chat_with_professor          -> raw streamed text
//   - POST /scrape_and_upload_professor  -> response not consumed
//
// # Key Types
//
//   - Client: HTTP client with request IDs and a client-side rate limiter
//   - ChatRequest: persona name plus prior conversation turns
//   - ChatStream: an open streamed reply; the caller drains and closes it
//   - ClientError: categorized failure (connection, timeout, status, ...)
//
// # Usage
//
//	client := backend.NewClientWithConfig(backend.DefaultConfig())
//	names, err := client.Professors(ctx)
//
//	cs, err := client.ChatStream(ctx, backend.ChatRequest{
//	    Professor: "Turing",
//	    History:   transcript.Wire(true),
//	})
//	if err != nil {
//	    return err
//	}
//	defer cs.Close()
//	final, err := stream.Consume(ctx, cs.Body, cs.ContentType, render)
package backend
