// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream incrementally consumes a streamed HTTP response body.
//
// The backend answers a chat request with raw text chunks (no JSON framing).
// This package reads the body chunk by chunk, decodes it with a stateful
// decoder that carries multi-byte sequences split across chunk boundaries,
// and republishes the full accumulated text after every chunk so callers can
// replace the last transcript turn in place.
//
// # Usage
//
// Range over the lazy snapshot sequence:
//
//	for text, err := range stream.Snapshots(ctx, resp.Body, resp.Header.Get("Content-Type")) {
//	    if err != nil {
//	        return err
//	    }
//	    transcript.UpdateLast(text)
//	}
//
// Or use the callback form:
//
//	final, err := stream.Consume(ctx, body, contentType, func(text string) {
//	    transcript.UpdateLast(text)
//	})
//
// A sequence can be iterated once; the second iteration yields ErrConsumed.
package stream
