// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"context"
	"errors"
	"io"
	"iter"
	"strings"
	"sync/atomic"
)

// DefaultChunkSize is the read buffer size used for each chunk.
const DefaultChunkSize = 4096

var (
	// ErrNoBody is returned when there is no readable body to consume.
	ErrNoBody = errors.New("response has no readable body")

	// ErrConsumed is returned when a snapshot sequence is iterated twice.
	ErrConsumed = errors.New("stream already consumed")
)

// ReadError reports a failure while reading or decoding the body.
// Accumulated holds the text delivered before the failure.
type ReadError struct {
	Accumulated string
	Cause       error
}

func (e *ReadError) Error() string {
	return "stream read failed: " + e.Cause.Error()
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

// Option configures a snapshot sequence.
type Option func(*options)

type options struct {
	chunkSize int
}

// WithChunkSize sets the read buffer size. Values <= 0 keep the default.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// Snapshots returns the lazy, finite sequence of accumulated-text snapshots
// for r. Every element carries the full text decoded so far. A failure is
// delivered as the final element with a non-nil error and the text that had
// accumulated at that point. The sequence can only be ranged over once.
func Snapshots(ctx context.Context, r io.Reader, contentType string, opts ...Option) iter.Seq2[string, error] {
	o := options{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(&o)
	}

	var used atomic.Bool
	return func(yield func(string, error) bool) {
		if !used.CompareAndSwap(false, true) {
			yield("", ErrConsumed)
			return
		}
		if r == nil {
			yield("", ErrNoBody)
			return
		}

		dec, _ := DecoderFor(contentType)
		dec.Reset()

		var (
			acc     strings.Builder
			pending []byte
			buf     = make([]byte, o.chunkSize)
		)

		for {
			if err := ctx.Err(); err != nil {
				yield(acc.String(), err)
				return
			}

			n, rerr := r.Read(buf)
			if n > 0 {
				pending = append(pending, buf[:n]...)
				text, rest, derr := decodeChunk(dec, pending, false)
				pending = rest
				if derr != nil {
					acc.WriteString(text)
					yield(acc.String(), &ReadError{Accumulated: acc.String(), Cause: derr})
					return
				}
				if text != "" {
					acc.WriteString(text)
					if !yield(acc.String(), nil) {
						return
					}
				}
			}

			if rerr == nil {
				continue
			}
			if errors.Is(rerr, io.EOF) {
				text, _, derr := decodeChunk(dec, pending, true)
				if derr != nil {
					yield(acc.String(), &ReadError{Accumulated: acc.String(), Cause: derr})
					return
				}
				if text != "" {
					acc.WriteString(text)
					yield(acc.String(), nil)
				}
				return
			}
			if err := ctx.Err(); err != nil {
				yield(acc.String(), err)
				return
			}
			yield(acc.String(), &ReadError{Accumulated: acc.String(), Cause: rerr})
			return
		}
	}
}

// Consume drains r, calling fn with the accumulated text after every chunk
// that adds text. It returns the final text; on failure the returned text is
// what had accumulated before the error. fn is never called after Consume
// returns.
func Consume(ctx context.Context, r io.Reader, contentType string, fn func(string), opts ...Option) (string, error) {
	var final string
	for text, err := range Snapshots(ctx, r, contentType, opts...) {
		final = text
		if err != nil {
			return final, err
		}
		if fn != nil {
			fn(text)
		}
	}
	return final, nil
}
