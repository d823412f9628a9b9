// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader returns one chunk per Read call, then err (io.EOF if nil).
type chunkReader struct {
	chunks [][]byte
	err    error
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		if c.err != nil {
			return 0, c.err
		}
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	if n < len(c.chunks[0]) {
		c.chunks[0] = c.chunks[0][n:]
	} else {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

func chunks(parts ...string) *chunkReader {
	r := &chunkReader{}
	for _, p := range parts {
		r.chunks = append(r.chunks, []byte(p))
	}
	return r
}

func collect(t *testing.T, r io.Reader, contentType string) ([]string, error) {
	t.Helper()
	var snaps []string
	for text, err := range Snapshots(context.Background(), r, contentType) {
		if err != nil {
			return snaps, err
		}
		snaps = append(snaps, text)
	}
	return snaps, nil
}

// =============================================================================
// SNAPSHOT TESTS
// =============================================================================

func TestSnapshots_Accumulates(t *testing.T) {
	snaps, err := collect(t, chunks("Hel", "lo"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "Hello"}, snaps)
}

func TestSnapshots_PrefixMonotonic(t *testing.T) {
	snaps, err := collect(t, chunks("The ", "machine ", "can ", "think."), "")
	require.NoError(t, err)
	require.Len(t, snaps, 4)
	for i := 1; i < len(snaps); i++ {
		assert.True(t, strings.HasPrefix(snaps[i], snaps[i-1]), "snapshot %d is not an extension", i)
	}
	assert.Equal(t, "The machine can think.", snaps[len(snaps)-1])
}

func TestSnapshots_SplitMultiByteRune(t *testing.T) {
	// "é" is 0xC3 0xA9.
	r := &chunkReader{chunks: [][]byte{{'c', 'a', 'f', 0xC3}, {0xA9}}}
	snaps, err := collect(t, r, "text/plain; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, []string{"caf", "café"}, snaps)
	for _, s := range snaps {
		assert.NotContains(t, s, "�")
	}
}

func TestSnapshots_InvalidBytesReplaced(t *testing.T) {
	r := &chunkReader{chunks: [][]byte{{'a', 0xFF, 'b'}}}
	snaps, err := collect(t, r, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a�b"}, snaps)
}

func TestSnapshots_TruncatedRuneAtEOF(t *testing.T) {
	r := &chunkReader{chunks: [][]byte{{'o', 'k', 0xE2, 0x82}}}
	snaps, err := collect(t, r, "")
	require.NoError(t, err)
	require.NotEmpty(t, snaps)
	last := snaps[len(snaps)-1]
	assert.True(t, strings.HasPrefix(last, "ok"))
	assert.Contains(t, last, "�")
}

func TestSnapshots_Latin1Charset(t *testing.T) {
	r := &chunkReader{chunks: [][]byte{{'n', 0xE9}}}
	snaps, err := collect(t, r, "text/plain; charset=ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"né"}, snaps)
}

func TestSnapshots_EmptyBody(t *testing.T) {
	snaps, err := collect(t, chunks(), "")
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestSnapshots_NilBody(t *testing.T) {
	_, err := collect(t, nil, "")
	assert.ErrorIs(t, err, ErrNoBody)
}

func TestSnapshots_ReadErrorKeepsPartialText(t *testing.T) {
	boom := errors.New("connection reset")
	r := chunks("partial ", "answer")
	r.err = boom

	snaps, err := collect(t, r, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var rerr *ReadError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "partial answer", rerr.Accumulated)
	assert.Equal(t, []string{"partial ", "partial answer"}, snaps)
}

func TestSnapshots_SecondIterationFails(t *testing.T) {
	seq := Snapshots(context.Background(), chunks("x"), "")
	for range seq {
	}

	var got error
	for _, err := range seq {
		got = err
	}
	assert.ErrorIs(t, got, ErrConsumed)
}

func TestSnapshots_EarlyBreak(t *testing.T) {
	var seen []string
	for text, err := range Snapshots(context.Background(), chunks("a", "b", "c"), "") {
		require.NoError(t, err)
		seen = append(seen, text)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "ab"}, seen)
}

func TestSnapshots_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var got error
	for _, err := range Snapshots(ctx, chunks("never"), "") {
		got = err
	}
	assert.ErrorIs(t, got, context.Canceled)
}

func TestSnapshots_SmallChunkSize(t *testing.T) {
	var snaps []string
	for text, err := range Snapshots(context.Background(), strings.NewReader("日本語"), "", WithChunkSize(1)) {
		require.NoError(t, err)
		snaps = append(snaps, text)
	}
	assert.Equal(t, []string{"日", "日本", "日本語"}, snaps)
}

// =============================================================================
// CONSUME TESTS
// =============================================================================

func TestConsume_CallbackPerChunk(t *testing.T) {
	var calls []string
	final, err := Consume(context.Background(), chunks("Hel", "lo"), "", func(s string) {
		calls = append(calls, s)
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", final)
	assert.Equal(t, []string{"Hel", "Hello"}, calls)
}

func TestConsume_ErrorReturnsPartial(t *testing.T) {
	r := chunks("half")
	r.err = errors.New("eof early")

	calls := 0
	final, err := Consume(context.Background(), r, "", func(string) { calls++ })
	require.Error(t, err)
	assert.Equal(t, "half", final)
	assert.Equal(t, 1, calls)
}

// =============================================================================
// DECODER TESTS
// =============================================================================

func TestDecoderFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"", "utf-8"},
		{"text/plain", "utf-8"},
		{"text/plain; charset=UTF-8", "utf-8"},
		{"text/plain; charset=latin1", "windows-1252"},
		{"text/plain; charset=bogus-42", "utf-8"},
		{"not a media type;;", "utf-8"},
	}
	for _, tt := range tests {
		_, got := DecoderFor(tt.contentType)
		if got != tt.want {
			t.Errorf("DecoderFor(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}
