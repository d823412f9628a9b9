// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultCharset is used when the response does not name one.
const DefaultCharset = "utf-8"

// DecoderFor returns a decoder for the charset named in a Content-Type
// header value, and the canonical charset name it resolved to. Missing or
// unknown charsets fall back to UTF-8.
func DecoderFor(contentType string) (transform.Transformer, string) {
	label := DefaultCharset
	if contentType != "" {
		if _, params, err := mime.ParseMediaType(contentType); err == nil {
			if cs := strings.TrimSpace(params["charset"]); cs != "" {
				label = cs
			}
		}
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return unicode.UTF8.NewDecoder(), DefaultCharset
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = label
	}
	return enc.NewDecoder(), strings.ToLower(name)
}

// decodeChunk runs src through t. When atEOF is false an incomplete trailing
// sequence is returned as rest so it can be prefixed to the next chunk.
func decodeChunk(t transform.Transformer, src []byte, atEOF bool) (text string, rest []byte, err error) {
	var out strings.Builder
	dst := make([]byte, len(src)*3+utf8.UTFMax)

	for {
		nDst, nSrc, terr := t.Transform(dst, src, atEOF)
		out.Write(dst[:nDst])
		src = src[nSrc:]

		switch terr {
		case nil:
			return out.String(), nil, nil
		case transform.ErrShortDst:
			if nDst == 0 && nSrc == 0 {
				dst = make([]byte, len(dst)*2)
			}
		case transform.ErrShortSrc:
			if atEOF || len(src) == 0 {
				return out.String(), nil, nil
			}
			return out.String(), append([]byte(nil), src...), nil
		default:
			return out.String(), append([]byte(nil), src...), terr
		}
	}
}
