// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"strings"
	"unicode/utf8"
)

// The regex-driven codecs and the LZ-String library operate on Go
// strings, but haystacks are arbitrary byte buffers. Bridging through
// a plain string([]byte) conversion would be wrong for the regex
// engines: invalid UTF-8 collapses to U+FFFD, which both corrupts
// content and desynchronizes rune indexes from byte offsets. The
// latin-1 bridge maps every byte to the rune of the same value, so
// rune positions equal byte positions and the round trip is lossless.

// latin1String interprets every byte of b as a single rune.
func latin1String(b []byte) string {
	var builder strings.Builder
	builder.Grow(len(b))
	for _, value := range b {
		builder.WriteRune(rune(value))
	}
	return builder.String()
}

// latin1Bytes maps every rune of s back to a single byte. The second
// return is false when s contains a rune above U+00FF and therefore
// has no latin-1 rendering.
func latin1Bytes(s string) ([]byte, bool) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, false
		}
		out = append(out, byte(r))
	}
	return out, true
}

// textInterpretations returns the distinct string readings of a byte
// buffer: the UTF-8 reading when b is valid UTF-8, and the latin-1
// reading. Identical readings (pure ASCII) collapse to one entry.
func textInterpretations(b []byte) []string {
	binary := latin1String(b)
	if utf8.Valid(b) {
		text := string(b)
		if text != binary {
			return []string{text, binary}
		}
	}
	return []string{binary}
}
