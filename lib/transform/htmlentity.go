// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"
)

// HTMLEntities is the reversible HTML entity transformer. It works on
// whole buffers — entity boundaries carry no token structure worth
// extracting substrings over.
type HTMLEntities struct{}

// NewHTMLEntities constructs the HTML entity transformer.
func NewHTMLEntities() *HTMLEntities { return &HTMLEntities{} }

// ID returns "html-entities".
func (h *HTMLEntities) ID() string { return IDHTMLEntities }

// Encodings yields the fully entity-encoded UTF-8 rendering — named
// entities for the five reserved characters, hex character references
// for everything outside ASCII — plus a second variant with the quote
// and apostrophe entities substituted back to their literal
// characters, since much real markup leaves those bare. Non-UTF-8
// input yields nothing.
func (h *HTMLEntities) Encodings(value []byte) [][]byte {
	if !utf8.Valid(value) {
		return nil
	}
	var builder strings.Builder
	builder.Grow(len(value))
	for _, r := range string(value) {
		switch {
		case r == '&':
			builder.WriteString("&amp;")
		case r == '<':
			builder.WriteString("&lt;")
		case r == '>':
			builder.WriteString("&gt;")
		case r == '"':
			builder.WriteString("&quot;")
		case r == '\'':
			builder.WriteString("&apos;")
		case r < 0x80:
			builder.WriteRune(r)
		default:
			fmt.Fprintf(&builder, "&#x%X;", r)
		}
	}
	encoded := builder.String()
	outputs := [][]byte{[]byte(encoded)}

	bareQuotes := strings.NewReplacer("&quot;", `"`, "&apos;", "'").Replace(encoded)
	if bareQuotes != encoded {
		outputs = append(outputs, []byte(bareQuotes))
	}
	return outputs
}

// ExtractDecode yields the fully entity-decoded buffer when decoding
// changes anything. Bytes outside entities pass through untouched, so
// the decode is safe on arbitrary input.
func (h *HTMLEntities) ExtractDecode(haystack []byte, minLen int) [][]byte {
	if len(haystack) < minLen {
		return nil
	}
	decoded := html.UnescapeString(string(haystack))
	if decoded == string(haystack) {
		return nil
	}
	return [][]byte{[]byte(decoded)}
}
