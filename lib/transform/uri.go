// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// uriTokenPattern matches runs of URL code points minus the
// separators /&=? (so a token stops at path, query and parameter
// boundaries). Percent signs are included so escapes stay inside the
// token.
var uriTokenPattern = regexp.MustCompile(`[A-Za-z0-9!$%'()*+,\-.:;@_~]+`)

// URI is the reversible, substring-capable percent-encoding
// transformer. It mirrors encodeURIComponent: the value's UTF-8
// rendering is percent-encoded, so the codec is not binary-safe and
// silently skips buffers that are not valid UTF-8.
type URI struct{}

// NewURI constructs the URI-component transformer.
func NewURI() *URI { return &URI{} }

// ID returns "uri".
func (u *URI) ID() string { return IDURI }

// uriUnreserved reports whether c passes through encodeURIComponent
// unescaped.
func uriUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// Encodings yields the percent-encoded form and a form-encoded
// variant with %20 replaced by '+'. Non-UTF-8 input yields nothing.
func (u *URI) Encodings(value []byte) [][]byte {
	if !utf8.Valid(value) {
		return nil
	}
	var builder strings.Builder
	builder.Grow(len(value))
	const upperHex = "0123456789ABCDEF"
	for _, c := range value {
		if uriUnreserved(c) {
			builder.WriteByte(c)
			continue
		}
		builder.WriteByte('%')
		builder.WriteByte(upperHex[c>>4])
		builder.WriteByte(upperHex[c&0x0F])
	}
	encoded := builder.String()
	outputs := [][]byte{[]byte(encoded)}
	if formEncoded := strings.ReplaceAll(encoded, "%20", "+"); formEncoded != encoded {
		outputs = append(outputs, []byte(formEncoded))
	}
	return outputs
}

// ExtractDecode yields the percent-decoded bytes of every token that
// actually contains an escape ('+' or a valid %HH). Tokens with
// malformed escapes are skipped.
func (u *URI) ExtractDecode(haystack []byte, minLen int) [][]byte {
	text := latin1String(haystack)

	var results [][]byte
	for _, token := range uriTokenPattern.FindAllString(text, -1) {
		if len(token) < minLen || !hasURIEscape(token) {
			continue
		}
		// '+' is form-encoded space; normalize before unescaping so
		// PathUnescape (which leaves '+' alone) decodes it.
		decoded, err := url.PathUnescape(strings.ReplaceAll(token, "+", "%20"))
		if err != nil {
			continue
		}
		results = append(results, []byte(decoded))
	}
	return results
}

// hasURIEscape reports whether token contains a '+' or a well-formed
// %HH escape. Tokens without one are plain words that happen to use
// the URI alphabet; decoding them would just re-yield the input.
func hasURIEscape(token string) bool {
	for i := 0; i < len(token); i++ {
		switch token[i] {
		case '+':
			return true
		case '%':
			if i+2 < len(token) && isHexDigit(token[i+1]) && isHexDigit(token[i+2]) {
				return true
			}
		}
	}
	return false
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
