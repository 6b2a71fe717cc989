// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"encoding/hex"
	"regexp"
	"strings"
)

// Token grammars: word-anchored runs of digit pairs. Anchoring both
// ends on \b makes odd-length runs unmatchable (the dangling digit is
// itself a word character), and keeping the two casings separate
// rejects mixed-case runs outright.
var (
	hexLowerPattern = regexp.MustCompile(`\b(?:[a-f0-9]{2})+\b`)
	hexUpperPattern = regexp.MustCompile(`\b(?:[A-F0-9]{2})+\b`)
)

// Hex is the reversible, substring-capable hex transformer with
// lowercase and uppercase variants.
type Hex struct {
	lower bool
	upper bool
}

// HexOption configures a Hex transformer.
type HexOption func(*Hex)

// WithLowercaseOnly restricts the transformer to lowercase hex.
func WithLowercaseOnly() HexOption {
	return func(h *Hex) { h.lower, h.upper = true, false }
}

// WithUppercaseOnly restricts the transformer to uppercase hex.
func WithUppercaseOnly() HexOption {
	return func(h *Hex) { h.lower, h.upper = false, true }
}

// NewHex constructs the hex transformer. Both casings are enabled by
// default.
func NewHex(options ...HexOption) *Hex {
	h := &Hex{lower: true, upper: true}
	for _, option := range options {
		option(h)
	}
	return h
}

// ID returns "hex".
func (h *Hex) ID() string { return IDHex }

// Encodings yields one buffer per enabled casing.
func (h *Hex) Encodings(value []byte) [][]byte {
	var outputs [][]byte
	lower := hex.EncodeToString(value)
	if h.lower {
		outputs = append(outputs, []byte(lower))
	}
	if h.upper {
		outputs = append(outputs, []byte(strings.ToUpper(lower)))
	}
	return outputs
}

// ExtractDecode yields the decoded bytes of every even-length,
// single-case hex run of at least minLen characters. A digits-only
// run matches both casings; it is decoded once.
func (h *Hex) ExtractDecode(haystack []byte, minLen int) [][]byte {
	text := latin1String(haystack)

	var results [][]byte
	seen := make(map[string]bool)
	decode := func(pattern *regexp.Regexp) {
		for _, token := range pattern.FindAllString(text, -1) {
			if len(token) < minLen || seen[token] {
				continue
			}
			seen[token] = true
			decoded, err := hex.DecodeString(token)
			if err != nil {
				continue
			}
			results = append(results, decoded)
		}
	}
	if h.lower {
		decode(hexLowerPattern)
	}
	if h.upper {
		decode(hexUpperPattern)
	}
	return results
}
