// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"bytes"
	"encoding/base64"
	"testing"
)

// containsBuffer reports whether needle appears in candidates.
func containsBuffer(candidates [][]byte, needle []byte) bool {
	for _, candidate := range candidates {
		if bytes.Equal(candidate, needle) {
			return true
		}
	}
	return false
}

func TestBase64_EncodingsPerDialect(t *testing.T) {
	// 0xFB 0xEF 0xBE encodes to "++++" in standard base64, which makes
	// the digit substitutions visible in every dialect.
	encodings := NewBase64().Encodings([]byte{0xFB, 0xEF, 0xBE})

	want := []string{"++++", "++++", "----", "++++"}
	if len(encodings) != len(want) {
		t.Fatalf("got %d encodings, want %d", len(encodings), len(want))
	}
	for i, encoded := range encodings {
		if string(encoded) != want[i] {
			t.Errorf("dialect %d: got %q, want %q", i, encoded, want[i])
		}
	}
}

func TestBase64_EncodingPadding(t *testing.T) {
	encodings := NewBase64().Encodings([]byte("first"))
	if string(encodings[0]) != "Zmlyc3Q=" {
		t.Errorf("standard dialect: got %q, want Zmlyc3Q=", encodings[0])
	}
	if string(encodings[1]) != "Zmlyc3Q" {
		t.Errorf("unpadded dialect: got %q, want Zmlyc3Q", encodings[1])
	}
}

func TestBase64_DecodeStandardToken(t *testing.T) {
	candidates := NewBase64().ExtractDecode([]byte("prefix Zmlyc3Q= suffix"), 0)
	if !containsBuffer(candidates, []byte("first")) {
		t.Errorf("expected to recover \"first\", got %q", candidates)
	}
}

func TestBase64_DecodeURLSafe(t *testing.T) {
	value := []byte{0xFB, 0xEF, 0xBE, 0x01}
	encoded := base64.RawURLEncoding.EncodeToString(value)
	candidates := NewBase64().ExtractDecode([]byte("x="+encoded+"&y=2"), 0)
	if !containsBuffer(candidates, value) {
		t.Errorf("expected URL-safe token %q to decode, got %q", encoded, candidates)
	}
}

func TestBase64_SingleDigitYieldsNothing(t *testing.T) {
	// With the standard padded dialect, a lone digit matches no token
	// grammar at all.
	standardOnly := NewBase64(WithDialects(DialectStandard))
	if got := standardOnly.ExtractDecode([]byte("/"), 0); len(got) != 0 {
		t.Errorf("decoding \"/\" under the standard dialect yielded %q, want nothing", got)
	}
}

func TestBase64_TailRepair(t *testing.T) {
	standardOnly := NewBase64(WithDialects(DialectStandard))

	// "A===" strips to the single all-zero digit; one-mod-four tokens
	// are padded with a zero digit, recovering the byte 0x00.
	candidates := standardOnly.ExtractDecode([]byte("A==="), 0)
	if !containsBuffer(candidates, []byte{0x00}) {
		t.Errorf("A=== decoded to %q, want 0x00", candidates)
	}

	// "/===" strips to "/" (63); its six low bits survive as 0xFC.
	candidates = standardOnly.ExtractDecode([]byte("/==="), 0)
	if !containsBuffer(candidates, []byte{0xFC}) {
		t.Errorf("/=== decoded to %q, want 0xFC", candidates)
	}
}

func TestBase64_RaggedTailWithClearBits(t *testing.T) {
	// "Zmlyc3Q" is 7 digits; the final digit's low bits are clear, so
	// no repair digit is appended and the decode is exact.
	candidates := NewBase64().ExtractDecode([]byte("(Zmlyc3Q)"), 0)
	if !containsBuffer(candidates, []byte("first")) {
		t.Errorf("unpadded ragged token decoded to %q, want \"first\"", candidates)
	}
}

func TestBase64_CRLFStripped(t *testing.T) {
	// MIME-wrapped base64 must still form one token.
	candidates := NewBase64().ExtractDecode([]byte("Zmly\r\nc3Q="), 0)
	if !containsBuffer(candidates, []byte("first")) {
		t.Errorf("line-wrapped token decoded to %q, want \"first\"", candidates)
	}
}

func TestBase64_MinimumLength(t *testing.T) {
	candidates := NewBase64().ExtractDecode([]byte("Zmlyc3Q="), 32)
	if len(candidates) != 0 {
		t.Errorf("tokens below minLen must be skipped, got %q", candidates)
	}
}

func TestBase64_OffsetSkip(t *testing.T) {
	// Encode a stream, then chop its first digits so the remaining
	// token is aligned to no byte boundary. The offset-skip mode must
	// still surface the embedded value.
	value := []byte("needle-value-xyz")
	stream := make([]byte, 0, 64)
	stream = append(stream, []byte("abcdef")...)
	stream = append(stream, value...)
	stream = append(stream, []byte("ghij")...)

	// Drop 5 leading digits: 30 bits, so the token's digit phase is
	// off by 6 bits and only a skip of 3 (18 more bits, 48 total)
	// restores byte alignment.
	token := base64.RawStdEncoding.EncodeToString(stream)[5:]
	haystack := []byte("body=" + token + ";")

	plain := NewBase64()
	for _, candidate := range plain.ExtractDecode(haystack, 0) {
		if bytes.Contains(candidate, value) {
			t.Fatalf("misaligned token should not decode to the value without offset skip")
		}
	}

	skipping := NewBase64(WithOffsetSkip())
	found := false
	for _, candidate := range skipping.ExtractDecode(haystack, 0) {
		if bytes.Contains(candidate, value) {
			found = true
		}
	}
	if !found {
		t.Error("offset skip failed to recover a value at a non-aligned byte offset")
	}
}

func TestBase64_LZURIDialectRemap(t *testing.T) {
	// The LZ-String URI dialect replaces '/' with '-'; decoding must
	// remap before handing the token to the standard decoder.
	// 0xFF 0xFF 0xFF encodes to "////", so every '/' becomes '-'.
	value := []byte{0xFF, 0xFF, 0xFF, 0x01}
	standard := base64.RawStdEncoding.EncodeToString(value)
	uriForm := bytes.ReplaceAll([]byte(standard), []byte("/"), []byte("-"))

	candidates := NewBase64(WithDialects(DialectLZURI)).ExtractDecode(uriForm, 0)
	if !containsBuffer(candidates, value) {
		t.Errorf("LZ-URI token %q decoded to %q, want %v", uriForm, candidates, value)
	}
}

func TestBase64_RoundTripAllDialects(t *testing.T) {
	transformer := NewBase64()
	inputs := [][]byte{
		[]byte("a"),
		[]byte("ab"),
		[]byte("abc"),
		[]byte("hello world"),
		{0x00, 0xFF, 0x80, 0x7F, 0x01},
	}
	for _, input := range inputs {
		for _, encoded := range transformer.Encodings(input) {
			if !containsBuffer(transformer.ExtractDecode(encoded, 0), input) {
				t.Errorf("no decode of %q recovers %q", encoded, input)
			}
		}
	}
}
