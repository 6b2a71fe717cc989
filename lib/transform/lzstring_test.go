// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"bytes"
	"testing"

	lzstring "github.com/daku10/go-lz-string"
)

func TestLZString_EncodingsCoverVariants(t *testing.T) {
	// Pure ASCII input: one string reading, so exactly one output per
	// variant.
	encodings := NewLZString().Encodings([]byte("hello hello hello"))
	if len(encodings) != 5 {
		t.Fatalf("got %d encodings, want 5", len(encodings))
	}
}

func TestLZString_TwoReadingsForNonASCII(t *testing.T) {
	// A UTF-8 input that is not ASCII has distinct text and binary
	// readings, doubling the outputs.
	encodings := NewLZString().Encodings([]byte("héllo"))
	if len(encodings) != 10 {
		t.Fatalf("got %d encodings, want 10", len(encodings))
	}
}

func TestLZString_BytesRoundTrip(t *testing.T) {
	input := "some text to compress, repeated a little: text text text"
	packed, err := lzstring.CompressToUint8Array(input)
	if err != nil {
		t.Fatalf("CompressToUint8Array: %v", err)
	}

	candidates := NewLZString().ExtractDecode(packed, 0)
	if !containsBuffer(candidates, []byte(input)) {
		t.Errorf("bytes variant did not round-trip, got %d candidates", len(candidates))
	}
}

func TestLZString_BytesOddLengthPadded(t *testing.T) {
	// A trailing zero byte lost in transit (base64 tail truncation)
	// leaves an odd-length buffer; decompression must restore it.
	input := "odd padding test, padding test, padding test"
	packed, err := lzstring.CompressToUint8Array(input)
	if err != nil {
		t.Fatalf("CompressToUint8Array: %v", err)
	}
	if len(packed)%2 != 0 {
		t.Fatalf("uint8array output has odd length %d", len(packed))
	}
	if packed[len(packed)-1] != 0 {
		t.Skip("compressed output does not end in a zero byte; nothing to truncate")
	}

	candidates := NewLZString().ExtractDecode(packed[:len(packed)-1], 0)
	if !containsBuffer(candidates, []byte(input)) {
		t.Errorf("odd-length buffer did not decompress after zero padding")
	}
}

func TestLZString_UCS2RoundTrip(t *testing.T) {
	input := "ucs2 round trip content"
	units, err := lzstring.Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	rendered := utf16LEBytes(units)

	candidates := NewLZString().ExtractDecode(rendered, 0)
	if !containsBuffer(candidates, []byte(input)) {
		t.Errorf("ucs2 variant did not round-trip")
	}
}

func TestLZString_UTF16RoundTrip(t *testing.T) {
	input := "utf16 round trip content"
	text, err := lzstring.CompressToUTF16(input)
	if err != nil {
		t.Fatalf("CompressToUTF16: %v", err)
	}

	candidates := NewLZString().ExtractDecode([]byte(text), 0)
	if !containsBuffer(candidates, []byte(input)) {
		t.Errorf("utf16 variant did not round-trip")
	}
}

func TestLZString_EncodingsMatchLibrary(t *testing.T) {
	input := "library agreement check"
	wantBase64, err := lzstring.CompressToBase64(input)
	if err != nil {
		t.Fatalf("CompressToBase64: %v", err)
	}
	wantURI, err := lzstring.CompressToEncodedURIComponent(input)
	if err != nil {
		t.Fatalf("CompressToEncodedURIComponent: %v", err)
	}

	encodings := NewLZString().Encodings([]byte(input))
	if !containsBuffer(encodings, []byte(wantBase64)) {
		t.Error("base64 variant missing from encodings")
	}
	if !containsBuffer(encodings, []byte(wantURI)) {
		t.Error("uri variant missing from encodings")
	}
}

func TestLZString_CompressedLength(t *testing.T) {
	transformer := NewLZString()
	value := []byte("abcabcabcabcabcabcabcabcabcabc")
	shortest := transformer.CompressedLength(value)
	if shortest <= 0 {
		t.Fatalf("CompressedLength = %d, want positive", shortest)
	}
	for _, encoded := range transformer.Encodings(value) {
		if len(encoded) < shortest {
			t.Errorf("encoding of %d bytes beats reported minimum %d", len(encoded), shortest)
		}
	}
}

func TestLZString_GarbageYieldsNothingUseful(t *testing.T) {
	candidates := NewLZString().ExtractDecode([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02}, 0)
	// Garbage may still "decompress" under some variant; the contract
	// is only that it never includes our sentinel.
	if containsBuffer(candidates, []byte("sentinel")) {
		t.Error("garbage decompressed to the sentinel value")
	}
}

func TestLZString_RestrictedVariants(t *testing.T) {
	bytesOnly := NewLZString(WithLZVariants(LZVariantBytes))
	encodings := bytesOnly.Encodings([]byte("restricted"))
	if len(encodings) != 1 {
		t.Fatalf("got %d encodings, want 1", len(encodings))
	}
	input := "restricted variant round trip"
	packed, err := lzstring.CompressToUint8Array(input)
	if err != nil {
		t.Fatalf("CompressToUint8Array: %v", err)
	}
	if !containsBuffer(bytesOnly.ExtractDecode(packed, 0), []byte(input)) {
		t.Error("bytes-only transformer failed its own round trip")
	}
	if found := bytes.Contains(packed, []byte(input)); found {
		t.Error("compressed output unexpectedly contains the input literally")
	}
}
