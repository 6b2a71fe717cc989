// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"unicode/utf8"

	lzstring "github.com/daku10/go-lz-string"
)

// LZStringVariant selects one of the library's output packings.
type LZStringVariant string

const (
	// LZVariantBytes is the uint8array packing: the compressed
	// bitstream as big-endian byte pairs.
	LZVariantBytes LZStringVariant = "bytes"
	// LZVariantUCS2 is the raw compressed string — arbitrary 16-bit
	// code units — rendered as UTF-16LE bytes.
	LZVariantUCS2 LZStringVariant = "ucs2"
	// LZVariantUTF16 is the "valid UTF-16" packing rendered as UTF-8
	// bytes.
	LZVariantUTF16 LZStringVariant = "utf16"
	// LZVariantBase64 is the base64 packing.
	LZVariantBase64 LZStringVariant = "base64"
	// LZVariantURI is the EncodedURIComponent packing (base64 with
	// the (+,-) digit pair, unpadded).
	LZVariantURI LZStringVariant = "uri"
)

// LZString is the reversible LZ-String transformer. Decoding handles
// the bytes, ucs2 and utf16 packings directly; base64 and uri outputs
// reach the bytes packing through the base64 transformer's dialects
// (standard and LZ-String-URI respectively), so this codec never
// parses base64 itself.
type LZString struct {
	variants []LZStringVariant
}

// LZStringOption configures an LZString transformer.
type LZStringOption func(*LZString)

// WithLZVariants replaces the default variant set.
func WithLZVariants(variants ...LZStringVariant) LZStringOption {
	return func(l *LZString) { l.variants = append([]LZStringVariant(nil), variants...) }
}

// NewLZString constructs the LZ-String transformer with all five
// variants enabled.
func NewLZString(options ...LZStringOption) *LZString {
	l := &LZString{
		variants: []LZStringVariant{LZVariantBytes, LZVariantUCS2, LZVariantUTF16, LZVariantBase64, LZVariantURI},
	}
	for _, option := range options {
		option(l)
	}
	return l
}

// ID returns "lz-string".
func (l *LZString) ID() string { return IDLZString }

// has reports whether a variant is enabled.
func (l *LZString) has(variant LZStringVariant) bool {
	for _, v := range l.variants {
		if v == variant {
			return true
		}
	}
	return false
}

// Encodings compresses both string readings of the value (UTF-8 text
// and latin-1 bytes — identical for pure ASCII) with every enabled
// variant. Library failures skip the affected variant.
func (l *LZString) Encodings(value []byte) [][]byte {
	var outputs [][]byte
	for _, input := range textInterpretations(value) {
		for _, variant := range l.variants {
			if encoded, ok := compressVariant(input, variant); ok && len(encoded) > 0 {
				outputs = append(outputs, encoded)
			}
		}
	}
	return outputs
}

// compressVariant renders one variant of one string reading to bytes.
func compressVariant(input string, variant LZStringVariant) ([]byte, bool) {
	switch variant {
	case LZVariantBytes:
		packed, err := lzstring.CompressToUint8Array(input)
		if err != nil {
			return nil, false
		}
		return packed, true
	case LZVariantUCS2:
		units, err := lzstring.Compress(input)
		if err != nil {
			return nil, false
		}
		return utf16LEBytes(units), true
	case LZVariantUTF16:
		text, err := lzstring.CompressToUTF16(input)
		if err != nil {
			return nil, false
		}
		return []byte(text), true
	case LZVariantBase64:
		text, err := lzstring.CompressToBase64(input)
		if err != nil {
			return nil, false
		}
		return []byte(text), true
	case LZVariantURI:
		text, err := lzstring.CompressToEncodedURIComponent(input)
		if err != nil {
			return nil, false
		}
		return []byte(text), true
	}
	return nil, false
}

// ExtractDecode attempts the direct packings against the whole
// buffer. Every successful decompression yields both the UTF-8 and
// (when representable) the latin-1 byte rendering of the recovered
// string, since the original may have been either reading.
func (l *LZString) ExtractDecode(haystack []byte, minLen int) [][]byte {
	if len(haystack) == 0 || len(haystack) < minLen {
		return nil
	}

	var results [][]byte
	if l.has(LZVariantBytes) {
		packed := haystack
		if len(packed)%2 != 0 {
			// A trailing zero byte dropped in transit (base64 tail
			// truncation) leaves an odd buffer; restore it.
			packed = append(append([]byte(nil), packed...), 0)
		}
		if text, err := lzstring.DecompressFromUint8Array(packed); err == nil {
			results = appendRenderings(results, text)
		}
	}
	if l.has(LZVariantUCS2) && len(haystack)%2 == 0 {
		if text, err := lzstring.Decompress(utf16LEUnits(haystack)); err == nil {
			results = appendRenderings(results, text)
		}
	}
	if l.has(LZVariantUTF16) && utf8.Valid(haystack) {
		if text, err := lzstring.DecompressFromUTF16(string(haystack)); err == nil {
			results = appendRenderings(results, text)
		}
	}
	return results
}

// CompressedLength returns the shortest output length across the
// enabled variants, or -1 when every variant fails.
func (l *LZString) CompressedLength(value []byte) int {
	shortest := -1
	for _, encoded := range l.Encodings(value) {
		if shortest < 0 || len(encoded) < shortest {
			shortest = len(encoded)
		}
	}
	return shortest
}

// appendRenderings appends the byte renderings of a decompressed
// string: UTF-8 always, latin-1 when the string fits in it and
// differs.
func appendRenderings(results [][]byte, text string) [][]byte {
	if len(text) == 0 {
		return results
	}
	asUTF8 := []byte(text)
	results = append(results, asUTF8)
	if asLatin1, ok := latin1Bytes(text); ok && string(asLatin1) != text {
		results = append(results, asLatin1)
	}
	return results
}

// utf16LEBytes renders 16-bit units as little-endian bytes.
func utf16LEBytes(units []uint16) []byte {
	out := make([]byte, 0, len(units)*2)
	for _, unit := range units {
		out = append(out, byte(unit), byte(unit>>8))
	}
	return out
}

// utf16LEUnits reads little-endian bytes back into 16-bit units. The
// caller guarantees an even length.
func utf16LEUnits(b []byte) []uint16 {
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	return units
}
