// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionFormat names one wire format of the generic compression
// transformer. The names follow the web Compression Streams
// vocabulary: "deflate" is the zlib-wrapped stream, "deflate-raw" the
// bare stream.
type CompressionFormat string

const (
	FormatGzip       CompressionFormat = "gzip"
	FormatDeflate    CompressionFormat = "deflate"
	FormatDeflateRaw CompressionFormat = "deflate-raw"
	FormatBrotli     CompressionFormat = "brotli"

	// FormatZstd and FormatLZ4 are opt-in extras. Zstd appears in the
	// wild as Content-Encoding; lz4 frames show up in capture
	// tooling. Both are sniffed strictly by frame magic, so enabling
	// them never perturbs the default decode ladder.
	FormatZstd CompressionFormat = "zstd"
	FormatLZ4  CompressionFormat = "lz4"
)

// gzip OS byte values emitted alongside the canonical output so
// fixtures produced on any platform still match byte-for-byte.
var gzipOSBytes = []byte{10, 3, 7}

// Shared zstd coders, reused across calls. Both are safe for
// concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("transform: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("transform: zstd decoder initialization failed: " + err.Error())
	}
}

// Compress is the reversible generic-compression transformer. It
// works on whole buffers; decoding sniffs the format from the stream
// header rather than trying every decompressor.
type Compress struct {
	formats []CompressionFormat
}

// CompressOption configures a Compress transformer.
type CompressOption func(*Compress)

// WithFormats replaces the default format set.
func WithFormats(formats ...CompressionFormat) CompressOption {
	return func(c *Compress) { c.formats = append([]CompressionFormat(nil), formats...) }
}

// WithZstd enables the zstd format alongside the defaults.
func WithZstd() CompressOption {
	return func(c *Compress) { c.formats = append(c.formats, FormatZstd) }
}

// WithLZ4 enables the lz4 frame format alongside the defaults.
func WithLZ4() CompressOption {
	return func(c *Compress) { c.formats = append(c.formats, FormatLZ4) }
}

// NewCompress constructs the compression transformer with the
// default formats gzip, deflate, deflate-raw and brotli.
func NewCompress(options ...CompressOption) *Compress {
	c := &Compress{
		formats: []CompressionFormat{FormatGzip, FormatDeflate, FormatDeflateRaw, FormatBrotli},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// ID returns "compress".
func (c *Compress) ID() string { return IDCompress }

// has reports whether a format is enabled.
func (c *Compress) has(format CompressionFormat) bool {
	for _, f := range c.formats {
		if f == format {
			return true
		}
	}
	return false
}

// Encodings yields one compressed buffer per enabled format. For
// gzip, the canonical output is followed by copies with the header OS
// byte rewritten to each common platform value, since producers
// disagree on it and a needle must match the capture byte-for-byte.
func (c *Compress) Encodings(value []byte) [][]byte {
	var outputs [][]byte
	for _, format := range c.formats {
		encoded, ok := compressFormat(value, format)
		if !ok {
			continue
		}
		outputs = append(outputs, encoded)
		if format == FormatGzip && len(encoded) > 9 {
			for _, osByte := range gzipOSBytes {
				if encoded[9] == osByte {
					continue
				}
				variant := append([]byte(nil), encoded...)
				variant[9] = osByte
				outputs = append(outputs, variant)
			}
		}
	}
	return outputs
}

// compressFormat compresses value with one format.
func compressFormat(value []byte, format CompressionFormat) ([]byte, bool) {
	var buffer bytes.Buffer
	var writer io.WriteCloser
	switch format {
	case FormatGzip:
		writer = gzip.NewWriter(&buffer)
	case FormatDeflate:
		writer = zlib.NewWriter(&buffer)
	case FormatDeflateRaw:
		flateWriter, err := flate.NewWriter(&buffer, flate.DefaultCompression)
		if err != nil {
			return nil, false
		}
		writer = flateWriter
	case FormatBrotli:
		writer = brotli.NewWriter(&buffer)
	case FormatZstd:
		return zstdEncoder.EncodeAll(value, nil), true
	case FormatLZ4:
		writer = lz4.NewWriter(&buffer)
	default:
		return nil, false
	}
	if _, err := writer.Write(value); err != nil {
		return nil, false
	}
	if err := writer.Close(); err != nil {
		return nil, false
	}
	return buffer.Bytes(), true
}

// ExtractDecode sniffs the stream header and yields at most one
// decompressed buffer:
//
//   - zstd / lz4 frame magic (only when enabled): the matching
//     decompressor.
//   - gzip magic, or a 16-bit big-endian header divisible by 31
//     (zlib): unzip. Success ends the attempt chain.
//   - a first byte whose low three bits are not the reserved deflate
//     block type: raw deflate.
//   - otherwise brotli, which has no usable magic.
//
// Any failure falls through silently to the next rung.
func (c *Compress) ExtractDecode(haystack []byte, minLen int) [][]byte {
	if len(haystack) < 2 || len(haystack) < minLen {
		return nil
	}

	if c.has(FormatZstd) && len(haystack) >= 4 && binary.LittleEndian.Uint32(haystack) == 0xFD2FB528 {
		if decoded, err := zstdDecoder.DecodeAll(haystack, nil); err == nil && len(decoded) > 0 {
			return [][]byte{decoded}
		}
		return nil
	}
	if c.has(FormatLZ4) && len(haystack) >= 4 && binary.LittleEndian.Uint32(haystack) == 0x184D2204 {
		if decoded, ok := readAllFrom(lz4.NewReader(bytes.NewReader(haystack))); ok {
			return [][]byte{decoded}
		}
		return nil
	}

	if haystack[0] == 0x1F && haystack[1] == 0x8B {
		if reader, err := gzip.NewReader(bytes.NewReader(haystack)); err == nil {
			if decoded, ok := readAllFrom(reader); ok {
				return [][]byte{decoded}
			}
		}
	} else if binary.BigEndian.Uint16(haystack)%31 == 0 {
		if reader, err := zlib.NewReader(bytes.NewReader(haystack)); err == nil {
			if decoded, ok := readAllFrom(reader); ok {
				return [][]byte{decoded}
			}
		}
	}

	if haystack[0]&0x07 != 0x06 {
		if decoded, ok := readAllFrom(flate.NewReader(bytes.NewReader(haystack))); ok {
			return [][]byte{decoded}
		}
	}

	if decoded, ok := readAllFrom(brotli.NewReader(bytes.NewReader(haystack))); ok {
		return [][]byte{decoded}
	}
	return nil
}

// CompressedLength returns the smallest compressed size across the
// enabled formats.
func (c *Compress) CompressedLength(value []byte) int {
	shortest := -1
	for _, format := range c.formats {
		encoded, ok := compressFormat(value, format)
		if !ok {
			continue
		}
		if shortest < 0 || len(encoded) < shortest {
			shortest = len(encoded)
		}
	}
	return shortest
}

// readAllFrom drains a decompressor, treating any error — including a
// truncated stream — as no output.
func readAllFrom(reader io.Reader) ([]byte, bool) {
	decoded, err := io.ReadAll(reader)
	if err != nil || len(decoded) == 0 {
		return nil, false
	}
	return decoded, true
}
