// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package transform

// Transformer identities. These exact strings appear in the chains
// returned by the search engine and in needle snapshots — changing
// them breaks snapshot compatibility and every consumer that matches
// on chain contents.
const (
	IDMD5          = "md5"
	IDSHA1         = "sha1"
	IDSHA256       = "sha256"
	IDSHA512       = "sha512"
	IDBase64       = "base64"
	IDHex          = "hex"
	IDURI          = "uri"
	IDJSONString   = "json-string"
	IDHTMLEntities = "html-entities"
	IDFormData     = "form-data"
	IDLZString     = "lz-string"
	IDCompress     = "compress"
)

// Transformer is a named codec. The concrete capability set is
// discovered by asserting for [Encoder], [Decoder] and [Compressor].
type Transformer interface {
	// ID returns the transformer's stable identity string.
	ID() string
}

// Encoder is a transformer that can produce encoded forms of a value.
type Encoder interface {
	Transformer

	// Encodings returns candidate encoded forms of value. The order is
	// stable for identical input and configuration. An encoder that
	// cannot represent the input (for example a text codec fed invalid
	// UTF-8) returns nil rather than an error.
	Encodings(value []byte) [][]byte
}

// Decoder is a transformer that can extract decoded buffers from
// substrings of a haystack. Exposing this capability is what makes a
// transformer reversible.
type Decoder interface {
	Transformer

	// ExtractDecode returns candidate decoded buffers found in
	// haystack. Matches shorter than minLen may be rejected as an
	// optimization; minLen zero means no bound. Malformed input is
	// swallowed: the affected candidate is simply absent.
	ExtractDecode(haystack []byte, minLen int) [][]byte
}

// Compressor is implemented by compressing decoders. The search
// engine uses it to bound how short an encoded needle can get, since
// compression can shrink a value below its raw length.
type Compressor interface {
	// CompressedLength returns the length of the shortest output this
	// codec can produce for value, or a negative number if the value
	// cannot be compressed at all.
	CompressedLength(value []byte) int
}

// Reversible reports whether t exposes decode capability.
func Reversible(t Transformer) bool {
	_, ok := t.(Decoder)
	return ok
}

// Defaults returns the default transformer set in the canonical order.
// The order influences which chain wins a search race, never whether a
// match is found.
func Defaults() []Transformer {
	return []Transformer{
		NewHash(IDMD5),
		NewHash(IDSHA1),
		NewHash(IDSHA256),
		NewHash(IDSHA512),
		NewBase64(),
		NewHex(),
		NewURI(),
		NewJSONString(),
		NewHTMLEntities(),
		NewFormData(),
		NewLZString(),
		NewCompress(),
	}
}

// EncodersOf filters ts down to the transformers that can encode,
// preserving order.
func EncodersOf(ts []Transformer) []Encoder {
	var encoders []Encoder
	for _, t := range ts {
		if encoder, ok := t.(Encoder); ok {
			encoders = append(encoders, encoder)
		}
	}
	return encoders
}

// DecodersOf filters ts down to the reversible transformers,
// preserving order.
func DecodersOf(ts []Transformer) []Decoder {
	var decoders []Decoder
	for _, t := range ts {
		if decoder, ok := t.(Decoder); ok {
			decoders = append(decoders, decoder)
		}
	}
	return decoders
}
