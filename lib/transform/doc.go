// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

// Package transform implements the codec library: every encoding a
// tracked value may have passed through on its way into a request
// body, expressed as a bidirectional transformer.
//
// A transformer is a named codec exposing some non-empty subset of
// three capabilities:
//
//   - Encodings(value) produces candidate encoded forms of a buffer.
//     The needle engine uses this to precompute every shape a secret
//     can take.
//   - ExtractDecode(haystack, minLen) extracts candidate decoded
//     buffers from substrings of a haystack. The search engine applies
//     this recursively to peel encoding layers off captured traffic.
//   - CompressedLength(value) reports the smallest output the codec
//     can produce for a buffer. Only compressing decoders implement
//     it; the search engine uses it to lower-bound how short an
//     encoded needle can be.
//
// A transformer that exposes ExtractDecode is reversible. Hashes are
// the non-reversible case: they only encode, and a needle chain that
// starts with a hash is terminal.
//
// Candidate sequences are returned as materialized slices. Each codec
// bounds its own fan-out (dialects, variants, formats), so the slices
// stay small; consumers stop looking at them as soon as a search race
// resolves.
//
// All codecs swallow malformed input during decode: a branch that
// cannot be decoded yields nothing rather than an error.
package transform
