// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

// Package searcher locates secret byte values inside opaque buffers,
// even when the value was transformed through stacked reversible
// encodings and terminal hash layers before it hit the wire.
//
// A Searcher is populated with values via AddValue, which precomputes
// every encoded form of each value up to a configurable layer depth —
// the needle set. FindValueIn then peels decoding layers off a
// haystack recursively, racing decoder branches, until some decoded
// buffer literally contains a needle; the result is the decoder chain
// from the outside in, or nothing.
//
// A Searcher is add-only. Once all AddValue calls have settled it is
// safe to run any number of FindValueIn calls concurrently; AddValue
// itself must not race other calls on the same Searcher.
package searcher
