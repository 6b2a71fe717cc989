// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
)

// Hash is a non-reversible transformer wrapping a cryptographic
// digest. Trackers rarely ship a raw identifier; hashing it first is
// the most common disguise, sometimes with a fixed salt concatenated
// around the value.
type Hash struct {
	algorithm string
	newDigest func() hash.Hash
	truncate  int
	prefix    []byte
	suffix    []byte
}

// HashOption configures a Hash transformer.
type HashOption func(*Hash)

// WithHashPrefix sets bytes hashed before the value (a leading salt).
func WithHashPrefix(prefix []byte) HashOption {
	return func(h *Hash) { h.prefix = append([]byte(nil), prefix...) }
}

// WithHashSuffix sets bytes hashed after the value (a trailing salt).
func WithHashSuffix(suffix []byte) HashOption {
	return func(h *Hash) { h.suffix = append([]byte(nil), suffix...) }
}

// WithDigestBytes truncates the digest to the first n bytes. The
// transformer identity becomes "<alg>/<n>" so chains distinguish a
// truncated digest from the full one.
func WithDigestBytes(n int) HashOption {
	return func(h *Hash) { h.truncate = n }
}

// NewHash constructs a hash transformer for one of the supported
// algorithm identities (md5, sha1, sha256, sha512). Unknown
// algorithms panic: the set is a compile-time vocabulary, not user
// input.
func NewHash(algorithm string, options ...HashOption) *Hash {
	h := &Hash{algorithm: algorithm}
	switch algorithm {
	case IDMD5:
		h.newDigest = md5.New
	case IDSHA1:
		h.newDigest = sha1.New
	case IDSHA256:
		h.newDigest = sha256.New
	case IDSHA512:
		h.newDigest = sha512.New
	default:
		panic("transform: unknown hash algorithm " + algorithm)
	}
	for _, option := range options {
		option(h)
	}
	if h.truncate < 0 {
		panic(fmt.Sprintf("transform: negative digest truncation %d", h.truncate))
	}
	return h
}

// ID returns the algorithm name, or "<alg>/<n>" for truncated output.
func (h *Hash) ID() string {
	if h.truncate > 0 {
		return fmt.Sprintf("%s/%d", h.algorithm, h.truncate)
	}
	return h.algorithm
}

// Encodings yields exactly one buffer: the digest of
// prefix || value || suffix, truncated when configured.
func (h *Hash) Encodings(value []byte) [][]byte {
	digest := h.newDigest()
	digest.Write(h.prefix)
	digest.Write(value)
	digest.Write(h.suffix)
	sum := digest.Sum(nil)
	if h.truncate > 0 && h.truncate < len(sum) {
		sum = sum[:h.truncate]
	}
	return [][]byte{sum}
}
