// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

// Package fingerprint provides the buffer fingerprints used to
// deduplicate needles and haystack sub-regions.
//
// Fingerprints are not cryptographically significant: a collision can
// at worst suppress a duplicate-looking decode branch, which only
// matters if the colliding buffers differ in a needle-containing
// region. CRC32 is the default; callers that care about that residual
// risk can use the wider BLAKE3-derived fingerprint instead.
package fingerprint

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/zeebo/blake3"
)

// Func maps a buffer to its dedup fingerprint.
type Func func([]byte) uint64

// Names recorded in needle snapshots so an import can verify it is
// deduplicating the same way the exporter did.
const (
	NameCRC32 = "crc32"
	NameWide  = "blake3-64"
)

// CRC32 is the default fingerprint: the IEEE CRC32 of the buffer.
func CRC32(buffer []byte) uint64 {
	return uint64(crc32.ChecksumIEEE(buffer))
}

// Wide is the collision-averse fingerprint: the first eight bytes of
// the buffer's BLAKE3 digest.
func Wide(buffer []byte) uint64 {
	digest := blake3.Sum256(buffer)
	return binary.LittleEndian.Uint64(digest[:8])
}
