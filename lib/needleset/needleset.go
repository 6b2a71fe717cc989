// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

// Package needleset serializes a searcher's precomputed needle set.
//
// Deriving needles is cheap for a single value but adds up over a
// fleet of identifiers and a large capture corpus. A snapshot lets
// one run export the derived set and later runs import it instead of
// re-deriving. Snapshots are deterministic CBOR (see lib/codec), so
// identical needle sets produce identical files.
package needleset

import (
	"fmt"

	"github.com/leakprobe/leakprobe/lib/codec"
	"github.com/leakprobe/leakprobe/lib/fingerprint"
	"github.com/leakprobe/leakprobe/lib/searcher"
)

// Version is the current snapshot format version.
const Version = 1

// Snapshot is the serialized form of a searcher's needle set.
type Snapshot struct {
	// Version is the snapshot format version; imports reject
	// versions they do not understand.
	Version int `cbor:"version"`

	// Fingerprint names the dedup fingerprint the exporting searcher
	// used (see lib/fingerprint). An import reconstructs the searcher
	// with the same scheme so fingerprint-based dedup stays
	// consistent with the exporter's.
	Fingerprint string `cbor:"fingerprint"`

	// Needles is the full needle list. Entries with an empty chain
	// are the original values.
	Needles []Entry `cbor:"needles"`
}

// Entry is one serialized needle.
type Entry struct {
	Buffer []byte   `cbor:"buffer"`
	Chain  []string `cbor:"chain,omitempty"`
}

// Export captures s's needle set as a snapshot.
func Export(s *searcher.Searcher) Snapshot {
	needles := s.Needles()
	entries := make([]Entry, len(needles))
	for i, needle := range needles {
		entries[i] = Entry{Buffer: needle.Buffer, Chain: needle.Chain}
	}
	return Snapshot{
		Version:     Version,
		Fingerprint: s.FingerprintName(),
		Needles:     entries,
	}
}

// Import reconstructs a searcher from a snapshot. The searcher uses
// the snapshot's fingerprint scheme and the given construction
// options (transformer set and so on).
func Import(snapshot Snapshot, options ...searcher.Option) (*searcher.Searcher, error) {
	if snapshot.Version != Version {
		return nil, fmt.Errorf("needleset: unsupported snapshot version %d", snapshot.Version)
	}
	switch snapshot.Fingerprint {
	case fingerprint.NameCRC32:
	case fingerprint.NameWide:
		options = append(options, searcher.WithWideFingerprint())
	default:
		return nil, fmt.Errorf("needleset: unknown fingerprint scheme %q", snapshot.Fingerprint)
	}

	s := searcher.New(options...)
	needles := make([]searcher.Needle, len(snapshot.Needles))
	for i, entry := range snapshot.Needles {
		needles[i] = searcher.Needle{Buffer: entry.Buffer, Chain: entry.Chain}
	}
	if err := s.RestoreNeedles(needles...); err != nil {
		return nil, fmt.Errorf("needleset: restoring needles: %w", err)
	}
	return s, nil
}

// Marshal encodes a snapshot to its canonical CBOR bytes.
func Marshal(snapshot Snapshot) ([]byte, error) {
	data, err := codec.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("needleset: encoding snapshot: %w", err)
	}
	return data, nil
}

// Unmarshal decodes snapshot bytes.
func Unmarshal(data []byte) (Snapshot, error) {
	var snapshot Snapshot
	if err := codec.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("needleset: decoding snapshot: %w", err)
	}
	return snapshot, nil
}
