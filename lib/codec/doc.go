// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Leakprobe's standard CBOR encoding
// configuration.
//
// CBOR is the on-disk format for needle snapshots: precomputed needle
// sets exported by one forensic run and re-imported by the next. The
// encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// The same needle set always produces identical snapshot bytes, so
// snapshots can be content-addressed and diffed.
//
// This package exists so that every Leakprobe package encodes
// identically without duplicating configuration:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// The decoder silently ignores unknown fields for forward
// compatibility with snapshots written by newer versions.
package codec
