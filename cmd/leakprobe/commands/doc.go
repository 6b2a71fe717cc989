// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the leakprobe command tree: scan
// (search haystack files for encoded values), needles (inspect or
// snapshot the precomputed needle set) and version.
//
// Commands are thin: every search decision lives in lib/searcher and
// lib/transform, every snapshot decision in lib/needleset. This
// package only translates flags and files.
package commands
