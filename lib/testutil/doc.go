// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Leakprobe
// packages.
//
// [RequireReceive] encapsulates the timeout safety valve pattern
// (select with time.After fallback) so that the concurrency tests of
// the search engine do not need direct time.After calls; a stuck race
// branch fails the test instead of hanging the run.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no Leakprobe-internal dependencies.
package testutil
