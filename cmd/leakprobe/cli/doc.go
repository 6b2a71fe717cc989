// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the leakprobe
// CLI.
//
// The central type is [Command], which represents a named subcommand
// with optional nested [Command.Subcommands], a [pflag.FlagSet]
// factory, and a Run function. Commands are assembled into a tree in
// cmd/leakprobe/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and structured help
// output with examples.
//
// The framework carries no search logic. Commands translate flags and
// files into lib/searcher and lib/needleset calls and format the
// results.
package cli
