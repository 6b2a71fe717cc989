// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/leakprobe/leakprobe/cmd/leakprobe/cli"
	"github.com/leakprobe/leakprobe/lib/searcher"
)

// scanResult is one haystack's outcome, for --json output.
type scanResult struct {
	File  string   `json:"file"`
	Found bool     `json:"found"`
	Chain []string `json:"chain"`
}

func scanCommand() *cli.Command {
	var (
		flags        searcherFlags
		decodeLayers int
		jsonOutput   bool
	)

	return &cli.Command{
		Name:    "scan",
		Summary: "search haystack files for tracked values in any encoded form",
		Usage:   "leakprobe scan [flags] <haystack-file>... ('-' for stdin)",
		Examples: []cli.Example{
			{
				Description: "check whether a captured POST body leaks an email address",
				Command:     `leakprobe scan --value mail@example.com capture/body.bin`,
			},
			{
				Description: "scan with a precomputed needle snapshot",
				Command:     `leakprobe scan --import needles.cbor capture/*.bin`,
			},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("scan", pflag.ContinueOnError)
			bindSearcherFlags(fs, &flags)
			fs.IntVar(&decodeLayers, "max-decode-layers", 10, "how many decoding layers to peel off a haystack")
			fs.BoolVar(&jsonOutput, "json", false, "output as JSON")
			return fs
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("at least one haystack file required ('-' for stdin)")
			}
			s, err := flags.buildSearcher()
			if err != nil {
				return err
			}
			logger := cli.NewCommandLogger().With("command", "scan")

			ctx := context.Background()
			var results []scanResult
			anyFound := false
			for _, path := range args {
				haystack, err := readHaystack(path)
				if err != nil {
					return err
				}
				chain, found, err := s.FindValueIn(ctx, haystack, searcher.WithMaxDecodeLayers(decodeLayers))
				if err != nil {
					return fmt.Errorf("scanning %s: %w", path, err)
				}
				anyFound = anyFound || found
				results = append(results, scanResult{File: path, Found: found, Chain: chain})
				logger.Info("scanned haystack",
					"file", path,
					"bytes", len(haystack),
					"found", found,
				)
			}

			if jsonOutput {
				if err := cli.WriteJSON(results); err != nil {
					return err
				}
			} else {
				for _, result := range results {
					fmt.Printf("%s: %s\n", result.File, formatChain(result.Found, result.Chain))
				}
			}
			if !anyFound {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

// bindSearcherFlags registers the shared value/derivation flags.
func bindSearcherFlags(fs *pflag.FlagSet, flags *searcherFlags) {
	fs.StringArrayVar(&flags.values, "value", nil, "tracked value (UTF-8 text; repeatable)")
	fs.StringArrayVar(&flags.hexValues, "value-hex", nil, "tracked value as hex bytes (repeatable)")
	fs.StringArrayVar(&flags.valueFiles, "value-file", nil, "file whose contents are one tracked value (repeatable)")
	fs.StringVar(&flags.importPath, "import", "", "needle snapshot to load instead of deriving needles")
	fs.IntVar(&flags.encodeLayers, "max-encode-layers", 2, "how many encoding layers to precompute per value")
	fs.BoolVar(&flags.reversible, "reversible-tails", false, "also precompute needles whose outermost layer is reversible")
	fs.BoolVar(&flags.wide, "wide-fingerprint", false, "use the 64-bit BLAKE3 dedup fingerprint instead of CRC32")
	fs.BoolVar(&flags.offsetSkip, "offset-skip", false, "retry base64 tokens at the first three character offsets (expensive)")
	fs.BoolVar(&flags.zstd, "zstd", false, "enable the zstd compression format")
	fs.BoolVar(&flags.lz4, "lz4", false, "enable the lz4 frame compression format")
}

// formatChain renders a scan outcome for text output.
func formatChain(found bool, chain []string) string {
	if !found {
		return "not found"
	}
	if len(chain) == 0 {
		return "found (literal)"
	}
	return "found via " + strings.Join(chain, " -> ")
}

// readHaystack loads one haystack argument; "-" reads stdin.
func readHaystack(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading haystack: %w", err)
	}
	return data, nil
}

// decodeHexValue parses a --value-hex argument.
func decodeHexValue(encoded string) ([]byte, error) {
	value, err := hex.DecodeString(strings.TrimPrefix(encoded, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid --value-hex %q: %w", encoded, err)
	}
	return value, nil
}
