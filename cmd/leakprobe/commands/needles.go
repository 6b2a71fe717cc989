// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/leakprobe/leakprobe/cmd/leakprobe/cli"
	"github.com/leakprobe/leakprobe/lib/needleset"
)

// needleRow is one needle for --json output.
type needleRow struct {
	Bytes int      `json:"bytes"`
	Chain []string `json:"chain"`
	Hex   string   `json:"hex"`
}

func needlesCommand() *cli.Command {
	var (
		flags      searcherFlags
		exportPath string
		jsonOutput bool
	)

	return &cli.Command{
		Name:    "needles",
		Summary: "inspect or snapshot the precomputed needle set for a value",
		Usage:   "leakprobe needles [flags]",
		Examples: []cli.Example{
			{
				Description: "list every encoded form that will be searched for",
				Command:     `leakprobe needles --value mail@example.com`,
			},
			{
				Description: "precompute once, reuse across scans",
				Command:     `leakprobe needles --value mail@example.com --export needles.cbor`,
			},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("needles", pflag.ContinueOnError)
			bindSearcherFlags(fs, &flags)
			fs.StringVar(&exportPath, "export", "", "write the needle set as a CBOR snapshot to this path")
			fs.BoolVar(&jsonOutput, "json", false, "output as JSON")
			return fs
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("needles takes no positional arguments")
			}
			s, err := flags.buildSearcher()
			if err != nil {
				return err
			}

			if exportPath != "" {
				data, err := needleset.Marshal(needleset.Export(s))
				if err != nil {
					return err
				}
				if err := os.WriteFile(exportPath, data, 0o644); err != nil {
					return fmt.Errorf("writing needle snapshot: %w", err)
				}
				fmt.Printf("wrote %d needles (%d bytes) to %s\n", len(s.Needles()), len(data), exportPath)
				return nil
			}

			needles := s.Needles()
			if jsonOutput {
				rows := make([]needleRow, len(needles))
				for i, needle := range needles {
					rows[i] = needleRow{
						Bytes: len(needle.Buffer),
						Chain: needle.Chain,
						Hex:   hex.EncodeToString(needle.Buffer),
					}
				}
				return cli.WriteJSON(rows)
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(tw, "BYTES\tCHAIN\tPREVIEW\n")
			for _, needle := range needles {
				chain := "(raw value)"
				if len(needle.Chain) > 0 {
					chain = strings.Join(needle.Chain, " -> ")
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", len(needle.Buffer), chain, preview(needle.Buffer))
			}
			return tw.Flush()
		},
	}
}

// preview renders the first bytes of a needle: printable ASCII as-is,
// anything else hex-escaped, truncated with an ellipsis.
func preview(buffer []byte) string {
	const limit = 48
	var builder strings.Builder
	for i, c := range buffer {
		if i >= limit {
			builder.WriteString("...")
			break
		}
		if c >= 0x20 && c < 0x7F {
			builder.WriteByte(c)
		} else {
			fmt.Fprintf(&builder, `\x%02x`, c)
		}
	}
	return builder.String()
}
