// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/leakprobe/leakprobe/cmd/leakprobe/cli"
	"github.com/leakprobe/leakprobe/lib/needleset"
	"github.com/leakprobe/leakprobe/lib/searcher"
	"github.com/leakprobe/leakprobe/lib/transform"
)

// Root returns the top-level leakprobe command.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "leakprobe",
		Summary: "find known identifiers inside captured request bodies, through stacked encodings",
		Description: "leakprobe locates secret byte values inside opaque buffers even when\n" +
			"the value was base64/hex/URI/JSON/HTML/multipart/LZ-String/zlib/brotli\n" +
			"encoded — in any combination — or passed through a hash before\n" +
			"transmission.",
		Subcommands: []*cli.Command{
			scanCommand(),
			needlesCommand(),
			versionCommand(),
		},
	}
}

// searcherFlags is the flag surface shared by scan and needles: which
// values to track and how to derive their needle set.
type searcherFlags struct {
	values       []string
	hexValues    []string
	valueFiles   []string
	importPath   string
	encodeLayers int
	reversible   bool
	wide         bool
	offsetSkip   bool
	zstd         bool
	lz4          bool
}

// transformers builds the transformer set implied by the flags. The
// default set is used unless an opt-in codec mode is requested.
func (f *searcherFlags) transformers() []transform.Transformer {
	if !f.offsetSkip && !f.zstd && !f.lz4 {
		return transform.Defaults()
	}

	var base64Options []transform.Base64Option
	if f.offsetSkip {
		base64Options = append(base64Options, transform.WithOffsetSkip())
	}
	var compressOptions []transform.CompressOption
	if f.zstd {
		compressOptions = append(compressOptions, transform.WithZstd())
	}
	if f.lz4 {
		compressOptions = append(compressOptions, transform.WithLZ4())
	}

	return []transform.Transformer{
		transform.NewHash(transform.IDMD5),
		transform.NewHash(transform.IDSHA1),
		transform.NewHash(transform.IDSHA256),
		transform.NewHash(transform.IDSHA512),
		transform.NewBase64(base64Options...),
		transform.NewHex(),
		transform.NewURI(),
		transform.NewJSONString(),
		transform.NewHTMLEntities(),
		transform.NewFormData(),
		transform.NewLZString(),
		transform.NewCompress(compressOptions...),
	}
}

// buildSearcher constructs a searcher from the flag surface: either
// by importing a needle snapshot or by deriving needles from the
// given values.
func (f *searcherFlags) buildSearcher() (*searcher.Searcher, error) {
	if f.importPath != "" {
		data, err := os.ReadFile(f.importPath)
		if err != nil {
			return nil, fmt.Errorf("reading needle snapshot: %w", err)
		}
		snapshot, err := needleset.Unmarshal(data)
		if err != nil {
			return nil, err
		}
		return needleset.Import(snapshot, searcher.WithTransformers(f.transformers()...))
	}

	values, err := f.collectValues()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no values given: use --value, --value-hex, --value-file or --import")
	}

	options := []searcher.Option{searcher.WithTransformers(f.transformers()...)}
	if f.wide {
		options = append(options, searcher.WithWideFingerprint())
	}
	s := searcher.New(options...)

	addOptions := []searcher.AddOption{searcher.WithMaxEncodeLayers(f.encodeLayers)}
	if f.reversible {
		addOptions = append(addOptions, searcher.WithReversibleTails())
	}
	for _, value := range values {
		if err := s.AddValue(value, addOptions...); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// collectValues gathers the tracked values from the three value
// flags. Files contribute their whole contents as a single value.
func (f *searcherFlags) collectValues() ([][]byte, error) {
	var values [][]byte
	for _, value := range f.values {
		values = append(values, []byte(value))
	}
	for _, encoded := range f.hexValues {
		value, err := decodeHexValue(encoded)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	for _, path := range f.valueFiles {
		value, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading value file: %w", err)
		}
		values = append(values, value)
	}
	return values, nil
}
