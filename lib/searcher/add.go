// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package searcher

import (
	"github.com/leakprobe/leakprobe/lib/transform"
)

// addConfig is the resolved configuration of one AddValue call.
type addConfig struct {
	maxEncodeLayers      int
	encoders             []transform.Encoder
	endWithNonReversible bool
}

// AddOption configures one AddValue call.
type AddOption func(*addConfig)

// WithMaxEncodeLayers bounds how many encoding layers are stacked on
// the value when precomputing needles. Zero means only the raw value
// becomes a needle. The default is 2.
func WithMaxEncodeLayers(layers int) AddOption {
	return func(c *addConfig) { c.maxEncodeLayers = layers }
}

// WithEncoders replaces the encoder set used for this value. The
// default is every default transformer that can encode.
func WithEncoders(encoders ...transform.Encoder) AddOption {
	return func(c *addConfig) { c.encoders = append([]transform.Encoder(nil), encoders...) }
}

// WithReversibleTails admits needles whose outermost layer is a
// reversible encoder. By default those are suppressed: the search
// engine reaches the same match by decoding the reversible layer off
// the haystack instead, so precomputing them only bloats the needle
// set. Use this when the haystack will be searched with a decode
// budget of zero.
func WithReversibleTails() AddOption {
	return func(c *addConfig) { c.endWithNonReversible = false }
}

// AddValue registers a secret value and precomputes its encoded
// forms. The raw value always becomes a needle; derived needles
// follow the layer bound and tail policy.
func (s *Searcher) AddValue(value []byte, options ...AddOption) error {
	if len(value) == 0 {
		return ErrEmptyValue
	}
	config := addConfig{
		maxEncodeLayers:      2,
		encoders:             transform.EncodersOf(s.transformers),
		endWithNonReversible: true,
	}
	for _, option := range options {
		option(&config)
	}

	owned := append([]byte(nil), value...)
	s.addValueBuffer(owned)
	root := Needle{Buffer: owned}
	s.insertNeedle(root)

	if config.maxEncodeLayers > 0 {
		seen := make(map[uint64]int)
		s.addEncodings(config, root, config.maxEncodeLayers-1, seen)
	}
	return nil
}

// addEncodings derives child needles of parent by applying each
// encoder once, then recurses while extra layers remain.
//
// Admission to recursion is memoized per fingerprint at the highest
// remaining layer budget seen: a buffer first reached deep in the
// tree (small budget) must be revisited if reached again with budget
// to spare, or the deeper encodings under it would never be
// enumerated.
//
// Admission to the search set is a separate policy: under the
// end-with-non-reversible rule only children whose outermost layer is
// a hash become needles — a needle ending in a reversible encoder is
// redundant, because the search engine would find its inner form by
// decoding the haystack. Children that are not inserted are still
// recursed into, which is how hash-then-encode chains arise.
func (s *Searcher) addEncodings(config addConfig, parent Needle, extraLayers int, seen map[uint64]int) {
	var admitted []Needle
	for _, encoder := range config.encoders {
		if extraLayers == 0 && config.endWithNonReversible && transform.Reversible(encoder) {
			continue
		}
		for _, buffer := range encoder.Encodings(parent.Buffer) {
			if len(buffer) == 0 {
				continue
			}
			fp := s.fingerprint(buffer)
			if previous, ok := seen[fp]; ok && previous >= extraLayers {
				continue
			}
			seen[fp] = extraLayers

			chain := make([]string, 0, len(parent.Chain)+1)
			chain = append(chain, encoder.ID())
			chain = append(chain, parent.Chain...)
			child := Needle{Buffer: buffer, Chain: chain}
			admitted = append(admitted, child)

			if !config.endWithNonReversible || !transform.Reversible(encoder) {
				s.insertNeedle(child)
			}
		}
	}
	if extraLayers > 0 {
		for _, child := range admitted {
			s.addEncodings(config, child, extraLayers-1, seen)
		}
	}
}
