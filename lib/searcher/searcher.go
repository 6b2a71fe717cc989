// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package searcher

import (
	"errors"

	"github.com/leakprobe/leakprobe/lib/fingerprint"
	"github.com/leakprobe/leakprobe/lib/transform"
)

// Contract violations. Codec-level input problems never surface as
// errors — they silently yield nothing — so any error from this
// package is either one of these, a cancelled context, or a codec
// panic that the search race converted to an error.
var (
	// ErrEmptyValue is returned by AddValue for a zero-length value.
	ErrEmptyValue = errors.New("searcher: value must not be empty")

	// ErrNoValues is returned by FindValueIn when no value has been
	// added yet.
	ErrNoValues = errors.New("searcher: no values added before find")
)

// Needle is one concrete byte string the search engine looks for
// literally, together with the transformer chain (outermost first)
// that produced it from an original value. An empty chain means the
// buffer is the raw value.
type Needle struct {
	Buffer []byte
	Chain  []string
}

// Searcher holds the precomputed needle set and the transformer
// inventory. The zero value is not usable; construct with New or
// FromValues.
type Searcher struct {
	transformers    []transform.Transformer
	fingerprint     fingerprint.Func
	fingerprintName string

	values          [][]byte
	valueSeen       map[uint64]bool
	needles         []Needle
	needleSeen      map[uint64]bool
	minNeedleLength int
}

// Option configures a Searcher at construction.
type Option func(*Searcher)

// WithTransformers replaces the default transformer set. The order is
// kept: it decides which chain wins a race, never whether a match is
// found.
func WithTransformers(transformers ...transform.Transformer) Option {
	return func(s *Searcher) {
		s.transformers = append([]transform.Transformer(nil), transformers...)
	}
}

// WithWideFingerprint swaps the CRC32 dedup fingerprint for the
// 64-bit BLAKE3-derived one.
func WithWideFingerprint() Option {
	return func(s *Searcher) {
		s.fingerprint = fingerprint.Wide
		s.fingerprintName = fingerprint.NameWide
	}
}

// New constructs an empty searcher with the default transformer set.
func New(options ...Option) *Searcher {
	s := &Searcher{
		transformers:    transform.Defaults(),
		fingerprint:     fingerprint.CRC32,
		fingerprintName: fingerprint.NameCRC32,
		valueSeen:       make(map[uint64]bool),
		needleSeen:      make(map[uint64]bool),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// FromValues constructs a searcher and adds each value with default
// add options.
func FromValues(values ...[]byte) (*Searcher, error) {
	s := New()
	for _, value := range values {
		if err := s.AddValue(value); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Values returns the original values added so far. The slice is
// shared; callers must not mutate it.
func (s *Searcher) Values() [][]byte { return s.values }

// Needles returns the precomputed needle set. The slice is shared;
// callers must not mutate it.
func (s *Searcher) Needles() []Needle { return s.needles }

// FingerprintName identifies the dedup fingerprint in use, for
// recording in needle snapshots.
func (s *Searcher) FingerprintName() string { return s.fingerprintName }

// MinNeedleLength returns the length of the shortest needle admitted
// so far, or zero when the searcher is empty.
func (s *Searcher) MinNeedleLength() int { return s.minNeedleLength }

// RestoreNeedles inserts precomputed needles directly, bypassing
// derivation. Needles with an empty chain are also registered as
// original values. This is the import path for needle snapshots; the
// caller is responsible for having built the snapshot with the same
// fingerprint scheme.
func (s *Searcher) RestoreNeedles(needles ...Needle) error {
	for _, needle := range needles {
		if len(needle.Buffer) == 0 {
			return ErrEmptyValue
		}
		if len(needle.Chain) == 0 {
			s.addValueBuffer(needle.Buffer)
		}
		s.insertNeedle(needle)
	}
	return nil
}

// addValueBuffer records an original value, deduplicated by
// fingerprint.
func (s *Searcher) addValueBuffer(value []byte) {
	fp := s.fingerprint(value)
	if s.valueSeen[fp] {
		return
	}
	s.valueSeen[fp] = true
	s.values = append(s.values, append([]byte(nil), value...))
}

// insertNeedle admits a needle to the search set, deduplicated by
// fingerprint, and keeps the minimum needle length current.
func (s *Searcher) insertNeedle(needle Needle) {
	fp := s.fingerprint(needle.Buffer)
	if s.needleSeen[fp] {
		return
	}
	s.needleSeen[fp] = true
	s.needles = append(s.needles, needle)
	if s.minNeedleLength == 0 || len(needle.Buffer) < s.minNeedleLength {
		s.minNeedleLength = len(needle.Buffer)
	}
}
