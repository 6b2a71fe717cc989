// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package searcher

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/leakprobe/leakprobe/lib/fingerprint"
	"github.com/leakprobe/leakprobe/lib/transform"
)

// findConfig is the resolved configuration of one FindValueIn call.
type findConfig struct {
	maxDecodeLayers int
	decoders        []transform.Decoder
}

// FindOption configures one FindValueIn call.
type FindOption func(*findConfig)

// WithMaxDecodeLayers bounds how many decoding layers are peeled off
// the haystack. Zero restricts the search to literal containment. The
// default is 10.
func WithMaxDecodeLayers(layers int) FindOption {
	return func(c *findConfig) { c.maxDecodeLayers = layers }
}

// WithDecoders replaces the decoder set used for this search. The
// default is every default transformer that can decode.
func WithDecoders(decoders ...transform.Decoder) FindOption {
	return func(c *findConfig) { c.decoders = append([]transform.Decoder(nil), decoders...) }
}

// FindValueIn searches haystack for any added value in any encoded
// form. On a hit it returns the decoder chain, outermost first; an
// empty chain with found true means the haystack contains a value
// literally. found false means nothing surfaced within the decode
// budget. The only errors are ErrNoValues, a cancelled context, and a
// panicking codec surfaced as an error.
//
// FindValueIn is safe to call concurrently with other FindValueIn
// calls on the same searcher.
func (s *Searcher) FindValueIn(ctx context.Context, haystack []byte, options ...FindOption) (chain []string, found bool, err error) {
	if len(s.needles) == 0 {
		return nil, false, ErrNoValues
	}
	config := findConfig{
		maxDecodeLayers: 10,
		decoders:        transform.DecodersOf(s.transformers),
	}
	for _, option := range options {
		option(&config)
	}

	seen := &layerSeen{
		fingerprint: s.fingerprint,
		seen:        make(map[uint64]int),
	}
	return s.findImpl(ctx, haystack, config.maxDecodeLayers, config.decoders, s.minEncodedLength(config.decoders), seen)
}

// minEncodedLength lower-bounds how short an encoded needle can be:
// the shortest needle, further lowered by what a compressing decoder
// could shrink any value to. Decoders use it to discard trivially
// short matches; it is a heuristic bound, never an excuse to reject a
// match that could decode to something longer.
func (s *Searcher) minEncodedLength(decoders []transform.Decoder) int {
	shortest := s.minNeedleLength
	for _, decoder := range decoders {
		compressor, ok := decoder.(transform.Compressor)
		if !ok {
			continue
		}
		for _, value := range s.values {
			if length := compressor.CompressedLength(value); length >= 0 && length < shortest {
				shortest = length
			}
		}
	}
	return shortest
}

// findImpl is the recursive search. Each level scans for a literal
// needle first, then races one branch per decoder; each branch
// extracts candidates, filters them through the layer-aware seen map,
// and races the recursive search of each accepted candidate.
func (s *Searcher) findImpl(ctx context.Context, haystack []byte, layer int, decoders []transform.Decoder, minLen int, seen *layerSeen) ([]string, bool, error) {
	for i := range s.needles {
		if bytes.Contains(haystack, s.needles[i].Buffer) {
			return append([]string(nil), s.needles[i].Chain...), true, nil
		}
	}
	if layer == 0 {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	branches := make([]raceTask, 0, len(decoders))
	for _, decoder := range decoders {
		branches = append(branches, s.decoderBranch(decoder, haystack, layer, decoders, minLen, seen))
	}
	return race(ctx, branches)
}

// decoderBranch builds the race task for one decoder at one level.
func (s *Searcher) decoderBranch(decoder transform.Decoder, haystack []byte, layer int, decoders []transform.Decoder, minLen int, seen *layerSeen) raceTask {
	return func(ctx context.Context) ([]string, bool, error) {
		var sub []raceTask
		for _, candidate := range decoder.ExtractDecode(haystack, minLen) {
			if len(candidate) == 0 || !seen.admit(candidate, layer) {
				continue
			}
			candidate := candidate
			sub = append(sub, func(ctx context.Context) ([]string, bool, error) {
				return s.findImpl(ctx, candidate, layer-1, decoders, minLen, seen)
			})
		}
		chain, found, err := race(ctx, sub)
		if !found {
			return nil, false, err
		}
		full := make([]string, 0, len(chain)+1)
		full = append(full, decoder.ID())
		full = append(full, chain...)
		return full, true, nil
	}
}

// layerSeen is the per-search memo of decoded buffers, parameterized
// by the remaining layer budget. A buffer seen before is only worth
// revisiting with more budget than last time — a shallower visit may
// have been cut off before reaching full depth. Shared by every
// branch of one FindValueIn call, so access is serialized.
type layerSeen struct {
	fingerprint fingerprint.Func
	mu          sync.Mutex
	seen        map[uint64]int
}

// admit records buffer at the given layer budget and reports whether
// the branch should proceed.
func (l *layerSeen) admit(buffer []byte, layer int) bool {
	fp := l.fingerprint(buffer)
	l.mu.Lock()
	defer l.mu.Unlock()
	if previous, ok := l.seen[fp]; ok && previous >= layer {
		return false
	}
	l.seen[fp] = layer
	return true
}

// raceTask is one competitor in a race: it resolves to a chain, to
// not-found, or to an error.
type raceTask func(context.Context) ([]string, bool, error)

// race runs the tasks concurrently and resolves with the first
// positive result. Losing branches are cancelled once a winner is
// committed and their results discarded. When no branch wins, the
// race resolves
// not-found, surfacing the first branch failure if there was one. A
// panic inside a task is converted to an error rather than tearing
// down the process.
func race(parent context.Context, tasks []raceTask) ([]string, bool, error) {
	switch len(tasks) {
	case 0:
		return nil, false, nil
	case 1:
		// No competition; skip the goroutine round trip.
		return runRecovered(parent, tasks[0])
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	type outcome struct {
		chain []string
		found bool
		err   error
	}
	outcomes := make(chan outcome, len(tasks))
	for _, task := range tasks {
		task := task
		go func() {
			defer func() {
				if recovered := recover(); recovered != nil {
					outcomes <- outcome{err: fmt.Errorf("searcher: codec panic: %v", recovered)}
				}
			}()
			chain, found, err := task(ctx)
			outcomes <- outcome{chain: chain, found: found, err: err}
		}()
	}

	var firstErr error
	for remaining := len(tasks); remaining > 0; remaining-- {
		result := <-outcomes
		if result.found {
			return result.chain, true, nil
		}
		if result.err != nil && firstErr == nil {
			firstErr = result.err
		}
	}
	return nil, false, firstErr
}

// runRecovered runs one task on the calling goroutine, converting a
// panic to an error the same way the concurrent path does.
func runRecovered(ctx context.Context, task raceTask) (chain []string, found bool, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			chain, found, err = nil, false, fmt.Errorf("searcher: codec panic: %v", recovered)
		}
	}()
	return task(ctx)
}
