// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// Base64Dialect is the choice of the two non-alphanumeric digits and
// the optional padding character. Pad zero means the dialect is
// unpadded.
type Base64Dialect struct {
	D62 byte
	D63 byte
	Pad byte
}

// Preset dialects. The LZ-String URI dialect is (+,-) with no pad,
// matching what the lz-string library actually emits for its
// EncodedURIComponent variant.
var (
	DialectStandard = Base64Dialect{D62: '+', D63: '/', Pad: '='}
	DialectUnpadded = Base64Dialect{D62: '+', D63: '/'}
	DialectURLSafe  = Base64Dialect{D62: '-', D63: '_'}
	DialectLZURI    = Base64Dialect{D62: '+', D63: '-'}
)

// standardAlphabet reports whether the dialect uses the standard
// digit pair, urlSafe whether it uses the URL-safe pair.
func (d Base64Dialect) standardAlphabet() bool { return d.D62 == '+' && d.D63 == '/' }
func (d Base64Dialect) urlSafe() bool          { return d.D62 == '-' && d.D63 == '_' }

// Base64 is the reversible, substring-capable base64 transformer.
//
// Decoding scans for maximal digit runs per dialect with
// lookaround-anchored token grammars, repairs ragged (non-4-aligned)
// tails so that trailing bits survive the trip through a canonical
// decoder, and optionally retries each token at the first three
// character offsets to recover values embedded at a non-aligned byte
// offset inside a larger base64 stream.
type Base64 struct {
	dialects    []Base64Dialect
	skipOffsets bool
	matchers    []base64Matcher
}

type base64Matcher struct {
	dialect Base64Dialect
	pattern *regexp2.Regexp
}

// Base64Option configures a Base64 transformer.
type Base64Option func(*Base64)

// WithDialects replaces the default dialect set.
func WithDialects(dialects ...Base64Dialect) Base64Option {
	return func(b *Base64) { b.dialects = append([]Base64Dialect(nil), dialects...) }
}

// WithOffsetSkip enables retrying each unpadded token with its first
// one, two and three characters dropped. Six bits per character means
// the four offsets cover every byte phase, so a value starting at an
// arbitrary byte offset inside a truncated base64 stream still
// surfaces. This inflates search cost noticeably and is only sound
// for unpadded dialects, so it is off by default.
func WithOffsetSkip() Base64Option {
	return func(b *Base64) { b.skipOffsets = true }
}

// NewBase64 constructs the base64 transformer. The default dialect
// set is standard, unpadded, URL-safe and LZ-String-URI.
func NewBase64(options ...Base64Option) *Base64 {
	b := &Base64{
		dialects: []Base64Dialect{DialectStandard, DialectUnpadded, DialectURLSafe, DialectLZURI},
	}
	for _, option := range options {
		option(b)
	}
	b.matchers = buildMatchers(b.dialects)
	return b
}

// buildMatchers compiles one token pattern per decode-relevant
// dialect. A padded dialect whose digit pair is also present unpadded
// is skipped: every padded token body is matched by the unpadded
// grammar, and the tail repair reconstructs what the padding said.
func buildMatchers(dialects []Base64Dialect) []base64Matcher {
	unpaddedPairs := make(map[[2]byte]bool)
	for _, dialect := range dialects {
		if dialect.Pad == 0 {
			unpaddedPairs[[2]byte{dialect.D62, dialect.D63}] = true
		}
	}

	var matchers []base64Matcher
	for _, dialect := range dialects {
		if dialect.Pad != 0 && unpaddedPairs[[2]byte{dialect.D62, dialect.D63}] {
			continue
		}
		digits := `A-Za-z0-9` + escapeRegexByte(dialect.D62) + escapeRegexByte(dialect.D63)
		var pattern string
		if dialect.Pad == 0 {
			pattern = fmt.Sprintf(`(?<![%s])[%s]+(?![%s])`, digits, digits, digits)
		} else {
			pad := escapeRegexByte(dialect.Pad)
			pattern = fmt.Sprintf(
				`(?<![%s])(?:[%s]{4})*(?:[%s]{4}|[%s]{3}%s|[%s]{2}%s{2}|[%s]%s{3})(?![%s%s])`,
				digits, digits, digits, digits, pad, digits, pad, digits, pad, digits, pad)
		}
		matchers = append(matchers, base64Matcher{
			dialect: dialect,
			pattern: regexp2.MustCompile(pattern, regexp2.None),
		})
	}
	return matchers
}

// escapeRegexByte renders a byte as a hex escape that is safe both
// inside and outside a character class.
func escapeRegexByte(c byte) string {
	return fmt.Sprintf(`\x%02x`, c)
}

// ID returns "base64".
func (b *Base64) ID() string { return IDBase64 }

// Encodings emits one buffer per configured dialect: the canonical
// standard encoding with the dialect's digit substitutions applied,
// and padding omitted for unpadded dialects.
func (b *Base64) Encodings(value []byte) [][]byte {
	canonical := base64.StdEncoding.EncodeToString(value)
	outputs := make([][]byte, 0, len(b.dialects))
	for _, dialect := range b.dialects {
		encoded := make([]byte, 0, len(canonical))
		for i := 0; i < len(canonical); i++ {
			switch canonical[i] {
			case '+':
				encoded = append(encoded, dialect.D62)
			case '/':
				encoded = append(encoded, dialect.D63)
			case '=':
				if dialect.Pad != 0 {
					encoded = append(encoded, dialect.Pad)
				}
			default:
				encoded = append(encoded, canonical[i])
			}
		}
		outputs = append(outputs, encoded)
	}
	return outputs
}

// ExtractDecode scans haystack for base64 tokens in every decode
// dialect and yields their decoded bytes. CR and LF are stripped
// before matching so that line-wrapped MIME-style output still forms
// one token.
func (b *Base64) ExtractDecode(haystack []byte, minLen int) [][]byte {
	text := strings.NewReplacer("\r", "", "\n", "").Replace(latin1String(haystack))

	var results [][]byte
	for _, matcher := range b.matchers {
		match, err := matcher.pattern.FindStringMatch(text)
		for err == nil && match != nil {
			results = b.decodeToken(results, match.String(), matcher.dialect, minLen)
			match, err = matcher.pattern.FindNextMatch(match)
		}
	}
	return results
}

// decodeToken appends the decodings of one matched token to results.
func (b *Base64) decodeToken(results [][]byte, token string, dialect Base64Dialect, minLen int) [][]byte {
	if len(token) < minLen {
		return results
	}
	if dialect.Pad != 0 {
		token = strings.TrimRight(token, string(dialect.Pad))
	}
	if !dialect.standardAlphabet() && !dialect.urlSafe() {
		token = remapDigits(token, dialect)
	}

	offsets := 1
	if b.skipOffsets && dialect.Pad == 0 {
		offsets = 4
	}
	for skip := 0; skip < offsets && skip < len(token); skip++ {
		decoded, ok := decodeRagged(token[skip:], dialect.urlSafe())
		if ok && len(decoded) > 0 {
			results = append(results, decoded)
		}
	}
	return results
}

// remapDigits rewrites a non-standard digit pair to the standard one
// so the token can go through the standard decoder.
func remapDigits(token string, dialect Base64Dialect) string {
	mapped := []byte(token)
	for i, c := range mapped {
		switch c {
		case dialect.D62:
			mapped[i] = '+'
		case dialect.D63:
			mapped[i] = '/'
		}
	}
	return string(mapped)
}

// decodeRagged decodes a possibly non-4-aligned token. When the token
// length is not a multiple of four, the final digit may carry bits
// that a canonical decoder would reject or drop. If any of those low
// bits are set — or the token length is 1 mod 4, which no canonical
// encoding produces — an all-zero digit is appended so the bits
// survive as one extra output byte. LZ-String base64 tails depend on
// this recovery.
func decodeRagged(token string, urlSafe bool) ([]byte, bool) {
	if remainder := len(token) % 4; remainder != 0 {
		bitsDropped := (len(token) * 6) % 8
		digit := digitValue(token[len(token)-1], urlSafe)
		if digit < 0 {
			return nil, false
		}
		if digit&((1<<bitsDropped)-1) != 0 || remainder == 1 {
			token += "A"
		}
	}
	encoding := base64.RawStdEncoding
	if urlSafe {
		encoding = base64.RawURLEncoding
	}
	decoded, err := encoding.DecodeString(token)
	if err != nil {
		return nil, false
	}
	return decoded, true
}

const base64DigitOrder = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// digitValue returns the 6-bit value of a base64 digit, or -1 for a
// byte outside the alphabet.
func digitValue(c byte, urlSafe bool) int {
	if index := strings.IndexByte(base64DigitOrder, c); index >= 0 {
		return index
	}
	switch {
	case !urlSafe && c == '+', urlSafe && c == '-':
		return 62
	case !urlSafe && c == '/', urlSafe && c == '_':
		return 63
	}
	return -1
}
