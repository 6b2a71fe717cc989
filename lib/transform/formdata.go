// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"bytes"
	"io"
	"mime/multipart"
	"strings"
)

// FormData is the decode-only multipart/form-data transformer. The
// boundary is recovered from the body itself — captured traffic often
// arrives without its Content-Type header — so the first line must be
// a dash-dash boundary delimiter per RFC 2046.
type FormData struct{}

// NewFormData constructs the multipart transformer.
func NewFormData() *FormData { return &FormData{} }

// ID returns "form-data".
func (f *FormData) ID() string { return IDFormData }

// bchars is the RFC 2046 boundary character repertoire.
const bchars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ'()+_,-./:=? "

// sniffBoundary validates that the first line of body is a boundary
// delimiter and returns the boundary. Multipart requires CRLF line
// endings; a body whose first line ends in a bare LF is not
// multipart.
func sniffBoundary(body []byte) (string, bool) {
	newline := bytes.IndexByte(body, '\n')
	if newline <= 0 || body[newline-1] != '\r' {
		return "", false
	}
	line := string(body[:newline-1])
	if !strings.HasPrefix(line, "--") {
		return "", false
	}
	// The delimiter line may carry trailing whitespace; the boundary
	// itself must be 1-70 bchars and must not end in a space.
	boundary := strings.TrimRight(line[2:], " \t")
	if boundary == "" || len(boundary) > 70 {
		return "", false
	}
	for i := 0; i < len(boundary); i++ {
		if !strings.ContainsRune(bchars, rune(boundary[i])) {
			return "", false
		}
	}
	return boundary, true
}

// ExtractDecode re-parses the buffer as multipart/form-data and
// yields the raw contents of each field and file as a separate
// buffer. Parts are read raw: quoted-printable transfer encoding is
// not supported and ends the sequence, as does a part without a
// Content-Disposition header or any mid-parse error. Whatever was
// extracted before the error is still yielded.
func (f *FormData) ExtractDecode(haystack []byte, minLen int) [][]byte {
	boundary, ok := sniffBoundary(haystack)
	if !ok {
		return nil
	}

	reader := multipart.NewReader(bytes.NewReader(haystack), boundary)
	var results [][]byte
	for {
		// NextRawPart keeps the Content-Transfer-Encoding header
		// visible and the body undecoded; NextPart would silently
		// decode quoted-printable, which this codec rejects.
		part, err := reader.NextRawPart()
		if err != nil {
			return results
		}
		if part.Header.Get("Content-Disposition") == "" {
			return results
		}
		if strings.EqualFold(part.Header.Get("Content-Transfer-Encoding"), "quoted-printable") {
			return results
		}
		content, err := io.ReadAll(part)
		if err != nil {
			return results
		}
		if len(content) > 0 && len(content) >= minLen {
			results = append(results, content)
		}
	}
}
