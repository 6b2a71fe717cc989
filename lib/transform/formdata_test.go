// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"bytes"
	"mime/multipart"
	"strings"
	"testing"
)

// buildMultipart renders a canonical multipart/form-data body with
// CRLF line endings.
func buildMultipart(t *testing.T, boundary string, fields map[string]string, files map[string][]byte) []byte {
	t.Helper()
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	if err := writer.SetBoundary(boundary); err != nil {
		t.Fatalf("SetBoundary(%q): %v", boundary, err)
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	for name, content := range files {
		part, err := writer.CreateFormFile(name, name+".bin")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("writing file part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	return buffer.Bytes()
}

func TestFormData_FieldsAndFiles(t *testing.T) {
	body := buildMultipart(t, "boundary42",
		map[string]string{"email": "mail@example.com"},
		map[string][]byte{"blob": {0x00, 0x01, 0xFF}},
	)

	candidates := NewFormData().ExtractDecode(body, 0)
	if len(candidates) != 2 {
		t.Fatalf("got %d parts, want 2: %q", len(candidates), candidates)
	}
	if !containsBuffer(candidates, []byte("mail@example.com")) {
		t.Error("field contents missing from candidates")
	}
	if !containsBuffer(candidates, []byte{0x00, 0x01, 0xFF}) {
		t.Error("file contents missing from candidates")
	}
}

func TestFormData_NotMultipartRejected(t *testing.T) {
	inputs := [][]byte{
		[]byte("plain text body"),
		[]byte("--\r\nno boundary chars\r\n"),
		[]byte("--bad{boundary}\r\n"),
		[]byte("x=1&y=2"),
	}
	transformer := NewFormData()
	for _, input := range inputs {
		if candidates := transformer.ExtractDecode(input, 0); len(candidates) != 0 {
			t.Errorf("%q: yielded %q, want nothing", input, candidates)
		}
	}
}

func TestFormData_LFOnlyRejected(t *testing.T) {
	body := buildMultipart(t, "boundary42", map[string]string{"a": "b"}, nil)
	lfOnly := bytes.ReplaceAll(body, []byte("\r\n"), []byte("\n"))
	if candidates := NewFormData().ExtractDecode(lfOnly, 0); len(candidates) != 0 {
		t.Errorf("LF-only body yielded %q, want nothing", candidates)
	}
}

func TestFormData_MissingContentDispositionTruncates(t *testing.T) {
	body := strings.Join([]string{
		"--b1",
		`Content-Disposition: form-data; name="first"`,
		"",
		"value-one",
		"--b1",
		"Content-Type: text/plain",
		"",
		"orphan part",
		"--b1",
		`Content-Disposition: form-data; name="third"`,
		"",
		"value-three",
		"--b1--",
		"",
	}, "\r\n")

	candidates := NewFormData().ExtractDecode([]byte(body), 0)
	if len(candidates) != 1 || string(candidates[0]) != "value-one" {
		t.Errorf("expected truncation after the headerless part, got %q", candidates)
	}
}

func TestFormData_QuotedPrintableTruncates(t *testing.T) {
	body := strings.Join([]string{
		"--b1",
		`Content-Disposition: form-data; name="first"`,
		"",
		"value-one",
		"--b1",
		`Content-Disposition: form-data; name="second"`,
		"Content-Transfer-Encoding: quoted-printable",
		"",
		"value=3Dtwo",
		"--b1--",
		"",
	}, "\r\n")

	candidates := NewFormData().ExtractDecode([]byte(body), 0)
	if len(candidates) != 1 || string(candidates[0]) != "value-one" {
		t.Errorf("expected truncation at the quoted-printable part, got %q", candidates)
	}
}

func TestFormData_TrailingWhitespaceOnDelimiter(t *testing.T) {
	body := strings.Join([]string{
		"--b1  ",
		`Content-Disposition: form-data; name="a"`,
		"",
		"payload",
		"--b1--",
		"",
	}, "\r\n")

	candidates := NewFormData().ExtractDecode([]byte(body), 0)
	if !containsBuffer(candidates, []byte("payload")) {
		t.Errorf("delimiter with trailing whitespace rejected, got %q", candidates)
	}
}

func TestFormData_MinimumLength(t *testing.T) {
	body := buildMultipart(t, "boundary42",
		map[string]string{"short": "ab", "long": "long-enough-content"}, nil)
	candidates := NewFormData().ExtractDecode(body, 10)
	if len(candidates) != 1 || string(candidates[0]) != "long-enough-content" {
		t.Errorf("minLen filtering got %q", candidates)
	}
}
