// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestHash_KnownDigests(t *testing.T) {
	tests := []struct {
		algorithm string
		wantHex   string
	}{
		{IDMD5, "900150983cd24fb0d6963f7d28e17f72"},
		{IDSHA1, "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{IDSHA256, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{IDSHA512, "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a" +
			"2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"},
	}
	for _, test := range tests {
		encodings := NewHash(test.algorithm).Encodings([]byte("abc"))
		if len(encodings) != 1 {
			t.Fatalf("%s: expected exactly one encoding, got %d", test.algorithm, len(encodings))
		}
		if got := hex.EncodeToString(encodings[0]); got != test.wantHex {
			t.Errorf("%s(abc) = %s, want %s", test.algorithm, got, test.wantHex)
		}
	}
}

func TestHash_Identity(t *testing.T) {
	if got := NewHash(IDSHA256).ID(); got != "sha256" {
		t.Errorf("ID() = %q, want sha256", got)
	}
	if got := NewHash(IDSHA256, WithDigestBytes(16)).ID(); got != "sha256/16" {
		t.Errorf("truncated ID() = %q, want sha256/16", got)
	}
}

func TestHash_Truncation(t *testing.T) {
	full := NewHash(IDSHA256).Encodings([]byte("abc"))[0]
	truncated := NewHash(IDSHA256, WithDigestBytes(16)).Encodings([]byte("abc"))[0]
	if len(truncated) != 16 {
		t.Fatalf("truncated digest is %d bytes, want 16", len(truncated))
	}
	if !bytes.Equal(truncated, full[:16]) {
		t.Error("truncated digest is not a prefix of the full digest")
	}
}

func TestHash_SurroundBytes(t *testing.T) {
	h := NewHash(IDSHA256, WithHashPrefix([]byte("salt:")), WithHashSuffix([]byte(":end")))
	got := h.Encodings([]byte("value"))[0]

	want := sha256.Sum256([]byte("salt:value:end"))
	if !bytes.Equal(got, want[:]) {
		t.Error("surround bytes were not concatenated around the value")
	}
}

func TestHash_NotReversible(t *testing.T) {
	var transformer Transformer = NewHash(IDMD5)
	if Reversible(transformer) {
		t.Error("hash transformer must not be reversible")
	}
	if _, ok := transformer.(Encoder); !ok {
		t.Error("hash transformer must encode")
	}
}

func TestHash_UnknownAlgorithmPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown algorithm")
		}
	}()
	NewHash("crc8")
}
