// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package searcher

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"mime/multipart"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
)

// End-to-end scenarios covering representative leak shapes observed
// in web traffic.

func TestScenario_Base64(t *testing.T) {
	s, err := FromValues([]byte("first"))
	if err != nil {
		t.Fatal(err)
	}
	chain, found := mustFind(t, s, []byte("Zmlyc3Q="))
	if !found || len(chain) != 1 || chain[0] != "base64" {
		t.Errorf("chain=%v found=%v, want [base64]", chain, found)
	}
}

func TestScenario_Hex(t *testing.T) {
	value := []byte("second1234567890")
	s, err := FromValues(value)
	if err != nil {
		t.Fatal(err)
	}
	chain, found := mustFind(t, s, []byte(hex.EncodeToString(value)))
	if !found || len(chain) != 1 || chain[0] != "hex" {
		t.Errorf("chain=%v found=%v, want [hex]", chain, found)
	}
}

func TestScenario_GzippedJSON(t *testing.T) {
	value := []byte("\"some value!\" 😎")
	s, err := FromValues(value)
	if err != nil {
		t.Fatal(err)
	}

	document, err := json.Marshal(map[string]string{
		"stuff": string(value),
		"more":  "idk",
	})
	if err != nil {
		t.Fatal(err)
	}
	var compressed bytes.Buffer
	writer := gzip.NewWriter(&compressed)
	if _, err := writer.Write(document); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	chain, found := mustFind(t, s, compressed.Bytes())
	if !found || len(chain) != 2 || chain[0] != "compress" || chain[1] != "json-string" {
		t.Errorf("chain=%v found=%v, want [compress json-string]", chain, found)
	}
}

func TestScenario_Base64OfDeflate(t *testing.T) {
	value := []byte("value")
	s := New()
	if err := s.AddValue(value, WithMaxEncodeLayers(0)); err != nil {
		t.Fatal(err)
	}

	var deflated bytes.Buffer
	writer, err := flate.NewWriter(&deflated, flate.DefaultCompression)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := writer.Write(bytes.Repeat(value, 100)); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	haystack := []byte("stuff=" + base64.StdEncoding.EncodeToString(deflated.Bytes()) + "; more=idk")
	chain, found := mustFind(t, s, haystack)
	if !found || len(chain) != 2 || chain[0] != "base64" || chain[1] != "compress" {
		t.Errorf("chain=%v found=%v, want [base64 compress]", chain, found)
	}
}

func TestScenario_DoubleHash(t *testing.T) {
	value := []byte("value2")
	s, err := FromValues(value)
	if err != nil {
		t.Fatal(err)
	}

	inner := sha256.Sum256(value)
	outer := sha256.Sum256(inner[:])
	chain, found := mustFind(t, s, outer[:])
	if !found || len(chain) != 2 || chain[0] != "sha256" || chain[1] != "sha256" {
		t.Errorf("chain=%v found=%v, want [sha256 sha256]", chain, found)
	}

	// One layer beyond the encode bound is invisible.
	triple := sha256.Sum256(outer[:])
	if chain, found := mustFind(t, s, triple[:]); found {
		t.Errorf("found %v for a triple hash with a two-layer bound", chain)
	}
}

func TestScenario_MultipartHexDigest(t *testing.T) {
	value := []byte("mail@example.com")
	s, err := FromValues(value)
	if err != nil {
		t.Fatal(err)
	}

	digest := sha256.Sum256(value)
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("email_hash", hex.EncodeToString(digest[:])); err != nil {
		t.Fatal(err)
	}
	if err := writer.WriteField("other", "irrelevant"); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	chain, found := mustFind(t, s, body.Bytes())
	if !found {
		t.Fatal("digest not found inside the multipart body")
	}
	// Both routes are sound: the hex run is visible to the hex
	// decoder directly, and through the form-data part contents.
	want := map[string]bool{
		"hex,sha256":           true,
		"form-data,hex,sha256": true,
	}
	if !want[joinChain(chain)] {
		t.Errorf("chain=%v, want one of [hex sha256] or [form-data hex sha256]", chain)
	}
}

// joinChain renders a chain for set membership checks.
func joinChain(chain []string) string {
	var builder bytes.Buffer
	for i, id := range chain {
		if i > 0 {
			builder.WriteByte(',')
		}
		builder.WriteString(id)
	}
	return builder.String()
}
