package compression

import (
	"bytes"
	"compress/flate"
	"testing"

	"github.com/andybalholm/brotli"

	"github.com/WhileEndless/go-httpresult/pkg/errors"
)

// TestDetect verifies content coding detection
func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected Coding
	}{
		{"gzip lowercase", "gzip", CodingGzip},
		{"gzip uppercase", "GZIP", CodingGzip},
		{"gzip with spaces", "  gzip  ", CodingGzip},
		{"x-gzip", "x-gzip", CodingGzip},
		{"deflate", "deflate", CodingDeflate},
		{"br", "br", CodingBrotli},
		{"brotli full name", "BROTLI", CodingBrotli},
		{"zstd", "zstd", CodingZstd},
		{"identity", "identity", CodingNone},
		{"empty string", "", CodingNone},
		{"unknown", "compress", CodingUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Detect(tt.token); result != tt.expected {
				t.Errorf("Detect(%q) = %v, expected %v", tt.token, result, tt.expected)
			}
		})
	}
}

// TestRoundTrip verifies every coding decodes what Encode produced
func TestRoundTrip(t *testing.T) {
	original := []byte("Hello, this is a test message for content coding! Grüße.")

	for _, coding := range []Coding{CodingGzip, CodingDeflate, CodingBrotli, CodingZstd} {
		t.Run(coding.String(), func(t *testing.T) {
			encoded, err := Encode(original, coding)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if bytes.Equal(encoded, original) {
				t.Fatalf("Encode returned the input unchanged")
			}

			decoded, err := Decode(encoded, coding)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !bytes.Equal(decoded, original) {
				t.Errorf("Decoded data doesn't match original.\nExpected: %s\nGot: %s", original, decoded)
			}
		})
	}
}

// TestDecodeRawDeflate verifies deflate streams without a zlib wrapper are accepted
func TestDecodeRawDeflate(t *testing.T) {
	original := []byte("raw deflate without zlib header")

	var buf bytes.Buffer
	writer, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("Failed to create deflate writer: %v", err)
	}
	writer.Write(original)
	writer.Close()

	decoded, err := Decode(buf.Bytes(), CodingDeflate)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Errorf("Expected %q, got %q", original, decoded)
	}
}

// TestDecodeChain verifies stacked codings are removed last-applied first
func TestDecodeChain(t *testing.T) {
	original := []byte("stacked codings")

	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	bw.Write(original)
	bw.Close()

	gzipped, err := Encode(buf.Bytes(), CodingGzip)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := DecodeChain(gzipped, "br, identity, gzip")
	if err != nil {
		t.Fatalf("DecodeChain failed: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Errorf("Expected %q, got %q", original, decoded)
	}

	if got := Chain(" identity , gzip,,"); len(got) != 1 || got[0] != "gzip" {
		t.Errorf("Chain returned %v", got)
	}
}

// TestDecodeErrors verifies failures are reported as ContentDecodingFailed
func TestDecodeErrors(t *testing.T) {
	if _, err := Decode([]byte("not gzip at all"), CodingGzip); !errors.IsDecodeError(err) {
		t.Errorf("Expected ContentDecodingFailed, got %v", err)
	}

	_, err := DecodeChain([]byte("data"), "compress")
	kind, ok := errors.KindOf(err)
	if !ok || kind != errors.KindContentDecodingFailed {
		t.Errorf("Expected ContentDecodingFailed for unknown coding, got %v", err)
	}

	// Empty data and identity are passed through untouched
	if out, err := DecodeChain(nil, "gzip"); err != nil || out != nil {
		t.Errorf("Expected nil passthrough, got %v, %v", out, err)
	}
	if out, _ := DecodeChain([]byte("x"), ""); string(out) != "x" {
		t.Errorf("Expected passthrough, got %q", out)
	}
}
