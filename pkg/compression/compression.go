// Package compression removes (and, for fixtures and tooling, applies) HTTP
// content codings.
package compression

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	pkgerrors "github.com/pkg/errors"

	"github.com/WhileEndless/go-httpresult/pkg/errors"
)

// Coding represents a supported content coding
type Coding int

const (
	CodingNone Coding = iota
	CodingGzip
	CodingDeflate
	CodingBrotli
	CodingZstd
	CodingUnknown
)

// Detect maps one Content-Encoding token to a Coding.
// Supports: gzip, x-gzip, deflate, br, brotli, zstd, identity
func Detect(token string) Coding {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "gzip", "x-gzip":
		return CodingGzip
	case "deflate", "x-deflate":
		return CodingDeflate
	case "br", "brotli":
		return CodingBrotli
	case "zstd", "zstandard":
		return CodingZstd
	case "identity", "":
		return CodingNone
	default:
		return CodingUnknown
	}
}

// String converts a Coding to its Content-Encoding token
func (c Coding) String() string {
	switch c {
	case CodingGzip:
		return "gzip"
	case CodingDeflate:
		return "deflate"
	case CodingBrotli:
		return "br"
	case CodingZstd:
		return "zstd"
	case CodingNone:
		return "identity"
	default:
		return "unknown"
	}
}

// Chain parses a Content-Encoding header value into codings in the order they
// were applied. Identity entries are dropped.
func Chain(contentEncoding string) []string {
	var chain []string
	for _, part := range strings.Split(contentEncoding, ",") {
		token := strings.TrimSpace(part)
		if token == "" || Detect(token) == CodingNone {
			continue
		}
		chain = append(chain, token)
	}
	return chain
}

// DecodeChain removes every coding listed in a Content-Encoding value, last
// applied first. Unknown codings fail with ContentDecodingFailed.
func DecodeChain(data []byte, contentEncoding string) ([]byte, error) {
	chain := Chain(contentEncoding)
	for i := len(chain) - 1; i >= 0; i-- {
		coding := Detect(chain[i])
		if coding == CodingUnknown {
			return nil, errors.ContentDecodingFailed(chain[i], nil)
		}
		decoded, err := Decode(data, coding)
		if err != nil {
			return nil, err
		}
		data = decoded
	}
	return data, nil
}

// Decode removes a single coding
func Decode(data []byte, coding Coding) ([]byte, error) {
	if len(data) == 0 || coding == CodingNone {
		return data, nil
	}

	var (
		reader io.Reader
		err    error
	)
	switch coding {
	case CodingGzip:
		var gr *gzip.Reader
		gr, err = gzip.NewReader(bytes.NewReader(data))
		if err == nil {
			defer gr.Close()
			reader = gr
		}
	case CodingDeflate:
		reader = newDeflateReader(data)
	case CodingBrotli:
		reader = brotli.NewReader(bytes.NewReader(data))
	case CodingZstd:
		var zr *zstd.Decoder
		zr, err = zstd.NewReader(bytes.NewReader(data))
		if err == nil {
			defer zr.Close()
			reader = zr
		}
	default:
		return nil, errors.ContentDecodingFailed(coding.String(), nil)
	}
	if err != nil {
		return nil, errors.ContentDecodingFailed(coding.String(), pkgerrors.Wrap(err, "opening reader"))
	}

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.ContentDecodingFailed(coding.String(), pkgerrors.Wrap(err, "reading"))
	}
	return decoded, nil
}

// newDeflateReader accepts both zlib-wrapped deflate (what RFC 9110 specifies)
// and the raw deflate streams many servers send instead
func newDeflateReader(data []byte) io.Reader {
	if len(data) >= 2 && data[0]&0x0F == 8 && (uint16(data[0])<<8|uint16(data[1]))%31 == 0 {
		if zr, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
			return zr
		}
	}
	return flate.NewReader(bytes.NewReader(data))
}

// Encode applies a single coding
func Encode(data []byte, coding Coding) ([]byte, error) {
	if coding == CodingNone {
		return data, nil
	}

	var buf bytes.Buffer
	var w io.WriteCloser
	switch coding {
	case CodingGzip:
		w = gzip.NewWriter(&buf)
	case CodingDeflate:
		w = zlib.NewWriter(&buf)
	case CodingBrotli:
		w = brotli.NewWriter(&buf)
	case CodingZstd:
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "creating zstd writer")
		}
		w = zw
	default:
		return nil, pkgerrors.Errorf("cannot apply %s coding", coding)
	}

	if _, err := w.Write(data); err != nil {
		return nil, pkgerrors.Wrapf(err, "writing %s data", coding)
	}
	if err := w.Close(); err != nil {
		return nil, pkgerrors.Wrapf(err, "closing %s writer", coding)
	}
	return buf.Bytes(), nil
}
