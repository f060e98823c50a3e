package charset

import (
	"bytes"
	stderrors "errors"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/WhileEndless/go-httpresult/pkg/errors"
)

// Names of the codecs this package implements itself
const (
	Binary = "binary"
	UTF8   = "UTF-8"
	ASCII  = "US-ASCII"
)

// Placeholder is substituted for characters a lossy conversion cannot carry
const Placeholder = '?'

var (
	// ErrInvalidBytes is returned by Codec.Decode for bytes that are not well formed
	ErrInvalidBytes = stderrors.New("bytes are not valid in this charset")
	// ErrUnmappable is returned for characters that have no counterpart on the
	// other side of a conversion
	ErrUnmappable = stderrors.New("character cannot be mapped")
)

// Codec converts between a charset's bytes and Unicode text
type Codec interface {
	// Name is the canonical name of the charset
	Name() string
	// Decode converts b to text. It fails with ErrInvalidBytes when b is not well
	// formed, which lossy mode does not relax, and with ErrUnmappable when a
	// well-formed byte sequence has no Unicode equivalent, which lossy mode
	// replaces by Placeholder.
	Decode(b []byte, lossy bool) (string, error)
	// Encode converts text to the charset's bytes. It fails with ErrUnmappable
	// for characters outside the repertoire unless lossy is set.
	Encode(text string, lossy bool) ([]byte, error)
}

// Lookup resolves a charset name to a Codec. An empty name means opaque binary.
// Names are matched case-insensitively against the IANA registry first and the
// WHATWG encoding labels second.
func Lookup(name string) (Codec, error) {
	label := strings.ToLower(strings.TrimSpace(name))

	switch label {
	case "", "binary", "ascii-8bit":
		return byteCodec{name: Binary, validAbove7F: true}, nil
	case "utf-8", "utf8":
		return utf8Codec{}, nil
	case "us-ascii", "ascii", "ansi_x3.4-1968":
		return byteCodec{name: ASCII}, nil
	}

	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		var herr error
		enc, herr = htmlindex.Get(label)
		if herr != nil {
			if err == nil {
				err = herr
			}
			return nil, errors.UnknownCharset(name, pkgerrors.Wrapf(err, "looking up %q", label))
		}
	}

	canonical, err := ianaindex.MIME.Name(enc)
	if err != nil || canonical == "" {
		canonical, err = ianaindex.IANA.Name(enc)
	}
	if err != nil || canonical == "" {
		canonical = strings.ToUpper(label)
	}
	if canonical == UTF8 {
		return utf8Codec{}, nil
	}

	return textCodec{name: canonical, enc: enc}, nil
}

// utf8Codec is the identity codec for Go's native text
type utf8Codec struct{}

func (utf8Codec) Name() string { return UTF8 }

func (utf8Codec) Decode(b []byte, _ bool) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidBytes
	}
	return string(b), nil
}

func (utf8Codec) Encode(text string, _ bool) ([]byte, error) {
	return []byte(text), nil
}

// byteCodec covers US-ASCII and opaque binary. Both only map bytes below 0x80 to
// characters; binary additionally accepts higher bytes as well formed data that
// simply has no textual meaning.
type byteCodec struct {
	name         string
	validAbove7F bool
}

func (c byteCodec) Name() string { return c.name }

func (c byteCodec) Decode(b []byte, lossy bool) (string, error) {
	var sb strings.Builder
	sb.Grow(len(b))

	for _, ch := range b {
		if ch < utf8.RuneSelf {
			sb.WriteByte(ch)
			continue
		}
		if !c.validAbove7F {
			return "", ErrInvalidBytes
		}
		if !lossy {
			return "", ErrUnmappable
		}
		sb.WriteRune(Placeholder)
	}

	return sb.String(), nil
}

func (c byteCodec) Encode(text string, lossy bool) ([]byte, error) {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		if r < utf8.RuneSelf {
			out = append(out, byte(r))
			continue
		}
		if !lossy {
			return nil, ErrUnmappable
		}
		out = append(out, Placeholder)
	}
	return out, nil
}

// textCodec wraps an x/text encoding
type textCodec struct {
	name string
	enc  encoding.Encoding
}

func (c textCodec) Name() string { return c.name }

// Decode relies on x/text decoders emitting U+FFFD for malformed input. A body
// that legitimately carries U+FFFD in a UTF-16 encoding is therefore reported as
// invalid. Single-byte charsets have no malformed input, only bytes without a
// mapping, so those are decoded byte by byte.
func (c textCodec) Decode(b []byte, lossy bool) (string, error) {
	if cm, ok := c.enc.(*charmap.Charmap); ok {
		return decodeCharmap(cm, b, lossy)
	}

	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
		return "", ErrInvalidBytes
	}
	return string(out), nil
}

func decodeCharmap(cm *charmap.Charmap, b []byte, lossy bool) (string, error) {
	var sb strings.Builder
	sb.Grow(len(b))

	for _, ch := range b {
		r := cm.DecodeByte(ch)
		if r == utf8.RuneError {
			if !lossy {
				return "", ErrUnmappable
			}
			r = Placeholder
		}
		sb.WriteRune(r)
	}

	return sb.String(), nil
}

func (c textCodec) Encode(text string, lossy bool) ([]byte, error) {
	out, err := c.enc.NewEncoder().Bytes([]byte(text))
	if err == nil {
		return out, nil
	}
	if !lossy {
		return nil, ErrUnmappable
	}

	placeholder, err := c.enc.NewEncoder().Bytes([]byte{Placeholder})
	if err != nil {
		return nil, ErrUnmappable
	}

	// Slow path, one rune at a time, only taken once something failed to map
	enc := c.enc.NewEncoder()
	out = out[:0]
	buf := make([]byte, utf8.UTFMax)
	for _, r := range text {
		n := utf8.EncodeRune(buf, r)
		chunk, err := enc.Bytes(buf[:n])
		if err != nil {
			out = append(out, placeholder...)
			continue
		}
		out = append(out, chunk...)
	}
	return out, nil
}
