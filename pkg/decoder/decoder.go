// Package decoder validates response bodies against their declared charset and
// converts them into a caller-chosen target encoding.
//
// All functions are pure: the same body, charset and target always give the same
// result, and nothing here performs I/O or reads process-wide state.
package decoder

import (
	stderrors "errors"

	"github.com/WhileEndless/go-httpresult/pkg/charset"
	"github.com/WhileEndless/go-httpresult/pkg/errors"
)

// DefaultTarget is used when no target encoding is given
const DefaultTarget = charset.UTF8

// Mode selects how unrepresentable characters are handled
type Mode int

const (
	// Strict fails with NonRepresentableBody on any character the target lacks
	Strict Mode = iota
	// Lossy substitutes charset.Placeholder instead
	Lossy
)

func (m Mode) String() string {
	if m == Lossy {
		return "lossy"
	}
	return "strict"
}

// Decodable reports whether Decode would succeed. It runs the strict conversion
// and discards the result; callers that go on to use the text should call Decode
// directly or go through a response.Record, which caches it. A nil body
// (streamed to a file by the transfer engine) is always decodable.
func Decodable(body []byte, declared, target string) bool {
	if body == nil {
		return true
	}
	_, err := DecodeMode(body, declared, target, Strict)
	return err == nil
}

// Decode converts body from the declared charset into target, failing on any
// mismatch. An empty declared charset means opaque binary; an empty target
// means DefaultTarget. The result holds bytes in the target encoding.
func Decode(body []byte, declared, target string) (string, error) {
	return DecodeMode(body, declared, target, Strict)
}

// DecodeLossy is Decode for diagnostic paths: body bytes must still be valid
// under the declared charset, but characters the target cannot carry become
// charset.Placeholder.
func DecodeLossy(body []byte, declared, target string) (string, error) {
	return DecodeMode(body, declared, target, Lossy)
}

// DecodeMode is the shared implementation of Decode and DecodeLossy
func DecodeMode(body []byte, declared, target string, mode Mode) (string, error) {
	if body == nil {
		return "", nil
	}
	if target == "" {
		target = DefaultTarget
	}

	src, err := charset.Lookup(declared)
	if err != nil {
		return "", err
	}
	dst, err := charset.Lookup(target)
	if err != nil {
		var cerr *errors.Error
		if stderrors.As(err, &cerr) {
			err = cerr.Err
		}
		return "", errors.UnsupportedTarget(target, err)
	}

	lossy := mode == Lossy

	// Same charset on both sides: nothing to convert, validity is all that matters
	if src.Name() == dst.Name() {
		if _, err := src.Decode(body, true); err != nil {
			return "", errors.InvalidBytes(declaredName(declared, src))
		}
		return string(body), nil
	}

	text, err := src.Decode(body, lossy)
	switch {
	case stderrors.Is(err, charset.ErrInvalidBytes):
		return "", errors.InvalidBytes(declaredName(declared, src))
	case err != nil:
		return "", errors.NonRepresentableBody(src.Name(), dst.Name())
	}

	out, err := dst.Encode(text, lossy)
	if err != nil {
		return "", errors.NonRepresentableBody(src.Name(), dst.Name())
	}
	return string(out), nil
}

func declaredName(declared string, codec charset.Codec) string {
	if declared == "" {
		return codec.Name()
	}
	return declared
}
