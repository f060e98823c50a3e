// Package errors defines the closed set of failures surfaced while interpreting
// a completed HTTP transfer.
package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind identifies a failure mode
type Kind int

const (
	// KindMalformedHeaderSequence: a header line appeared with no status line open
	KindMalformedHeaderSequence Kind = iota + 1
	// KindHeaderCharsetInvalid: the charset is unknown or the body is not valid in it
	KindHeaderCharsetInvalid
	// KindNonRepresentableBody: the body is valid but cannot be converted losslessly
	KindNonRepresentableBody
	// KindUnsupportedTarget: the caller asked for a target encoding that cannot be used
	KindUnsupportedTarget
	// KindContentDecodingFailed: a Content-Encoding could not be removed from the body
	KindContentDecodingFailed
)

func (k Kind) String() string {
	switch k {
	case KindMalformedHeaderSequence:
		return "MalformedHeaderSequence"
	case KindHeaderCharsetInvalid:
		return "HeaderCharsetInvalid"
	case KindNonRepresentableBody:
		return "NonRepresentableBody"
	case KindUnsupportedTarget:
		return "UnsupportedTarget"
	case KindContentDecodingFailed:
		return "ContentDecodingFailed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the structured error returned by every package in this module.
// Only the fields relevant to Kind are populated.
type Error struct {
	Kind Kind

	// Line and LineNo locate the offending header line (MalformedHeaderSequence)
	Line   string
	LineNo int

	// Declared is the charset name as asserted by the server or caller (HeaderCharsetInvalid)
	Declared string
	// Unknown is set when Declared names no usable encoding, as opposed to bytes
	// that are not valid under a known one
	Unknown bool

	// Source and Target name the encodings of a failed conversion (NonRepresentableBody).
	// For ContentDecodingFailed, Source holds the content coding.
	Source string
	Target string

	// Err is the underlying cause, if any
	Err error
}

// Sentinels for use with errors.Is
var (
	ErrMalformedHeaderSequence = &Error{Kind: KindMalformedHeaderSequence}
	ErrHeaderCharsetInvalid    = &Error{Kind: KindHeaderCharsetInvalid}
	ErrNonRepresentableBody    = &Error{Kind: KindNonRepresentableBody}
	ErrUnsupportedTarget       = &Error{Kind: KindUnsupportedTarget}
	ErrContentDecodingFailed   = &Error{Kind: KindContentDecodingFailed}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindMalformedHeaderSequence:
		switch {
		case e.LineNo > 0:
			return fmt.Sprintf("httpresult: header line %d (%q) does not follow an HTTP status line", e.LineNo, e.Line)
		case e.Line == "":
			return "httpresult: malformed header block" + e.cause()
		}
		return fmt.Sprintf("httpresult: header %q does not follow an HTTP status line%s", e.Line, e.cause())
	case KindHeaderCharsetInvalid:
		if e.Unknown {
			return fmt.Sprintf("httpresult: charset %q is not supported%s", e.Declared, e.cause())
		}
		return fmt.Sprintf("httpresult: body is not valid %s, the declared charset does not match its bytes", e.Declared)
	case KindNonRepresentableBody:
		return fmt.Sprintf("httpresult: %s body cannot be represented losslessly in %s", e.Source, e.Target)
	case KindUnsupportedTarget:
		return fmt.Sprintf("httpresult: target encoding %q is not supported%s", e.Target, e.cause())
	case KindContentDecodingFailed:
		return fmt.Sprintf("httpresult: cannot remove %q content coding%s", e.Source, e.cause())
	default:
		return "httpresult: " + e.Kind.String() + e.cause()
	}
}

func (e *Error) cause() string {
	if e.Err == nil {
		return ""
	}
	return ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so the sentinels above work with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// MalformedHeaderSequence reports a header line seen before any status line
func MalformedHeaderSequence(line string, lineNo int) *Error {
	return &Error{Kind: KindMalformedHeaderSequence, Line: line, LineNo: lineNo}
}

// MalformedHeaderBlock reports a binary header block that cannot be rendered
// as a status line plus header lines
func MalformedHeaderBlock(cause error) *Error {
	return &Error{Kind: KindMalformedHeaderSequence, Err: cause}
}

// UnknownCharset reports a charset name that resolves to no encoding
func UnknownCharset(declared string, cause error) *Error {
	return &Error{Kind: KindHeaderCharsetInvalid, Declared: declared, Unknown: true, Err: cause}
}

// InvalidBytes reports a body whose bytes are not valid under the declared charset
func InvalidBytes(declared string) *Error {
	return &Error{Kind: KindHeaderCharsetInvalid, Declared: declared}
}

// NonRepresentableBody reports a lossless conversion that cannot be performed
func NonRepresentableBody(source, target string) *Error {
	return &Error{Kind: KindNonRepresentableBody, Source: source, Target: target}
}

// UnsupportedTarget reports a target encoding name that resolves to no encoding
func UnsupportedTarget(target string, cause error) *Error {
	return &Error{Kind: KindUnsupportedTarget, Target: target, Err: cause}
}

// ContentDecodingFailed reports a content coding that could not be removed
func ContentDecodingFailed(coding string, cause error) *Error {
	return &Error{Kind: KindContentDecodingFailed, Source: coding, Err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain
func KindOf(err error) (Kind, bool) {
	var e *Error
	if pkgerrors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsParseError checks if an error aborted header parsing
func IsParseError(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindMalformedHeaderSequence
}

// IsDecodeError checks if an error came from decoding a body
func IsDecodeError(err error) bool {
	k, ok := KindOf(err)
	return ok && k != KindMalformedHeaderSequence
}
