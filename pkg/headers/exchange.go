package headers

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/WhileEndless/go-httpresult/pkg/errors"
)

// statusLineRe matches "HTTP/<version> <3-digit code>[ <reason phrase>]".
// Versions without a minor part ("HTTP/2 200") are accepted.
var statusLineRe = regexp.MustCompile(`^HTTP/(\d(?:\.\d)?) (\d{3})(?: (.*))?$`)

// Exchange holds the status line and header lines of one physical HTTP exchange
// found in an accumulated header blob
type Exchange struct {
	StatusLine string   // Verbatim, minus trailing whitespace
	Lines      []string // Header lines in arrival order, trimmed
}

// Version returns the protocol part of the status line (HTTP/1.1, HTTP/2, ...)
func (e Exchange) Version() string {
	if m := statusLineRe.FindStringSubmatch(e.StatusLine); m != nil {
		return "HTTP/" + m[1]
	}
	return ""
}

// StatusCode returns the numeric status of the exchange, or 0 if the status line
// cannot be read
func (e Exchange) StatusCode() int {
	m := statusLineRe.FindStringSubmatch(e.StatusLine)
	if m == nil {
		return 0
	}
	code, _ := strconv.Atoi(m[2])
	return code
}

// Reason returns the reason phrase, which may be empty (HTTP/2 has none)
func (e Exchange) Reason() string {
	if m := statusLineRe.FindStringSubmatch(e.StatusLine); m != nil {
		return strings.TrimSpace(m[3])
	}
	return ""
}

// IsStatusLine reports whether line opens a new exchange
func IsStatusLine(line string) bool {
	return statusLineRe.MatchString(strings.TrimRight(line, " \t"))
}

// IsHeaderLine reports whether line has the shape <token>:<rest>
func IsHeaderLine(line string) bool {
	colonPos := strings.IndexByte(line, ':')
	if colonPos <= 0 {
		return false
	}
	return httpguts.ValidHeaderFieldName(line[:colonPos])
}

// ParseExchanges splits the concatenated header blocks a transfer engine saw while
// completing one logical request (proxy CONNECT responses, redirect hops and the
// final response, in that order) into one Exchange per status line.
//
// Lines may end in CRLF, LF or a lone CR and the last line may lack a terminator.
// Blank lines only separate blocks. Lines that are neither status nor header lines
// are skipped. A header line seen before any status line aborts the parse with a
// MalformedHeaderSequence error and no partial result.
func ParseExchanges(data []byte) ([]Exchange, error) {
	exchanges := make([]Exchange, 0, 1)
	lineNo := 0

	i := 0
	for i < len(data) {
		lineStart := i
		lineEnd := i
		for lineEnd < len(data) && data[lineEnd] != '\n' && data[lineEnd] != '\r' {
			lineEnd++
		}

		next := lineEnd
		if next < len(data) && data[next] == '\r' {
			next++
		}
		if next < len(data) && data[next] == '\n' {
			next++
		}
		i = next
		lineNo++

		line := strings.TrimSpace(string(data[lineStart:lineEnd]))
		if line == "" {
			continue
		}

		if IsStatusLine(line) {
			exchanges = append(exchanges, Exchange{StatusLine: line, Lines: []string{}})
			continue
		}

		if IsHeaderLine(line) {
			if len(exchanges) == 0 {
				return nil, errors.MalformedHeaderSequence(line, lineNo)
			}
			last := &exchanges[len(exchanges)-1]
			last.Lines = append(last.Lines, line)
		}
		// Anything else is noise injected by an intermediary
	}

	return exchanges, nil
}

// ParseExchangesString is ParseExchanges for a string blob
func ParseExchangesString(data string) ([]Exchange, error) {
	return ParseExchanges([]byte(data))
}

// Final returns the last exchange, which is the one exposed as the logical response
func Final(exchanges []Exchange) (Exchange, bool) {
	if len(exchanges) == 0 {
		return Exchange{}, false
	}
	return exchanges[len(exchanges)-1], true
}
