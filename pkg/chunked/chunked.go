// Package chunked removes chunked transfer coding from bodies handed over
// before the engine de-chunked them.
package chunked

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/WhileEndless/go-httpresult/pkg/headers"
)

// DefaultChunkSize is used by Encode when no positive size is given
const DefaultChunkSize = 8192

// Result is the outcome of Decode
type Result struct {
	Body []byte
	// Trailers are the header fields sent after the last chunk, in order
	Trailers headers.Map
	// Complete is false when the data ended before the terminating zero-size chunk
	Complete bool
}

// Decode removes chunked framing from data. Decoding is best effort: a
// truncated or malformed stream yields the chunks read so far with
// Complete unset. CRLF and bare LF line endings are both accepted.
func Decode(data []byte) Result {
	var (
		body bytes.Buffer
		rest = data
	)

	for len(rest) > 0 {
		line, next, ok := cutLine(rest)
		if !ok {
			break
		}

		sizeField, _, _ := strings.Cut(string(line), ";")
		size, err := strconv.ParseUint(strings.TrimSpace(sizeField), 16, 63)
		if err != nil {
			break
		}
		rest = next

		if size == 0 {
			return Result{Body: body.Bytes(), Trailers: trailers(rest), Complete: true}
		}

		if uint64(len(rest)) < size {
			body.Write(rest)
			break
		}
		body.Write(rest[:size])
		rest = rest[size:]

		switch {
		case bytes.HasPrefix(rest, []byte("\r\n")):
			rest = rest[2:]
		case bytes.HasPrefix(rest, []byte("\n")):
			rest = rest[1:]
		}
	}

	return Result{Body: body.Bytes(), Trailers: headers.NewMap(nil)}
}

func cutLine(data []byte) (line, rest []byte, ok bool) {
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		return nil, data, false
	}
	return bytes.TrimSuffix(data[:i], []byte("\r")), data[i+1:], true
}

func trailers(data []byte) headers.Map {
	var lines []string
	for len(data) > 0 {
		line, rest, ok := cutLine(data)
		if !ok {
			line, rest = data, nil
		}
		if len(line) == 0 {
			break
		}
		if bytes.IndexByte(line, ':') > 0 {
			lines = append(lines, string(line))
		}
		data = rest
	}
	return headers.NewMap(lines)
}

// Encode applies chunked framing to data using chunks of at most chunkSize
// bytes, followed by the given trailer lines
func Encode(data []byte, chunkSize int, trailerLines ...string) []byte {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	var out bytes.Buffer
	for len(data) > 0 {
		n := min(chunkSize, len(data))
		fmt.Fprintf(&out, "%x\r\n", n)
		out.Write(data[:n])
		out.WriteString("\r\n")
		data = data[n:]
	}

	out.WriteString("0\r\n")
	for _, line := range trailerLines {
		out.WriteString(line)
		out.WriteString("\r\n")
	}
	out.WriteString("\r\n")

	return out.Bytes()
}

// Declared reports whether a Transfer-Encoding value ends in the chunked coding
func Declared(transferEncoding string) bool {
	codings := strings.Split(transferEncoding, ",")
	last := strings.TrimSpace(codings[len(codings)-1])
	return strings.EqualFold(last, "chunked")
}
