// Package http2 turns HPACK-encoded response header blocks into the textual
// status-line-plus-headers form that headers.ParseExchanges reads, so engines
// speaking HTTP/2 can feed the same pipeline as HTTP/1.x ones.
package http2

import (
	"strings"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/net/http2/hpack"

	"github.com/WhileEndless/go-httpresult/pkg/errors"
)

// DefaultTableSize is the HPACK dynamic table size both peers start with
const DefaultTableSize = 4096

// Transcoder renders the header blocks of one HTTP/2 connection. HPACK keeps a
// dynamic table across blocks, so blocks must be fed in the order they were
// received on the connection. A Transcoder is not safe for concurrent use.
type Transcoder struct {
	dec *hpack.Decoder
}

// NewTranscoder creates a Transcoder with the default dynamic table size
func NewTranscoder() *Transcoder {
	return &Transcoder{dec: hpack.NewDecoder(DefaultTableSize, nil)}
}

// SetMaxTableSize mirrors a SETTINGS_HEADER_TABLE_SIZE sent by the client
func (t *Transcoder) SetMaxTableSize(size uint32) {
	t.dec.SetAllowedMaxDynamicTableSize(size)
}

// AppendBlock decodes one complete response header block (HEADERS plus any
// CONTINUATION payloads) and appends "HTTP/2 <status>", one "name: value" line
// per field and a blank separator line to dst.
func (t *Transcoder) AppendBlock(dst, block []byte) ([]byte, error) {
	fields, err := t.dec.DecodeFull(block)
	if err != nil {
		return dst, errors.MalformedHeaderBlock(pkgerrors.Wrap(err, "decoding HPACK block"))
	}
	return appendFields(dst, fields)
}

// AppendHeaderBlock decodes a standalone header block with a fresh dynamic
// table. Use a Transcoder for blocks that share one connection.
func AppendHeaderBlock(dst, block []byte) ([]byte, error) {
	return NewTranscoder().AppendBlock(dst, block)
}

// AppendFields renders already decoded fields the same way AppendBlock does
func AppendFields(dst []byte, fields []hpack.HeaderField) ([]byte, error) {
	return appendFields(dst, fields)
}

func appendFields(dst []byte, fields []hpack.HeaderField) ([]byte, error) {
	var (
		status string
		lines  []string
	)

	for _, f := range fields {
		if f.IsPseudo() {
			if f.Name == ":status" && status == "" && len(lines) == 0 {
				status = f.Value
			}
			continue
		}
		line := f.Name + ": " + f.Value
		if status == "" {
			return dst, errors.MalformedHeaderSequence(line, 0)
		}
		lines = append(lines, line)
	}

	if status == "" {
		return dst, errors.MalformedHeaderBlock(pkgerrors.New("missing :status pseudo-header"))
	}
	if !validStatus(status) {
		return dst, errors.MalformedHeaderBlock(pkgerrors.Errorf("invalid :status %q", status))
	}

	var sb strings.Builder
	sb.WriteString("HTTP/2 ")
	sb.WriteString(status)
	sb.WriteString("\r\n")
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\r\n")
	}
	sb.WriteString("\r\n")

	return append(dst, sb.String()...), nil
}

// validStatus reports whether a :status value is the three digits a status
// line needs
func validStatus(v string) bool {
	if len(v) != 3 {
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}
