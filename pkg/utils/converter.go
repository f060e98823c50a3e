// Package utils bridges net/http responses and response records
package utils

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/WhileEndless/go-httpresult/pkg/response"
)

// DefaultBodyLimit caps how much of a body InputFromStandard reads
const DefaultBodyLimit = 4 * 1024 * 1024 // 4MB

// InputFromStandard reads the body of a net/http response (at most limit bytes,
// DefaultBodyLimit when limit <= 0) and renders every hop of its redirect chain
// as a header buffer, oldest first. The body is closed.
func InputFromStandard(resp *http.Response, limit int64) (response.Input, error) {
	if limit <= 0 {
		limit = DefaultBodyLimit
	}

	var hops []*http.Response
	for r := resp; r != nil; {
		hops = append(hops, r)
		if r.Request == nil {
			break
		}
		r = r.Request.Response
	}

	var raw bytes.Buffer
	for i := len(hops) - 1; i >= 0; i-- {
		writeHead(&raw, hops[i])
	}

	in := response.Input{
		Status:        resp.StatusCode,
		RedirectCount: len(hops) - 1,
		RawHeaders:    raw.Bytes(),
	}
	if resp.Request != nil && resp.Request.URL != nil {
		in.URL = resp.Request.URL.String()
	}

	if resp.Body == nil {
		in.Body = []byte{}
		return in, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return in, pkgerrors.Wrap(err, "reading response body")
	}
	in.Body = body
	return in, nil
}

// writeHead renders a status line and header lines. http.Header loses arrival
// order, so names are sorted to keep the output stable.
func writeHead(w *bytes.Buffer, resp *http.Response) {
	proto := resp.Proto
	if proto == "" {
		proto = fmt.Sprintf("HTTP/%d.%d", resp.ProtoMajor, resp.ProtoMinor)
	}
	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	fmt.Fprintf(w, "%s %s\r\n", proto, strings.TrimSpace(status))

	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, v := range resp.Header[name] {
			fmt.Fprintf(w, "%s: %s\r\n", name, v)
		}
	}
	w.WriteString("\r\n")
}

// ToStandardResponse converts a Record to a net/http response. Header names
// are canonicalised by http.Header.
func ToStandardResponse(rec *response.Record) *http.Response {
	body := rec.Body()
	resp := &http.Response{
		Status:        strings.TrimSpace(fmt.Sprintf("%d %s", rec.Status(), rec.Reason())),
		StatusCode:    rec.Status(),
		Proto:         rec.Version(),
		Header:        make(http.Header),
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}

	switch rec.Version() {
	case "HTTP/2", "HTTP/2.0":
		resp.ProtoMajor = 2
	default:
		if major, minor, ok := http.ParseHTTPVersion(rec.Version()); ok {
			resp.ProtoMajor, resp.ProtoMinor = major, minor
		}
	}

	for _, h := range rec.Headers().All() {
		resp.Header.Add(h.Name, h.Value)
	}

	return resp
}
