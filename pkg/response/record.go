// Package response assembles the immutable record handed to callers once an
// HTTP transfer has completed, and decodes its body on demand.
package response

import (
	"sync"

	"github.com/WhileEndless/go-httpresult/pkg/charset"
	"github.com/WhileEndless/go-httpresult/pkg/cookies"
	"github.com/WhileEndless/go-httpresult/pkg/headers"
)

// Input is everything the transfer engine knows once a request has completed
type Input struct {
	URL           string
	Status        int // 0 takes the code from the final status line
	RedirectCount int

	// RawHeaders is the accumulated header buffer of every exchange
	RawHeaders []byte

	Body []byte
	// Streamed marks a body written straight to a file; Body is ignored
	Streamed bool
}

// CharsetSource records where the effective charset came from
type CharsetSource int

const (
	CharsetNone    CharsetSource = iota // No charset, body is binary
	CharsetHeader                       // Content-Type parameter
	CharsetDefault                      // Caller-supplied default
)

func (s CharsetSource) String() string {
	switch s {
	case CharsetHeader:
		return "header"
	case CharsetDefault:
		return "default"
	default:
		return "none"
	}
}

// Record is a completed response. It never changes after New returns and is
// safe for concurrent use; decoded bodies are computed lazily and cached.
type Record struct {
	url           string
	status        int
	redirectCount int
	exchanges     []headers.Exchange
	final         headers.Exchange
	headers       headers.Map
	body          []byte
	streamed      bool
	charset       string
	charsetSource CharsetSource

	opts Options

	prepared func() (prepared, error)
	cache    sync.Map // cacheKey -> cacheEntry
}

// New parses in.RawHeaders and builds a Record from the final exchange.
// A header line that precedes every status line aborts construction.
// No body decoding happens here.
func New(in Input, opts ...Option) (*Record, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	o.SetDefaults()

	exchanges, err := headers.ParseExchanges(in.RawHeaders)
	if err != nil {
		o.Logger.V(1).Info("rejecting header blob", "url", in.URL, "error", err.Error())
		return nil, err
	}
	final, _ := headers.Final(exchanges)

	r := &Record{
		url:           in.URL,
		status:        in.Status,
		redirectCount: in.RedirectCount,
		exchanges:     exchanges,
		final:         final,
		headers:       headers.NewMap(final.Lines),
		streamed:      in.Streamed,
		opts:          o,
	}

	if r.status == 0 {
		r.status = final.StatusCode()
	}

	if !in.Streamed {
		r.body = make([]byte, len(in.Body))
		copy(r.body, in.Body)
	}

	if name, ok := charset.FromContentType(r.headers.Get("Content-Type")); ok {
		r.charset, r.charsetSource = name, CharsetHeader
	} else if o.DefaultCharset != "" {
		r.charset, r.charsetSource = o.DefaultCharset, CharsetDefault
	}

	r.prepared = sync.OnceValues(r.prepare)

	for _, h := range r.headers.All() {
		if _, c := charset.DecodeHeaderValue([]byte(h.Value)); c != charset.CandidateLatin1 {
			o.Logger.V(1).Info("header value is not ISO-8859-1", "header", h.Name, "candidate", c.String())
		}
	}

	o.Logger.V(1).Info("assembled response",
		"url", r.url,
		"status", r.status,
		"exchanges", len(exchanges),
		"redirects", r.redirectCount,
		"charset", r.charset,
		"charsetSource", r.charsetSource.String(),
		"streamed", r.streamed,
	)

	return r, nil
}

// URL returns the final request URL
func (r *Record) URL() string { return r.url }

// Status returns the numeric status code
func (r *Record) Status() int { return r.status }

// StatusLine returns the final status line, e.g. "HTTP/1.1 200 OK"
func (r *Record) StatusLine() string { return r.final.StatusLine }

// Version returns the protocol of the final status line, e.g. "HTTP/1.1"
func (r *Record) Version() string { return r.final.Version() }

// Reason returns the reason phrase of the final status line
func (r *Record) Reason() string { return r.final.Reason() }

// RedirectCount returns how many redirects were followed
func (r *Record) RedirectCount() int { return r.redirectCount }

// Headers returns the header mapping of the final exchange
func (r *Record) Headers() headers.Map { return r.headers }

// Header returns the value of a header name as received, case-sensitively
func (r *Record) Header(name string) (headers.Value, bool) {
	return r.headers.Lookup(name)
}

// Exchanges returns every exchange in arrival order: proxy CONNECT replies,
// redirect hops, interim responses and the final response last
func (r *Record) Exchanges() []headers.Exchange {
	out := make([]headers.Exchange, len(r.exchanges))
	copy(out, r.exchanges)
	return out
}

// Body returns a copy of the raw body, or nil when it was streamed
func (r *Record) Body() []byte {
	if r.streamed {
		return nil
	}
	out := make([]byte, len(r.body))
	copy(out, r.body)
	return out
}

// Streamed reports whether the body was written to a file instead of kept
func (r *Record) Streamed() bool { return r.streamed }

// Charset returns the effective charset name; empty means binary
func (r *Record) Charset() string { return r.charset }

// CharsetSource reports where Charset came from
func (r *Record) CharsetSource() CharsetSource { return r.charsetSource }

// OK reports a status below 400
func (r *Record) OK() bool { return r.status < 400 }

// IsError reports a status of 400 or above
func (r *Record) IsError() bool { return !r.OK() }

// Cookies parses every Set-Cookie value of the final exchange
func (r *Record) Cookies() []cookies.SetCookie {
	return cookies.ParseAll(r.headers.Values("Set-Cookie"))
}

// HeaderCandidate reports how the values of a header were interpreted. When a
// name has several values the least restrictive candidate is returned.
func (r *Record) HeaderCandidate(name string) (charset.Candidate, bool) {
	values := r.headers.Values(name)
	if values == nil {
		return 0, false
	}

	worst := charset.CandidateLatin1
	for _, v := range values {
		if _, c := charset.DecodeHeaderValue([]byte(v)); c > worst {
			worst = c
		}
	}
	return worst, true
}
