package response

import (
	"github.com/WhileEndless/go-httpresult/pkg/chunked"
	"github.com/WhileEndless/go-httpresult/pkg/compression"
	"github.com/WhileEndless/go-httpresult/pkg/decoder"
	"github.com/WhileEndless/go-httpresult/pkg/headers"
)

type cacheKey struct {
	charset string
	target  string
	mode    decoder.Mode
}

type cacheEntry struct {
	text string
	err  error
}

// prepared is the body with transfer and content codings removed
type prepared struct {
	body     []byte
	trailers headers.Map
}

func (r *Record) prepare() (prepared, error) {
	p := prepared{body: r.body, trailers: headers.NewMap(nil)}
	if r.streamed {
		p.body = nil
		return p, nil
	}

	if r.opts.TransferDecoding && chunked.Declared(r.headers.Get("Transfer-Encoding")) {
		res := chunked.Decode(p.body)
		p.body, p.trailers = res.Body, res.Trailers
		if !res.Complete {
			r.opts.Logger.V(1).Info("chunked body truncated", "url", r.url, "decoded", len(res.Body))
		}
	}

	if r.opts.ContentDecoding {
		body, err := compression.DecodeChain(p.body, r.headers.Get("Content-Encoding"))
		if err != nil {
			return p, err
		}
		p.body = body
	}

	return p, nil
}

// Trailers returns the trailer fields of a chunked body. It is empty unless
// transfer decoding is enabled and the body was chunked.
func (r *Record) Trailers() headers.Map {
	p, _ := r.prepared()
	return p.trailers
}

// DecodedBody converts the body into the configured target encoding, failing
// when the body is not valid in its charset or cannot be represented exactly
func (r *Record) DecodedBody() (string, error) {
	return r.DecodedBodyIn(r.opts.TargetEncoding)
}

// DecodedBodyIn is DecodedBody for an explicit target encoding
func (r *Record) DecodedBodyIn(target string) (string, error) {
	return r.decode(target, decoder.Strict)
}

// BodyDecodable reports whether DecodedBody would succeed
func (r *Record) BodyDecodable() bool {
	return r.BodyDecodableIn(r.opts.TargetEncoding)
}

// BodyDecodableIn is BodyDecodable for an explicit target encoding
func (r *Record) BodyDecodableIn(target string) bool {
	_, err := r.decode(target, decoder.Strict)
	return err == nil
}

// InspectableBody converts the body for display, replacing characters the
// target cannot carry. Bytes that are invalid in the charset still fail.
func (r *Record) InspectableBody() (string, error) {
	return r.InspectableBodyIn(r.opts.TargetEncoding)
}

// InspectableBodyIn is InspectableBody for an explicit target encoding
func (r *Record) InspectableBodyIn(target string) (string, error) {
	return r.decode(target, decoder.Lossy)
}

func (r *Record) decode(target string, mode decoder.Mode) (string, error) {
	if target == "" {
		target = r.opts.TargetEncoding
	}

	key := cacheKey{charset: r.charset, target: target, mode: mode}
	if v, ok := r.cache.Load(key); ok {
		e := v.(cacheEntry)
		return e.text, e.err
	}

	var e cacheEntry
	p, err := r.prepared()
	if err != nil {
		e.err = err
	} else {
		e.text, e.err = decoder.DecodeMode(p.body, r.charset, target, mode)
	}

	r.opts.Logger.V(2).Info("decoded body",
		"url", r.url,
		"charset", r.charset,
		"target", target,
		"mode", mode.String(),
		"ok", e.err == nil,
	)

	// Concurrent callers may both compute; the results are identical
	v, _ := r.cache.LoadOrStore(key, e)
	e = v.(cacheEntry)
	return e.text, e.err
}
