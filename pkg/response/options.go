package response

import (
	"github.com/go-logr/logr"

	"github.com/WhileEndless/go-httpresult/pkg/decoder"
)

// Options configures how a Record is assembled and decoded
type Options struct {
	// DefaultCharset applies when the response declares none (default: none, binary)
	DefaultCharset string

	// TargetEncoding is used by the zero-argument decode methods (default: UTF-8)
	TargetEncoding string

	// ContentDecoding removes gzip/deflate/br/zstd Content-Encoding before
	// charset decoding (default: false, the body is assumed already decoded)
	ContentDecoding bool

	// TransferDecoding removes chunked framing when the final exchange declares
	// Transfer-Encoding: chunked (default: false)
	TransferDecoding bool

	// Logger receives V(1) assembly and V(2) decode events (default: discard)
	Logger logr.Logger
}

// SetDefaults sets default values for unspecified options
func (o *Options) SetDefaults() {
	if o.TargetEncoding == "" {
		o.TargetEncoding = decoder.DefaultTarget
	}

	if o.Logger.GetSink() == nil {
		o.Logger = logr.Discard()
	}
}

// Option mutates Options
type Option func(*Options)

// WithDefaultCharset sets the charset assumed when Content-Type declares none
func WithDefaultCharset(name string) Option {
	return func(o *Options) { o.DefaultCharset = name }
}

// WithTargetEncoding sets the encoding DecodedBody and friends convert into
func WithTargetEncoding(name string) Option {
	return func(o *Options) { o.TargetEncoding = name }
}

// WithContentDecoding enables removal of Content-Encoding before decoding
func WithContentDecoding(enabled bool) Option {
	return func(o *Options) { o.ContentDecoding = enabled }
}

// WithTransferDecoding enables removal of chunked framing before decoding
func WithTransferDecoding(enabled bool) Option {
	return func(o *Options) { o.TransferDecoding = enabled }
}

// WithLogger sets the logger
func WithLogger(l logr.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithOptions replaces every option at once
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}
