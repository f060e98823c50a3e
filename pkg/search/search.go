// Package search finds text in the final headers and the decoded body of a
// response record.
package search

import (
	"regexp"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/WhileEndless/go-httpresult/pkg/headers"
	"github.com/WhileEndless/go-httpresult/pkg/response"
)

// Location specifies where to search
type Location int

const (
	InHeaders Location = 1 << iota
	InBody
	InAll = InHeaders | InBody
)

func (l Location) String() string {
	switch l {
	case InHeaders:
		return "header"
	case InBody:
		return "body"
	default:
		return "all"
	}
}

// Options configures search behavior
type Options struct {
	// Pattern to search for
	Pattern string

	// UseRegex treats Pattern as a regular expression
	UseRegex bool

	// CaseInsensitive ignores case when matching
	CaseInsensitive bool

	// Location specifies where to search (default: InAll)
	Location Location

	// HeaderNames also matches header names, not just values
	HeaderNames bool

	// MaxResults limits number of results (0 = unlimited)
	MaxResults int
}

// Result represents a single match
type Result struct {
	Location Location

	// Header is set for header matches
	Header headers.Header

	Match string
	Start int // Offset in the searched text
	End   int
	Line  int // 1-indexed line within the body; 0 for headers

	// Context is the match with up to contextSize characters either side
	Context string
}

// Results holds every match of one search
type Results struct {
	Query   string
	Results []Result

	// BodyDecoded is false when the body could not be decoded and its raw
	// bytes were searched instead
	BodyDecoded bool
}

// HasMatches returns true if any matches were found
func (r *Results) HasMatches() bool {
	return len(r.Results) > 0
}

const contextSize = 30

// Searcher matches one pattern
type Searcher struct {
	opts Options
	re   *regexp.Regexp
}

// NewSearcher compiles opts.Pattern. Plain patterns are matched literally.
func NewSearcher(opts Options) (*Searcher, error) {
	if opts.Pattern == "" {
		return nil, pkgerrors.New("empty search pattern")
	}
	if opts.Location == 0 {
		opts.Location = InAll
	}

	expr := opts.Pattern
	if !opts.UseRegex {
		expr = regexp.QuoteMeta(expr)
	}
	if opts.CaseInsensitive {
		expr = "(?i)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "compiling pattern %q", opts.Pattern)
	}
	return &Searcher{opts: opts, re: re}, nil
}

func (s *Searcher) full(n int) bool {
	return s.opts.MaxResults > 0 && n >= s.opts.MaxResults
}

// Text returns the matches in text, numbering lines from 1
func (s *Searcher) Text(text string) []Result {
	var results []Result
	for _, m := range s.re.FindAllStringIndex(text, -1) {
		if s.full(len(results)) {
			break
		}
		results = append(results, Result{
			Location: InBody,
			Match:    text[m[0]:m[1]],
			Start:    m[0],
			End:      m[1],
			Line:     strings.Count(text[:m[0]], "\n") + 1,
			Context:  context(text, m[0], m[1]),
		})
	}
	return results
}

// Headers returns the matches in header values, and names when enabled
func (s *Searcher) Headers(all []headers.Header) []Result {
	var results []Result
	for _, h := range all {
		fields := []string{h.Value}
		if s.opts.HeaderNames {
			fields = []string{h.Name, h.Value}
		}
		for _, field := range fields {
			for _, m := range s.re.FindAllStringIndex(field, -1) {
				if s.full(len(results)) {
					return results
				}
				results = append(results, Result{
					Location: InHeaders,
					Header:   h,
					Match:    field[m[0]:m[1]],
					Start:    m[0],
					End:      m[1],
					Context:  field,
				})
			}
		}
	}
	return results
}

// Record searches the final headers and the body of rec. The body is searched
// as text decoded for inspection; when that fails the raw bytes are used.
func (s *Searcher) Record(rec *response.Record) *Results {
	out := &Results{Query: s.opts.Pattern, BodyDecoded: true}

	if s.opts.Location&InHeaders != 0 {
		out.Results = append(out.Results, s.Headers(rec.Headers().All())...)
	}

	if s.opts.Location&InBody != 0 && !s.full(len(out.Results)) {
		text, err := rec.InspectableBody()
		if err != nil {
			text, out.BodyDecoded = string(rec.Body()), false
		}
		body := s.Text(text)
		if s.opts.MaxResults > 0 {
			body = body[:min(len(body), s.opts.MaxResults-len(out.Results))]
		}
		out.Results = append(out.Results, body...)
	}

	return out
}

// context returns text around [start, end) without splitting a UTF-8 sequence
func context(text string, start, end int) string {
	from := max(start-contextSize, 0)
	for from > 0 && !isBoundary(text, from) {
		from--
	}
	to := min(end+contextSize, len(text))
	for to < len(text) && !isBoundary(text, to) {
		to++
	}
	return text[from:to]
}

func isBoundary(text string, i int) bool {
	return text[i]&0xC0 != 0x80
}
