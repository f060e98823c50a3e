package charset

import "unicode/utf8"

// Candidate identifies which representation a header value was accepted as
type Candidate int

const (
	CandidateLatin1 Candidate = iota // Every character fits ISO-8859-1
	CandidateUTF8                    // Valid UTF-8 with characters beyond ISO-8859-1
	CandidateRaw                     // Neither; bytes kept as received
)

func (c Candidate) String() string {
	switch c {
	case CandidateLatin1:
		return "ISO-8859-1"
	case CandidateUTF8:
		return UTF8
	default:
		return Binary
	}
}

// DecodeHeaderValue interprets raw header bytes. Header text is nominally
// ISO-8859-1, but intermediaries send UTF-8 in fields such as the filename of a
// Content-Disposition. Candidates are tried in the fixed order ISO-8859-1, UTF-8,
// raw bytes; the first one the value converts into without error wins.
func DecodeHeaderValue(raw []byte) (string, Candidate) {
	if !utf8.Valid(raw) {
		return string(raw), CandidateRaw
	}

	for _, r := range string(raw) {
		if r > 0xFF {
			return string(raw), CandidateUTF8
		}
	}
	return string(raw), CandidateLatin1
}
