// Package charset extracts charset names from header values and resolves them
// to codecs able to validate and convert text.
package charset

import "regexp"

var contentTypeCharsetRe = regexp.MustCompile(`(?i)(?:charset|encoding)="?([a-z0-9-]+)"?`)

// FromContentType returns the charset token declared in a Content-Type style
// value, as written. The token is not checked against any encoding table.
func FromContentType(value string) (string, bool) {
	m := contentTypeCharsetRe.FindStringSubmatch(value)
	if m == nil {
		return "", false
	}
	return m[1], true
}
