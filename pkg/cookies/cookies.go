// Package cookies parses the Set-Cookie values of a response
package cookies

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// SetCookie represents one Set-Cookie header value
type SetCookie struct {
	Name     string
	Value    string
	Path     string
	Domain   string
	Expires  string // As sent; see ExpiresAt
	MaxAge   int    // -1 when not set
	Secure   bool
	HttpOnly bool
	SameSite string
	Raw      string // Original header value
}

// Parse parses a Set-Cookie header value.
// Never fails - best effort parse.
// Format: "name=value; Path=/; Domain=.example.com; Expires=...; Max-Age=3600; Secure; HttpOnly; SameSite=Strict"
func Parse(setCookie string) SetCookie {
	cookie := SetCookie{
		Raw:    setCookie,
		MaxAge: -1,
	}

	if strings.TrimSpace(setCookie) == "" {
		return cookie
	}

	parts := strings.Split(setCookie, ";")

	first := strings.TrimSpace(parts[0])
	if idx := strings.IndexByte(first, '='); idx != -1 {
		cookie.Name = strings.TrimSpace(first[:idx])
		cookie.Value = unquote(strings.TrimSpace(first[idx+1:]))
	} else {
		cookie.Name = first
	}

	for _, part := range parts[1:] {
		attr := strings.TrimSpace(part)
		if attr == "" {
			continue
		}

		key, value, hasValue := strings.Cut(attr, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if !hasValue {
			switch key {
			case "secure":
				cookie.Secure = true
			case "httponly":
				cookie.HttpOnly = true
			}
			continue
		}

		switch key {
		case "path":
			cookie.Path = value
		case "domain":
			cookie.Domain = value
		case "expires":
			cookie.Expires = value
		case "max-age":
			if maxAge, err := strconv.Atoi(value); err == nil {
				cookie.MaxAge = maxAge
			}
		case "samesite":
			cookie.SameSite = value
		}
	}

	return cookie
}

// ParseAll parses every value of a repeated Set-Cookie header, in order
func ParseAll(values []string) []SetCookie {
	out := make([]SetCookie, 0, len(values))
	for _, v := range values {
		out = append(out, Parse(v))
	}
	return out
}

// ExpiresAt parses the Expires attribute in any of the date formats HTTP allows
func (c SetCookie) ExpiresAt() (time.Time, bool) {
	if c.Expires == "" {
		return time.Time{}, false
	}
	t, err := http.ParseTime(c.Expires)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}
