package cookies

import (
	"testing"
	"time"
)

func TestParse_Simple(t *testing.T) {
	input := "session=abc123"
	cookie := Parse(input)

	if cookie.Name != "session" {
		t.Errorf("Expected name=session, got %s", cookie.Name)
	}
	if cookie.Value != "abc123" {
		t.Errorf("Expected value=abc123, got %s", cookie.Value)
	}
	if cookie.Raw != input {
		t.Errorf("Expected Raw to be preserved")
	}
	if cookie.MaxAge != -1 {
		t.Errorf("Expected MaxAge=-1 when absent, got %d", cookie.MaxAge)
	}
}

func TestParse_WithAttributes(t *testing.T) {
	input := "id=a3fWa; Expires=Wed, 21 Oct 2015 07:28:00 GMT; Path=/; Domain=.example.com; Secure; HttpOnly"
	cookie := Parse(input)

	if cookie.Name != "id" || cookie.Value != "a3fWa" {
		t.Errorf("Expected id=a3fWa, got %s=%s", cookie.Name, cookie.Value)
	}
	if cookie.Path != "/" {
		t.Errorf("Expected Path=/, got %s", cookie.Path)
	}
	if cookie.Domain != ".example.com" {
		t.Errorf("Expected Domain=.example.com, got %s", cookie.Domain)
	}
	if !cookie.Secure {
		t.Error("Expected Secure=true")
	}
	if !cookie.HttpOnly {
		t.Error("Expected HttpOnly=true")
	}

	expires, ok := cookie.ExpiresAt()
	if !ok {
		t.Fatal("Expected Expires to parse")
	}
	if want := time.Date(2015, time.October, 21, 7, 28, 0, 0, time.UTC); !expires.Equal(want) {
		t.Errorf("Expected %v, got %v", want, expires)
	}
}

func TestParse_MaxAgeAndQuotes(t *testing.T) {
	cookie := Parse(`token="xyz"; Max-Age=3600`)

	if cookie.MaxAge != 3600 {
		t.Errorf("Expected MaxAge=3600, got %d", cookie.MaxAge)
	}
	if cookie.Value != "xyz" {
		t.Errorf("Expected quotes removed, got %s", cookie.Value)
	}

	if Parse("token=xyz; Max-Age=soon").MaxAge != -1 {
		t.Error("Expected unparsable Max-Age to be ignored")
	}
}

func TestParse_SameSite(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"session=abc; SameSite=Strict", "Strict"},
		{"session=abc; samesite=Lax", "Lax"},
		{"session=abc; SameSite=None", "None"},
	}

	for _, tc := range testCases {
		if cookie := Parse(tc.input); cookie.SameSite != tc.expected {
			t.Errorf("For %q, expected SameSite=%s, got %s", tc.input, tc.expected, cookie.SameSite)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, input := range []string{"", "nocookie", ";;;", "=noname"} {
		cookie := Parse(input) // Should not panic
		if cookie.Raw != input {
			t.Errorf("Expected Raw %q, got %q", input, cookie.Raw)
		}
	}

	if c := Parse("nocookie"); c.Name != "nocookie" || c.Value != "" {
		t.Errorf("Expected bare name, got %s=%s", c.Name, c.Value)
	}
	if _, ok := Parse("a=1; Expires=someday").ExpiresAt(); ok {
		t.Error("Expected invalid Expires not to parse")
	}
}

func TestParseAll(t *testing.T) {
	all := ParseAll([]string{"a=1", "b=2; Path=/x"})

	if len(all) != 2 {
		t.Fatalf("Expected 2 cookies, got %d", len(all))
	}
	if all[0].Name != "a" || all[1].Name != "b" || all[1].Path != "/x" {
		t.Errorf("Unexpected cookies: %+v", all)
	}
}

func BenchmarkParse(b *testing.B) {
	input := "id=a3fWa; Expires=Wed, 21 Oct 2015 07:28:00 GMT; Path=/; Domain=.example.com; Secure; HttpOnly; SameSite=Strict"
	for i := 0; i < b.N; i++ {
		Parse(input)
	}
}
