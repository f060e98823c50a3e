package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMap(t *testing.T) {
	testcases := []struct {
		desc     string
		lines    []string
		expected map[string]any
	}{
		{
			desc:     "unique name stays scalar",
			lines:    []string{"Content-Type: text/plain"},
			expected: map[string]any{"Content-Type": "text/plain"},
		},
		{
			desc:     "duplicate names collapse into a list",
			lines:    []string{"Set-Cookie: a=1", "Content-Length: 3", "Set-Cookie: b=2"},
			expected: map[string]any{"Set-Cookie": []string{"a=1", "b=2"}, "Content-Length": "3"},
		},
		{
			desc:     "no space after colon",
			lines:    []string{"test:deneme"},
			expected: map[string]any{"test": "deneme"},
		},
		{
			desc:     "value split on first colon only",
			lines:    []string{"Location: https://example.com:8443/x"},
			expected: map[string]any{"Location": "https://example.com:8443/x"},
		},
		{
			desc:     "case is preserved and not merged",
			lines:    []string{"X-Thing: 1", "x-thing: 2"},
			expected: map[string]any{"X-Thing": "1", "x-thing": "2"},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, NewMap(tc.lines).ToMap())
		})
	}
}

func TestMapLookup(t *testing.T) {
	m := NewMap([]string{
		"Content-Type: text/plain",
		"Set-Cookie: a=1",
		"Set-Cookie: b=2",
		"Content-Length:   3   ",
	})

	ct, ok := m.Lookup("Content-Type")
	require.True(t, ok)
	assert.False(t, ct.IsList())
	assert.Equal(t, "text/plain", ct.String())

	_, ok = m.Lookup("content-type")
	assert.False(t, ok, "exact lookup is case-sensitive")

	cookies, ok := m.LookupFold("set-cookie")
	require.True(t, ok)
	assert.True(t, cookies.IsList())
	assert.Equal(t, []string{"a=1", "b=2"}, cookies.Values())

	assert.Equal(t, "3", m.Get("CONTENT-LENGTH"))
	assert.Equal(t, []string{"a=1", "b=2"}, m.Values("Set-Cookie"))
	assert.Nil(t, m.Values("Missing"))
	assert.True(t, m.Has("content-length"))
	assert.False(t, m.Has("Missing"))

	assert.Equal(t, []string{"Content-Type", "Set-Cookie", "Content-Length"}, m.Names())
	assert.Equal(t, 3, m.Len())

	all := m.All()
	require.Len(t, all, 4)
	assert.Equal(t, Header{Name: "Set-Cookie", Value: "b=2"}, all[2])
}

func TestMapValuesAreCopies(t *testing.T) {
	m := NewMap([]string{"Set-Cookie: a=1", "Set-Cookie: b=2"})

	values := m.Values("Set-Cookie")
	values[0] = "changed"

	assert.Equal(t, "a=1", m.Get("Set-Cookie"))
}

func TestEmptyMap(t *testing.T) {
	var m Map
	assert.Equal(t, "", m.Get("anything"))
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.ToMap())
}
