package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhileEndless/go-httpresult/pkg/errors"
)

const standardBlock = "HTTP/1.1 200 OK\r\n" +
	"Date: Mon, 29 Jan 2018 00:09:09 GMT\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"Transfer-Encoding: chunked\r\n" +
	"Connection: keep-alive\r\n" +
	"\r\n"

const redirectBlock = "HTTP/1.1 301 Moved Permanently\r\n" +
	"Date: Mon, 29 Jan 2018 00:42:27 GMT\r\n" +
	"Content-Length: 0\r\n" +
	"Connection: keep-alive\r\n" +
	"Location: https://wetransfer.com/\r\n" +
	"\r\n"

func TestParseExchanges_Single(t *testing.T) {
	exchanges, err := ParseExchangesString("HTTP/1.1 200 OK\r\nContent-Type: text/html; charset=utf-8\r\n\r\n")
	require.NoError(t, err)
	require.Len(t, exchanges, 1)

	assert.Equal(t, "HTTP/1.1 200 OK", exchanges[0].StatusLine)
	assert.Equal(t, []string{"Content-Type: text/html; charset=utf-8"}, exchanges[0].Lines)
}

func TestParseExchanges_Standard(t *testing.T) {
	exchanges, err := ParseExchangesString(standardBlock)
	require.NoError(t, err)
	require.Len(t, exchanges, 1)

	lines := exchanges[0].Lines
	require.Len(t, lines, 4)
	assert.Equal(t, "Date: Mon, 29 Jan 2018 00:09:09 GMT", lines[0])
	assert.Equal(t, "Content-Type: text/html; charset=utf-8", lines[1])
	assert.Equal(t, "Transfer-Encoding: chunked", lines[2])
	assert.Equal(t, "Connection: keep-alive", lines[3])
}

func TestParseExchanges_Redirect(t *testing.T) {
	exchanges, err := ParseExchangesString(redirectBlock + standardBlock)
	require.NoError(t, err)
	require.Len(t, exchanges, 2)

	assert.Equal(t, "HTTP/1.1 301 Moved Permanently", exchanges[0].StatusLine)
	assert.Len(t, exchanges[0].Lines, 4)
	assert.Equal(t, "Location: https://wetransfer.com/", exchanges[0].Lines[3])

	assert.Equal(t, "HTTP/1.1 200 OK", exchanges[1].StatusLine)
	assert.Equal(t, "Content-Type: text/html; charset=utf-8", exchanges[1].Lines[1])

	final, ok := Final(exchanges)
	require.True(t, ok)
	assert.Equal(t, 200, final.StatusCode())
}

func TestParseExchanges_ProxyConnectionEstablished(t *testing.T) {
	exchanges, err := ParseExchangesString("HTTP/1.1 200 Connection established\r\n\r\n" + standardBlock)
	require.NoError(t, err)
	require.Len(t, exchanges, 2)

	assert.Equal(t, "HTTP/1.1 200 Connection established", exchanges[0].StatusLine)
	assert.Empty(t, exchanges[0].Lines)
	assert.Equal(t, "HTTP/1.1 200 OK", exchanges[1].StatusLine)
	assert.Equal(t, "Date: Mon, 29 Jan 2018 00:09:09 GMT", exchanges[1].Lines[0])
}

func TestParseExchanges_LineEndings(t *testing.T) {
	testcases := []struct {
		desc  string
		input string
	}{
		{"LF only", "HTTP/1.1 200 OK\nServer: x\nConnection: Close\n\n"},
		{"no trailing terminator", "HTTP/1.1 200 OK\r\nServer: x\r\nConnection: Close"},
		{"lone CR", "HTTP/1.1 200 OK\rServer: x\rConnection: Close\r"},
		{"mixed", "HTTP/1.1 200 OK\r\nServer: x\nConnection: Close\r\n"},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			exchanges, err := ParseExchangesString(tc.input)
			require.NoError(t, err)
			require.Len(t, exchanges, 1)
			assert.Equal(t, []string{"Server: x", "Connection: Close"}, exchanges[0].Lines)
		})
	}
}

func TestParseExchanges_HTTP2(t *testing.T) {
	exchanges, err := ParseExchangesString("HTTP/2 200\r\n" +
		"content-type: text/html\r\n" +
		"strict-transport-security: max-age=15552000; includeSubDomains;\r\n\r\n")
	require.NoError(t, err)
	require.Len(t, exchanges, 1)

	e := exchanges[0]
	assert.Equal(t, "HTTP/2 200", e.StatusLine)
	assert.Equal(t, "HTTP/2", e.Version())
	assert.Equal(t, 200, e.StatusCode())
	assert.Equal(t, "", e.Reason())
	assert.Equal(t, "strict-transport-security: max-age=15552000; includeSubDomains;", e.Lines[1])
}

func TestParseExchanges_HeaderBeforeStatus(t *testing.T) {
	exchanges, err := ParseExchangesString("\r\nContent-Type: text/plain\r\nHTTP/1.1 200 OK\r\n\r\n")
	require.Error(t, err)
	assert.Nil(t, exchanges)
	assert.ErrorIs(t, err, errors.ErrMalformedHeaderSequence)
	assert.True(t, errors.IsParseError(err))

	var perr *errors.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Content-Type: text/plain", perr.Line)
	assert.Equal(t, 2, perr.LineNo)
}

func TestParseExchanges_Tolerance(t *testing.T) {
	input := "garbage from a proxy\r\n" +
		"HTTP/1.1 404 Not Found  \r\n" +
		"  X-Padded :  spaced  \r\n" +
		"X-NoSpace:value\r\n" +
		"this line has no colon\r\n" +
		"Bad Name: ignored\r\n" +
		"\r\n\r\n"

	exchanges, err := ParseExchangesString(input)
	require.NoError(t, err)
	require.Len(t, exchanges, 1)

	e := exchanges[0]
	assert.Equal(t, "HTTP/1.1 404 Not Found", e.StatusLine)
	assert.Equal(t, "Not Found", e.Reason())
	assert.Equal(t, "HTTP/1.1", e.Version())
	assert.Equal(t, []string{"X-NoSpace:value"}, e.Lines)
}

func TestParseExchanges_Empty(t *testing.T) {
	exchanges, err := ParseExchanges(nil)
	require.NoError(t, err)
	assert.Empty(t, exchanges)

	_, ok := Final(exchanges)
	assert.False(t, ok)
}

func TestIsStatusLine(t *testing.T) {
	testcases := []struct {
		line     string
		expected bool
	}{
		{"HTTP/1.1 200 OK", true},
		{"HTTP/1.0 500 Internal Server Error", true},
		{"HTTP/2 204", true},
		{"HTTP/1.1 200 OK   ", true},
		{"HTTP/1.1 20 OK", false},
		{"HTTP/1.1 2000", false},
		{"http/1.1 200 OK", false},
		{"ICY 200 OK", false},
		{"Status: 200", false},
	}
	for _, tc := range testcases {
		t.Run(tc.line, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsStatusLine(tc.line))
		})
	}
}
