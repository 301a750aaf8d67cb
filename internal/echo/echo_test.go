package echo

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunnelcheck/tunnelcheck/internal/headers"
	"github.com/tunnelcheck/tunnelcheck/internal/request"
	"github.com/tunnelcheck/tunnelcheck/internal/response"
	"github.com/tunnelcheck/tunnelcheck/internal/server"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)
}

func newRequest(method, path string, body []byte) *request.Request {
	return &request.Request{
		Method:     method,
		Path:       path,
		Version:    "HTTP/1.1",
		Headers:    headers.NewHeaders(),
		Body:       body,
		RemoteAddr: "127.0.0.1:54321",
	}
}

func serve(t *testing.T, h *Handler, req *request.Request) (string, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := response.NewWriter(buf)
	h.ServeHTTP(w, req)

	raw := buf.String()
	idx := bytes.Index(buf.Bytes(), []byte("\r\n\r\n"))
	require.NotEqual(t, -1, idx, "response has no header terminator")
	return raw, raw[idx+4:]
}

func TestGetDiagnosticPage(t *testing.T) {
	h := New(server.NullLogger{}, WithClock(fixedClock))

	// Test: 200 text/html embedding path, client IP, and formatted timestamp
	raw, body := serve(t, h, newRequest("GET", "/foo", nil))
	assert.Contains(t, raw, "HTTP/1.1 200 OK\r\n")
	assert.Contains(t, raw, "content-type: text/html\r\n")
	assert.Contains(t, raw, "access-control-allow-origin: *\r\n")
	assert.Contains(t, body, "/foo")
	assert.Contains(t, body, "127.0.0.1")
	assert.Contains(t, body, "2025-06-01 12:30:45")

	// Test: The path is echoed byte-exact, even when it looks hostile
	_, body = serve(t, h, newRequest("GET", "/<script>alert(1)</script>", nil))
	assert.Contains(t, body, "/<script>alert(1)</script>")
}

func TestPostEcho(t *testing.T) {
	h := New(server.NullLogger{}, WithClock(fixedClock))

	// Test: UTF-8 body comes back exactly in received_data
	raw, body := serve(t, h, newRequest("POST", "/api", []byte("hi")))
	assert.Contains(t, raw, "content-type: application/json\r\n")
	assert.Contains(t, raw, "access-control-allow-origin: *\r\n")

	var reply map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &reply))
	assert.Equal(t, "hi", reply["received_data"])
	assert.Equal(t, "/api", reply["path"])
	assert.Equal(t, postGreeting, reply["message"])
	assert.Equal(t, "2025-06-01T12:30:45Z", reply["timestamp"])

	// Test: Empty body yields received_data == ""
	_, body = serve(t, h, newRequest("POST", "/api", nil))
	require.NoError(t, json.Unmarshal([]byte(body), &reply))
	assert.Equal(t, "", reply["received_data"])

	// Test: Invalid UTF-8 sequences are dropped, not an error
	_, body = serve(t, h, newRequest("POST", "/api", []byte("ok\xff\xfe!")))
	require.NoError(t, json.Unmarshal([]byte(body), &reply))
	assert.Equal(t, "ok!", reply["received_data"])

	// Test: Multibyte runes survive intact
	_, body = serve(t, h, newRequest("POST", "/api", []byte("héllo ✓")))
	require.NoError(t, json.Unmarshal([]byte(body), &reply))
	assert.Equal(t, "héllo ✓", reply["received_data"])
}

func TestUnsupportedMethod(t *testing.T) {
	h := New(server.NullLogger{})

	// Test: Anything but GET/POST is an explicit 405, still with CORS
	raw, body := serve(t, h, newRequest("DELETE", "/x", nil))
	assert.Contains(t, raw, "HTTP/1.1 405 Method Not Allowed\r\n")
	assert.Contains(t, raw, "access-control-allow-origin: *\r\n")
	assert.Contains(t, body, "DELETE")
}

func TestGzipNegotiation(t *testing.T) {
	h := New(server.NullLogger{}, WithClock(fixedClock))

	// Test: Accept-Encoding: gzip gets a compressed body that inflates back
	req := newRequest("GET", "/foo", nil)
	req.Headers.Set("Accept-Encoding", "gzip")
	raw, body := serve(t, h, req)
	assert.Contains(t, raw, "content-encoding: gzip\r\n")

	zr, err := gzip.NewReader(bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	inflated, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(inflated), "/foo")
	assert.Contains(t, string(inflated), "127.0.0.1")

	// Test: Other encodings are ignored
	req = newRequest("GET", "/foo", nil)
	req.Headers.Set("Accept-Encoding", "br, deflate")
	raw, body = serve(t, h, req)
	assert.NotContains(t, raw, "content-encoding:")
	assert.Contains(t, body, "/foo")
}

func TestDecodeDroppingInvalid(t *testing.T) {
	assert.Equal(t, "abc", decodeDroppingInvalid([]byte("abc")))
	assert.Equal(t, "", decodeDroppingInvalid(nil))
	assert.Equal(t, "ab", decodeDroppingInvalid([]byte{'a', 0xff, 'b'}))
	assert.Equal(t, "héllo", decodeDroppingInvalid([]byte("héllo")))
	// A truncated multibyte sequence disappears entirely
	assert.Equal(t, "x", decodeDroppingInvalid([]byte{'x', 0xc3}))
}
