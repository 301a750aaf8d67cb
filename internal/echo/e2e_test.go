package echo

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunnelcheck/tunnelcheck/internal/server"
)

// TestRoundTripOverSocket drives the full stack the way a tunnel would: raw
// bytes in one side of a TCP connection, diagnostic response out the other.
func TestRoundTripOverSocket(t *testing.T) {
	srv := server.New(server.Config{Host: "127.0.0.1", Port: 0}, New(server.NullLogger{}), server.NullLogger{})
	require.NoError(t, srv.Listen())
	go srv.Serve()
	t.Cleanup(func() { srv.Close() })

	send := func(raw string) string {
		conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", srv.Port()))
		require.NoError(t, err)
		defer conn.Close()
		_, err = conn.Write([]byte(raw))
		require.NoError(t, err)
		data, err := io.ReadAll(conn)
		require.NoError(t, err)
		return string(data)
	}

	// GET /foo: 200 text/html containing the path and the client address
	got := send("GET /foo HTTP/1.1\r\nHost: localhost\r\n\r\n")
	assert.Contains(t, got, "HTTP/1.1 200 OK\r\n")
	assert.Contains(t, got, "content-type: text/html\r\n")
	assert.Contains(t, got, "access-control-allow-origin: *\r\n")
	assert.Contains(t, got, "/foo")
	assert.Contains(t, got, "127.0.0.1")

	// POST /api with body "hi": JSON echo of the body and path
	got = send("POST /api HTTP/1.1\r\nHost: localhost\r\nContent-Length: 2\r\n\r\nhi")
	assert.Contains(t, got, "HTTP/1.1 200 OK\r\n")
	assert.Contains(t, got, "content-type: application/json\r\n")
	assert.Contains(t, got, "access-control-allow-origin: *\r\n")

	idx := strings.Index(got, "\r\n\r\n")
	require.NotEqual(t, -1, idx)
	var reply map[string]string
	require.NoError(t, json.Unmarshal([]byte(got[idx+4:]), &reply))
	assert.Equal(t, "hi", reply["received_data"])
	assert.Equal(t, "/api", reply["path"])

	// POST without Content-Length: received_data is empty
	got = send("POST /api HTTP/1.1\r\nHost: localhost\r\n\r\n")
	idx = strings.Index(got, "\r\n\r\n")
	require.NotEqual(t, -1, idx)
	require.NoError(t, json.Unmarshal([]byte(got[idx+4:]), &reply))
	assert.Equal(t, "", reply["received_data"])

	// PUT: explicit unsupported outcome, CORS still present
	got = send("PUT /x HTTP/1.1\r\nHost: localhost\r\n\r\n")
	assert.Contains(t, got, "HTTP/1.1 405 Method Not Allowed\r\n")
	assert.Contains(t, got, "access-control-allow-origin: *\r\n")
}
