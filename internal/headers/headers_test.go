package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderParse(t *testing.T) {
	// Test: Valid single header
	h := NewHeaders()
	data := []byte("Host: localhost:9091\r\n")
	n, done, err := h.Parse(data)
	require.NoError(t, err)
	val, ok := h.Get("host")
	assert.True(t, ok)
	assert.Equal(t, "localhost:9091", val)
	assert.Equal(t, 22, n)
	assert.False(t, done)

	// Test: Extra whitespace around the value is trimmed
	h = NewHeaders()
	data = []byte("Content-Length:   42   \r\n")
	_, done, err = h.Parse(data)
	require.NoError(t, err)
	val, ok = h.Get("Content-Length")
	assert.True(t, ok)
	assert.Equal(t, "42", val)
	assert.False(t, done)

	// Test: Duplicate headers keep every value
	h = NewHeaders()
	data = []byte("X-Probe: a\r\nX-Probe: b\r\n")
	_, _, err = h.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, h.GetAll("x-probe"))

	// Test: Get returns the first of duplicate values
	val, ok = h.Get("x-probe")
	assert.True(t, ok)
	assert.Equal(t, "a", val)

	// Test: Empty line ends the block
	h = NewHeaders()
	n, done, err = h.Parse([]byte("\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, done)

	// Test: Header followed by terminator
	h = NewHeaders()
	n, done, err = h.Parse([]byte("Host: example.com\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 21, n)
	assert.True(t, done)

	// Test: Incomplete line consumes nothing
	h = NewHeaders()
	n, done, err = h.Parse([]byte("Host: exa"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.False(t, done)

	// Test: Whitespace before the colon is invalid
	h = NewHeaders()
	_, _, err = h.Parse([]byte("Host : localhost\r\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")

	// Test: Missing colon is invalid
	h = NewHeaders()
	_, _, err = h.Parse([]byte("no colon here\r\n"))
	require.Error(t, err)

	// Test: Lookups are case-insensitive
	h = NewHeaders()
	_, _, err = h.Parse([]byte("Content-Type: application/json\r\n"))
	require.NoError(t, err)
	val, ok = h.Get("CONTENT-TYPE")
	assert.True(t, ok)
	assert.Equal(t, "application/json", val)
}

func TestHeaderSetAddDel(t *testing.T) {
	h := NewHeaders()

	h.Set("Content-Type", "text/html")
	val, ok := h.Get("content-type")
	assert.True(t, ok)
	assert.Equal(t, "text/html", val)

	// Set replaces, Add appends
	h.Set("Content-Type", "application/json")
	assert.Equal(t, []string{"application/json"}, h.GetAll("content-type"))
	h.Add("Content-Type", "text/plain")
	assert.Len(t, h.GetAll("content-type"), 2)

	h.Del("content-type")
	_, ok = h.Get("Content-Type")
	assert.False(t, ok)
}
