package headers

import (
	"bytes"
	"fmt"
	"strings"
)

// Headers is a case-insensitive header multimap. Keys are stored lowercased;
// lookups may use any casing.
type Headers struct {
	headers map[string][]string
}

func NewHeaders() *Headers {
	return &Headers{
		headers: make(map[string][]string),
	}
}

// Get returns the first value for a header.
func (h *Headers) Get(key string) (string, bool) {
	values := h.headers[strings.ToLower(key)]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// GetAll returns every value recorded for a header.
func (h *Headers) GetAll(key string) []string {
	return h.headers[strings.ToLower(key)]
}

// All returns the internal map for iteration.
func (h *Headers) All() map[string][]string {
	return h.headers
}

// Set replaces all values for a header.
func (h *Headers) Set(key, value string) {
	h.headers[strings.ToLower(key)] = []string{value}
}

// Add appends a value to a header.
func (h *Headers) Add(key, value string) {
	key = strings.ToLower(key)
	h.headers[key] = append(h.headers[key], value)
}

// Del removes a header.
func (h *Headers) Del(key string) {
	delete(h.headers, strings.ToLower(key))
}

var crlf = []byte("\r\n")

// Parse consumes header lines from data until the empty line that ends the
// header block. It returns the number of bytes consumed and whether the block
// is complete; a short read yields done=false so the caller can feed more
// data.
func (h *Headers) Parse(data []byte) (int, bool, error) {
	read := 0

	for {
		idx := bytes.Index(data[read:], crlf)
		if idx == -1 {
			// Need more data
			break
		}

		if idx == 0 {
			// Empty line = end of headers
			return read + 2, true, nil
		}

		line := data[read : read+idx]

		// Obsolete line folding starts with whitespace; reject it
		if line[0] == ' ' || line[0] == '\t' {
			return read, false, fmt.Errorf("obsolete line folding not supported")
		}

		name, value, err := splitHeaderLine(line)
		if err != nil {
			return read, false, err
		}

		h.Add(name, value)
		read += idx + 2
	}

	return read, false, nil
}

func splitHeaderLine(line []byte) (string, string, error) {
	colonIdx := bytes.IndexByte(line, ':')
	if colonIdx == -1 {
		return "", "", fmt.Errorf("malformed header: no colon")
	}

	name := line[:colonIdx]
	value := bytes.TrimSpace(line[colonIdx+1:])

	if len(name) == 0 {
		return "", "", fmt.Errorf("malformed header: empty name")
	}

	// Whitespace between the name and the colon is invalid
	if bytes.ContainsAny(name, " \t") {
		return "", "", fmt.Errorf("malformed header: whitespace in name")
	}

	for _, b := range name {
		if !isTokenChar(b) {
			return "", "", fmt.Errorf("invalid character in header name: %c", b)
		}
	}

	return strings.ToLower(string(name)), string(value), nil
}

func isTokenChar(b byte) bool {
	return (b >= 'A' && b <= 'Z') ||
		(b >= 'a' && b <= 'z') ||
		(b >= '0' && b <= '9') ||
		b == '!' || b == '#' || b == '$' || b == '%' || b == '&' ||
		b == '\'' || b == '*' || b == '+' || b == '-' || b == '.' ||
		b == '^' || b == '_' || b == '`' || b == '|' || b == '~'
}
