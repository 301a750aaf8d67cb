package request

import (
	"bytes"
)

var crlf = []byte("\r\n")

// parseRequestLine parses: METHOD PATH VERSION\r\n
// Returns: method, path, version, bytesConsumed, error. A consumed count of
// zero with no error means the line is not complete yet.
func parseRequestLine(data []byte) (string, string, string, int, error) {
	idx := bytes.Index(data, crlf)
	if idx == -1 {
		// Need more data
		return "", "", "", 0, nil
	}

	line := data[:idx]
	consumed := idx + 2

	parts := bytes.SplitN(line, []byte(" "), 3)
	if len(parts) != 3 {
		return "", "", "", 0, ErrMalformedRequestLine
	}

	method := string(parts[0])
	path := string(parts[1])
	version := string(parts[2])

	if !isValidMethod(method) {
		return "", "", "", 0, ErrInvalidMethod
	}

	// The path is echoed back verbatim, so any non-empty target is accepted
	if len(path) == 0 {
		return "", "", "", 0, ErrMalformedRequestLine
	}

	if !isValidVersion(version) {
		return "", "", "", 0, ErrUnsupportedVersion
	}

	return method, path, version, consumed, nil
}

// isValidMethod accepts any token of uppercase letters and hyphens. Which
// methods the server actually supports is the handler's call, not the
// parser's.
func isValidMethod(method string) bool {
	if len(method) == 0 {
		return false
	}
	for _, c := range method {
		if !((c >= 'A' && c <= 'Z') || c == '-') {
			return false
		}
	}
	return true
}

func isValidVersion(version string) bool {
	return version == "HTTP/1.0" || version == "HTTP/1.1"
}
