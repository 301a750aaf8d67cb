package request

import (
	"fmt"
	"strconv"
)

const (
	maxRequestLineSize = 8192
	maxHeaderBytes     = 64 << 10
	maxBodySize        = 10 << 20
)

// parserState tracks how far through the request the parser has read
type parserState int

const (
	stateRequestLine parserState = iota
	stateHeaders
	stateBody
	stateDone
)

type parser struct {
	state         parserState
	contentLength int
}

func newParser() *parser {
	return &parser{state: stateRequestLine}
}

// parse consumes as much of data as the current state allows and advances the
// state machine. It returns the number of bytes consumed; zero with no error
// means more data is needed.
func (p *parser) parse(data []byte, req *Request) (int, error) {
	switch p.state {
	case stateRequestLine:
		return p.parseRequestLine(data, req)

	case stateHeaders:
		return p.parseHeaders(data, req)

	case stateBody:
		return p.parseBody(data, req)

	case stateDone:
		return 0, nil

	default:
		return 0, fmt.Errorf("invalid parser state: %d", p.state)
	}
}

func (p *parser) parseRequestLine(data []byte, req *Request) (int, error) {
	if len(data) > maxRequestLineSize {
		return 0, ErrMalformedRequestLine
	}

	method, path, version, consumed, err := parseRequestLine(data)
	if err != nil {
		return 0, err
	}
	if consumed == 0 {
		// Need more data
		return 0, nil
	}

	req.Method = method
	req.Path = path
	req.Version = version

	p.state = stateHeaders
	return consumed, nil
}

func (p *parser) parseHeaders(data []byte, req *Request) (int, error) {
	consumed, done, err := req.Headers.Parse(data)
	if err != nil {
		return 0, err
	}
	if !done {
		return consumed, nil
	}

	// Header block complete; decide whether a body follows
	cl, err := contentLength(req)
	if err != nil {
		return 0, err
	}

	if cl > 0 {
		p.contentLength = cl
		p.state = stateBody
	} else {
		p.state = stateDone
	}
	return consumed, nil
}

func (p *parser) parseBody(data []byte, req *Request) (int, error) {
	remaining := p.contentLength - len(req.Body)
	if remaining <= 0 {
		p.state = stateDone
		return 0, nil
	}

	toRead := min(remaining, len(data))
	req.Body = append(req.Body, data[:toRead]...)

	if len(req.Body) == p.contentLength {
		p.state = stateDone
	}
	return toRead, nil
}

// contentLength reads the Content-Length header. Absent means zero; anything
// that does not parse as a non-negative int is ErrBadContentLength.
func contentLength(req *Request) (int, error) {
	val, ok := req.Headers.Get("content-length")
	if !ok {
		return 0, nil
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadContentLength, val)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative value %d", ErrBadContentLength, n)
	}
	if n > maxBodySize {
		return 0, fmt.Errorf("%w: body larger than %d bytes", ErrBadContentLength, maxBodySize)
	}
	return n, nil
}
