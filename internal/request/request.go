package request

import (
	"errors"
	"io"
	"net"

	"github.com/tunnelcheck/tunnelcheck/internal/headers"
)

// Request is the ephemeral, per-connection view of one inbound HTTP request.
// The path is kept exactly as the client sent it; nothing is decoded or
// normalized because the whole point of this server is to echo it back.
type Request struct {
	Method     string
	Path       string
	Version    string
	Headers    *headers.Headers
	Body       []byte
	RemoteAddr string
}

var (
	ErrMalformedRequestLine = errors.New("malformed request line")
	ErrInvalidMethod        = errors.New("invalid HTTP method")
	ErrUnsupportedVersion   = errors.New("unsupported HTTP version")
	ErrBadContentLength     = errors.New("invalid Content-Length header")
)

// FromReader reads and parses a single request. The body is read to exactly
// Content-Length bytes; a missing Content-Length means an empty body, and a
// malformed one is reported as ErrBadContentLength rather than propagating a
// generic failure.
func FromReader(reader io.Reader) (*Request, error) {
	req := &Request{
		Headers: headers.NewHeaders(),
	}
	p := newParser()

	buf := make([]byte, 0, 4096)
	readBuf := make([]byte, 4096)

	for p.state != stateDone {
		if len(buf) > 0 {
			consumed, err := p.parse(buf, req)
			if err != nil {
				return nil, err
			}
			if consumed > 0 {
				buf = buf[consumed:]
				continue
			}
		}

		if p.state != stateBody && len(buf) >= maxHeaderBytes {
			return nil, errors.New("request headers too large")
		}

		n, err := reader.Read(readBuf)
		if n > 0 {
			buf = append(buf, readBuf[:n]...)
		}
		if err != nil {
			if err == io.EOF && p.state != stateDone {
				return nil, io.ErrUnexpectedEOF
			}
			if err != io.EOF {
				return nil, err
			}
		}
	}

	return req, nil
}

// FromConn parses one request off a connection and records the peer address.
func FromConn(conn net.Conn) (*Request, error) {
	req, err := FromReader(conn)
	if err != nil {
		return nil, err
	}
	req.RemoteAddr = conn.RemoteAddr().String()
	return req, nil
}

// ClientIP returns the peer address without its port.
func (r *Request) ClientIP() string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
