package server

import (
	"errors"
	"net"
	"runtime/debug"
	"time"

	"github.com/tunnelcheck/tunnelcheck/internal/headers"
	"github.com/tunnelcheck/tunnelcheck/internal/request"
	"github.com/tunnelcheck/tunnelcheck/internal/response"
)

// serveConn handles exactly one request on a connection, then closes it.
// Errors stay contained here: a bad request or a panicking handler answers
// that one client and the accept loop keeps running.
func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()

	start := time.Now()

	req, err := request.FromConn(conn)
	if err != nil {
		s.respondBadRequest(conn, err)
		s.metrics.RecordRequest(int(response.StatusBadRequest), time.Since(start))
		return
	}

	s.logger.Info("request received",
		Field{"method", req.Method},
		Field{"path", req.Path},
		Field{"client", req.RemoteAddr},
	)

	w := response.NewWriter(conn)
	s.dispatch(w, req)
	s.metrics.RecordRequest(int(w.StatusCode()), time.Since(start))
}

// dispatch runs the handler with panic recovery at the connection boundary.
func (s *Server) dispatch(w *response.Writer, req *request.Request) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("handler panic",
				Field{"panic", r},
				Field{"path", req.Path},
				Field{"stack", string(debug.Stack())},
			)

			// Only possible if the status line is not on the wire yet
			if !w.Started() {
				w.ErrorResponse(response.StatusInternalServerError, "", corsHeaders())
			}
		}
	}()

	s.handler.ServeHTTP(w, req)
}

// respondBadRequest answers a request that never parsed. Malformed
// Content-Length gets its own message; everything else is generic.
func (s *Server) respondBadRequest(conn net.Conn, err error) {
	s.logger.Warn("bad request", Field{"error", err})

	msg := "malformed request"
	if errors.Is(err, request.ErrBadContentLength) {
		msg = "invalid Content-Length header"
	}

	w := response.NewWriter(conn)
	w.ErrorResponse(response.StatusBadRequest, msg, corsHeaders())
}

func corsHeaders() *headers.Headers {
	h := headers.NewHeaders()
	h.Set("Access-Control-Allow-Origin", "*")
	return h
}
