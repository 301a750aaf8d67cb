// Package echo builds the diagnostic responses that prove a tunnel forwards
// HTTP traffic end-to-end. GET returns a human-readable page echoing the
// request metadata; POST echoes the body back as JSON.
package echo

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tunnelcheck/tunnelcheck/internal/headers"
	"github.com/tunnelcheck/tunnelcheck/internal/request"
	"github.com/tunnelcheck/tunnelcheck/internal/response"
	"github.com/tunnelcheck/tunnelcheck/internal/server"
)

const postGreeting = "Hello World from POST!"

// Handler is the response builder for the test server. Construct one per
// server instance; it holds no cross-request state beyond its logger.
type Handler struct {
	logger server.Logger
	now    func() time.Time
}

type Option func(*Handler)

// WithClock overrides the wall clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

func New(logger server.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = server.NullLogger{}
	}
	h := &Handler{
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) ServeHTTP(w *response.Writer, req *request.Request) {
	switch req.Method {
	case "GET":
		h.serveGet(w, req)
	case "POST":
		h.servePost(w, req)
	default:
		w.ErrorResponse(response.StatusMethodNotAllowed,
			fmt.Sprintf("method %s is not supported by the test server", req.Method),
			h.baseHeaders())
	}
}

func (h *Handler) serveGet(w *response.Writer, req *request.Request) {
	requestID := uuid.NewString()
	timestamp := h.now().Format("2006-01-02 15:04:05")

	// Path and client address are echoed verbatim, unescaped: the tests for
	// a tunnel round trip check for the exact bytes that were sent.
	page := fmt.Sprintf(diagnosticPage, timestamp, req.Path, req.ClientIP())

	body, extra := h.encodeBody([]byte(page), req)
	extra.Set("X-Request-ID", requestID)
	if err := w.HTMLResponse(response.StatusOK, string(body), extra); err != nil {
		h.logger.Error("write failed", server.Field{Key: "error", Value: err})
		return
	}

	h.logger.Info("request served",
		server.Field{Key: "path", Value: req.Path},
		server.Field{Key: "client_ip", Value: req.ClientIP()},
		server.Field{Key: "timestamp", Value: timestamp},
		server.Field{Key: "request_id", Value: requestID},
	)
}

// postReply mirrors the response body contract of the test server: the
// received data comes back exactly as sent for any UTF-8 payload.
type postReply struct {
	Message      string `json:"message"`
	Timestamp    string `json:"timestamp"`
	ReceivedData string `json:"received_data"`
	Path         string `json:"path"`
}

func (h *Handler) servePost(w *response.Writer, req *request.Request) {
	requestID := uuid.NewString()

	reply := postReply{
		Message:      postGreeting,
		Timestamp:    h.now().Format(time.RFC3339),
		ReceivedData: decodeDroppingInvalid(req.Body),
		Path:         req.Path,
	}

	payload, err := json.MarshalIndent(reply, "", "  ")
	if err != nil {
		w.ErrorResponse(response.StatusInternalServerError, "", h.baseHeaders())
		return
	}

	body, extra := h.encodeBody(payload, req)
	extra.Set("X-Request-ID", requestID)
	if err := w.JSONResponse(response.StatusOK, body, extra); err != nil {
		h.logger.Error("write failed", server.Field{Key: "error", Value: err})
		return
	}

	h.logger.Info("POST request served",
		server.Field{Key: "path", Value: req.Path},
		server.Field{Key: "bytes", Value: len(req.Body)},
		server.Field{Key: "request_id", Value: requestID},
	)
}

// baseHeaders carries the wildcard CORS grant every response must have so a
// browser pointed at the tunnel endpoint can read the reply.
func (h *Handler) baseHeaders() *headers.Headers {
	out := headers.NewHeaders()
	out.Set("Access-Control-Allow-Origin", "*")
	return out
}

// encodeBody applies gzip when the client offered it and returns the body
// together with the response headers to send.
func (h *Handler) encodeBody(body []byte, req *request.Request) ([]byte, *headers.Headers) {
	extra := h.baseHeaders()

	if acceptsGzip(req) {
		compressed, err := gzipBytes(body)
		if err == nil {
			extra.Set("Content-Encoding", "gzip")
			return compressed, extra
		}
		// Fall through to identity on compression failure
	}
	return body, extra
}

func acceptsGzip(req *request.Request) bool {
	for _, val := range req.Headers.GetAll("accept-encoding") {
		for _, enc := range strings.Split(val, ",") {
			if strings.EqualFold(strings.TrimSpace(enc), "gzip") {
				return true
			}
		}
	}
	return false
}
