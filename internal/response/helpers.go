package response

import (
	"fmt"
	"strconv"

	"github.com/tunnelcheck/tunnelcheck/internal/headers"
)

// Respond writes a complete response in one call. extra may be nil; when
// given, its headers are sent alongside Content-Type and Content-Length.
func (w *Writer) Respond(code StatusCode, contentType string, body []byte, extra *headers.Headers) error {
	h := headers.NewHeaders()
	if extra != nil {
		for key, values := range extra.All() {
			for _, value := range values {
				h.Add(key, value)
			}
		}
	}

	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	h.Set("Content-Length", strconv.Itoa(len(body)))
	h.Set("Connection", "close")

	if err := w.WriteStatusLine(code); err != nil {
		return err
	}
	if err := w.WriteHeaders(h); err != nil {
		return err
	}
	return w.WriteBody(body)
}

// TextResponse writes a plain text response
func (w *Writer) TextResponse(code StatusCode, body string, extra *headers.Headers) error {
	return w.Respond(code, "text/plain; charset=utf-8", []byte(body), extra)
}

// HTMLResponse writes an HTML response
func (w *Writer) HTMLResponse(code StatusCode, body string, extra *headers.Headers) error {
	return w.Respond(code, "text/html", []byte(body), extra)
}

// JSONResponse writes a JSON response
func (w *Writer) JSONResponse(code StatusCode, body []byte, extra *headers.Headers) error {
	return w.Respond(code, "application/json", body, extra)
}

// ErrorResponse writes a standard one-line error body
func (w *Writer) ErrorResponse(code StatusCode, message string, extra *headers.Headers) error {
	if message == "" {
		message = StatusText(code)
	}
	body := fmt.Sprintf("Error %d: %s\n", code, message)
	return w.TextResponse(code, body, extra)
}
