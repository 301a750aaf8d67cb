package response

import (
	"fmt"
	"io"

	"github.com/tunnelcheck/tunnelcheck/internal/headers"
)

// writerState tracks what has been written so far; a response is status line,
// then headers, then body, in that order, exactly once.
type writerState int

const (
	stateStart writerState = iota
	stateStatusWritten
	stateHeadersWritten
	stateBodyWritten
)

// Writer writes HTTP/1.1 responses to an io.Writer.
type Writer struct {
	w          io.Writer
	state      writerState
	statusCode StatusCode
	hadError   bool
}

// NewWriter creates a new response writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:     w,
		state: stateStart,
	}
}

// WriteStatusLine writes the HTTP status line
func (w *Writer) WriteStatusLine(code StatusCode) error {
	if w.state != stateStart {
		return fmt.Errorf("status line already written")
	}

	statusLine := fmt.Sprintf("HTTP/1.1 %d %s\r\n", code, StatusText(code))
	if _, err := io.WriteString(w.w, statusLine); err != nil {
		w.hadError = true
		return err
	}

	w.statusCode = code
	w.state = stateStatusWritten
	return nil
}

// WriteHeaders writes the header block and its terminating empty line
func (w *Writer) WriteHeaders(h *headers.Headers) error {
	if w.state != stateStatusWritten {
		return fmt.Errorf("must write status line before headers")
	}

	for key, values := range h.All() {
		for _, value := range values {
			if _, err := fmt.Fprintf(w.w, "%s: %s\r\n", key, value); err != nil {
				w.hadError = true
				return err
			}
		}
	}

	if _, err := io.WriteString(w.w, "\r\n"); err != nil {
		w.hadError = true
		return err
	}

	w.state = stateHeadersWritten
	return nil
}

// WriteBody writes the complete response body
func (w *Writer) WriteBody(data []byte) error {
	if w.state != stateHeadersWritten {
		return fmt.Errorf("must write headers before body")
	}

	if len(data) > 0 {
		if _, err := w.w.Write(data); err != nil {
			w.hadError = true
			return err
		}
	}

	w.state = stateBodyWritten
	return nil
}

// Started reports whether any bytes have been written. Once the status line
// is on the wire there is no way to switch to an error response.
func (w *Writer) Started() bool {
	return w.state != stateStart
}

func (w *Writer) HadError() bool {
	return w.hadError
}

func (w *Writer) StatusCode() StatusCode {
	return w.statusCode
}
