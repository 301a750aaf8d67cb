package response

// StatusCode represents HTTP status codes
type StatusCode int

const (
	StatusOK                    StatusCode = 200
	StatusNoContent             StatusCode = 204
	StatusBadRequest            StatusCode = 400
	StatusNotFound              StatusCode = 404
	StatusMethodNotAllowed      StatusCode = 405
	StatusRequestEntityTooLarge StatusCode = 413
	StatusInternalServerError   StatusCode = 500
)

var statusText = map[StatusCode]string{
	StatusOK:                    "OK",
	StatusNoContent:             "No Content",
	StatusBadRequest:            "Bad Request",
	StatusNotFound:              "Not Found",
	StatusMethodNotAllowed:      "Method Not Allowed",
	StatusRequestEntityTooLarge: "Request Entity Too Large",
	StatusInternalServerError:   "Internal Server Error",
}

// StatusText returns the reason phrase for a status code.
func StatusText(code StatusCode) string {
	if text, ok := statusText[code]; ok {
		return text
	}
	return "Unknown Status"
}

// IsClientError returns true for 4xx status codes
func (code StatusCode) IsClientError() bool {
	return code >= 400 && code < 500
}

// IsServerError returns true for 5xx status codes
func (code StatusCode) IsServerError() bool {
	return code >= 500 && code < 600
}
