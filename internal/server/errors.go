package server

import (
	"errors"
	"fmt"
	"syscall"
)

// StartupError reports a bind failure. It is always fatal: the server never
// reaches its serving state when Listen returns one.
type StartupError struct {
	Port      int
	PortInUse bool
	Err       error
}

func (e *StartupError) Error() string {
	if e.PortInUse {
		return fmt.Sprintf("port %d is already in use (try a different port, e.g. %d)", e.Port, e.Port+1)
	}
	return fmt.Sprintf("error starting server on port %d: %v", e.Port, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

func newStartupError(port int, err error) *StartupError {
	return &StartupError{
		Port:      port,
		PortInUse: errors.Is(err, syscall.EADDRINUSE),
		Err:       err,
	}
}
