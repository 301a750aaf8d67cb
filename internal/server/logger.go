package server

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger is the sink for operator-facing log lines. Every line is prefixed
// with a local timestamp; there is no buffering beyond the sink's own.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is a structured key/value pair attached to a log line
type Field struct {
	Key   string
	Value interface{}
}

// DefaultLogger writes timestamp-prefixed lines to a single writer, stdout by
// default.
type DefaultLogger struct {
	mu  sync.Mutex
	out io.Writer
}

func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{out: os.Stdout}
}

// NewLoggerTo writes to the given sink instead of stdout.
func NewLoggerTo(out io.Writer) *DefaultLogger {
	return &DefaultLogger{out: out}
}

func (l *DefaultLogger) Debug(msg string, fields ...Field) { l.log("DEBUG", msg, fields...) }
func (l *DefaultLogger) Info(msg string, fields ...Field)  { l.log("INFO", msg, fields...) }
func (l *DefaultLogger) Warn(msg string, fields ...Field)  { l.log("WARN", msg, fields...) }
func (l *DefaultLogger) Error(msg string, fields ...Field) { l.log("ERROR", msg, fields...) }

func (l *DefaultLogger) log(level, msg string, fields ...Field) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] %s: %s", timestamp, level, msg)

	if len(fields) > 0 {
		line += " |"
		for _, f := range fields {
			line += fmt.Sprintf(" %s=%v", f.Key, truncateValue(f.Value))
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, line)
}

// truncateValue keeps echoed client data from flooding the log
func truncateValue(v interface{}) interface{} {
	if s, ok := v.(string); ok && len(s) > 200 {
		return s[:200] + "...[truncated]"
	}
	return v
}

// NullLogger discards all logs (for tests)
type NullLogger struct{}

func (NullLogger) Debug(msg string, fields ...Field) {}
func (NullLogger) Info(msg string, fields ...Field)  {}
func (NullLogger) Warn(msg string, fields ...Field)  {}
func (NullLogger) Error(msg string, fields ...Field) {}
