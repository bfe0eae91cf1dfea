package logging

import (
	"log/slog"
	"os"
)

// Logger is the minimal leveled logging interface used throughout the server.
// It is satisfied by SlogAdapter and by test doubles.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	With(args ...interface{}) Logger
}

// SlogAdapter adapts a *slog.Logger to the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new adapter around the given slog logger.
// A nil logger falls back to slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// DefaultLogger returns an adapter writing text output to stderr.
// Stderr keeps log output away from stdout, which the stdio transport
// reserves for protocol frames.
func DefaultLogger() *SlogAdapter {
	handler := slog.NewTextHandler(os.Stderr, nil)
	return &SlogAdapter{logger: slog.New(handler)}
}

// Logger returns the underlying slog logger.
func (a *SlogAdapter) Logger() *slog.Logger {
	return a.logger
}

// Debug logs a debug message.
func (a *SlogAdapter) Debug(msg string, args ...interface{}) {
	a.logger.Debug(msg, args...)
}

// Info logs an informational message.
func (a *SlogAdapter) Info(msg string, args ...interface{}) {
	a.logger.Info(msg, args...)
}

// Warn logs a warning message.
func (a *SlogAdapter) Warn(msg string, args ...interface{}) {
	a.logger.Warn(msg, args...)
}

// Error logs an error message.
func (a *SlogAdapter) Error(msg string, args ...interface{}) {
	a.logger.Error(msg, args...)
}

// With returns a new Logger with additional context attributes.
func (a *SlogAdapter) With(args ...interface{}) Logger {
	return &SlogAdapter{logger: a.logger.With(args...)}
}
