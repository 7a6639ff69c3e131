package security

import (
	"log/slog"
)

// Package-level logger for security operations. Starts on the process
// default; the server swaps in the structured logger once logging is
// initialized. Tests may replace it to capture output.
var securityLogger = slog.Default().With("service", "security")

// SetLogger replaces the package logger.
func SetLogger(l *slog.Logger) {
	if l != nil {
		securityLogger = l
	}
}
