// Package logger provides diagnostic logging for gitsync.
// Info, warning and error messages are always written; debug messages
// only appear when verbose mode is enabled via the --verbose flag.
// The audit log of git output is a separate component and does not go
// through this package.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu         sync.RWMutex
	verbose    bool
	timestamps bool
	output     io.Writer = os.Stderr
)

// SetVerbose enables or disables debug logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetTimestamps prefixes every line with the local time when enabled.
// The daemon turns this on; one-shot commands leave it off.
func SetTimestamps(v bool) {
	mu.Lock()
	defer mu.Unlock()
	timestamps = v
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		write("DEBUG", format, args...)
	}
}

// Info prints an informational message.
func Info(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	write("INFO", format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	write("WARN", format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	write("ERROR", format, args...)
}

// write formats one line (caller must hold mu).
func write(level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if timestamps {
		fmt.Fprintf(output, "%s [%s] %s\n", time.Now().Format(time.DateTime), level, msg)
		return
	}
	fmt.Fprintf(output, "[%s] %s\n", level, msg)
}
