// Package logger provides verbose logging for tagsearch.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to trace filtering, selection and remote fetches.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level is the severity tag printed in front of a message.
type Level string

// Log levels.
const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
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

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(level Level, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "["+string(level)+"] "+prefix+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(LevelDebug, "", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(LevelInfo, "", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(LevelWarn, "", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Scoped prefixes every message with a fixed scope such as an engine
// session id, so interleaved widgets can be told apart.
type Scoped struct {
	prefix string
}

// WithScope returns a logger that prefixes messages with "scope: ".
func WithScope(scope string) Scoped {
	if scope == "" {
		return Scoped{}
	}
	return Scoped{prefix: scope + ": "}
}

// Debug prints a scoped debug message.
func (s Scoped) Debug(format string, args ...any) {
	logf(LevelDebug, s.prefix, format, args...)
}

// Info prints a scoped informational message.
func (s Scoped) Info(format string, args ...any) {
	logf(LevelInfo, s.prefix, format, args...)
}

// Warn prints a scoped warning.
func (s Scoped) Warn(format string, args ...any) {
	logf(LevelWarn, s.prefix, format, args...)
}
