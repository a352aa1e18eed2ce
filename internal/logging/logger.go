// Package logging appends timestamped lines to a log file. The TUI owns
// the terminal, so nothing is ever written to stdout or stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level orders messages; a logger at verbosity v keeps levels <= v.
type Level int

const (
	LevelError Level = iota
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// Logger writes to one file. A nil *Logger discards everything, so callers
// never need to check whether logging is configured.
type Logger struct {
	mu        sync.Mutex
	w         io.Writer
	closer    io.Closer
	verbosity Level
	now       func() time.Time
}

// Open creates (or appends to) the file at path.
func Open(path string, verbosity int, version string) (*Logger, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("logging: ensure log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	l := New(f, verbosity)
	l.closer = f
	_, _ = fmt.Fprintf(f, "=== hcj-play %s started at %s ===\n", version, time.Now().Format(time.RFC3339))
	return l, nil
}

// New logs to w.
func New(w io.Writer, verbosity int) *Logger {
	return &Logger{w: w, verbosity: Level(verbosity), now: time.Now}
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }

// Enabled reports whether lines at lvl are kept.
func (l *Logger) Enabled(lvl Level) bool {
	return l != nil && l.w != nil && lvl <= l.verbosity
}

func (l *Logger) logf(lvl Level, format string, args ...any) {
	if !l.Enabled(lvl) {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.w, "[%s] %-5s %s\n", l.now().Format(time.RFC3339), lvl, line)
}
