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

// Logger appends timestamped lines to the simulator log so that runtime
// events stay inspectable while the terminal UI owns the screen.
type Logger struct {
	mu  sync.Mutex
	out io.Writer
	c   io.Closer
}

// New creates (or reuses) the log file at path, creating parent directories.
func New(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{out: f, c: f}, nil
}

// NewWriter logs to w. Close does not close w.
func NewWriter(w io.Writer) *Logger {
	return &Logger{out: w}
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.c == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.c.Close()
	l.out, l.c = nil, nil
	return err
}

// Printf writes a single timestamped line to the log.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	line = strings.TrimRight(line, "\n")
	timestamp := time.Now().Format(time.RFC3339)
	fmt.Fprintf(l.out, "[%s] %s\n", timestamp, line)
}
