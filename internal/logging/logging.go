// Package logging provides the file logger shared by the companion
// application and the setup tools. It writes leveled, timestamped lines
// to a log file and keeps them in memory so UIs can show the full log
// afterward.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger writes leveled log lines to a file and buffers them in memory.
// It is safe for concurrent use from multiple goroutines. A nil *Logger
// is valid and discards everything, so callers never need to guard
// log calls.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	path     string
	messages []string
	console  bool
}

// New creates a Logger appending to {dir}/{name}.log, creating dir as
// needed. If dir cannot be created or the file cannot be opened, it
// falls back to a directory under the OS temp dir so startup problems
// remain diagnosable.
func New(dir, name string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		dir = filepath.Join(os.TempDir(), "HevolveAgentCompanion")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	logPath := filepath.Join(dir, name+".log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := &Logger{
		file:     f,
		path:     logPath,
		messages: make([]string, 0, 100),
	}
	return l, nil
}

// NewSession creates a Logger writing to a timestamped file in dir:
// {name}-{timestamp}.log. Used by the installer and uninstaller so
// each run keeps its own log.
func NewSession(dir, name string) (*Logger, error) {
	timestamp := time.Now().Format("20060102-150405")
	return New(dir, fmt.Sprintf("%s-%s", name, timestamp))
}

// EchoToConsole mirrors every line to stderr. Used when the app runs
// interactively rather than in background mode.
func (l *Logger) EchoToConsole() {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.console = true
	l.mu.Unlock()
}

// Close closes the log file.
func (l *Logger) Close() {
	if l == nil || l.file == nil {
		return
	}
	l.Info("=== Log ended: %s ===", time.Now().Format(time.RFC3339))
	l.file.Close()
}

// Path returns the path to the log file.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Content returns the buffered log content as a single string.
func (l *Logger) Content() string {
	if l == nil {
		return ""
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.messages, "\n")
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.log("INFO", format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.log("WARN", format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.log("ERROR", format, args...)
}

// Step logs a major milestone in an install or uninstall run.
func (l *Logger) Step(format string, args ...any) {
	l.log("STEP", format, args...)
}

func (l *Logger) log(level, format string, args ...any) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%s] %s: %s", timestamp, level, msg)

	l.messages = append(l.messages, line)

	if l.file != nil {
		fmt.Fprintln(l.file, line)
		l.file.Sync()
	}
	if l.console {
		fmt.Fprintln(os.Stderr, line)
	}
}
