// Package logging provides the levelled logger used by breathe.
//
// The terminal belongs to the TUI while a session runs, so log output goes
// to a file opened through bubbletea's LogToFile and never to stdout.
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Level represents the logging level.
type Level int

const (
	LevelSilent Level = iota
	LevelError
	LevelInfo
	LevelDebug
)

// ParseLevel maps a config value to a Level. Unknown names mean info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent", "off", "none":
		return LevelSilent
	case "error":
		return LevelError
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Logger writes levelled log lines. A nil *Logger discards everything, so
// callers never need to check whether logging is enabled.
type Logger struct {
	mu     sync.Mutex
	level  Level
	out    *log.Logger
	closer io.Closer
}

// New creates a logger writing to w.
func New(level Level, w io.Writer) *Logger {
	return &Logger{
		level: level,
		out:   log.New(w, "", log.LstdFlags),
	}
}

// Open creates a logger appending to the file at path.
func Open(level Level, path string) (*Logger, error) {
	f, err := tea.LogToFile(path, "breathe")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := New(level, f)
	l.closer = f
	return l, nil
}

// Close closes the underlying file, if any.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closer != nil {
		err := l.closer.Close()
		l.closer = nil
		return err
	}
	return nil
}

// Error logs an error message.
func (l *Logger) Error(format string, v ...interface{}) {
	l.logf(LevelError, "ERROR", format, v...)
}

// Info logs an info message.
func (l *Logger) Info(format string, v ...interface{}) {
	l.logf(LevelInfo, "INFO", format, v...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, v ...interface{}) {
	l.logf(LevelDebug, "DEBUG", format, v...)
}

// Level returns the current logging level.
func (l *Logger) Level() Level {
	if l == nil {
		return LevelSilent
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *Logger) logf(level Level, tag, format string, v ...interface{}) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.level < level {
		return
	}
	l.out.Printf(tag+": "+format, v...)
}
