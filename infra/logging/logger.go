// Package logging writes structured logs to a dated file. The terminal belongs
// to Bubble Tea, so nothing is ever printed to stdout or stderr from here.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.RWMutex
	logger  *log.Logger
	logFile *os.File
)

// Init opens <dir>/logs/terminalgallery-YYYY-MM-DD.log and installs the global logger.
func Init(dir string, debug bool) error {
	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("terminalgallery-%s.log", time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	mu.Lock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	logger = newLogger(f, debug)
	mu.Unlock()
	return nil
}

// SetOutput installs a logger writing to w. Used by tests.
func SetOutput(w io.Writer, debug bool) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w, debug)
}

func newLogger(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
	})
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = nil
}

func current() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Info logs an info message.
func Info(msg string, keyvals ...any) {
	if l := current(); l != nil {
		l.Info(msg, keyvals...)
	}
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...any) {
	if l := current(); l != nil {
		l.Debug(msg, keyvals...)
	}
}

// Warn logs a warning.
func Warn(msg string, keyvals ...any) {
	if l := current(); l != nil {
		l.Warn(msg, keyvals...)
	}
}

// Error logs an error.
func Error(msg string, keyvals ...any) {
	if l := current(); l != nil {
		l.Error(msg, keyvals...)
	}
}
