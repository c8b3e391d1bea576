// Package logging is the process-wide diagnostic log.
//
// The TUI owns the terminal, so everything goes to a dated file under the
// data directory. Until Init runs the helpers are no-ops, which keeps
// library packages and tests quiet.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Retention is how long dated log files are kept.
const Retention = 14 * 24 * time.Hour

var (
	// Logger is the global logger, nil until Init or InitWriter.
	Logger *log.Logger

	logFile *os.File
)

// FileName is the log file for day t.
func FileName(t time.Time) string {
	return "moderator-" + t.Format("2006-01-02") + ".log"
}

// Init opens <dir>/logs/<FileName(today)> at level ("debug", "info",
// "warn", "error") and removes files older than Retention.
func Init(dir, level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(logDir, FileName(time.Now())), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logFile = f
	Logger = newLogger(f, lvl)
	Logger.Info("moderator started", "pid", os.Getpid(), "level", lvl)

	if n := prune(logDir, time.Now().Add(-Retention)); n > 0 {
		Logger.Debug("old logs removed", "count", n)
	}
	return nil
}

// InitWriter logs to w instead of a file. CLI tools pass os.Stderr.
func InitWriter(w io.Writer, level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	Logger = newLogger(w, lvl)
	return nil
}

func newLogger(w io.Writer, lvl log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
	})
}

// prune deletes dated log files from before cutoff and returns how many
// went. Files it cannot parse are left alone.
func prune(dir string, cutoff time.Time) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, e := range entries {
		day, ok := strings.CutPrefix(e.Name(), "moderator-")
		if !ok {
			continue
		}
		day, ok = strings.CutSuffix(day, ".log")
		if !ok {
			continue
		}
		t, err := time.ParseInLocation("2006-01-02", day, time.Local)
		if err != nil || !t.Before(cutoff) {
			continue
		}
		if os.Remove(filepath.Join(dir, e.Name())) == nil {
			removed++
		}
	}
	return removed
}

// Close flushes and closes the log file, if any.
func Close() {
	if logFile == nil {
		return
	}
	if Logger != nil {
		Logger.Info("moderator shutting down")
	}
	logFile.Close()
	logFile = nil
}

// Debug logs at debug level.
func Debug(msg string, keyvals ...any) { logAt(log.DebugLevel, msg, keyvals) }

// Info logs at info level.
func Info(msg string, keyvals ...any) { logAt(log.InfoLevel, msg, keyvals) }

// Warn logs at warn level.
func Warn(msg string, keyvals ...any) { logAt(log.WarnLevel, msg, keyvals) }

// Error logs at error level.
func Error(msg string, keyvals ...any) { logAt(log.ErrorLevel, msg, keyvals) }

func logAt(lvl log.Level, msg string, keyvals []any) {
	if Logger != nil {
		Logger.Log(lvl, msg, keyvals...)
	}
}

// WithPrefix returns a logger with a prefix, or nil before Init.
func WithPrefix(prefix string) *log.Logger {
	if Logger == nil {
		return nil
	}
	return Logger.WithPrefix(prefix)
}
