// Package logger builds the structured slog logger shared by the CLI and the TUI.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	Writer io.Writer
	Format string
	Level  slog.Level
}

// New creates a logger writing to cfg.Writer (stderr when nil).
func New(cfg Config) *slog.Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, FormatJSON) {
		handler = slog.NewJSONHandler(cfg.Writer, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Writer, opts)
	}
	return slog.New(handler)
}

// NewFile opens path for appending and returns a logger on it plus the closer.
// The TUI logs here so output does not tear the alternate screen.
func NewFile(path, format string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(Config{Writer: f, Format: format, Level: level}), f, nil
}

// Discard drops everything; handy for tests and quiet code paths.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel converts a string to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
