// Package logger configures log/slog. The terminal belongs to the UI, so
// logs are written to a file rather than stderr.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config holds logger configuration.
type Config struct {
	Level  slog.Level
	Format string // "text" or "json"
}

// NewLogger creates a configured slog.Logger writing to w.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.Level <= slog.LevelDebug,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// DefaultConfig returns the default logger configuration.
// MPVQ_LOG_LEVEL overrides the level (DEBUG, INFO, WARN, WARNING, ERROR).
func DefaultConfig() Config {
	level := slog.LevelInfo
	if env := os.Getenv("MPVQ_LOG_LEVEL"); env != "" {
		if parsed, err := ParseLevel(env); err == nil {
			level = parsed
		}
	}
	return Config{Level: level, Format: "text"}
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// DefaultPath is where logs go when no file is given.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), "mpvq.log")
}

// OpenFile opens path for appending and returns a logger writing to it.
// The caller closes the returned file.
func OpenFile(path string, cfg Config) (*slog.Logger, *os.File, error) {
	if path == "" {
		path = DefaultPath()
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewLogger(f, cfg), f, nil
}
