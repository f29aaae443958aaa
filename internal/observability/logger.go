// Package observability provides structured-logger construction for the CLI.
package observability

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	// ErrLogFormat indicates an unknown log format name.
	ErrLogFormat = errors.New("unknown log format")
	// ErrLogLevel indicates an unknown log level name.
	ErrLogLevel = errors.New("unknown log level")
)

// NewLogger builds a structured logger writing to w with the given level and
// format. Level names are debug, info, warn, error; formats are text and
// json.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	if err := ParseFormat(format); err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}

	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// ParseFormat checks a format name. The config validator and the logger
// constructor share this single list.
func ParseFormat(format string) error {
	switch format {
	case FormatText, FormatJSON:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrLogFormat, format)
	}
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrLogLevel, level)
	}
}
