// Package logging builds the slog logger used by tiershare, writing to
// stderr or to a size-rotated log file.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// ErrInvalidLevel indicates the log level is not recognized.
	ErrInvalidLevel = errors.New("logging: invalid level")

	// ErrInvalidFormat indicates the handler format is not recognized.
	ErrInvalidFormat = errors.New("logging: invalid format")
)

// Rotation defaults for file logging.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

// Options configures New.
type Options struct {
	Level  string // debug, info, warn or error
	Format string // text or json
	File   string // rotate into this file; empty writes to Output

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// Output receives log lines when File is empty. Defaults to stderr.
	Output io.Writer
}

// ParseLevel maps a case-insensitive level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// New builds a logger from opts. The returned closer releases the log
// file, if any, and must be called on shutdown.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer
		closer io.Closer = nopCloser{}
	)
	switch {
	case opts.File != "":
		fileLog := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: orDefault(opts.MaxBackups, DefaultMaxBackups),
			MaxAge:     orDefault(opts.MaxAgeDays, DefaultMaxAgeDays),
		}
		w, closer = fileLog, fileLog
	case opts.Output != nil:
		w = opts.Output
	default:
		w = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		handler = slog.NewTextHandler(w, handlerOpts)
	case "json":
		handlerOpts.ReplaceAttr = func(groups []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey {
				return slog.Attr{Key: "timestamp", Value: attr.Value}
			}
			if attr.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		}
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		_ = closer.Close()
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidFormat, opts.Format)
	}

	return slog.New(handler), closer, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
