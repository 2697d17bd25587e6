// Package logging provides helpers for structured, colorized logging across the application.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents a structured log level used by deployctl.
type Level slog.Level

const (
	// LevelDebug represents the debug logging level.
	LevelDebug Level = Level(slog.LevelDebug)
	// LevelInfo represents the informational logging level.
	LevelInfo Level = Level(slog.LevelInfo)
	// LevelWarn represents the warning logging level.
	LevelWarn Level = Level(slog.LevelWarn)
	// LevelError represents the error logging level.
	LevelError Level = Level(slog.LevelError)
)

// ParseLevel converts a textual log level into a Level value.
func ParseLevel(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// NewLogger constructs a slog.Logger configured with a tint handler and level.
func NewLogger(w io.Writer, level Level) *slog.Logger {
	return slog.New(newConsoleHandler(w, level))
}

func newConsoleHandler(w io.Writer, level Level) slog.Handler {
	if w == nil {
		w = os.Stderr
	}
	return tint.NewHandler(w, &tint.Options{
		Level:   slog.Level(level),
		NoColor: !isTerminal(w),
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Options configures the loggers built by New.
type Options struct {
	// Level is the minimum level for both sinks.
	Level Level
	// File is the path of a persisted JSON log. Empty disables it.
	File string
	// Redactor masks secret values in every record. Nil disables masking.
	Redactor *Redactor
}

// Sinks holds the loggers built by New.
type Sinks struct {
	// Logger writes to the console and, when configured, to the log file.
	Logger *slog.Logger
	// File writes to the log file only. It is nil when no file is configured.
	File *slog.Logger

	closer io.Closer
}

// New builds a console logger on w and an optional rotating JSON log file.
func New(w io.Writer, opts Options) *Sinks {
	var (
		console  = newConsoleHandler(w, opts.Level)
		handlers = []slog.Handler{console}
		sinks    = &Sinks{}
	)

	var fileHandler slog.Handler
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
			LocalTime:  true,
		}
		sinks.closer = rotator
		fileHandler = slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: slog.Level(opts.Level)})
		handlers = append(handlers, fileHandler)
	}

	sinks.Logger = slog.New(withRedaction(fanout(handlers...), opts.Redactor))
	if fileHandler != nil {
		sinks.File = slog.New(withRedaction(fileHandler, opts.Redactor))
	}
	return sinks
}

// Close releases the log file, if any.
func (s *Sinks) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
