package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Level is the minimum severity a logger emits.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the lowercase name of the level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel converts a level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	}
	return InfoLevel, fmt.Errorf("log: unknown level %q", s)
}

func (l Level) slog() slog.Level {
	switch {
	case l <= DebugLevel:
		return slog.LevelDebug
	case l == InfoLevel:
		return slog.LevelInfo
	case l == WarnLevel:
		return slog.LevelWarn
	case l == ErrorLevel:
		return slog.LevelError
	default:
		// above error: effectively silences the logger
		return slog.LevelError + 4
	}
}

// Field is a single structured attribute attached to a log line.
type Field = slog.Attr

// Str returns a string field.
func Str(key, value string) Field { return slog.String(key, value) }

// Int returns an int field.
func Int(key string, value int) Field { return slog.Int(key, value) }

// Int64 returns an int64 field.
func Int64(key string, value int64) Field { return slog.Int64(key, value) }

// Uint64 returns a uint64 field.
func Uint64(key string, value uint64) Field { return slog.Uint64(key, value) }

// Bool returns a bool field.
func Bool(key string, value bool) Field { return slog.Bool(key, value) }

// Dur returns a duration field rendered in milliseconds.
func Dur(key string, value time.Duration) Field { return slog.Int64(key, value.Milliseconds()) }

// Err returns an error field under the conventional "err" key.
func Err(err error) Field {
	if err == nil {
		return slog.String("err", "<nil>")
	}
	return slog.String("err", err.Error())
}

// Component tags log lines with the owning component name.
func Component(name string) Field { return slog.String("component", name) }

// Logger is the logging surface handed to tidemark components.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger carrying the extra fields.
	With(fields ...Field) Logger
}

// Options configures a root logger.
type Options struct {
	// Level is the minimum level to emit. Default InfoLevel.
	Level Level
	// Format selects "text" (default) or "json".
	Format string
	// Writer receives formatted lines. Default os.Stderr.
	Writer io.Writer
}

type logger struct {
	sl *slog.Logger
}

// New builds a Logger from Options.
func New(opts Options) Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: opts.Level.slog()}
	var h slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		h = slog.NewJSONHandler(w, hopts)
	} else {
		h = slog.NewTextHandler(w, hopts)
	}
	return &logger{sl: slog.New(h)}
}

// Default returns an info-level text logger on stderr.
func Default() Logger { return New(Options{}) }

// Discard returns a logger that drops everything. Useful in tests.
func Discard() Logger { return New(Options{Level: ErrorLevel + 1, Writer: io.Discard}) }

func (l *logger) Debug(msg string, fields ...Field) { l.log(slog.LevelDebug, msg, fields) }
func (l *logger) Info(msg string, fields ...Field)  { l.log(slog.LevelInfo, msg, fields) }
func (l *logger) Warn(msg string, fields ...Field)  { l.log(slog.LevelWarn, msg, fields) }
func (l *logger) Error(msg string, fields ...Field) { l.log(slog.LevelError, msg, fields) }

func (l *logger) log(level slog.Level, msg string, fields []Field) {
	l.sl.LogAttrs(context.Background(), level, msg, fields...)
}

func (l *logger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, f)
	}
	return &logger{sl: l.sl.With(args...)}
}
