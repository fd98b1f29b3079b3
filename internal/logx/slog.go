package logx

import (
	"io"
	"log/slog"
	"strings"
)

type slogLogger struct {
	l *slog.Logger
}

// NewSlog wraps a *slog.Logger.
func NewSlog(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

// NewJSON returns a Logger writing JSON lines to w at the given level
// ("debug", "info", "warn", "error"; unknown values mean info).
func NewJSON(w io.Writer, level string) Logger {
	return NewSlog(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})))
}

// ParseLevel maps a textual level onto slog levels.
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

func (s *slogLogger) Debug(msg string, fields ...Field) { s.l.Debug(msg, toArgs(fields)...) }
func (s *slogLogger) Info(msg string, fields ...Field)  { s.l.Info(msg, toArgs(fields)...) }
func (s *slogLogger) Warn(msg string, fields ...Field)  { s.l.Warn(msg, toArgs(fields)...) }
func (s *slogLogger) Error(msg string, fields ...Field) { s.l.Error(msg, toArgs(fields)...) }

func (s *slogLogger) With(fields ...Field) Logger {
	return &slogLogger{l: s.l.With(toArgs(fields)...)}
}

func toArgs(fields []Field) []any {
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, slog.Any(f.Key, f.Value))
	}
	return args
}

type nopLogger struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field)  {}
func (nopLogger) Warn(string, ...Field)  {}
func (nopLogger) Error(string, ...Field) {}
func (nopLogger) With(...Field) Logger   { return nopLogger{} }
