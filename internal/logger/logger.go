package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type implLogger struct {
	logger *slog.Logger
	level  string
}

// New creates a Logger writing to stdout. format is "text" or "json".
func New(level, format string) Logger {
	return newWithWriter(os.Stdout, level, format)
}

func newWithWriter(w io.Writer, level, format string) *implLogger {
	// Level filtering happens in shouldLog so the handler accepts everything.
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &implLogger{
		logger: slog.New(handler),
		level:  strings.ToLower(level),
	}
}

func (l *implLogger) shouldLog(level string) bool {
	levels := map[string]int{
		"debug": 0,
		"info":  1,
		"warn":  2,
		"error": 3,
	}

	currentLevel, ok := levels[l.level]
	if !ok {
		currentLevel = 1 // default to info
	}

	targetLevel, ok := levels[level]
	if !ok {
		return true
	}

	return targetLevel >= currentLevel
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("debug") {
		l.logger.DebugContext(ctx, format(msg, args))
	}
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("info") {
		l.logger.InfoContext(ctx, format(msg, args))
	}
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("warn") {
		l.logger.WarnContext(ctx, format(msg, args))
	}
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("error") {
		l.logger.ErrorContext(ctx, format(msg, args))
	}
}

func format(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Printf lets the logger back libraries that expect a printf writer (gorm).
func (l *implLogger) Printf(msg string, args ...interface{}) {
	l.Info(context.Background(), strings.TrimSpace(format(msg, args)))
}

// Writer adapts a Logger into a printf writer. Loggers built by New already
// satisfy it; anything else is wrapped.
func Writer(l Logger) interface{ Printf(string, ...interface{}) } {
	if w, ok := l.(interface{ Printf(string, ...interface{}) }); ok {
		return w
	}
	return printfAdapter{l}
}

type printfAdapter struct{ l Logger }

func (p printfAdapter) Printf(msg string, args ...interface{}) {
	p.l.Info(context.Background(), strings.TrimSpace(format(msg, args)))
}

// Nop discards everything. Tests use it where log output is irrelevant.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...interface{}) {}
func (nopLogger) Info(context.Context, string, ...interface{})  {}
func (nopLogger) Warn(context.Context, string, ...interface{})  {}
func (nopLogger) Error(context.Context, string, ...interface{}) {}
