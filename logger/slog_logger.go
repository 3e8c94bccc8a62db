package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

type slogLogger struct {
	logger *slog.Logger
}

// NewConsoleLogger logs human-readable lines to stdout.
func NewConsoleLogger(level string) Logger {
	return NewWriterLogger(os.Stdout, level, false)
}

// NewFileLogger logs JSON lines to a size-rotated file.
func NewFileLogger(level string, filePath string, maxSize int, maxBackups int, maxAge int) Logger {
	writer := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   true,
	}
	return NewWriterLogger(writer, level, true)
}

// NewWriterLogger logs to w, as JSON when asJSON is set.
func NewWriterLogger(w io.Writer, level string, asJSON bool) Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if asJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &slogLogger{logger: slog.New(handler)}
}

func (l *slogLogger) Debug(args ...interface{}) {
	msg, attrs := splitArgs(args)
	l.logger.Debug(msg, attrs...)
}

func (l *slogLogger) Info(args ...interface{}) {
	msg, attrs := splitArgs(args)
	l.logger.Info(msg, attrs...)
}

func (l *slogLogger) Warn(args ...interface{}) {
	msg, attrs := splitArgs(args)
	l.logger.Warn(msg, attrs...)
}

func (l *slogLogger) Error(args ...interface{}) {
	msg, attrs := splitArgs(args)
	l.logger.Error(msg, attrs...)
}

// Fatal logs at error level and exits.
func (l *slogLogger) Fatal(args ...interface{}) {
	msg, attrs := splitArgs(args)
	l.logger.Error(msg, attrs...)
	os.Exit(1)
}

func (l *slogLogger) With(args ...interface{}) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

// splitArgs treats a leading string followed by key/value pairs as a structured record.
func splitArgs(args []interface{}) (string, []interface{}) {
	if msg, ok := firstString(args); ok && len(args)%2 == 1 {
		return msg, args[1:]
	}
	return formatArgs(args...), nil
}

func firstString(args []interface{}) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	s, ok := args[0].(string)
	return s, ok
}
