package logger

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/config"
)

var (
	mu      sync.Mutex
	current Logger
)

// InitLogger installs the process-wide logger. Once one is installed later calls are no-ops;
// a failed call leaves nothing installed so startup can retry with corrected settings.
func InitLogger(settings *config.LoggerSettings) error {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return nil
	}
	l, err := New(settings)
	if err != nil {
		return err
	}
	current = l
	return nil
}

// GetLogger returns the installed logger.
func GetLogger() (Logger, error) {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		return nil, fmt.Errorf("logger not initialized: call InitLogger first")
	}
	return current, nil
}

// New builds a logger from settings without installing it.
func New(c *config.LoggerSettings) (Logger, error) {
	if c == nil {
		return nil, fmt.Errorf("logger settings are required")
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch c.LogType {
	case config.LogTypeConsole:
		return NewConsoleLogger(c.LogLevel), nil
	case config.LogTypeFile:
		if c.FilePath == "" {
			return nil, fmt.Errorf("file logger needs log_file set")
		}
		return NewFileLogger(c.LogLevel, c.FilePath, c.MaxSize, c.MaxBackups, c.MaxAge), nil
	}
	return nil, fmt.Errorf("unsupported log type: %s", c.LogType)
}

// Discard returns a logger that drops everything. Used by tests and CLI dry runs.
func Discard() Logger {
	return NewWriterLogger(io.Discard, config.LogLevelError, false)
}

var levels = map[string]slog.Level{
	config.LogLevelDebug:   slog.LevelDebug,
	config.LogLevelInfo:    slog.LevelInfo,
	config.LogLevelWarning: slog.LevelWarn,
	config.LogLevelError:   slog.LevelError,
}

// parseLevel falls back to info for anything unrecognised.
func parseLevel(level string) slog.Level {
	if l, ok := levels[level]; ok {
		return l
	}
	return slog.LevelInfo
}

func formatArgs(args ...interface{}) string {
	if len(args) == 0 {
		return ""
	}
	return fmt.Sprint(args...)
}
