package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLoggerSingleton() {
	mu.Lock()
	current = nil
	mu.Unlock()
}

func TestWriterLogger_LogsToOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriterLogger(&buf, config.LogLevelInfo, false)

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.With("order", "JH1").Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
	assert.Contains(t, output, "order=JH1")
}

func TestWriterLogger_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriterLogger(&buf, config.LogLevelInfo, false)

	log.Info("order placed", "order_number", "JH20250101", "items", 3)
	log.Info("total", 42)

	output := buf.String()
	assert.Contains(t, output, `msg="order placed"`)
	assert.Contains(t, output, "order_number=JH20250101")
	assert.Contains(t, output, "items=3")
	assert.Contains(t, output, "msg=total42")
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name     string
		settings *config.LoggerSettings
		wantErr  bool
	}{
		{
			name:     "console logger",
			settings: &config.LoggerSettings{LogLevel: config.LogLevelInfo, LogType: config.LogTypeConsole},
		},
		{
			name: "file logger with rotation",
			settings: &config.LoggerSettings{
				LogLevel: config.LogLevelInfo, LogType: config.LogTypeFile,
				MaxSize: 10, MaxBackups: 3, MaxAge: 28,
			},
		},
		{
			name:     "invalid log level",
			settings: &config.LoggerSettings{LogLevel: "invalid", LogType: config.LogTypeConsole},
			wantErr:  true,
		},
		{
			name:     "unsupported log type",
			settings: &config.LoggerSettings{LogLevel: config.LogLevelInfo, LogType: "unknown"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(resetLoggerSingleton)

			if tt.settings.LogType == config.LogTypeFile {
				tt.settings.FilePath = filepath.Join(t.TempDir(), "app.log")
			}

			err := InitLogger(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				l, getErr := GetLogger()
				assert.Error(t, getErr)
				assert.Nil(t, l)
				return
			}

			require.NoError(t, err)
			l, err := GetLogger()
			require.NoError(t, err)
			require.NotNil(t, l)

			if tt.settings.LogType == config.LogTypeFile {
				l.Info("test message")
				_, err := os.Stat(tt.settings.FilePath)
				assert.NoError(t, err)
			}
		})
	}
}

func TestInitLogger_Singleton(t *testing.T) {
	t.Cleanup(resetLoggerSingleton)

	require.NoError(t, InitLogger(&config.LoggerSettings{LogLevel: config.LogLevelInfo, LogType: config.LogTypeConsole}))
	require.NoError(t, InitLogger(&config.LoggerSettings{LogLevel: config.LogLevelDebug, LogType: config.LogTypeConsole}))

	l1, _ := GetLogger()
	l2, _ := GetLogger()
	assert.Same(t, l1, l2)
}

func TestNew_FileLoggerRequiresPath(t *testing.T) {
	_, err := New(&config.LoggerSettings{
		LogLevel: config.LogLevelInfo, LogType: config.LogTypeFile,
		MaxSize: 10, MaxBackups: 3, MaxAge: 28,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file path is required")

	_, err = New(nil)
	assert.Error(t, err)
}

func TestInitLogger_RetriesAfterFailure(t *testing.T) {
	t.Cleanup(resetLoggerSingleton)

	require.Error(t, InitLogger(&config.LoggerSettings{LogLevel: config.LogLevelInfo, LogType: config.LogTypeFile}))
	_, err := GetLogger()
	require.Error(t, err)

	require.NoError(t, InitLogger(&config.LoggerSettings{LogLevel: config.LogLevelInfo, LogType: config.LogTypeConsole}))
	l, err := GetLogger()
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel(config.LogLevelDebug))
	assert.Equal(t, slog.LevelWarn, parseLevel(config.LogLevelWarning))
	assert.Equal(t, slog.LevelError, parseLevel(config.LogLevelError))
	assert.Equal(t, slog.LevelInfo, parseLevel("unknown"))
}
