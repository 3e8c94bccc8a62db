package logger

// Logger defines the logging interface used across the API.
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	// With returns a logger that attaches key/value pairs to every record.
	With(args ...interface{}) Logger
}
