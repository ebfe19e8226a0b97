package core

// Logger is implemented by services/logger.
// Implementations may inspect args for well-known types (eg. Principal)
// to attach request context to reports.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
