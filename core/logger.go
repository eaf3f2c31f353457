package core

// Logger is any leveled logging service.
// Implementations may inspect args for an error or a user record to
// enrich reports (see services/logger).
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// NopLogger discards everything. Used as a default in constructors and tests.
type NopLogger struct{}

var _ Logger = (*NopLogger)(nil)

func (NopLogger) Enable(bool)                  {}
func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}
