package interfaces

import "context"

// Logger is the leveled logger used across the glossary packages. Its method
// set matches github.com/goliatone/go-logger so glog loggers plug in directly.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// FieldsLogger is implemented by loggers that can carry structured fields on
// every entry, such as the article being linked.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

// LoggerProvider hands out loggers by module name, e.g. "glossary.service".
type LoggerProvider interface {
	GetLogger(name string) Logger
}
