// Package logx is the structured logging facade used across the service.
package logx

// Logger writes leveled entries with key/value fields.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child logger that prepends fields to every entry.
	With(fields ...Field) Logger
	// Sync flushes buffered output, if any.
	Sync() error
}
