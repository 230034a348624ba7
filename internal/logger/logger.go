// Package logger provides a structured logging wrapper using zap.
package logger

import (
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	current  atomic.Pointer[zap.Logger]
	initOnce sync.Once
)

// New builds a logger. Debug uses the development config at DEBUG level with
// colored levels; otherwise JSON at INFO with ISO8601 timestamps.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		config := zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return config.Build()
	}

	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}

// Init installs the global logger. Only the first call has an effect.
func Init(debug bool) {
	initOnce.Do(func() {
		l, err := New(debug)
		if err != nil {
			l = zap.NewNop()
		}
		current.Store(l)
	})
}

// SetLogger replaces the global logger and returns a func restoring the
// previous one. Intended for tests capturing log output.
func SetLogger(l *zap.Logger) (restore func()) {
	prev := current.Swap(l)
	return func() { current.Store(prev) }
}

// Sync flushes any buffered log entries.
// Should be called before the application exits.
func Sync() {
	if l := current.Load(); l != nil {
		_ = l.Sync()
	}
}

// L returns the global logger, initializing it from GIN_MODE on first use.
func L() *zap.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	Init(os.Getenv("GIN_MODE") != "release")
	return current.Load()
}

// With creates a child logger with additional fields.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	L().Info(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}

// Fatal logs a fatal message and exits.
func Fatal(msg string, fields ...zap.Field) {
	L().Fatal(msg, fields...)
}
