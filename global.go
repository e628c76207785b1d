package flowlog

import (
	"context"
	"sync/atomic"

	"flowlog/fields"
	"flowlog/level"
)

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(New(Pretty()))
}

// Default returns the process-wide logger.
func Default() *Logger { return defaultLogger.Load() }

// SetDefault replaces the process-wide logger. It does not close the
// previous one.
func SetDefault(l *Logger) {
	if l == nil {
		panic("flowlog: SetDefault(nil)")
	}
	defaultLogger.Store(l)
}

// Trace logs at trace level through the default logger.
func Trace(ctx context.Context, msg string, fs ...fields.Field) error {
	return Default().Log(ctx, level.Trace, msg, fs...)
}

// Debug logs at debug level through the default logger.
func Debug(ctx context.Context, msg string, fs ...fields.Field) error {
	return Default().Log(ctx, level.Debug, msg, fs...)
}

// Info logs at info level through the default logger.
func Info(ctx context.Context, msg string, fs ...fields.Field) error {
	return Default().Log(ctx, level.Info, msg, fs...)
}

// Warn logs at warn level through the default logger.
func Warn(ctx context.Context, msg string, fs ...fields.Field) error {
	return Default().Log(ctx, level.Warn, msg, fs...)
}

// Error logs at error level through the default logger.
func Error(ctx context.Context, msg string, fs ...fields.Field) error {
	return Default().Log(ctx, level.Error, msg, fs...)
}

// Fatal logs at fatal level through the default logger.
func Fatal(ctx context.Context, msg string, fs ...fields.Field) error {
	return Default().Log(ctx, level.Fatal, msg, fs...)
}
