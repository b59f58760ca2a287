package planar

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger so the package can report contract violations
// and numerical fallbacks without panicking in release builds. The zero
// configuration writes JSON to stderr at the level named by the
// PLANAR_LOG_LEVEL environment variable (DEBUG, INFO, WARN, ERROR).
type Logger struct {
	*slog.Logger
}

var logger = newDefaultLogger()

func newDefaultLogger() *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevelFromEnv(),
	})
	return &Logger{slog.New(handler)}
}

func logLevelFromEnv() slog.Level {
	switch strings.ToUpper(os.Getenv("PLANAR_LOG_LEVEL")) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// SetLogger replaces the package logger. Passing nil restores the default.
// Not safe to call concurrently with stepping worlds.
func SetLogger(l *slog.Logger) {
	if l == nil {
		logger = newDefaultLogger()
		return
	}
	logger = &Logger{l}
}

// Warn logs a contract violation or numerical fallback.
func (l *Logger) Warn(msg string, args ...any) {
	l.Logger.Warn(msg, args...)
}
