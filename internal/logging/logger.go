package logging

import (
	"log/slog"
	"os"
)

// Logger wraps slog with the helpers used across the service.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a logger: readable text output in development,
// JSON in production.
func NewLogger(isDevelopment bool) *Logger {
	var handler slog.Handler
	if isDevelopment {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	return &Logger{slog.New(handler)}
}

// WithFields returns a logger that attaches the given fields to every record.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for key, value := range fields {
		args = append(args, key, value)
	}
	return &Logger{l.Logger.With(args...)}
}
