package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide structured logger. Production emits
// JSON at info level; dev turns on debug and a human-readable text format.
func NewLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler

	if env == "dev" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(NewTraceHandler(handler))
}
