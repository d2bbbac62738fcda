// Package logging builds the process-wide structured logger for
// drive-mirror.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns the service logger. Production emits JSON records at info
// level for log ingestion; everything else gets human-readable text with
// debug enabled. Every record carries a service attribute so mirror
// lines stay attributable when several services share a sink.
func New(production bool) *slog.Logger {
	return NewWithWriter(os.Stdout, production)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(w io.Writer, production bool) *slog.Logger {
	var handler slog.Handler

	if production {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	return slog.New(handler).With(slog.String("service", "drive-mirror"))
}
