// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"
)

// New returns a text slog.Logger writing to w at the given level.
func New(level slog.Level, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return New(slog.LevelError+4, io.Discard)
}
