// Package logging builds the slog loggers used by the pyjs command.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// DebugEnv turns on debug logging when set to "1"
const DebugEnv = "PYJS_DEBUG"

// New returns a text logger on w without timestamps. The level
// attribute is only printed in debug mode.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug || os.Getenv(DebugEnv) == "1" {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.LevelKey:
				if level > slog.LevelDebug {
					return slog.Attr{}
				}
			}
			return a
		},
	})
	return slog.New(h)
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
