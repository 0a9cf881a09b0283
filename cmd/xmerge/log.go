package main

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var logLevel = new(slog.LevelVar)

// newLogger writes terse text records to w: no timestamp, and the level only
// when it is not INFO.
func newLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch {
			case a.Key == slog.TimeKey:
				return slog.Attr{}
			case a.Key == slog.LevelKey && a.Value.String() == slog.LevelInfo.String():
				return slog.Attr{}
			}
			return a
		},
	}))
}

var stderrLog = sync.OnceValue(func() *slog.Logger {
	return newLogger(os.Stderr, logLevel)
})
