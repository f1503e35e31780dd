package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// New returns the command logger writing to w. Terminals get slog's text
// format; pipes and files get JSON. debug lowers the level to Debug, which
// turns on the HTTP request/response echo.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if IsTerminal(w) {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler).With("app", "moltbook")
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
