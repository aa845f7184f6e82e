// Package logging builds wlview's slog logger from the log_format and
// log_level settings.
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pwntr/tinter"
	"golang.org/x/term"
)

// Format selects the log output format.
type Format string

const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts the log_format values; anything else means auto.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "tint", "human":
		return FormatText
	case "json":
		return FormatJSON
	default:
		return FormatAuto
	}
}

// ParseLevel accepts the log_level values, "warning" included. Unknown
// names mean info.
func ParseLevel(s string) slog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return term.IsTerminal(int(fd)) || isatty.IsCygwinTerminal(fd)
}

// NewHandler writes colored text to terminals and JSON elsewhere, so a
// viewer started from a launcher still leaves parseable logs.
func NewHandler(w io.Writer, format Format, level slog.Level) slog.Handler {
	if format == FormatJSON || (format == FormatAuto && !IsTTY(w)) {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return tinter.NewHandler(w, &tinter.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
	})
}

// Component tags a logger with the subsystem that owns it.
func Component(l *slog.Logger, name string) *slog.Logger {
	return l.With("component", name)
}

// Setup installs the process logger writing to w. Output from the standard
// log package, which libraries may use, is kept at debug level.
func Setup(w io.Writer, format Format, level slog.Level) *slog.Logger {
	h := NewHandler(w, format, level)
	logger := slog.New(h)
	slog.SetDefault(logger)

	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(h.WithAttrs([]slog.Attr{slog.String("component", "stdlog")}), slog.LevelDebug).Writer())
	return logger
}
