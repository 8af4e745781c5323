// Package logging configures the process-wide slog logger from the
// `logging` section of the notesync config.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options mirrors the `logging` config block.
type Options struct {
	Level   string // debug | info | warn | error
	Console bool   // log to stderr
	File    string // optional log file, rotated
}

// Setup installs the default slog logger. Returns a closer for the file
// sink (nil-safe to call when no file is configured).
func Setup(opts Options) func() error {
	level := ParseLevel(opts.Level)

	var handlers []slog.Handler
	closer := func() error { return nil }

	if opts.Console {
		handlers = append(handlers, tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		}))
	}

	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		handlers = append(handlers, slog.NewTextHandler(rotated, &slog.HandlerOptions{
			Level: level,
		}))
		closer = rotated.Close
	}

	if len(handlers) == 0 {
		handlers = append(handlers, slog.NewTextHandler(io.Discard, nil))
	}

	slog.SetDefault(slog.New(NewMultiHandler(handlers...)))
	return closer
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
