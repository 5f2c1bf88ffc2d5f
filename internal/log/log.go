// Package log configures the process-wide slog logger: text on a terminal,
// JSON when output is piped or GO_ENV=production.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

var (
	logger *slog.Logger
	once   sync.Once
)

// Options selects the level and output format of the global logger.
type Options struct {
	Level  string    // debug, info, warn, error
	Format string    // text, json, auto
	Output io.Writer // defaults to os.Stderr
}

// Setup initializes the global logger once. Later calls are no-ops.
func Setup(opts Options) {
	once.Do(func() {
		logger = New(opts)
		slog.SetDefault(logger)
	})
}

// New builds a logger without touching the global one.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	}

	if useJSON(opts.Format, out) {
		return slog.New(slog.NewJSONHandler(out, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(out, handlerOpts))
}

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// Text for terminals, JSON when piped or in production.
func useJSON(format string, out io.Writer) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return true
	case "text":
		return false
	}
	if os.Getenv("GO_ENV") == "production" {
		return true
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}

// L returns the global logger, configuring an info-level one on first use
// if Setup has not run.
func L() *slog.Logger {
	Setup(Options{Level: "info", Format: "auto"})
	return logger
}
