package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	App     zerolog.Logger
	Scanner zerolog.Logger
	Enabled bool
)

func init() { //nolint:gochecknoinits // loggers must exist before any package uses them
	// Only enable logging if STORAGESPACE_DEBUG environment variable is set
	if os.Getenv("STORAGESPACE_DEBUG") == "" {
		App = zerolog.Nop()
		Scanner = zerolog.Nop()
		Enabled = false
		return
	}

	Enabled = true

	// Open debug.log once for all loggers; stdout belongs to the TUI
	var out io.Writer = os.Stderr
	if debugFile, err := os.OpenFile("debug.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		out = debugFile
	}

	configure(out, os.Getenv("LOG_LEVEL"))
}

func configure(out io.Writer, level string) {
	writer := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = out
		w.NoColor = true
		w.TimeFormat = "15:04:05.000000"
	})

	base := zerolog.New(writer).Level(parseLevel(level)).With().Timestamp().Logger()
	App = base.With().Str("component", "app").Logger()
	Scanner = base.With().Str("component", "scanner").Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return zerolog.TraceLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.DebugLevel
	}
}

// Since returns a duration field value rounded for log output
func Since(start time.Time) time.Duration {
	return time.Since(start).Round(time.Millisecond)
}
