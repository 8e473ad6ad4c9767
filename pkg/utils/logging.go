package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ConfigureLogging sets the global zerolog logger from LOG_LEVEL and LOG_FORMAT.
// LOG_FORMAT is one of "auto" (console on a terminal, JSON otherwise), "console" or "json"
func ConfigureLogging(cfg *Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.GetWithDefault("LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = zerolog.New(logWriter(cfg.GetWithDefault("LOG_FORMAT", "auto"), os.Stderr)).
		With().
		Timestamp().
		Logger()
}

func logWriter(format string, out *os.File) io.Writer {
	switch strings.ToLower(format) {
	case "json":
		return out
	case "console":
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	default:
		if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
			return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
		}
		return out
	}
}
