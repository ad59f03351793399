// Package logging configures zerolog for ShareSub.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var setupOnce sync.Once

// Setup configures the global logger. Level is one of trace, debug,
// info, warn, error; anything else falls back to info.
func Setup(level string, console bool) {
	setupOnce.Do(func() {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

		var out io.Writer = os.Stderr
		if console {
			out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
		}

		log.Logger = zerolog.New(out).Level(parseLevel(level)).With().Timestamp().Logger()
	})
}

// Component returns a logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
