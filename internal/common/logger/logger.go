package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects how the global logger writes. An empty Level means debug
// when Debug is set and info otherwise. Format is "console" or "json".
type Options struct {
	Level  string
	Format string
	Debug  bool
	Out    io.Writer
}

// Init replaces the global logger and returns it.
func Init(serviceName string, opts Options) (zerolog.Logger, error) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFieldName = "timestamp"
	zerolog.MessageFieldName = "message"

	level, err := parseLevel(opts.Level, opts.Debug)
	if err != nil {
		return zerolog.Logger{}, err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	switch strings.ToLower(opts.Format) {
	case "", "console":
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    out != os.Stdout,
			FormatLevel: func(i interface{}) string {
				return fmt.Sprintf("| %-6s|", i)
			},
			FormatMessage: func(i interface{}) string {
				return fmt.Sprintf("| %s", i)
			},
		}
	case "json":
	default:
		return zerolog.Logger{}, fmt.Errorf("unknown log format %q", opts.Format)
	}

	log.Logger = zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	log.Debug().Str("level", level.String()).Msg("Logger initialized")
	return log.Logger, nil
}

func parseLevel(name string, debug bool) (zerolog.Level, error) {
	if name == "" {
		if debug {
			return zerolog.DebugLevel, nil
		}
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// Component returns a child of the global logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}
