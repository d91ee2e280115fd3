package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

var Logger zerolog.Logger

// Init builds the process logger from LOG_LEVEL and LOG_FORMAT (json|console)
// and installs it as the global one. The CLI passes stderr; stdout carries results.
func Init(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := w
	if !strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	Logger = zerolog.New(out).Level(level).With().
		Timestamp().
		Str("app", "useradmin").
		Logger()

	zlog.Logger = Logger
	return Logger
}
