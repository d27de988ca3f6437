package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

func New(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	var l zerolog.Logger
	if env == "dev" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger().
			Level(zerolog.DebugLevel)
	} else {
		l = zerolog.New(os.Stdout).With().Timestamp().Logger().
			Level(zerolog.InfoLevel)
	}
	return l
}
