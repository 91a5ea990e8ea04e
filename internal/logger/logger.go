package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a zerolog logger: console writer in development, JSON
// elsewhere.
func New(env string) zerolog.Logger {
	if env == "dev" || env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
