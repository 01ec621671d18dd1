package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the JSON logger used by the server. Development
// environments log at debug level.
func NewLogger(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	l := zerolog.New(os.Stdout).With().Timestamp().Str("service", "civictrack").Logger()
	if env == "production" {
		return l.Level(zerolog.InfoLevel)
	}
	return l.Level(zerolog.DebugLevel)
}
