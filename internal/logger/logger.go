package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

func New() zerolog.Logger {
	// For Google Cloud Logging, the level field name should be "severity".
	zerolog.LevelFieldName = "severity"
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Use ConsoleWriter for local development for more readable logs.
	if os.Getenv("ENV") == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	return logger.Level(Level(os.Getenv("LOG_LEVEL"), os.Getenv("ENV")))
}

// Level resolves the configured level name, falling back to debug in
// development and info everywhere else.
func Level(name, env string) zerolog.Level {
	if name != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(name)); err == nil {
			return lvl
		}
	}
	if env == "development" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
