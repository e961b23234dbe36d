package main

import (
	"github.com/rs/zerolog"
)

// cronLogger routes robfig/cron's key/value logging through zerolog
type cronLogger struct {
	logger zerolog.Logger
}

// Info is used by cron for routine scheduling chatter, so it logs at debug
func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
