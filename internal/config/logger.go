package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger configures the global zerolog logger for both binaries.
// Development gets human-readable console output unless LOG_FORMAT=json.
func (c *Config) SetupLogger() {
	c.setupLogger(os.Stderr)
}

func (c *Config) setupLogger(out io.Writer) {
	zerolog.SetGlobalLevel(c.GetLogLevel())
	zerolog.TimeFieldFormat = time.RFC3339

	if c.Logging.Format == "console" || (c.IsDevelopment() && c.Logging.Format != "json") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
