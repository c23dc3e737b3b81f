package main

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// logEnv is the logging configuration read from the environment.
type logEnv struct {
	File   string `env:"POLYVOX_LOG_FILE"`
	Level  string `env:"POLYVOX_LOG_LEVEL" envDefault:"warn"`
	Format string `env:"POLYVOX_LOG_FORMAT" envDefault:"text"`
}

// setupLog configures the process-wide logger. Synthesized audio may go to
// stdout, so logs default to stderr; POLYVOX_LOG_FILE redirects them to a
// file instead. The returned closer flushes the file, if any.
func setupLog() (func() error, error) {
	cfg, err := env.ParseAs[logEnv]()
	if err != nil {
		return nil, fmt.Errorf("error parsing log config: %w", err)
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.WarnLevel
	}
	log.SetLevel(level)
	log.SetReportTimestamp(true)
	if cfg.Format == "json" {
		log.SetFormatter(log.JSONFormatter)
	}

	if cfg.File == "" {
		log.SetOutput(os.Stderr)
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	log.SetOutput(f)
	return f.Close, nil
}
