package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// BuildLogger constructs a logrus logger from the configured log level and
// log file. An empty LogFile logs to stderr. The returned file handle, if
// any, is owned by the logger's output for the process lifetime.
func BuildLogger(cfg Config) (*logrus.Logger, error) {
	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return nil, ErrInvalidLogLevel
	}

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLogLevel, err)
	}

	log := logrus.New()
	log.SetLevel(level)

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("config: open log file: %w", err)
		}
		log.SetOutput(f)
	}

	return log, nil
}
