package config

import (
	"fmt"
	"strings"

	"github.com/tunesplit/libroyalty-go/split"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if err := split.ValidateAddress(cfg.DefaultAsset); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDefaultAsset, err)
	}

	if cfg.ChainID == 0 {
		return ErrInvalidChainID
	}

	if cfg.MaxClockSkew < 0 {
		return ErrInvalidClockSkew
	}

	return nil
}
