// Package config loads and saves royalty-ledger configuration.
//
// The on-disk format is one "key = value" pair per line; blank lines and
// lines starting with '#' are ignored.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultChainID is the origin chain recorded on deposits when the
// embedding service does not override it (Base Sepolia).
const DefaultChainID = 84532

// DefaultAssetNative is the zero-address convention for the native currency.
const DefaultAssetNative = "0x0000000000000000000000000000000000000000"

// DefaultMaxClockSkew is how far a performance report's period may extend
// past local time before it is rejected as coming from the future.
const DefaultMaxClockSkew = 5 * time.Minute

// Config holds the royalty-ledger settings for an embedding service.
type Config struct {
	DataDir      string // bbolt database directory
	LogLevel     string // debug, info, warn, error
	LogFile      string // empty means stderr
	DefaultAsset string // asset id used when a caller supplies none
	ChainID      uint64 // origin chain id recorded on deposits

	// MaxClockSkew bounds how far report periods may reach past local
	// time; zero disables the check.
	MaxClockSkew time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:      filepath.Join(home, ".royaltyledger"),
		LogLevel:     "info",
		LogFile:      "",
		DefaultAsset: DefaultAssetNative,
		ChainID:      DefaultChainID,
		MaxClockSkew: DefaultMaxClockSkew,
	}
}

// LoadConfig reads configuration from path. Keys missing from the file keep
// their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, ErrConfigNotFound
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, i+1, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch strings.ToLower(key) {
		case "datadir":
			cfg.DataDir = value
		case "loglevel":
			cfg.LogLevel = value
		case "logfile":
			cfg.LogFile = value
		case "defaultasset":
			cfg.DefaultAsset = value
		case "chainid":
			id, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return cfg, fmt.Errorf("%w: line %d: chainid %q", ErrInvalidConfigLine, i+1, value)
			}
			cfg.ChainID = id
		case "maxclockskew":
			d, err := time.ParseDuration(value)
			if err != nil {
				return cfg, fmt.Errorf("%w: line %d: maxclockskew %q", ErrInvalidConfigLine, i+1, value)
			}
			cfg.MaxClockSkew = d
		default:
			return cfg, fmt.Errorf("%w: line %d: unknown key %q", ErrInvalidConfigLine, i+1, key)
		}
	}

	return cfg, nil
}

// SaveConfig writes the configuration to path, creating parent directories
// as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Royalty ledger configuration\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)
	fmt.Fprintf(&b, "defaultasset = %s\n", cfg.DefaultAsset)
	fmt.Fprintf(&b, "chainid = %d\n", cfg.ChainID)
	fmt.Fprintf(&b, "maxclockskew = %s\n", cfg.MaxClockSkew)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
