package config

import "errors"

var (
	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidDefaultAsset indicates the default asset is not a
	// well-formed address.
	ErrInvalidDefaultAsset = errors.New("config: invalid default asset address")

	// ErrInvalidChainID indicates the chain id is zero.
	ErrInvalidChainID = errors.New("config: chain id must not be zero")

	// ErrInvalidClockSkew indicates a negative max clock skew.
	ErrInvalidClockSkew = errors.New("config: max clock skew must not be negative")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
