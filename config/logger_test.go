package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestBuildLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"

	log, err := BuildLogger(cfg)
	if err != nil {
		t.Fatalf("BuildLogger: %v", err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level: got %v, want debug", log.GetLevel())
	}
}

func TestBuildLoggerBadLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "chatty"

	_, err := BuildLogger(cfg)
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("got %v, want ErrInvalidLogLevel", err)
	}
}

func TestBuildLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.LogFile = filepath.Join(dir, "ledger.log")

	log, err := BuildLogger(cfg)
	if err != nil {
		t.Fatalf("BuildLogger: %v", err)
	}
	log.Info("hello")

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}
