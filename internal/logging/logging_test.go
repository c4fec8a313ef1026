package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRejectsBadLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "loud"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestNewWritesToFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.File = filepath.Join(t.TempDir(), "server.log")

	logger, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	logger.Named("engine").Info("engine started")
	logger.Debug("hidden at info level")
	Sync(logger)

	data, err := os.ReadFile(cfg.File)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "engine started") || !strings.Contains(out, "INFO") {
		t.Errorf("missing entry in %q", out)
	}
	if strings.Contains(out, "hidden at info level") {
		t.Error("debug entry should be filtered")
	}
}
