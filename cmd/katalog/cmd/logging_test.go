package cmd

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelRouter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(newLevelRouter(&stdout, &stderr, slog.LevelInfo)).With("component", "test")

	logger.Debug("hidden")
	logger.Info("to stdout")
	logger.Warn("also stdout")
	logger.Error("to stderr")

	if strings.Contains(stdout.String(), "hidden") {
		t.Error("debug record written below the configured level")
	}
	if !strings.Contains(stdout.String(), "to stdout") || !strings.Contains(stdout.String(), "also stdout") {
		t.Errorf("stdout missing info/warn records: %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "to stderr") {
		t.Error("error record written to stdout")
	}
	if !strings.Contains(stderr.String(), "to stderr") {
		t.Errorf("stderr missing error record: %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "component=test") {
		t.Errorf("attributes not carried: %q", stderr.String())
	}
}

func TestLevelRouterDebug(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(newLevelRouter(&stdout, &stderr, slog.LevelDebug))

	logger.Debug("visible")
	if !strings.Contains(stdout.String(), "visible") {
		t.Errorf("debug record missing at debug level: %q", stdout.String())
	}
}

func TestGeneratePassword(t *testing.T) {
	a, err := generatePassword(16)
	if err != nil {
		t.Fatalf("generatePassword: %v", err)
	}
	b, _ := generatePassword(16)
	if len(a) != 16 {
		t.Errorf("expected length 16, got %d", len(a))
	}
	if a == b {
		t.Error("expected different passwords")
	}
}
