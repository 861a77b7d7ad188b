package logger

import (
	"io"
	"os"
	"testing"
)

func TestWithComponent(t *testing.T) {
	log := Logger()
	entry := log.WithComponent("test")
	if v, ok := entry.Entry.Data["component"]; !ok || v != "test" {
		t.Fatalf("component field missing: %v", entry.Entry.Data)
	}
}

func TestConfigureInvalidLevel(t *testing.T) {
	// Ensure environment variables do not override the provided level
	t.Setenv("LOG_LEVEL", "")

	log := Logger()
	if err := log.Configure("invalid", "json", "stdout", 0); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestConfigureInvalidFormat(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	log := Logger()
	if err := log.Configure("info", "xml", "stdout", 0); err == nil {
		t.Fatalf("expected error for invalid format")
	}
}

func TestWithEnv(t *testing.T) {
	os.Setenv("FOO", "bar")
	log := Logger()
	entry := log.WithEnv("FOO")
	if v, ok := entry.Entry.Data["FOO"]; !ok || v != "bar" {
		t.Fatalf("env field not set: %v", entry.Entry.Data)
	}
}

func TestWarnErrorCounters(t *testing.T) {
	log := Logger()
	log.SetOutput(io.Discard)

	before := WarnCount("counter_test")
	log.WithComponent("counter_test").Warn("something odd")
	if got := WarnCount("counter_test"); got != before+1 {
		t.Fatalf("warn count = %d, want %d", got, before+1)
	}

	beforeErr := ErrorCount("counter_test")
	log.WithComponent("counter_test").Error("something bad")
	if got := ErrorCount("counter_test"); got != beforeErr+1 {
		t.Fatalf("error count = %d, want %d", got, beforeErr+1)
	}
}
