package config

import (
	"testing"
	"time"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("TASKFLOW_API_URL", "")
	t.Setenv("TASKFLOW_LOG_LEVEL", "")
	t.Setenv("TASKFLOW_REQUEST_TIMEOUT_SECONDS", "")

	cfg := loadFromEnv(Settings{})
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("expected default base url, got %q", cfg.APIBaseURL)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected info level, got %q", cfg.LogLevel)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %v", cfg.RequestTimeout)
	}
}

func TestLoadFromEnvOverridesSettings(t *testing.T) {
	t.Setenv("TASKFLOW_API_URL", "https://api.example.com")
	t.Setenv("TASKFLOW_LOG_LEVEL", "debug")
	t.Setenv("TASKFLOW_REQUEST_TIMEOUT_SECONDS", "5")

	cfg := loadFromEnv(Settings{APIBaseURL: "http://from-file", LogLevel: "warn"})
	if cfg.APIBaseURL != "https://api.example.com" {
		t.Fatalf("environment should win over settings, got %q", cfg.APIBaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("environment should win over settings, got %q", cfg.LogLevel)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", cfg.RequestTimeout)
	}
}

func TestLoadFromEnvFallsBackToSettings(t *testing.T) {
	t.Setenv("TASKFLOW_API_URL", "")
	t.Setenv("TASKFLOW_LOG_LEVEL", "")

	cfg := loadFromEnv(Settings{APIBaseURL: "http://from-file", LogLevel: "warn"})
	if cfg.APIBaseURL != "http://from-file" {
		t.Fatalf("expected settings value, got %q", cfg.APIBaseURL)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected settings value, got %q", cfg.LogLevel)
	}
}

func TestLoadFromEnvBadTimeout(t *testing.T) {
	t.Setenv("TASKFLOW_REQUEST_TIMEOUT_SECONDS", "soon")
	cfg := loadFromEnv(Settings{})
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("expected fallback timeout, got %v", cfg.RequestTimeout)
	}
}

func TestAtoiOrDefault(t *testing.T) {
	if got := atoiOrDefault("15", 30); got != 15 {
		t.Fatalf("expected 15, got %d", got)
	}
	if got := atoiOrDefault("nope", 30); got != 30 {
		t.Fatalf("expected fallback, got %d", got)
	}
	if got := atoiOrDefault("0", 30); got != 30 {
		t.Fatalf("expected fallback for zero, got %d", got)
	}
}
