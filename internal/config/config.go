package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the resolved runtime configuration: settings file values
// overlaid by environment variables.
type Config struct {
	APIBaseURL     string
	LogLevel       string
	LogFile        string
	RequestTimeout time.Duration
}

const defaultAPIBaseURL = "http://localhost:8000"

// LoadConfig resolves the configuration. The settings file supplies
// defaults; TASKFLOW_* environment variables win over it.
func LoadConfig() Config {
	settings, _ := DefaultSettingsStore().LoadOrInit()
	return loadFromEnv(settings)
}

func loadFromEnv(settings Settings) Config {
	base := os.Getenv("TASKFLOW_API_URL")
	if base == "" {
		base = settings.APIBaseURL
	}
	if base == "" {
		base = defaultAPIBaseURL
	}

	level := os.Getenv("TASKFLOW_LOG_LEVEL")
	if level == "" {
		level = settings.LogLevel
	}
	if level == "" {
		level = "info"
	}

	logFile := os.Getenv("TASKFLOW_LOG_FILE")
	if logFile == "" {
		logFile = defaultLogFile()
	}

	timeout := 30 * time.Second
	if v := os.Getenv("TASKFLOW_REQUEST_TIMEOUT_SECONDS"); v != "" {
		if n := atoiOrDefault(v, 30); n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	return Config{
		APIBaseURL:     base,
		LogLevel:       level,
		LogFile:        logFile,
		RequestTimeout: timeout,
	}
}

func defaultLogFile() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "taskflow", "taskflow.log")
}

func atoiOrDefault(v string, fallback int) int {
	n := 0
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return fallback
		}
		n = n*10 + int(v[i]-'0')
	}
	if n == 0 {
		return fallback
	}
	return n
}
