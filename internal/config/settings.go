package config

import (
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const settingsFileName = "config.toml"

// Settings are the values persisted in the user's config file
type Settings struct {
	APIBaseURL string `toml:"api_base_url"`
	LogLevel   string `toml:"log_level"`
}

// SettingsStore reads and writes the TOML settings file
type SettingsStore struct {
	dir string
}

func NewSettingsStore(dir string) *SettingsStore {
	return &SettingsStore{dir: dir}
}

// DefaultSettingsStore points at ~/.config/taskflow
func DefaultSettingsStore() *SettingsStore {
	home, err := os.UserHomeDir()
	if err != nil {
		return &SettingsStore{}
	}
	return NewSettingsStore(filepath.Join(home, ".config", "taskflow"))
}

// LoadOrInit reads the settings file, creating it with defaults when
// missing.
func (s *SettingsStore) LoadOrInit() (Settings, error) {
	if s.dir == "" {
		return normalizeSettings(Settings{}), nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Settings{}, err
	}

	path := filepath.Join(s.dir, settingsFileName)
	if b, err := os.ReadFile(path); err == nil {
		var settings Settings
		if err := toml.Unmarshal(b, &settings); err != nil {
			return Settings{}, err
		}
		return normalizeSettings(settings), nil
	} else if !os.IsNotExist(err) {
		return Settings{}, err
	}

	settings := normalizeSettings(Settings{})
	if err := writeTOMLAtomically(path, settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s *SettingsStore) Save(settings Settings) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return writeTOMLAtomically(filepath.Join(s.dir, settingsFileName), normalizeSettings(settings))
}

func normalizeSettings(settings Settings) Settings {
	settings.APIBaseURL = strings.TrimRight(strings.TrimSpace(settings.APIBaseURL), "/")
	if settings.APIBaseURL == "" {
		settings.APIBaseURL = defaultAPIBaseURL
	}
	switch strings.ToLower(strings.TrimSpace(settings.LogLevel)) {
	case "debug", "info", "warn", "error":
		settings.LogLevel = strings.ToLower(strings.TrimSpace(settings.LogLevel))
	default:
		settings.LogLevel = "info"
	}
	return settings
}

func writeTOMLAtomically(path string, v any) error {
	b, err := toml.Marshal(v)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
