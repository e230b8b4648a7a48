package config

import (
	"encoding/json"
	"os"
	"strings"
)

// KeyMapConfig holds user overrides for keybindings.
type KeyMapConfig struct {
	Bindings map[string][]string `json:"bindings,omitempty"`
}

// BindingFor returns the configured keys for an action, if present.
func (k KeyMapConfig) BindingFor(action string) ([]string, bool) {
	if len(k.Bindings) == 0 {
		return nil, false
	}
	if keys, ok := k.Bindings[action]; ok {
		return keys, true
	}
	if keys, ok := k.Bindings[strings.ToLower(action)]; ok {
		return keys, true
	}
	return nil, false
}

// Config holds the application configuration
type Config struct {
	Paths     *Paths
	Selection SelectionSettings
	KeyMap    KeyMapConfig
}

// DefaultConfig returns the default configuration
func DefaultConfig() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}

	return &Config{
		Paths:     paths,
		Selection: DefaultSelectionSettings(),
		KeyMap:    KeyMapConfig{},
	}, nil
}

// Load loads config overrides from ~/.termsel/config.json if present.
func Load() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return LoadFrom(paths)
}

// LoadFrom loads the config file named by paths. A missing file yields the
// defaults; a malformed one is an error.
func LoadFrom(paths *Paths) (*Config, error) {
	cfg := &Config{
		Paths:     paths,
		Selection: DefaultSelectionSettings(),
	}

	data, err := os.ReadFile(paths.ConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var user struct {
		KeyMap KeyMapConfig `json:"keymap,omitempty"`
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}

	if len(user.KeyMap.Bindings) > 0 {
		cfg.KeyMap = user.KeyMap
	}
	cfg.Selection = parseSelectionSettings(data)

	return cfg, nil
}
