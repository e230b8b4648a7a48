package config

import (
	"os"
	"path/filepath"
)

// Paths holds all the file system paths used by the application
type Paths struct {
	Home       string // ~/.termsel
	ConfigPath string // ~/.termsel/config.json
	LogsDir    string // ~/.termsel/logs
}

// DefaultPaths returns the default paths configuration. TERMSEL_HOME
// overrides the home directory.
func DefaultPaths() (*Paths, error) {
	if home := os.Getenv("TERMSEL_HOME"); home != "" {
		return PathsAt(home), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return PathsAt(filepath.Join(home, ".termsel")), nil
}

// PathsAt lays out the paths beneath home.
func PathsAt(home string) *Paths {
	return &Paths{
		Home:       home,
		ConfigPath: filepath.Join(home, "config.json"),
		LogsDir:    filepath.Join(home, "logs"),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Home,
		p.LogsDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}
