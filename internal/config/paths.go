// ABOUTME: Standard filesystem path for the ttyev configuration file
// ABOUTME: Follows XDG_CONFIG_HOME, falling back to ~/.config

package config

import (
	"os"
	"path/filepath"
)

const (
	appDirName     = "ttyev"
	configFileName = "config.yaml"
)

// Dir returns the configuration directory ($XDG_CONFIG_HOME/ttyev).
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appDirName)
	}
	return filepath.Join(home, ".config", appDirName)
}

// DefaultPath returns the configuration file read when no -config flag is given.
func DefaultPath() string {
	return filepath.Join(Dir(), configFileName)
}
