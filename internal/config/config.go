// ABOUTME: Settings loading: built-in defaults overlaid by a YAML file, ${VAR} expansion, then TTYEV_* overrides
// ABOUTME: A missing file is not an error; Validate rejects values the input layer cannot run with

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mauromedda/ttyev/internal/log"
)

// Settings holds the input source configuration.
type Settings struct {
	Device         string `yaml:"device"`
	BufferSize     int    `yaml:"buffer_size"`
	DrainSize      int    `yaml:"drain_size"`
	Mouse          bool   `yaml:"mouse"`
	KittyKeyboard  bool   `yaml:"kitty_keyboard"`
	BracketedPaste bool   `yaml:"bracketed_paste"`
	LogLevel       string `yaml:"log_level"`
	LogFile        string `yaml:"log_file"`
	TraceFile      string `yaml:"trace_file"`
}

// Defaults returns the built-in settings.
func Defaults() *Settings {
	return &Settings{
		Device:     "/dev/tty",
		BufferSize: 1024,
		DrainSize:  32,
		LogLevel:   "info",
	}
}

// Load returns Defaults overlaid with the YAML file at path, then expands
// ${VAR} references and applies TTYEV_* environment overrides. An empty
// path or a missing file yields the defaults.
func Load(path string) (*Settings, error) {
	s := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			// Keys absent from the file keep their default values.
			if err := yaml.Unmarshal(data, s); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	ResolveEnvVars(s)
	if err := ApplyEnvOverrides(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate reports the first setting that cannot be used.
func (s *Settings) Validate() error {
	if s.Device == "" {
		return errors.New("device must not be empty")
	}
	if s.BufferSize < 1 {
		return fmt.Errorf("buffer_size must be at least 1, got %d", s.BufferSize)
	}
	if s.DrainSize < 1 {
		return fmt.Errorf("drain_size must be at least 1, got %d", s.DrainSize)
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	return nil
}
