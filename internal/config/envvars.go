// ABOUTME: Environment handling for settings: ${VAR} expansion in string fields and TTYEV_* overrides
// ABOUTME: Unset vars expand to empty; malformed override values are errors, not silently ignored

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
)

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// EnvPrefix prefixes every override variable.
const EnvPrefix = "TTYEV_"

// ResolveEnvVars expands ${VAR} patterns in string fields of Settings.
func ResolveEnvVars(s *Settings) {
	s.Device = expandEnv(s.Device)
	s.LogLevel = expandEnv(s.LogLevel)
	s.LogFile = expandEnv(s.LogFile)
	s.TraceFile = expandEnv(s.TraceFile)
}

// expandEnv replaces ${VAR} with os.Getenv(VAR). Unset vars become "".
func expandEnv(s string) string {
	if s == "" {
		return s
	}
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// ApplyEnvOverrides sets fields from TTYEV_<KEY> variables, where KEY is the
// upper-cased YAML key (TTYEV_BUFFER_SIZE, TTYEV_MOUSE, ...).
func ApplyEnvOverrides(s *Settings) error {
	strs := map[string]*string{
		"DEVICE":     &s.Device,
		"LOG_LEVEL":  &s.LogLevel,
		"LOG_FILE":   &s.LogFile,
		"TRACE_FILE": &s.TraceFile,
	}
	for k, p := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + k); ok {
			*p = v
		}
	}

	ints := map[string]*int{
		"BUFFER_SIZE": &s.BufferSize,
		"DRAIN_SIZE":  &s.DrainSize,
	}
	for k, p := range ints {
		v, ok := os.LookupEnv(EnvPrefix + k)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, k, err)
		}
		*p = n
	}

	bools := map[string]*bool{
		"MOUSE":           &s.Mouse,
		"KITTY_KEYBOARD":  &s.KittyKeyboard,
		"BRACKETED_PASTE": &s.BracketedPaste,
	}
	for k, p := range bools {
		v, ok := os.LookupEnv(EnvPrefix + k)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, k, err)
		}
		*p = b
	}
	return nil
}
