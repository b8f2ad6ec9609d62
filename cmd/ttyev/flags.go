// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Flags that are explicitly set override the loaded settings; unset flags leave them alone

package main

import (
	"flag"
	"io"

	"github.com/mauromedda/ttyev/internal/config"
)

type cliArgs struct {
	configPath string
	device     string
	bufferSize int
	drainSize  int
	mouse      bool
	kitty      bool
	paste      bool
	logLevel   string
	logFile    string
	traceFile  string
	filter     string
	version    bool

	set map[string]bool
}

func parseFlags(argv []string, stderr io.Writer) (cliArgs, error) {
	args := cliArgs{set: map[string]bool{}}

	fs := flag.NewFlagSet("ttyev", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&args.configPath, "config", config.DefaultPath(), "Settings file (YAML)")
	fs.StringVar(&args.device, "device", "", "Terminal device to read (default /dev/tty)")
	fs.IntVar(&args.bufferSize, "buffer-size", 0, "Input buffer capacity in bytes")
	fs.IntVar(&args.drainSize, "drain-size", 0, "Resize notifications absorbed per drain")
	fs.BoolVar(&args.mouse, "mouse", false, "Enable SGR mouse reporting")
	fs.BoolVar(&args.kitty, "kitty", false, "Enable kitty keyboard disambiguation")
	fs.BoolVar(&args.paste, "paste", false, "Enable bracketed paste")
	fs.StringVar(&args.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&args.logFile, "log-file", "", "Append logs to this file")
	fs.StringVar(&args.traceFile, "trace", "", "Write a JSON-lines trace of raw input and events")
	fs.StringVar(&args.filter, "filter", "", "Only print events whose label fuzzy-matches this pattern")
	fs.BoolVar(&args.version, "version", false, "Show version and exit")

	if err := fs.Parse(argv); err != nil {
		return args, err
	}
	fs.Visit(func(f *flag.Flag) { args.set[f.Name] = true })
	return args, nil
}

// apply copies explicitly set flags onto s.
func (a cliArgs) apply(s *config.Settings) {
	if a.set["device"] {
		s.Device = a.device
	}
	if a.set["buffer-size"] {
		s.BufferSize = a.bufferSize
	}
	if a.set["drain-size"] {
		s.DrainSize = a.drainSize
	}
	if a.set["mouse"] {
		s.Mouse = a.mouse
	}
	if a.set["kitty"] {
		s.KittyKeyboard = a.kitty
	}
	if a.set["paste"] {
		s.BracketedPaste = a.paste
	}
	if a.set["log-level"] {
		s.LogLevel = a.logLevel
	}
	if a.set["log-file"] {
		s.LogFile = a.logFile
	}
	if a.set["trace"] {
		s.TraceFile = a.traceFile
	}
}
