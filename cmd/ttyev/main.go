// ABOUTME: CLI entry point for ttyev: prints every terminal input event until q or Ctrl+C
// ABOUTME: Loads settings, enters raw mode, enables input modes, and restores the terminal on exit or panic

//go:build unix

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	// termfix must be imported before anything renders styles, so lipgloss
	// never writes a background colour query whose reply we would read back.
	_ "github.com/mauromedda/ttyev/internal/termfix"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/ttyev/internal/config"
	"github.com/mauromedda/ttyev/internal/log"
	"github.com/mauromedda/ttyev/internal/trace"
	"github.com/mauromedda/ttyev/pkg/tui/fuzzy"
	"github.com/mauromedda/ttyev/pkg/tui/input"
	"github.com/mauromedda/ttyev/pkg/tui/terminal"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	args, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	if args.version {
		fmt.Printf("ttyev %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args cliArgs) error {
	settings, err := config.Load(args.configPath)
	if err != nil {
		return err
	}
	args.apply(settings)
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	closeLog, err := setupLogging(settings)
	if err != nil {
		return err
	}
	defer closeLog()

	tty, err := terminal.OpenTTY(settings.Device)
	if err != nil {
		return err
	}
	defer tty.Close()

	term := terminal.NewProcessTerminal(tty.Fd(), os.Stdout)
	modes := terminal.Modes{
		Mouse:          settings.Mouse,
		KittyKeyboard:  settings.KittyKeyboard,
		BracketedPaste: settings.BracketedPaste,
		HideCursor:     true,
	}
	defer terminal.RestoreOnPanic(term, modes, os.Stderr)

	opts := []input.Option{
		input.WithBufferSize(settings.BufferSize),
		input.WithDrainSize(settings.DrainSize),
		input.WithLogger(log.Logger()),
	}

	var rec *trace.Recorder
	if settings.TraceFile != "" {
		f, err := os.Create(settings.TraceFile)
		if err != nil {
			return fmt.Errorf("creating trace file: %w", err)
		}
		defer f.Close()
		rec = trace.NewRecorder(f)
		opts = append(opts, input.WithReader(io.TeeReader(input.NewFdReader(tty.Fd()), rec.RawWriter())))
	}

	notifier, err := input.NewResizeNotifier(input.NotifyPipe())
	if err != nil {
		return err
	}
	mux := input.NewMultiplexer(tty.Fd(), notifier, opts...)
	defer mux.Close()

	if err := term.EnterRawMode(); err != nil {
		return err
	}
	defer term.ExitRawMode()

	restoreModes, err := terminal.EnableModes(term, modes)
	if err != nil {
		return err
	}
	defer restoreModes()

	log.Info("reading %s (buffer %d, drain %d)", tty.Path(), settings.BufferSize, settings.DrainSize)

	// The first line shows the starting size.
	if err := notifier.Notify(); err != nil {
		return err
	}
	st := newStyles(lipgloss.NewRenderer(os.Stdout))
	return loop(mux, term, st, rec, fuzzy.NewFilter(args.filter))
}

// loop prints events to term until a quit key or a fatal input error. Sizes
// for resize events are read back from term.
func loop(mux *input.Multiplexer, term terminal.Terminal, st styles, rec *trace.Recorder, filter fuzzy.Filter) error {
	fmt.Fprint(term, "press q or Ctrl+C to quit\r\n")

	seq := 0
	for ev, err := range mux.Events() {
		if err != nil {
			log.Error("input stopped: %v", err)
			return err
		}
		seq++

		var cols, rows int
		if ev.Type == input.EventResize {
			if cols, rows, err = term.Size(); err != nil {
				log.Warn("size query failed: %v", err)
			}
		}
		if rec != nil {
			if err := rec.Event(ev, cols, rows); err != nil {
				log.Warn("trace: %v", err)
			}
		}
		log.Debug("event %d: %s", seq, ev)

		if label, _ := describe(ev, cols, rows); filter.Keep(label) {
			fmt.Fprint(term, formatEvent(st, seq, ev, cols, rows)+"\r\n")
		}
		if isQuit(ev) {
			return nil
		}
	}
	return nil
}

// setupLogging applies the level and destination. Without a log file output
// is discarded, since stderr shares the screen with raw-mode output. The
// returned function puts back the previous level and stderr.
func setupLogging(s *config.Settings) (func(), error) {
	lvl, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, err
	}
	prev := log.GetLevel()
	log.SetLevel(lvl)

	if s.LogFile == "" {
		log.SetOutput(io.Discard)
		return func() {
			log.SetOutput(os.Stderr)
			log.SetLevel(prev)
		}, nil
	}
	f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		log.SetLevel(prev)
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(prev)
		_ = f.Close()
	}, nil
}
