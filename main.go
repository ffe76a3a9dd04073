// quake-console - An embeddable Quake-style command console, demo host.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/jeranaias/quake-console/internal/cli"
	"github.com/jeranaias/quake-console/internal/config"
	"github.com/jeranaias/quake-console/internal/console"
	"github.com/jeranaias/quake-console/internal/host"
	"github.com/jeranaias/quake-console/internal/output"
	"github.com/jeranaias/quake-console/internal/scriptwatch"
	"github.com/jeranaias/quake-console/internal/styledtext"
	"github.com/jeranaias/quake-console/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const greeting = "Type help, listCmd, or listCVars for usage. Try runFile with a script."

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		cli.DisplayError(os.Stderr, err)
		fmt.Fprintln(os.Stderr, cli.Usage)
		os.Exit(cli.GetExitCode(err))
	}

	switch {
	case args.Help:
		fmt.Println(cli.Usage)
		return
	case args.Version:
		fmt.Printf("quake-console %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(args); err != nil {
		cli.HandleErrorAndExit(err)
	}
}

// =============================================================================
// STARTUP
// =============================================================================

func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, &cli.ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

// session is everything a front end needs.
type session struct {
	args    cli.Args
	cfg     *config.Config
	console *console.Console
	host    *host.Host

	// logger receives watcher diagnostics. Nil uses the standard logger.
	logger *log.Logger
}

func newSession(args cli.Args, cfg *config.Config) (*session, error) {
	c := console.New(cfg.ConsoleOptions(cli.GetColorProfile()))
	h := host.New(c, cfg)
	if err := h.Bind(); err != nil {
		return nil, err
	}
	return &session{args: args, cfg: cfg, console: c, host: h}, nil
}

func run(args cli.Args) error {
	cfg, err := loadConfig(args.ConfigPath)
	if err != nil {
		return err
	}
	s, err := newSession(args, cfg)
	if err != nil {
		return err
	}
	return s.persist(s.start)
}

// persist loads the history file, runs fn and saves the history again,
// whatever front end fn turns out to be.
func (s *session) persist(fn func() error) error {
	path := s.cfg.HistoryPath()
	if s.args.NoHistory || path == "" {
		return fn()
	}

	if err := s.console.LoadHistory(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		cli.DisplayError(os.Stderr, err)
	}
	err := fn()
	if saveErr := s.console.SaveHistory(path); saveErr != nil && err == nil {
		err = saveErr
	}
	return err
}

// start picks the front end.
func (s *session) start() error {
	switch {
	case len(s.args.Exec) > 0:
		return s.runBatch(s.args.Exec, os.Stdout)
	case !cli.IsTTY():
		return s.runPiped(os.Stdin, os.Stdout)
	}

	mode := s.args.Mode
	if mode == "" {
		mode = s.cfg.UI.Mode
	}
	if mode == "auto" {
		mode = "line"
		if cli.IsInteractive() {
			mode = "tui"
		}
	}

	if mode == "tui" {
		return s.runTUI()
	}
	return s.runLine()
}

// startupScripts runs autoexec and the scripts named on the command line.
func (s *session) startupScripts(out output.Log) {
	if path := s.cfg.AutoexecPath(); path != "" {
		_ = s.console.ExecuteFile(path, out)
	}
	for _, path := range s.args.Scripts {
		_ = s.console.ExecuteFile(path, out)
	}
}

// watch starts the autoexec watcher when enabled. The returned stop
// function is always safe to call.
func (s *session) watch() (<-chan string, func()) {
	path := s.cfg.AutoexecPath()
	if !s.cfg.Scripts.Watch || path == "" {
		return nil, func() {}
	}
	w := scriptwatch.Watch([]string{path}, scriptwatch.Options{Logger: s.logger})
	return w.Changes(), func() { w.Close() }
}

// =============================================================================
// FRONT ENDS
// =============================================================================

// runBatch executes each line given with -e and exits.
func (s *session) runBatch(lines []string, w io.Writer) error {
	s.host.SetColored(cli.ColorsEnabled())
	out := output.NewSimple(w)
	s.startupScripts(out)
	for _, line := range lines {
		s.console.Execute(line, out)
		if s.host.Done() {
			break
		}
	}
	return nil
}

// runPiped executes r as a script.
func (s *session) runPiped(r io.Reader, w io.Writer) error {
	s.host.SetColored(cli.ColorsEnabled())
	out := output.NewSimple(w)
	s.startupScripts(out)
	in := console.NewInput(r)
	for !s.host.Done() && s.console.ExecuteFrom(in, out) {
	}
	return nil
}

// runLine is the liner REPL. Diagnostics go to the log file, liner owns
// the terminal.
func (s *session) runLine() error {
	restore, err := redirectLog()
	if err != nil {
		return err
	}
	defer restore()

	s.host.SetColored(cli.ColorsEnabled())
	out := output.NewSimple(os.Stdout)

	fmt.Print(cli.Banner("quake-console "+Version, greeting))
	s.startupScripts(out)

	changes, stop := s.watch()
	defer stop()

	repl := cli.NewREPL(s.console, out, cli.REPLOptions{
		Prompt:  s.cfg.UI.Prompt,
		Done:    s.host.Done,
		Scripts: changes,
	})
	defer repl.Close()
	return repl.Run()
}

// runTUI is the full-screen console. Diagnostics go to a log file so they
// don't tear the screen.
func (s *session) runTUI() error {
	restore, err := redirectLog()
	if err != nil {
		return err
	}
	defer restore()

	parser := styledtext.NewParser(s.cfg.ParserConfig())
	s.host.SetParser(parser)
	// The scrollback renders SGR itself, so color whatever the terminal.
	s.console.SetStyling(s.cfg.Styling(termenv.ANSI))

	out := output.NewSimple(parser)
	output.Statusf(out, "quake-console %s", Version)
	output.Statusf(out, "%s", greeting)
	s.startupScripts(out)

	changes, stop := s.watch()
	defer stop()

	m := ui.New(s.console, parser, ui.Options{
		Prompt:  s.cfg.UI.Prompt,
		Log:     out,
		Done:    s.host.Done,
		Scripts: changes,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running console: %w", err)
	}
	return nil
}

// redirectLog sends the standard logger to console.log in the config
// directory.
func redirectLog() (func(), error) {
	if err := config.EnsureConfigDir(); err != nil {
		return nil, err
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	return redirectLogTo(filepath.Join(dir, "console.log"))
}

func redirectLogTo(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	prev := log.Writer()
	log.SetOutput(f)
	return func() {
		log.SetOutput(prev)
		_ = f.Close()
	}, nil
}
