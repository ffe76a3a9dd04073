// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package host is the demo application driven by the console: a handful of
// commands and a variable, bound the way a game would bind its own.
package host

import (
	"fmt"
	"os"
	"strings"

	"github.com/muesli/termenv"

	"github.com/jeranaias/quake-console/internal/cli"
	"github.com/jeranaias/quake-console/internal/config"
	"github.com/jeranaias/quake-console/internal/console"
	"github.com/jeranaias/quake-console/internal/highlight"
	"github.com/jeranaias/quake-console/internal/output"
	"github.com/jeranaias/quake-console/internal/styledtext"
)

// Host owns the state the demo commands act on.
type Host struct {
	console *console.Console
	cfg     *config.Config

	// parser is the full-screen scrollback; nil in line mode.
	parser *styledtext.Parser

	// colored allows escape codes beyond the console's 8-color subset.
	colored bool

	// Health is the demo variable.
	Health int

	quit bool
}

// New creates a host for c.
func New(c *console.Console, cfg *config.Config) *Host {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Host{console: c, cfg: cfg}
}

// SetParser routes clear to the scrollback. Rich output is disabled, the
// parser only understands the basic SGR codes.
func (h *Host) SetParser(p *styledtext.Parser) {
	h.parser = p
	h.colored = false
}

// SetColored allows full terminal colors in manual and source output.
func (h *Host) SetColored(colored bool) {
	h.colored = colored
}

// Done reports whether quit ran.
func (h *Host) Done() bool {
	return h.quit
}

// =============================================================================
// BINDINGS
// =============================================================================

// adder demonstrates binding a method value.
type adder struct {
	prefix string
}

func (a adder) Add(out output.Log, v1, v2, v3, v4, v5 int) {
	fmt.Fprintf(out.Status(), "%s%d", a.prefix, v1+v2+v3+v4+v5)
}

// Bind registers the demo commands and variables.
func (h *Host) Bind() error {
	c := h.console

	c.BindFunc("quit", func(*console.Input, output.Log) { h.quit = true }, "quits the program")

	bindings := []struct {
		name string
		fn   any
		help string
	}{
		{"sum", func(out output.Log, a, b int) {
			fmt.Fprint(out.Status(), a+b)
		}, "Sums two input integer values."},
		{"sumFiveValues", adder{prefix: "Sum is "}.Add,
			"Given five integers as input, sum them all. Bound from a method value."},
		{"printHistory", h.printHistory, "Print the current command history buffer for the console."},
		{"clear", h.clear, "clears the console output"},
		{"colors", h.colors, "prints every color the console can show"},
		{"source", h.source, "source <language|auto> <file> prints a file with syntax highlighting"},
		{"format", h.format, "format <glsl|script> <file> prints a file through a highlighting rule set"},
		{"manual", h.manual, "prints a reference of every command and variable"},
		{"config", h.config, "config <key> prints a configuration value, e.g. config history.size"},
		{"configKeys", h.configKeys, "lists the keys config accepts"},
		{"saveConfig", h.saveConfig, "writes the current configuration to the default config file"},
	}
	for _, b := range bindings {
		if err := c.BindCommand(b.name, b.fn, b.help); err != nil {
			return fmt.Errorf("bind %s: %w", b.name, err)
		}
	}

	if err := c.BindCVar("health", &h.Health, "Player health. Example variable bound with BindCVar."); err != nil {
		return fmt.Errorf("bind health: %w", err)
	}

	c.SetHelpTopic("scripting", "Scripts hold one command line per line. Lines starting with # are comments. "+
		"Run one with runFile <path>; the autoexec script runs at startup.")
	c.SetHelpTopic("variables", "set <name> <value> changes a variable, echo <name> prints it and "+
		"var <name> <text> declares a new one. $name on a line is replaced by the value.")
	return nil
}

// =============================================================================
// COMMANDS
// =============================================================================

func (h *Host) printHistory(out output.Log) {
	fmt.Fprint(out.Status(), strings.Join(h.console.History().Entries(), "\n"))
}

func (h *Host) clear(out output.Log) {
	if h.parser != nil {
		h.parser.Clear()
		return
	}
	fmt.Fprintf(out.Status(), termenv.CSI+termenv.EraseDisplaySeq+termenv.CSI+termenv.CursorPositionSeq, 2, 1, 1)
}

// colors prints the normal, bright and background tables.
func (h *Host) colors(out output.Log) {
	w := out.Status()
	rows := []struct {
		title  string
		base   int
		suffix string
	}{
		{"NORMAL COLORS", 30, ""},
		{"BRIGHT COLORS", 30, ";1"},
		{"BACKGROUND COLORS", 40, ""},
		{"BACKGROUND + BRIGHT COLOR", 40, ";1"},
	}
	for i, row := range rows {
		if i > 0 {
			fmt.Fprint(w, "\n")
		}
		fmt.Fprintln(w, row.title)
		for c := 0; c < 8; c++ {
			fmt.Fprintf(w, "\x1b[%d%sm %c ", row.base+c, row.suffix, 'A'+c)
		}
		fmt.Fprint(w, "\x1b[0m")
	}
}

func (h *Host) source(out output.Log, language, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if language == "auto" {
		language = ""
	}
	if !h.colored && h.parser == nil {
		fmt.Fprint(out.Status(), string(code))
		return nil
	}
	text, err := highlight.File(path, string(code), language, h.cfg.UI.HighlightStyle)
	if err != nil {
		return err
	}
	fmt.Fprint(out.Status(), text)
	return nil
}

func (h *Host) format(out output.Log, preset, path string) error {
	var f *highlight.Formatter
	switch preset {
	case "glsl":
		f = highlight.GLSL()
	case "script":
		f = highlight.ConsoleLog()
	default:
		return fmt.Errorf("unknown preset %q (want glsl or script)", preset)
	}

	code, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	text := string(code)
	if h.colored || h.parser != nil {
		text = f.Format(text)
	}
	fmt.Fprint(out.Status(), text)
	return nil
}

func (h *Host) manual(out output.Log) error {
	text, err := cli.RenderManual(cli.Manual(h.console), cli.GetTerminalWidth(), h.colored)
	if err != nil {
		return err
	}
	fmt.Fprint(out.Status(), strings.TrimRight(text, "\n"))
	return nil
}

func (h *Host) config(out output.Log, key string) error {
	v, err := h.cfg.Get(key)
	if err != nil {
		return err
	}
	fmt.Fprint(out.Status(), v)
	return nil
}

func (h *Host) configKeys(out output.Log) {
	fmt.Fprint(out.Status(), strings.Join(config.Keys(), "\n"))
}

func (h *Host) saveConfig(out output.Log) error {
	if err := config.Save(h.cfg); err != nil {
		return err
	}
	path, _ := config.ConfigPathTOML()
	fmt.Fprintf(out.Status(), "saved %s", path)
	return nil
}
