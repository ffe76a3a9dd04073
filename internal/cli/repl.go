// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/quake-console/internal/console"
	"github.com/jeranaias/quake-console/internal/output"
	"github.com/jeranaias/quake-console/internal/util"
)

// =============================================================================
// LINE-MODE REPL
// =============================================================================

// REPLOptions configures a REPL.
type REPLOptions struct {
	// Prompt is printed before each line. Keep it free of escape codes,
	// liner measures it to place the cursor.
	Prompt string

	// Done is checked after every executed line; true ends Run.
	Done func() bool

	// Scripts delivers paths of scripts to rerun before the next prompt.
	Scripts <-chan string
}

// REPL is the plain line-mode front end.
// USABILITY: Supports arrow keys for history navigation, line editing and
// TAB completion of command and variable names.
type REPL struct {
	line    *liner.State
	console *console.Console
	out     output.Log
	opts    REPLOptions
}

// NewREPL creates a REPL over the terminal. The console history is copied
// into the line editor so the arrow keys reach earlier sessions.
func NewREPL(c *console.Console, out output.Log, opts REPLOptions) *REPL {
	if opts.Prompt == "" {
		opts.Prompt = "] "
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetTabCompletionStyle(liner.TabPrints)
	line.SetCompleter(Completer(c))
	for _, entry := range c.History().Entries() {
		line.AppendHistory(entry)
	}

	return &REPL{line: line, console: c, out: out, opts: opts}
}

// Run reads and executes lines until EOF, Ctrl+C, or Done.
func (r *REPL) Run() error {
	for {
		r.drainScripts()

		input, err := r.line.Prompt(r.opts.Prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if strings.TrimSpace(input) != "" {
			r.line.AppendHistory(input)
		}
		r.console.Execute(input, r.out)

		if r.opts.Done != nil && r.opts.Done() {
			return nil
		}
	}
}

// Close restores the terminal.
func (r *REPL) Close() error {
	return r.line.Close()
}

// drainScripts reruns every script reported since the last prompt.
func (r *REPL) drainScripts() {
	if r.opts.Scripts == nil {
		return
	}
	for {
		select {
		case path, ok := <-r.opts.Scripts:
			if !ok {
				r.opts.Scripts = nil
				return
			}
			_ = RunScript(r.console, path, r.out)
		default:
			return
		}
	}
}

// RunScript announces and executes a script file. Failures are reported
// on out by the console and also returned.
func RunScript(c *console.Console, path string, out output.Log) error {
	output.Statusf(out, "reloading %s", path)
	return c.ExecuteFile(path, out)
}

// =============================================================================
// COMPLETION
// =============================================================================

// Completer adapts console completion to liner. A unique match yields the
// completed line; several yield one line per candidate so liner can print
// them and extend the input to their common prefix.
func Completer(c *console.Console) liner.Completer {
	return func(line string) []string {
		comp := c.Complete(line)
		switch len(comp.Candidates) {
		case 0:
			return nil
		case 1:
			return []string{comp.Line}
		}

		start := len(line)
		for start > 0 && !util.IsSpace(line[start-1]) {
			start--
		}
		lines := make([]string, len(comp.Candidates))
		for i, cand := range comp.Candidates {
			lines[i] = line[:start] + cand
		}
		return lines
	}
}
