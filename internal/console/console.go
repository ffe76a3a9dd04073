// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"io"
	"sort"
	"strings"

	"github.com/jeranaias/quake-console/internal/history"
	"github.com/jeranaias/quake-console/internal/output"
)

// Handler runs a command. It reads its own arguments from in and writes
// results to out. Handlers that need the failed state cleared do it
// themselves; the dispatcher clears it after each call regardless.
type Handler func(in *Input, out output.Log)

// Printer writes a variable's current value, without a trailing newline.
type Printer func(w io.Writer)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Console.
type Options struct {
	// HistorySize is the number of executed lines kept.
	HistorySize int
	// MaxScriptDepth limits runFile nesting. Zero or less means unlimited.
	MaxScriptDepth int
	// RecordComments records comment lines in the history.
	RecordComments bool
	// Styling tags error, warning and echo lines.
	Styling output.Styling
}

// DefaultOptions returns the options New uses when given none.
func DefaultOptions() Options {
	return Options{
		HistorySize:    history.DefaultCapacity,
		MaxScriptDepth: 16,
		RecordComments: true,
		Styling:        output.PlainStyling(),
	}
}

// =============================================================================
// CONSOLE
// =============================================================================

// Console is the command and variable registry plus its dispatcher.
//
// A Console is not safe for concurrent use; all calls, including the
// commands it runs, happen on the caller's goroutine.
type Console struct {
	opts Options

	commands map[string]Handler
	readers  map[string]Handler
	printers map[string]Printer
	help     map[string]string

	// dynamic holds values created with BindDynamicCVar. Closures refer to
	// slots by index; dynIndex maps names to slots so re-declaring a name
	// reuses its slot.
	dynamic  []string
	dynIndex map[string]int

	history *history.Buffer
	depth   int
}

// New creates a console with the built-in commands bound.
func New(opts Options) *Console {
	if opts.HistorySize < 1 {
		opts.HistorySize = history.DefaultCapacity
	}
	c := &Console{
		opts:     opts,
		commands: make(map[string]Handler),
		readers:  make(map[string]Handler),
		printers: make(map[string]Printer),
		help:     make(map[string]string),
		dynIndex: make(map[string]int),
		history:  history.New(opts.HistorySize),
	}
	c.bindBuiltins()
	return c
}

// Options returns the console's options.
func (c *Console) Options() Options {
	return c.opts
}

// SetStyling replaces the tags used for error, warning and echo lines.
func (c *Console) SetStyling(st output.Styling) {
	c.opts.Styling = st
}

// Styling returns the current line tags.
func (c *Console) Styling() output.Styling {
	return c.opts.Styling
}

// SetHelpTopic sets or replaces the help text for name.
func (c *Console) SetHelpTopic(name, text string) {
	c.help[name] = text
}

// Help returns the help text for name.
func (c *Console) Help(name string) (string, bool) {
	text, ok := c.help[name]
	return text, ok
}

// Commands returns the bound command names, sorted.
func (c *Console) Commands() []string {
	return sortedKeys(c.commands)
}

// CVars returns the bound variable names, sorted.
func (c *Console) CVars() []string {
	return sortedKeys(c.readers)
}

// HelpTopics returns every name with help text, sorted.
func (c *Console) HelpTopics() []string {
	return sortedKeys(c.help)
}

// HasCommand reports whether name is bound as a command.
func (c *Console) HasCommand(name string) bool {
	_, ok := c.commands[name]
	return ok
}

// HasCVar reports whether name is bound as a variable.
func (c *Console) HasCVar(name string) bool {
	_, ok := c.printers[name]
	return ok
}

// Value returns the printed form of a variable.
func (c *Console) Value(name string) (string, bool) {
	p, ok := c.printers[name]
	if !ok {
		return "", false
	}
	var sb strings.Builder
	p(&sb)
	return sb.String(), true
}

// History returns the executed-line history.
func (c *Console) History() *history.Buffer {
	return c.history
}

// LoadHistory appends the lines of a history file to the history.
func (c *Console) LoadHistory(path string) error {
	if err := c.history.LoadFile(path); err != nil {
		return &Error{Kind: FileOpenError, Subject: path, Err: err}
	}
	return nil
}

// SaveHistory writes the history to path. Nothing is written when the
// history is empty.
func (c *Console) SaveHistory(path string) error {
	return c.history.SaveFile(path)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
