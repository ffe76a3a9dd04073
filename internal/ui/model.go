// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/quake-console/internal/console"
	"github.com/jeranaias/quake-console/internal/output"
	"github.com/jeranaias/quake-console/internal/styledtext"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Model.
type Options struct {
	// Prompt precedes the input line. Defaults to "] ".
	Prompt string

	// Log receives command output. Defaults to a Simple log over the parser.
	Log output.Log

	// Done is checked after every executed line; true quits the program.
	Done func() bool

	// Scripts delivers paths of scripts to rerun.
	Scripts <-chan string

	// Copy places text on the clipboard. Defaults to the system clipboard.
	Copy func(text string) error
}

// =============================================================================
// MESSAGES
// =============================================================================

// ScriptChangedMsg asks the model to rerun a script.
type ScriptChangedMsg struct {
	Path string
}

type copyMsg struct {
	lines int
	err   error
}

// WaitForScript returns a command that delivers the next path from ch.
func WaitForScript(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return nil
		}
		return ScriptChangedMsg{Path: path}
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the interactive console.
type Model struct {
	console *console.Console
	parser  *styledtext.Parser
	log     output.Log
	opts    Options
	keys    KeyMap

	viewport    viewport.Model
	input       textinput.Model
	filterInput textinput.Model

	filter    styledtext.Filter
	filtering bool
	status    string

	width  int
	height int
}

// New creates a console model writing into parser.
func New(c *console.Console, parser *styledtext.Parser, opts Options) Model {
	if opts.Prompt == "" {
		opts.Prompt = "] "
	}
	if opts.Log == nil {
		opts.Log = output.NewSimple(parser)
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}

	ti := textinput.New()
	ti.Prompt = opts.Prompt
	ti.Placeholder = "type help"
	ti.CharLimit = 4096
	ti.Focus()

	fi := textinput.New()
	fi.Prompt = "Filter: "
	fi.Placeholder = "incl,-excl"
	fi.CharLimit = 256

	vp := viewport.New(80, 20)

	m := Model{
		console:     c,
		parser:      parser,
		log:         opts.Log,
		opts:        opts,
		keys:        DefaultKeyMap(),
		viewport:    vp,
		input:       ti,
		filterInput: fi,
	}
	m.refresh(true)
	return m
}

// Value returns the current input line.
func (m Model) Value() string {
	return m.input.Value()
}

// Filter returns the active scrollback filter.
func (m Model) Filter() styledtext.Filter {
	return m.filter
}

// Status returns the status bar message.
func (m Model) Status() string {
	return m.status
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink and the script listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, WaitForScript(m.opts.Scripts))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKey(msg)
		}
		return m.handleKey(msg)

	case ScriptChangedMsg:
		return m.runScript(msg.Path)

	case copyMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("copied %d lines", msg.lines)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Layout: viewport + separator + input line + status bar.
	const reservedHeight = 3

	m.viewport.Width = max(m.width, 1)
	m.viewport.Height = max(m.height-reservedHeight, 1)
	m.input.Width = max(m.width-len(m.opts.Prompt)-1, 10)
	m.filterInput.Width = max(m.width-len(m.filterInput.Prompt)-1, 10)

	m.refresh(true)
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Complete):
		m.complete()
		return m, nil

	case key.Matches(msg, m.keys.Previous):
		if line, ok := m.console.History().Previous(); ok {
			m.setInput(line)
		}
		return m, nil

	case key.Matches(msg, m.keys.Next):
		line, _ := m.console.History().Next()
		m.setInput(line)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.parser.Clear()
		m.status = ""
		m.refresh(true)
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.input.Blur()
		m.filterInput.SetValue(m.filter.String())
		m.filterInput.CursorEnd()
		cmd := m.filterInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyScrollback()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.filter = styledtext.Filter{}
		return m.leaveFilter()

	case key.Matches(msg, m.keys.Submit):
		return m.leaveFilter()
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filter = styledtext.ParseFilter(m.filterInput.Value())
	m.refresh(true)
	return m, cmd
}

func (m Model) leaveFilter() (tea.Model, tea.Cmd) {
	m.filtering = false
	m.filterInput.Blur()
	m.refresh(true)
	cmd := m.input.Focus()
	return m, cmd
}

// submit executes the input line.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	m.status = ""

	m.console.Execute(line, m.log)
	m.console.History().ResetCursor()
	m.refresh(true)

	if m.opts.Done != nil && m.opts.Done() {
		return m, tea.Quit
	}
	return m, nil
}

// complete replaces the last word and lists the candidates when ambiguous.
func (m *Model) complete() {
	c := m.console.Complete(m.input.Value())
	m.setInput(c.Line)
	if len(c.Candidates) > 1 {
		fmt.Fprintf(m.log.Status(), "%s\n", strings.Join(c.Candidates, "  "))
		m.refresh(true)
	}
}

func (m Model) runScript(path string) (tea.Model, tea.Cmd) {
	follow := m.viewport.AtBottom()
	output.Statusf(m.log, "reloading %s", path)
	// Failures are already on the scrollback.
	_ = m.console.ExecuteFile(path, m.log)
	m.refresh(follow)
	return m, WaitForScript(m.opts.Scripts)
}

func (m Model) copyScrollback() tea.Cmd {
	text := m.parser.Document().Plain()
	lines := m.parser.Document().Len()
	copyFn := m.opts.Copy
	return func() tea.Msg {
		return copyMsg{lines: lines, err: copyFn(text)}
	}
}

func (m *Model) setInput(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}
