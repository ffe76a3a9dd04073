// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package ui provides the interactive full-screen console front end.

The Model is a Bubble Tea model wrapping a console.Console. Console output is
written into a styledtext.Parser, and the parser's document is rendered into a
scrollback viewport with lipgloss, one style per run.

# Layout

	+--------------------------------------+
	| scrollback (viewport)                |
	|                                      |
	+--------------------------------------+
	| ] input line                         |
	| status bar                           |
	+--------------------------------------+

# Keys

  - Enter executes the input line
  - Tab completes the last word against command and variable names
  - Up/Down browse the history
  - PgUp/PgDn scroll the scrollback
  - Ctrl+F edits the scrollback filter ("incl1,incl2,-excl")
  - Ctrl+L clears the scrollback
  - Ctrl+Y copies the scrollback as plain text
  - Ctrl+C or Ctrl+Q quits

# Scripts

Options.Scripts delivers script paths to rerun, typically from a
scriptwatch.Watcher. They are executed on the Bubble Tea goroutine so the
console is never touched concurrently.
*/
package ui
