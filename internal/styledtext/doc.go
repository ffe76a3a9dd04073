// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styledtext turns a stream of text carrying ANSI color sequences
// into lines of styled runs for a renderer to walk.
//
// # Key Types
//
//   - Style: foreground, bright flag, optional background
//   - Run: a span of text sharing one Style
//   - Line: the runs between two newlines
//   - Document: the ordered lines, owned by one Parser
//   - Parser: an io.Writer running the escape-sequence state machine
//
// Only SGR sequences of the form ESC [ params m are understood, with codes
// 0 (reset), 1 (bright), 30-37 (foreground) and 40-47 (background). There is
// no cursor addressing; this is not a terminal emulator.
//
// # Usage
//
//	p := styledtext.NewParser(styledtext.DefaultParserConfig())
//	io.WriteString(p, "\x1b[31mRED \x1b[0mNORMAL\n")
//	for _, line := range p.Document().Lines() {
//	    for _, run := range line.Runs {
//	        draw(run.Style, run.Text)
//	    }
//	}
//
// A sequence closed while a line's only run is still empty restyles that
// run in place, so a line's first run may carry the style of sequences that
// preceded its text. Anywhere else every closed sequence starts a new run,
// even when the run before it stays empty.
//
// Writes may split a sequence anywhere, including between its digits; the
// parser state carries over to the next Write.
package styledtext
