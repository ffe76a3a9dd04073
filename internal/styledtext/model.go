// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styledtext

import (
	"image/color"
	"strings"

	"github.com/jeranaias/quake-console/internal/util"
)

// Style is the persistent text style the parser applies to new runs.
type Style struct {
	Foreground    color.RGBA
	Bright        bool
	Background    color.RGBA
	HasBackground bool
}

// DefaultStyle is light gray text with no background.
func DefaultStyle() Style {
	return Style{Foreground: color.RGBA{R: 212, G: 212, B: 212, A: 255}}
}

// Run is a span of text in one style.
type Run struct {
	Style Style
	Text  string
}

// Line is one output row. It always holds at least one Run.
type Line struct {
	Runs []Run
}

// Text returns the line's text without styling.
func (l Line) Text() string {
	if len(l.Runs) == 1 {
		return l.Runs[0].Text
	}
	var sb strings.Builder
	for _, r := range l.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Width returns the display width of the line in terminal columns.
func (l Line) Width() int {
	return util.StringWidth(l.Text())
}

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is the ordered list of lines produced by a Parser.
// Readers must treat the returned lines as read-only.
type Document struct {
	lines    []Line
	maxLines int
}

func newDocument(style Style) *Document {
	d := &Document{}
	d.reset(style)
	return d
}

// Lines returns every line, oldest first. The last line is the one
// currently being written.
func (d *Document) Lines() []Line {
	return d.lines
}

// Len returns the number of lines.
func (d *Document) Len() int {
	return len(d.lines)
}

// Last returns the line currently being written.
func (d *Document) Last() Line {
	return d.lines[len(d.lines)-1]
}

// SetMaxLines caps the number of retained lines; the oldest are dropped.
// Zero or less means unlimited.
func (d *Document) SetMaxLines(n int) {
	d.maxLines = n
	d.trim()
}

// Plain returns the document text with styling removed, one line per row.
func (d *Document) Plain() string {
	var sb strings.Builder
	for i, l := range d.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.Text())
	}
	return sb.String()
}

// Filter returns the lines whose text passes f.
func (d *Document) Filter(f Filter) []Line {
	if f.IsEmpty() {
		return d.lines
	}
	var out []Line
	for _, l := range d.lines {
		if f.Match(l.Text()) {
			out = append(out, l)
		}
	}
	return out
}

func (d *Document) reset(style Style) {
	d.lines = []Line{{Runs: []Run{{Style: style}}}}
}

func (d *Document) appendText(s string) {
	line := &d.lines[len(d.lines)-1]
	run := &line.Runs[len(line.Runs)-1]
	run.Text += s
}

func (d *Document) newLine(style Style) {
	d.lines = append(d.lines, Line{Runs: []Run{{Style: style}}})
	d.trim()
}

// newRun opens a run in style. Mid-line every call adds a boundary, even
// when the previous run is still empty. The opening run of a line that has
// received no text is restyled in place instead.
func (d *Document) newRun(style Style) {
	line := &d.lines[len(d.lines)-1]
	if len(line.Runs) == 1 && line.Runs[0].Text == "" {
		line.Runs[0].Style = style
		return
	}
	line.Runs = append(line.Runs, Run{Style: style})
}

func (d *Document) trim() {
	if d.maxLines <= 0 || len(d.lines) <= d.maxLines {
		return
	}
	drop := len(d.lines) - d.maxLines
	kept := make([]Line, d.maxLines)
	copy(kept, d.lines[drop:])
	d.lines = kept
}
