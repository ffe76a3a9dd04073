// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"io"
	"os"
	"strings"

	"github.com/jeranaias/quake-console/internal/output"
	"github.com/jeranaias/quake-console/internal/util"
)

// =============================================================================
// EXECUTION
// =============================================================================

// Execute runs every line of text.
func (c *Console) Execute(text string, out output.Log) {
	c.ExecuteUntilEOF(NewInputString(text), out)
}

// ExecuteFrom reads and runs one line from in. Blank lines are skipped
// first. It returns false when in held nothing more to run.
func (c *Console) ExecuteFrom(in *Input, out output.Log) bool {
	if !in.SkipSpace() {
		return false
	}
	if b, _ := in.peek(); b == '#' {
		comment, _ := in.RestOfLine()
		if c.opts.RecordComments {
			c.history.Push(comment)
		}
		return true
	}

	line, ok := in.RestOfLine()
	if !ok {
		return false
	}
	c.history.Push(line)
	output.Echo(out, c.opts.Styling, line)

	c.dispatch(NewInputString(c.dereference(line, out)), out)
	return true
}

// ExecuteUntilEOF runs lines from in until it is exhausted.
func (c *Console) ExecuteUntilEOF(in *Input, out output.Log) {
	for c.ExecuteFrom(in, out) {
	}
}

// ExecuteFile runs the script at path. Open failures and nesting past
// MaxScriptDepth are reported to out and returned.
func (c *Console) ExecuteFile(path string, out output.Log) error {
	if limit := c.opts.MaxScriptDepth; limit > 0 && c.depth >= limit {
		err := &Error{Kind: ScriptDepth, Subject: path, Limit: limit}
		c.report(out, err)
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		ce := &Error{Kind: FileOpenError, Subject: path, Err: err}
		c.report(out, ce)
		return ce
	}
	defer f.Close()

	c.depth++
	defer func() { c.depth-- }()

	c.ExecuteUntilEOF(NewInput(f), out)
	return nil
}

// Depth returns the current runFile nesting level.
func (c *Console) Depth() int {
	return c.depth
}

// dispatch runs each command named on the line. A command reads its
// arguments from the same input, so whatever it leaves is tried as the
// next command.
func (c *Console) dispatch(line *Input, out output.Log) {
	for {
		name, ok := line.Token()
		if !ok {
			return
		}
		if h, found := c.commands[name]; found {
			h(line, out)
			line.Clear()
		} else {
			c.report(out, &Error{Kind: UnknownCommand, Subject: name})
		}
		io.WriteString(out.Status(), "\n")
	}
}

// =============================================================================
// VARIABLE REFERENCES
// =============================================================================

// dereference replaces each $name with the value of variable name. A name
// runs to the next whitespace. Substituted text is not scanned again.
func (c *Console) dereference(line string, out output.Log) string {
	if strings.IndexByte(line, '$') < 0 {
		return line
	}

	var sb strings.Builder
	i := 0
	for {
		j := strings.IndexByte(line[i:], '$')
		if j < 0 {
			sb.WriteString(line[i:])
			return sb.String()
		}
		j += i
		sb.WriteString(line[i:j])

		end := j + 1
		for end < len(line) && !util.IsSpace(line[end]) {
			end++
		}
		name := line[j+1 : end]

		switch printer, ok := c.printers[name]; {
		case name == "":
			c.report(out, &Error{Kind: ExpectedIdentifier})
			sb.WriteByte('$')
		case !ok:
			c.report(out, &Error{Kind: UnknownVariable, Subject: name})
			sb.WriteString(line[j:end])
		default:
			printer(&sb)
		}
		i = end
	}
}
