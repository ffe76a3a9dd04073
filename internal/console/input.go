// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"bufio"
	"io"
	"strings"

	"github.com/jeranaias/quake-console/internal/util"
)

// Input is the character stream commands read their arguments from.
//
// Reads that find no value put the Input into a failed state; while failed
// every further read fails too, until Clear is called.
type Input struct {
	r        *bufio.Reader
	pushback []byte
	failed   bool
}

// NewInput wraps r.
func NewInput(r io.Reader) *Input {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Input{r: br}
}

// NewInputString returns an Input reading s.
func NewInputString(s string) *Input {
	return NewInput(strings.NewReader(s))
}

// Failed reports whether a read has failed since the last Clear.
func (in *Input) Failed() bool { return in.failed }

// Fail marks the input as failed.
func (in *Input) Fail() { in.failed = true }

// Clear resets the failed state.
func (in *Input) Clear() { in.failed = false }

// AtEOF reports whether nothing remains to be read.
func (in *Input) AtEOF() bool {
	_, ok := in.peek()
	return !ok
}

// SkipSpace discards whitespace, newlines included. It returns false when
// the input is exhausted.
func (in *Input) SkipSpace() bool {
	for {
		b, ok := in.peek()
		if !ok {
			return false
		}
		if !util.IsSpace(b) {
			return true
		}
		in.read()
	}
}

// Token reads the next whitespace delimited word. Leading whitespace,
// newlines included, is skipped. When no word remains, or the input has
// already failed, Token fails and returns "".
func (in *Input) Token() (string, bool) {
	if in.failed || !in.SkipSpace() {
		in.failed = true
		return "", false
	}
	var sb strings.Builder
	for {
		b, ok := in.peek()
		if !ok || util.IsSpace(b) {
			break
		}
		in.read()
		sb.WriteByte(b)
	}
	return sb.String(), true
}

// Unread pushes s back so the next read starts with it.
func (in *Input) Unread(s string) {
	if s == "" {
		return
	}
	in.pushback = append([]byte(s), in.pushback...)
}

// RestOfLine consumes through the next newline and returns what preceded
// it, without the newline or a trailing carriage return. Reading at the
// end of input fails.
func (in *Input) RestOfLine() (string, bool) {
	if in.failed {
		return "", false
	}
	if in.AtEOF() {
		in.failed = true
		return "", false
	}
	var sb strings.Builder
	for {
		b, ok := in.read()
		if !ok || b == '\n' {
			break
		}
		sb.WriteByte(b)
	}
	return strings.TrimSuffix(sb.String(), "\r"), true
}

// ReadLine skips leading whitespace and returns the following line.
// It returns false at the end of input.
func (in *Input) ReadLine() (string, bool) {
	if !in.SkipSpace() {
		return "", false
	}
	return in.RestOfLine()
}

func (in *Input) peek() (byte, bool) {
	if len(in.pushback) > 0 {
		return in.pushback[0], true
	}
	b, err := in.r.ReadByte()
	if err != nil {
		return 0, false
	}
	_ = in.r.UnreadByte()
	return b, true
}

func (in *Input) read() (byte, bool) {
	if len(in.pushback) > 0 {
		b := in.pushback[0]
		in.pushback = in.pushback[1:]
		return b, true
	}
	b, err := in.r.ReadByte()
	if err != nil {
		return 0, false
	}
	return b, true
}
