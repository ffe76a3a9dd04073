// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestSimple_AllCategoriesShareWriter(t *testing.T) {
	var buf bytes.Buffer
	l := NewSimple(&buf)

	l.Status().Write([]byte("s"))
	l.Error().Write([]byte("e"))
	l.Echo().Write([]byte("c"))
	l.Warning().Write([]byte("w"))

	assert.Equal(t, "secw", buf.String())
}

func TestMulti_MirrorsToEveryLog(t *testing.T) {
	var a, b bytes.Buffer
	first := NewSimple(&a)
	m := NewMulti(first)
	m.Add(NewSimple(&b))
	m.Add(first) // duplicate ignored

	Errorf(m, PlainStyling(), "Command %s unknown", "frob")

	assert.Equal(t, "[error]: Command frob unknown\n", a.String())
	assert.Equal(t, a.String(), b.String())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("closed") }

func TestMulti_FailingDestinationDoesNotStopOthers(t *testing.T) {
	var buf bytes.Buffer
	m := NewMulti(NewSimple(failingWriter{}), NewSimple(&buf))

	_, err := m.Status().Write([]byte("hi"))

	assert.Error(t, err)
	assert.Equal(t, "hi", buf.String())
}

func TestPlainStyling(t *testing.T) {
	var buf bytes.Buffer
	l := NewSimple(&buf)
	st := PlainStyling()

	Echo(l, st, "help")
	Warnf(l, st, "careful")
	Statusf(l, "value %d", 3)

	assert.Equal(t, "> help\n[warning]: careful\nvalue 3\n", buf.String())
}

func TestColorStyling(t *testing.T) {
	st := ColorStyling()

	assert.Equal(t, "\x1b[37;41;1m[error]: ", st.Error.Begin)
	assert.Equal(t, "\x1b[33;1m[warning]: ", st.Warning.Begin)
	assert.Equal(t, "\x1b[32;1m> ", st.Echo.Begin)
	assert.Equal(t, "\x1b[0m", st.Echo.End)

	var buf bytes.Buffer
	Errorf(NewSimple(&buf), st, "bad")
	assert.Equal(t, "\x1b[37;41;1m[error]: bad\x1b[0m\n", buf.String())
}

func TestStylingFor(t *testing.T) {
	assert.Equal(t, PlainStyling(), StylingFor(termenv.Ascii))
	assert.Equal(t, ColorStyling(), StylingFor(termenv.ANSI))
	assert.Equal(t, ColorStyling(), StylingFor(termenv.TrueColor))
}
