// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styledtext

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestParser returns a parser logging into buf and collecting errors.
func newTestParser(buf *bytes.Buffer) (*Parser, *[]*ParseError) {
	var errs []*ParseError
	cfg := DefaultParserConfig()
	cfg.Logger = log.New(buf, "", 0)
	cfg.OnError = func(e *ParseError) { errs = append(errs, e) }
	return NewParser(cfg), &errs
}

func parse(t *testing.T, chunks ...string) (*Parser, []*ParseError, string) {
	t.Helper()
	var buf bytes.Buffer
	p, errs := newTestParser(&buf)
	for _, c := range chunks {
		n, err := p.WriteString(c)
		require.NoError(t, err)
		require.Equal(t, len(c), n)
	}
	return p, *errs, buf.String()
}

// =============================================================================
// PARSER
// =============================================================================

func TestParser_EmptyDocument(t *testing.T) {
	p := NewParser(DefaultParserConfig())
	lines := p.Document().Lines()
	require.Len(t, lines, 1)
	require.Len(t, lines[0].Runs, 1)
	assert.Equal(t, "", lines[0].Text())
	assert.Equal(t, DefaultStyle(), lines[0].Runs[0].Style)
}

func TestParser_RoundTrip(t *testing.T) {
	p, errs, _ := parse(t, "\x1b[31mRED \x1b[0mNORMAL")
	require.Empty(t, errs)

	lines := p.Document().Lines()
	require.Len(t, lines, 1)
	runs := lines[0].Runs
	require.Len(t, runs, 2)

	assert.Equal(t, "RED ", runs[0].Text)
	assert.Equal(t, DefaultPalette().Normal[Red], runs[0].Style.Foreground)
	assert.False(t, runs[0].Style.Bright)

	assert.Equal(t, "NORMAL", runs[1].Text)
	assert.Equal(t, DefaultStyle(), runs[1].Style)
}

func TestParser_SplitWrites(t *testing.T) {
	whole, _, _ := parse(t, "\x1b[31mX")
	split, _, _ := parse(t, "\x1b[3", "1mX")
	assert.Equal(t, whole.Document().Lines(), split.Document().Lines())

	bytewise := make([]string, 0, 8)
	for _, b := range []byte("\x1b[1;32mgo\n\x1b[0m") {
		bytewise = append(bytewise, string([]byte{b}))
	}
	a, _, _ := parse(t, bytewise...)
	b, _, _ := parse(t, "\x1b[1;32mgo\n\x1b[0m")
	assert.Equal(t, b.Document().Lines(), a.Document().Lines())
}

func TestParser_Codes(t *testing.T) {
	pal := DefaultPalette()

	tests := []struct {
		name   string
		input  string
		fg     [3]uint8
		bright bool
		bg     bool
	}{
		{"normal red", "\x1b[31mx", [3]uint8{170, 0, 0}, false, false},
		{"bright then red", "\x1b[1;31mx", [3]uint8{255, 85, 85}, true, false},
		{"red then bright re-resolves", "\x1b[31;1mx", [3]uint8{255, 85, 85}, true, false},
		{"bright in separate sequence", "\x1b[32m\x1b[1mx", [3]uint8{85, 255, 85}, true, false},
		{"bright without color keeps default", "\x1b[1mx", [3]uint8{212, 212, 212}, true, false},
		{"background", "\x1b[44mx", [3]uint8{212, 212, 212}, false, true},
		{"reset", "\x1b[31;44;1m\x1b[0mx", [3]uint8{212, 212, 212}, false, false},
		{"empty param resets", "\x1b[31m\x1b[mx", [3]uint8{212, 212, 212}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, errs, _ := parse(t, tt.input)
			require.Empty(t, errs)
			runs := p.Document().Last().Runs
			st := runs[len(runs)-1].Style
			assert.Equal(t, "x", runs[len(runs)-1].Text)
			assert.Equal(t, tt.fg, [3]uint8{st.Foreground.R, st.Foreground.G, st.Foreground.B})
			assert.Equal(t, tt.bright, st.Bright)
			assert.Equal(t, tt.bg, st.HasBackground)
			if tt.bg {
				assert.Equal(t, pal.Background[Blue], st.Background)
			}
		})
	}
}

func TestParser_BackgroundIgnoresBright(t *testing.T) {
	p, _, _ := parse(t, "\x1b[1;41mx")
	st := p.Document().Last().Runs[0].Style
	assert.Equal(t, Unpack(0xAA0000FF), st.Background)
}

func TestParser_NewlineCarriesStyle(t *testing.T) {
	p, _, _ := parse(t, "\x1b[32mone\ntwo\x1b[0m\nthree")
	lines := p.Document().Lines()
	require.Len(t, lines, 3)

	green := DefaultPalette().Normal[Green]
	assert.Equal(t, green, lines[0].Runs[0].Style.Foreground)
	assert.Equal(t, "two", lines[1].Runs[0].Text)
	assert.Equal(t, green, lines[1].Runs[0].Style.Foreground)
	// reset closes a run at the end of line two
	require.Len(t, lines[1].Runs, 2)
	assert.Equal(t, "", lines[1].Runs[1].Text)
	assert.Equal(t, DefaultStyle(), lines[2].Runs[0].Style)
	assert.Equal(t, "one\ntwo\nthree", p.Document().Plain())
}

func TestParser_BoundaryEvenWhenEmpty(t *testing.T) {
	p, _, _ := parse(t, "a\x1b[31m\x1b[32mb")
	runs := p.Document().Last().Runs
	require.Len(t, runs, 3)
	assert.Equal(t, "a", runs[0].Text)
	assert.Equal(t, "", runs[1].Text)
	assert.Equal(t, "b", runs[2].Text)
	assert.Equal(t, DefaultPalette().Normal[Green], runs[2].Style.Foreground)
}

func TestParser_LineStartRestyledInPlace(t *testing.T) {
	p, _, _ := parse(t, "\x1b[31m\x1b[32mgo\n\x1b[33mwarn")
	lines := p.Document().Lines()
	require.Len(t, lines, 2)

	require.Len(t, lines[0].Runs, 1)
	assert.Equal(t, "go", lines[0].Runs[0].Text)
	assert.Equal(t, DefaultPalette().Normal[Green], lines[0].Runs[0].Style.Foreground)

	require.Len(t, lines[1].Runs, 1)
	assert.Equal(t, "warn", lines[1].Runs[0].Text)
	assert.Equal(t, DefaultPalette().Normal[Yellow], lines[1].Runs[0].Style.Foreground)
}

func TestParser_CarriageReturnDropped(t *testing.T) {
	p, _, _ := parse(t, "one\r\ntwo\r\n")
	assert.Equal(t, "one\ntwo\n", p.Document().Plain())
}

func TestParser_Malformed(t *testing.T) {
	t.Run("after escape", func(t *testing.T) {
		p, errs, logged := parse(t, "a\x1bXb")
		require.Len(t, errs, 1)
		assert.Equal(t, MalformedEscapeSequence, errs[0].Kind)
		assert.Equal(t, byte('X'), errs[0].Byte)
		assert.Equal(t, "escape", errs[0].State)
		assert.Contains(t, logged, "ANSI_MALFORMED")
		assert.Equal(t, "aXb", p.Document().Plain())
	})

	t.Run("inside params", func(t *testing.T) {
		p, errs, _ := parse(t, "\x1b[31xy")
		require.Len(t, errs, 1)
		assert.Equal(t, "params", errs[0].State)
		assert.Equal(t, "xy", p.Document().Plain())
		assert.Equal(t, DefaultStyle(), p.Style())
	})

	t.Run("applied params survive abort", func(t *testing.T) {
		p, errs, _ := parse(t, "\x1b[31;4xy")
		require.Len(t, errs, 1)
		assert.Equal(t, DefaultPalette().Normal[Red], p.Style().Foreground)
	})

	t.Run("newline still breaks", func(t *testing.T) {
		p, errs, _ := parse(t, "\x1b\nz")
		require.Len(t, errs, 1)
		assert.Equal(t, 2, p.Document().Len())
	})

	t.Run("escape restarts", func(t *testing.T) {
		p, errs, _ := parse(t, "\x1b\x1b[32mg")
		require.Len(t, errs, 1)
		assert.Equal(t, DefaultPalette().Normal[Green], p.Style().Foreground)
		assert.Equal(t, "g", p.Document().Plain())
	})
}

func TestParser_UnknownCode(t *testing.T) {
	p, errs, logged := parse(t, "\x1b[4;31mu")
	require.Len(t, errs, 1)
	assert.Equal(t, UnknownEscapeCode, errs[0].Kind)
	assert.Equal(t, 4, errs[0].Code)
	assert.Contains(t, logged, "ANSI_UNKNOWN_CODE | code=4")
	assert.Equal(t, DefaultPalette().Normal[Red], p.Style().Foreground)
	assert.Equal(t, "u", p.Document().Plain())
}

func TestParser_NilLogger(t *testing.T) {
	cfg := DefaultParserConfig()
	cfg.Logger = nil
	p := NewParser(cfg)
	assert.NotPanics(t, func() { _, _ = p.WriteString("\x1bQ\x1b[99m") })
}

func TestParser_MaxLines(t *testing.T) {
	cfg := DefaultParserConfig()
	cfg.MaxLines = 3
	p := NewParser(cfg)
	_, _ = p.WriteString("1\n2\n3\n4\n5")
	assert.Equal(t, "3\n4\n5", p.Document().Plain())
}

func TestParser_Clear(t *testing.T) {
	p, _, _ := parse(t, "\x1b[33mold\nlines\x1b[")
	p.Clear()
	require.Equal(t, 1, p.Document().Len())
	_, _ = p.WriteString("0mnew")
	assert.Equal(t, "new", p.Document().Plain())
	assert.Equal(t, DefaultStyle(), p.Document().Last().Runs[0].Style)
}

func TestParseError_Error(t *testing.T) {
	assert.Equal(t, "ANSI_UNKNOWN_CODE | code=7", (&ParseError{Kind: UnknownEscapeCode, Code: 7}).Error())
	assert.Equal(t, `ANSI_MALFORMED | byte='q' state=escape`,
		(&ParseError{Kind: MalformedEscapeSequence, Byte: 'q', State: "escape"}).Error())
}

// =============================================================================
// MODEL AND FILTER
// =============================================================================

func TestLine_Width(t *testing.T) {
	l := Line{Runs: []Run{{Text: "ab"}, {Text: "日本"}}}
	assert.Equal(t, 6, l.Width())
	assert.Equal(t, "ab日本", l.Text())
}

func TestFilter(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    bool
	}{
		{"", "anything", true},
		{"error", "[ERROR]: bad", true},
		{"error", "fine", false},
		{"error,warn", "[warning]: x", true},
		{"-echo", "> echo health", false},
		{"-echo", "100", true},
		{"health,-echo", "> echo health", false},
		{" , - ", "x", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFilter(tt.pattern).Match(tt.text))
		})
	}
}

func TestFilter_String(t *testing.T) {
	assert.Equal(t, "error,warn,-echo", ParseFilter(" Error, -ECHO ,warn").String())
	assert.Equal(t, "", ParseFilter("").String())
}

func TestDocument_Filter(t *testing.T) {
	p, _, _ := parse(t, "alpha\nbeta\nalphabet")
	got := p.Document().Filter(ParseFilter("alpha,-bet"))
	require.Len(t, got, 1)
	assert.Equal(t, "alpha", got[0].Text())
	assert.Len(t, p.Document().Filter(Filter{}), 3)
}

func TestColorHelpers(t *testing.T) {
	c := Unpack(0xAA5500FF)
	assert.Equal(t, uint32(0xAA5500FF), Pack(c))
	assert.Equal(t, "#aa5500", Hex(c))
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#d4d4d4")
	require.NoError(t, err)
	assert.Equal(t, DefaultStyle().Foreground, c)

	c, err = ParseHex("f80")
	require.NoError(t, err)
	assert.Equal(t, "#ff8800", Hex(c))

	for _, bad := range []string{"", "#12345", "#gggggg", "#1234567"} {
		_, err := ParseHex(bad)
		assert.Error(t, err, bad)
	}
}
