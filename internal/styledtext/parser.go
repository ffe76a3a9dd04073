// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styledtext

import (
	"fmt"
	"io"
	"log"
	"strings"
)

const esc = 0x1B

// maxParam bounds the accumulator; longer digit runs are still consumed
// but saturate here and then fall into the unknown-code case.
const maxParam = 9999

// parserState is the escape-sequence state.
type parserState int

const (
	stateNormal        parserState = iota
	stateSawEscape                 // after ESC
	stateParsingParams             // after ESC [
)

func (s parserState) String() string {
	switch s {
	case stateNormal:
		return "normal"
	case stateSawEscape:
		return "escape"
	case stateParsingParams:
		return "params"
	default:
		return "unknown"
	}
}

// =============================================================================
// PARSE ERRORS
// =============================================================================

// ParseErrorKind classifies recoverable parse problems.
type ParseErrorKind int

const (
	// MalformedEscapeSequence is an unexpected byte inside a sequence.
	MalformedEscapeSequence ParseErrorKind = iota
	// UnknownEscapeCode is a well-formed parameter the parser does not handle.
	UnknownEscapeCode
)

func (k ParseErrorKind) String() string {
	switch k {
	case MalformedEscapeSequence:
		return "ANSI_MALFORMED"
	case UnknownEscapeCode:
		return "ANSI_UNKNOWN_CODE"
	default:
		return "ANSI_ERROR"
	}
}

// ParseError describes a sequence the parser skipped. Parsing always
// continues after one.
type ParseError struct {
	Kind  ParseErrorKind
	Byte  byte   // offending byte for MalformedEscapeSequence
	State string // state the byte arrived in
	Code  int    // parameter for UnknownEscapeCode
}

func (e *ParseError) Error() string {
	if e.Kind == UnknownEscapeCode {
		return fmt.Sprintf("%s | code=%d", e.Kind, e.Code)
	}
	return fmt.Sprintf("%s | byte=%q state=%s", e.Kind, e.Byte, e.State)
}

// =============================================================================
// PARSER
// =============================================================================

// ParserConfig configures a Parser.
type ParserConfig struct {
	// DefaultStyle is the style at start and after code 0.
	DefaultStyle Style
	Palette      Palette
	// MaxLines caps the document; zero keeps everything.
	MaxLines int
	// Logger receives parse errors. Nil discards them.
	Logger *log.Logger
	// OnError, when set, is called for every parse error as well.
	OnError func(*ParseError)
}

// DefaultParserConfig uses DefaultStyle, DefaultPalette and the standard logger.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		DefaultStyle: DefaultStyle(),
		Palette:      DefaultPalette(),
		Logger:       log.Default(),
	}
}

// Parser is an io.Writer that appends styled text to its Document.
//
// Style, state and the numeric accumulator persist across writes, so a
// sequence split over several Write calls parses the same as one write.
type Parser struct {
	cfg   ParserConfig
	doc   *Document
	style Style
	// colorIndex is the last base foreground code seen, or -1.
	colorIndex int
	state      parserState
	acc        int
	pending    strings.Builder
}

// NewParser creates a parser with an empty document.
func NewParser(cfg ParserConfig) *Parser {
	p := &Parser{
		cfg:        cfg,
		doc:        newDocument(cfg.DefaultStyle),
		style:      cfg.DefaultStyle,
		colorIndex: -1,
	}
	p.doc.SetMaxLines(cfg.MaxLines)
	return p
}

// Document returns the parsed output.
func (p *Parser) Document() *Document {
	return p.doc
}

// Style returns the current persistent style.
func (p *Parser) Style() Style {
	return p.style
}

// Write parses b. It never fails.
func (p *Parser) Write(b []byte) (int, error) {
	for _, c := range b {
		p.step(c)
	}
	p.flush()
	return len(b), nil
}

// WriteString parses s.
func (p *Parser) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		p.step(s[i])
	}
	p.flush()
	return len(s), nil
}

// Clear empties the document. Style and sequence state are kept, so a
// sequence split around a Clear still completes.
func (p *Parser) Clear() {
	p.pending.Reset()
	p.doc.reset(p.style)
}

var (
	_ io.Writer       = (*Parser)(nil)
	_ io.StringWriter = (*Parser)(nil)
)

func (p *Parser) step(c byte) {
	switch p.state {
	case stateNormal:
		p.normal(c)

	case stateSawEscape:
		if c == '[' {
			p.state = stateParsingParams
			p.acc = 0
			return
		}
		p.malformed(c)

	case stateParsingParams:
		switch {
		case c >= '0' && c <= '9':
			if p.acc <= maxParam {
				p.acc = p.acc*10 + int(c-'0')
			}
		case c == ';':
			p.apply(p.acc)
			p.acc = 0
		case c == 'm':
			p.apply(p.acc)
			p.acc = 0
			p.state = stateNormal
			p.doc.newRun(p.style)
		default:
			p.malformed(c)
		}
	}
}

func (p *Parser) normal(c byte) {
	switch c {
	case '\n':
		p.flush()
		p.doc.newLine(p.style)
	case '\r':
		// CRLF script files; the newline does the work.
	case esc:
		p.flush()
		p.state = stateSawEscape
	default:
		p.pending.WriteByte(c)
	}
}

// malformed aborts the sequence and emits c as ordinary input.
func (p *Parser) malformed(c byte) {
	p.report(&ParseError{Kind: MalformedEscapeSequence, Byte: c, State: p.state.String()})
	p.state = stateNormal
	p.acc = 0
	p.normal(c)
}

// apply commits one parameter code to the style.
func (p *Parser) apply(code int) {
	switch {
	case code == 0:
		p.style = p.cfg.DefaultStyle
		p.colorIndex = -1

	case code == 1:
		p.style.Bright = true
		if p.colorIndex >= 0 {
			p.style.Foreground = p.cfg.Palette.Bright[p.colorIndex]
		}

	case code >= 30 && code <= 37:
		p.colorIndex = code - 30
		p.style.Foreground = p.cfg.Palette.Foreground(p.colorIndex, p.style.Bright)

	case code >= 40 && code <= 47:
		p.style.Background = p.cfg.Palette.Background[code-40]
		p.style.HasBackground = true

	default:
		p.report(&ParseError{Kind: UnknownEscapeCode, Code: code})
	}
}

func (p *Parser) flush() {
	if p.pending.Len() == 0 {
		return
	}
	p.doc.appendText(p.pending.String())
	p.pending.Reset()
}

func (p *Parser) report(err *ParseError) {
	if p.cfg.Logger != nil {
		p.cfg.Logger.Print(err.Error())
	}
	if p.cfg.OnError != nil {
		p.cfg.OnError(err)
	}
}
