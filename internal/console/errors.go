// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"errors"
	"fmt"

	"github.com/jeranaias/quake-console/internal/output"
)

// =============================================================================
// ERROR KINDS
// =============================================================================

// ErrorKind classifies console errors.
type ErrorKind int

const (
	// SyntaxError means an argument failed to parse; the command did not run.
	SyntaxError ErrorKind = iota
	// UnknownCommand means a token named no bound command.
	UnknownCommand
	// UnknownVariable means set, echo or a $reference named no variable.
	UnknownVariable
	// ExpectedIdentifier means a $ was not followed by a name.
	ExpectedIdentifier
	// UnknownTopic means help was asked for a topic with no text.
	UnknownTopic
	// FileOpenError means a script or history file could not be opened.
	FileOpenError
	// ScriptDepth means runFile nesting hit the configured limit.
	ScriptDepth
	// CommandFailed means a bound function returned an error.
	CommandFailed
)

var kindNames = map[ErrorKind]string{
	SyntaxError:        "syntax error",
	UnknownCommand:     "unknown command",
	UnknownVariable:    "unknown variable",
	ExpectedIdentifier: "expected identifier",
	UnknownTopic:       "unknown help topic",
	FileOpenError:      "file open error",
	ScriptDepth:        "script depth",
	CommandFailed:      "command failed",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// =============================================================================
// ERROR TYPE
// =============================================================================

// Error is a non-fatal console error. It is written to the output sink and
// processing continues with the next token or line.
type Error struct {
	Kind    ErrorKind
	Subject string // command, variable, topic or path the error is about
	Limit   int    // nesting limit for ScriptDepth
	Err     error  // underlying error, if any
}

func (e *Error) Error() string {
	switch e.Kind {
	case SyntaxError:
		if e.Subject != "" {
			return "Syntax error parsing argument to " + e.Subject
		}
		return "Syntax error in function arguments."
	case UnknownCommand:
		return fmt.Sprintf("Command %s unknown", e.Subject)
	case UnknownVariable:
		return fmt.Sprintf("Variable %s unknown.", e.Subject)
	case ExpectedIdentifier:
		return "Expected identifier after $"
	case UnknownTopic:
		return "No help available for topic: " + e.Subject
	case FileOpenError:
		return "Unable to open file : " + e.Subject
	case ScriptDepth:
		return fmt.Sprintf("Not running %s: scripts nested deeper than %d", e.Subject, e.Limit)
	case CommandFailed:
		return fmt.Sprintf("%s: %v", e.Subject, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Kind, e.Subject, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Subject)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so
// errors.Is(err, &Error{Kind: FileOpenError}) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Subject == "" || t.Subject == e.Subject)
}

// IsKind reports whether err is a console *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}

// report writes err to the error category of out.
func (c *Console) report(out output.Log, err *Error) {
	output.Errorf(out, c.opts.Styling, "%s", err.Error())
}
