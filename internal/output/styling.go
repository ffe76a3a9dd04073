// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Tag wraps one line of output.
type Tag struct {
	Begin string
	End   string
}

// Styling holds the tags for each styled category. Status lines are
// written untagged.
type Styling struct {
	Error   Tag
	Warning Tag
	Echo    Tag
}

// PlainStyling tags lines without any escape sequences.
func PlainStyling() Styling {
	return Styling{
		Error:   Tag{Begin: "[error]: "},
		Warning: Tag{Begin: "[warning]: "},
		Echo:    Tag{Begin: "> "},
	}
}

// ColorStyling tags lines with SGR color sequences the styled text parser
// understands: white on red for errors, bright yellow for warnings and
// bright green for echoed input.
func ColorStyling() Styling {
	reset := termenv.CSI + termenv.ResetSeq + "m"
	return Styling{
		Error: Tag{
			Begin: sgr(termenv.ANSIWhite.Sequence(false), termenv.ANSIRed.Sequence(true), termenv.BoldSeq) + "[error]: ",
			End:   reset,
		},
		Warning: Tag{
			Begin: sgr(termenv.ANSIYellow.Sequence(false), termenv.BoldSeq) + "[warning]: ",
			End:   reset,
		},
		Echo: Tag{
			Begin: sgr(termenv.ANSIGreen.Sequence(false), termenv.BoldSeq) + "> ",
			End:   reset,
		},
	}
}

// StylingFor picks ColorStyling for any profile that can show ANSI colors.
func StylingFor(profile termenv.Profile) Styling {
	if profile == termenv.Ascii {
		return PlainStyling()
	}
	return ColorStyling()
}

func sgr(params ...string) string {
	return termenv.CSI + strings.Join(params, ";") + "m"
}

// =============================================================================
// LINE HELPERS
// =============================================================================

// Errorf writes one tagged line to the error category.
func Errorf(l Log, st Styling, format string, args ...interface{}) {
	writeTagged(l.Error(), st.Error, fmt.Sprintf(format, args...))
}

// Warnf writes one tagged line to the warning category.
func Warnf(l Log, st Styling, format string, args ...interface{}) {
	writeTagged(l.Warning(), st.Warning, fmt.Sprintf(format, args...))
}

// Echo writes one tagged line of echoed input.
func Echo(l Log, st Styling, line string) {
	writeTagged(l.Echo(), st.Echo, line)
}

// Statusf writes one untagged line to the status category.
func Statusf(l Log, format string, args ...interface{}) {
	fmt.Fprintf(l.Status(), format+"\n", args...)
}

// The end tag goes before the newline so a color reset never leaks into
// the start of the next line.
func writeTagged(w io.Writer, tag Tag, msg string) {
	io.WriteString(w, tag.Begin+msg+tag.End+"\n")
}
