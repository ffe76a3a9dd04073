// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package highlight colors text with SGR sequences the console's styled
// text parser understands: 30-37 foreground, 40-47 background, 1 bright
// and 0 reset. Nothing else is ever emitted.
package highlight

import (
	"regexp"
	"strings"

	"github.com/muesli/termenv"
)

// =============================================================================
// RULE FORMATTER
// =============================================================================

// Rule rewrites every match of Pattern with Filter.
type Rule struct {
	Pattern *regexp.Regexp
	Filter  func(match string) string
}

// Formatter applies a set of rules in one left-to-right pass. At each
// point the earliest match wins; on a tie the rule listed first wins.
// Text between matches is copied unchanged.
type Formatter struct {
	Rules []Rule
}

// NewFormatter creates a formatter over rules.
func NewFormatter(rules ...Rule) *Formatter {
	return &Formatter{Rules: rules}
}

// Add appends a rule that colors matches of pattern with the given SGR
// parameters, e.g. "31;1".
func (f *Formatter) Add(pattern *regexp.Regexp, sgr string) *Formatter {
	f.Rules = append(f.Rules, Rule{Pattern: pattern, Filter: Colorize(sgr)})
	return f
}

// Format returns s with every rule applied.
func (f *Formatter) Format(s string) string {
	if len(f.Rules) == 0 {
		return s
	}

	var sb strings.Builder
	pos := 0
	for pos < len(s) {
		best, start, end := -1, len(s), len(s)
		for i, r := range f.Rules {
			loc := r.Pattern.FindStringIndex(s[pos:])
			if loc == nil {
				continue
			}
			if pos+loc[0] < start {
				best, start, end = i, pos+loc[0], pos+loc[1]
			}
		}
		if best < 0 {
			break
		}

		sb.WriteString(s[pos:start])
		if end == start {
			// Empty match: keep the text and step past it.
			if start < len(s) {
				sb.WriteByte(s[start])
			}
			pos = start + 1
			continue
		}
		filter := f.Rules[best].Filter
		if filter == nil {
			sb.WriteString(s[start:end])
		} else {
			sb.WriteString(filter(s[start:end]))
		}
		pos = end
	}
	if pos < len(s) {
		sb.WriteString(s[pos:])
	}
	return sb.String()
}

// Colorize returns a filter wrapping text in the given SGR parameters and
// a reset.
func Colorize(sgr string) func(string) string {
	begin := termenv.CSI + sgr + "m"
	end := termenv.CSI + termenv.ResetSeq + "m"
	return func(s string) string {
		return begin + s + end
	}
}

// Keywords builds a pattern matching any of the words as a whole word.
func Keywords(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// =============================================================================
// PRESETS
// =============================================================================

var glslKeywords = []string{
	"attribute", "const", "uniform", "varying", "layout", "centroid", "flat",
	"smooth", "noperspective", "break", "continue", "do", "for", "while",
	"switch", "case", "default", "if", "else", "in", "out", "inout", "float",
	"int", "void", "bool", "true", "false", "invariant", "discard", "return",
	"mat2", "mat3", "mat4", "vec2", "vec3", "vec4", "ivec2", "ivec3", "ivec4",
	"bvec2", "bvec3", "bvec4", "uint", "uvec2", "uvec3", "uvec4", "lowp",
	"mediump", "highp", "precision", "sampler2D", "sampler3D", "samplerCube",
	"struct",
}

// GLSL returns a formatter for shader source: comments green, the
// preprocessor magenta, keywords bright blue and numbers yellow.
func GLSL() *Formatter {
	return NewFormatter().
		Add(regexp.MustCompile(`//[^\n]*|/\*(?s:.*?)\*/`), "32").
		Add(regexp.MustCompile(`(?m)^[ \t]*#[^\n]*`), "35").
		Add(Keywords(glslKeywords...), "34;1").
		Add(regexp.MustCompile(`\b\d+(?:\.\d*)?(?:[eE][-+]?\d+)?[fFuU]?\b`), "33")
}

// ConsoleLog returns a formatter for console scripts: comments green,
// $references cyan and the built-in commands bright white.
func ConsoleLog() *Formatter {
	return NewFormatter().
		Add(regexp.MustCompile(`#[^\n]*`), "32").
		Add(regexp.MustCompile(`\$\S+`), "36").
		Add(Keywords("help", "listCmd", "listCVars", "listHelp", "set", "echo", "var", "runFile"), "37;1")
}
