// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styledtext

import (
	"strings"
)

// Filter selects lines by case-insensitive substring.
//
// The pattern is a comma separated list; terms prefixed with '-' exclude.
// "error,warning" keeps lines mentioning either word, "-echo" hides lines
// containing "echo". With no include terms every non-excluded line passes.
type Filter struct {
	include []string
	exclude []string
}

// ParseFilter parses a filter pattern. Blank terms are ignored.
func ParseFilter(pattern string) Filter {
	var f Filter
	for _, term := range strings.Split(pattern, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if strings.HasPrefix(term, "-") {
			if t := strings.ToLower(term[1:]); t != "" {
				f.exclude = append(f.exclude, t)
			}
			continue
		}
		f.include = append(f.include, strings.ToLower(term))
	}
	return f
}

// IsEmpty reports whether the filter passes everything.
func (f Filter) IsEmpty() bool {
	return len(f.include) == 0 && len(f.exclude) == 0
}

// Match reports whether text passes the filter.
func (f Filter) Match(text string) bool {
	lower := strings.ToLower(text)
	for _, ex := range f.exclude {
		if strings.Contains(lower, ex) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, in := range f.include {
		if strings.Contains(lower, in) {
			return true
		}
	}
	return false
}

// String returns the normalized pattern.
func (f Filter) String() string {
	terms := make([]string, 0, len(f.include)+len(f.exclude))
	terms = append(terms, f.include...)
	for _, ex := range f.exclude {
		terms = append(terms, "-"+ex)
	}
	return strings.Join(terms, ",")
}
