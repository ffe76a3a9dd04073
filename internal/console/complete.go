// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"sort"
	"strings"

	"github.com/jeranaias/quake-console/internal/util"
)

// Completion is the result of completing the last word of a line.
type Completion struct {
	// Line is the input with the word replaced. A single match is followed
	// by a space; several matches extend the word to their common prefix.
	Line string
	// Candidates lists every command and variable the word could become.
	Candidates []string
}

// Complete completes the last word of line against command and variable
// names, ignoring case.
func (c *Console) Complete(line string) Completion {
	start := len(line)
	for start > 0 && !util.IsSpace(line[start-1]) {
		start--
	}
	word := strings.ToLower(line[start:])

	seen := make(map[string]bool)
	var candidates []string
	for _, names := range [][]string{c.Commands(), c.CVars()} {
		for _, name := range names {
			if seen[name] || !strings.HasPrefix(strings.ToLower(name), word) {
				continue
			}
			seen[name] = true
			candidates = append(candidates, name)
		}
	}
	sort.Strings(candidates)

	switch len(candidates) {
	case 0:
		return Completion{Line: line}
	case 1:
		return Completion{Line: line[:start] + candidates[0] + " ", Candidates: candidates}
	}

	completed := line
	if prefix := util.CommonPrefix(candidates); len(prefix) >= len(word) {
		completed = line[:start] + prefix
	}
	return Completion{Line: completed, Candidates: candidates}
}
