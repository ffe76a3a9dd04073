// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/quake-console/internal/console"
)

// =============================================================================
// MANUAL
// =============================================================================

// Manual builds a markdown reference of everything bound to c.
func Manual(c *console.Console) string {
	var sb strings.Builder
	sb.WriteString("# Console manual\n\n")
	sb.WriteString("Type a command followed by its arguments. Several commands may share a line. ")
	sb.WriteString("`$name` is replaced by the value of variable `name` before the line runs.\n\n")

	sb.WriteString("## Commands\n\n")
	sb.WriteString("| Command | Description |\n|---|---|\n")
	for _, name := range c.Commands() {
		fmt.Fprintf(&sb, "| `%s` | %s |\n", name, cell(helpFor(c, name)))
	}

	if vars := c.CVars(); len(vars) > 0 {
		sb.WriteString("\n## Variables\n\n")
		sb.WriteString("| Variable | Value | Description |\n|---|---|---|\n")
		for _, name := range vars {
			value, _ := c.Value(name)
			fmt.Fprintf(&sb, "| `%s` | `%s` | %s |\n", name, cell(value), cell(helpFor(c, name)))
		}
	}

	var topics []string
	for _, name := range c.HelpTopics() {
		if !c.HasCommand(name) && !c.HasCVar(name) {
			topics = append(topics, name)
		}
	}
	if len(topics) > 0 {
		sb.WriteString("\n## Topics\n\n")
		for _, name := range topics {
			fmt.Fprintf(&sb, "### %s\n\n%s\n\n", name, helpFor(c, name))
		}
	}
	return sb.String()
}

func helpFor(c *console.Console, name string) string {
	text, _ := c.Help(name)
	return strings.TrimSpace(text)
}

// cell makes text safe inside a table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// RenderManual renders markdown for the terminal. With colored false the
// output carries no escape codes, which suits the full-screen UI whose
// parser understands only the 8-color subset.
func RenderManual(markdown string, width int, colored bool) (string, error) {
	if width <= 0 {
		width = DefaultTerminalWidth
	}

	style := glamour.WithStandardStyle("notty")
	if colored {
		style = glamour.WithAutoStyle()
	}

	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("manual renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render manual: %w", err)
	}
	return out, nil
}
