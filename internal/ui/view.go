// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/quake-console/internal/styledtext"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	// TextMuted - hints and separators
	TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

	// Amber - active filter indicator
	Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

	// SurfaceDim - status bar background
	SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

	separatorStyle = lipgloss.NewStyle().Foreground(TextMuted)
	statusStyle    = lipgloss.NewStyle().Foreground(TextMuted).Background(SurfaceDim)
	filterStyle    = lipgloss.NewStyle().Foreground(Amber).Bold(true)
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the console.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	input := m.input.View()
	if m.filtering {
		input = m.filterInput.View()
	}

	return strings.Join([]string{
		m.viewport.View(),
		separatorStyle.Render(strings.Repeat("-", m.width)),
		input,
		m.renderStatusBar(),
	}, "\n")
}

func (m Model) renderStatusBar() string {
	var parts []string
	if !m.filter.IsEmpty() {
		parts = append(parts, filterStyle.Render("filter: "+m.filter.String()))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return statusStyle.MaxWidth(m.width).Render(strings.Join(parts, " | "))
}

// refresh re-renders the scrollback. With follow set the view jumps to the
// newest line.
func (m *Model) refresh(follow bool) {
	m.viewport.SetContent(m.content())
	if follow {
		m.viewport.GotoBottom()
	}
}

// content renders the filtered document.
func (m Model) content() string {
	lines := m.parser.Document().Filter(m.filter)
	rendered := make([]string, len(lines))
	for i, l := range lines {
		rendered[i] = RenderLine(l)
	}
	return strings.Join(rendered, "\n")
}

// =============================================================================
// STYLED TEXT RENDERING
// =============================================================================

// RenderLine renders a line of styled runs with lipgloss. Empty runs are
// skipped.
func RenderLine(l styledtext.Line) string {
	var sb strings.Builder
	for _, r := range l.Runs {
		if r.Text == "" {
			continue
		}
		sb.WriteString(RenderRun(r))
	}
	return sb.String()
}

// RenderRun renders one run in its style.
func RenderRun(r styledtext.Run) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(styledtext.Hex(r.Style.Foreground))).
		Bold(r.Style.Bright)
	if r.Style.HasBackground {
		style = style.Background(lipgloss.Color(styledtext.Hex(r.Style.Background)))
	}
	return style.Render(r.Text)
}
