// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package output provides the sinks console commands write to.
//
// A Log exposes four category writers (status, error, echo, warning). The
// common case is Simple, where every category shares one writer; Multi
// mirrors each category to several Logs, e.g. the terminal and the styled
// text document at the same time.
//
// # Styling
//
// Styling wraps a single line of a category in a begin/end Tag:
//
//	st := output.ColorStyling()
//	output.Errorf(log, st, "Command %s unknown", name)
//	// writes "\x1b[37;41;1m[error]: Command frob unknown\x1b[0m\n"
package output
