// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the command-line side of the console host.
//
// It parses process arguments, detects terminal capabilities, and runs the
// plain line-mode front end used when the full-screen UI is unavailable or
// not wanted.
//
// # Key Types
//
//   - Args: parsed command-line arguments
//   - REPL: liner-based prompt with history and TAB completion
//
// # Usage
//
//	args, err := cli.ParseArgs(os.Args[1:])
//	if err != nil {
//	    cli.HandleErrorAndExit(err)
//	}
//	repl := cli.NewREPL(c, out, cli.REPLOptions{Prompt: "] "})
//	return repl.Run()
//
// Output written by console commands already carries SGR styling, so the REPL
// writes it to the terminal unchanged.
package cli
