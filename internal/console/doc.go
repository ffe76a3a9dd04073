// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package console implements a Quake-style command console.
//
// A Console binds names to host callbacks and variables, then executes
// text lines typed at a prompt or read from script files.
//
// # Binding
//
// Commands are ordinary Go functions. Each parameter is parsed from the
// command line in order; a parse failure reports one syntax error and the
// function is not called:
//
//	c.BindCommand("sum", func(out output.Log, a, b int) {
//		output.Statusf(out, "%d", a+b)
//	}, "sum <a> <b> prints a+b")
//
// Variables are bound by pointer and read or written with the built-in
// set and echo commands:
//
//	health := 100
//	c.BindCVar("health", &health, "player health")
//
// # Execution
//
// Each executed line is recorded in the history, echoed to the output,
// has $name references replaced by variable values, and is then split into
// tokens. Every token that names a command runs it; the command consumes
// its own arguments from the rest of the line. Lines starting with # are
// comments.
//
// # Built-ins
//
//	help [topic]        show help on a command or variable
//	listCmd             list commands
//	listCVars           list variables
//	listHelp            list help topics
//	set <name> <value>  assign a variable
//	echo <name>         print a variable
//	var <name> <text>   declare a string variable holding the rest of the line
//	runFile <path>      execute a script file
package console
