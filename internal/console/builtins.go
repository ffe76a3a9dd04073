// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"io"
	"strings"

	"github.com/jeranaias/quake-console/internal/output"
)

const genericHelp = "Type 'help' followed by the name of a command or variable to get help on that topic if available.\n" +
	"Type listCmd, listCVars, and listHelp to print lists of the available commands, variables, and help topics.\n" +
	"Use $<varname> to dereference a variable in a command argument list and use # to comment the rest of a line"

func (c *Console) bindBuiltins() {
	c.BindFunc("help", c.cmdHelp,
		"type help <topic> to show the help text for a command or variable")
	c.BindFunc("listCmd", func(_ *Input, out output.Log) {
		writeList(out.Status(), "Available commands:", c.Commands())
	}, "lists the available console commands")
	c.BindFunc("listCVars", func(_ *Input, out output.Log) {
		writeList(out.Status(), "Bound console variables:", c.CVars())
	}, "lists the bound cvars")
	c.BindFunc("listHelp", func(_ *Input, out output.Log) {
		writeList(out.Status(), "Available help topics:", c.HelpTopics())
	}, "lists the available help topics")
	c.BindFunc("set", c.cmdSet,
		"type set <identifier> <val> to change the value of a cvar")
	c.BindFunc("echo", c.cmdEcho,
		"type echo <identifier> to print the value of a cvar")
	c.MustBindCommand("var", func(name string, value DynamicVariable) {
		c.BindDynamicCVar(name, string(value), "")
	}, "Type var <varname> <value> to declare a dynamic variable with name <varname> and value <value>.\n"+
		"Variable names are any space delimited string and variable value is set to the remainder of the line.")
	c.BindFunc("runFile", c.cmdRunFile,
		"runs the commands in a text file named by the argument")
}

func (c *Console) cmdHelp(in *Input, out output.Log) {
	topic, ok := in.Token()
	if !ok {
		in.Clear()
		output.Statusf(out, "%s", genericHelp)
		return
	}
	text, ok := c.help[topic]
	if !ok {
		c.report(out, &Error{Kind: UnknownTopic, Subject: topic})
		return
	}
	output.Statusf(out, "%s", text)
}

func (c *Console) cmdSet(in *Input, out output.Log) {
	name, ok := in.Token()
	if !ok {
		in.Clear()
		c.report(out, &Error{Kind: SyntaxError, Subject: "set"})
		return
	}
	read, ok := c.readers[name]
	if !ok {
		c.report(out, &Error{Kind: UnknownVariable, Subject: name})
		return
	}
	read(in, out)
}

func (c *Console) cmdEcho(in *Input, out output.Log) {
	name, ok := in.Token()
	if !ok {
		in.Clear()
		c.report(out, &Error{Kind: SyntaxError, Subject: "echo"})
		return
	}
	printer, ok := c.printers[name]
	if !ok {
		c.report(out, &Error{Kind: UnknownVariable, Subject: name})
		return
	}
	w := out.Status()
	printer(w)
	io.WriteString(w, "\n")
}

func (c *Console) cmdRunFile(in *Input, out output.Log) {
	path, ok := in.Token()
	if !ok {
		in.Clear()
		c.report(out, &Error{Kind: SyntaxError, Subject: "runFile"})
		return
	}
	// Already reported to out.
	_ = c.ExecuteFile(path, out)
}

func writeList(w io.Writer, header string, names []string) {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(header)
	for _, n := range names {
		sb.WriteString("\n")
		sb.WriteString(n)
	}
	sb.WriteString("\n")
	io.WriteString(w, sb.String())
}
