// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Argument parsing for the console host.

package cli

import (
	"sort"
	"strings"
)

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser splits raw arguments into flags and positional arguments.
//
// Supported flag formats:
//
//	--flag value     Long flag with space-separated value
//	--flag=value     Long flag with equals sign
//	-f value         Short flag with space-separated value
//	--flag           Boolean flag (no value)
//
// Flags named in boolNames never consume the following argument.
type ArgParser struct {
	flags      map[string][]string // String flags, in order of appearance
	boolFlags  map[string]bool     // Boolean flags
	positional []string            // Arguments without a flag
	raw        []string
}

// NewArgParser parses raw. Everything after "--" is positional.
func NewArgParser(raw []string, boolNames ...string) *ArgParser {
	parser := &ArgParser{
		flags:     make(map[string][]string),
		boolFlags: make(map[string]bool),
		raw:       raw,
	}
	isBool := make(map[string]bool, len(boolNames))
	for _, name := range boolNames {
		isBool[name] = true
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]

		if arg == "--" {
			parser.positional = append(parser.positional, raw[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			parser.positional = append(parser.positional, arg)
			continue
		}

		// --flag=value
		if name, value, ok := strings.Cut(strings.TrimLeft(arg, "-"), "="); ok {
			if isBool[name] {
				parser.boolFlags[name] = value == "true"
			} else {
				parser.flags[name] = append(parser.flags[name], value)
			}
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if !isBool[name] && i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
			parser.flags[name] = append(parser.flags[name], raw[i+1])
			i++
			continue
		}
		parser.boolFlags[name] = true
	}

	return parser
}

// Flag returns the last value of a string flag, or "".
func (p *ArgParser) Flag(names ...string) string {
	values := p.FlagValues(names...)
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

// FlagValues returns every value given for any of the names.
func (p *ArgParser) FlagValues(names ...string) []string {
	var out []string
	for _, name := range names {
		out = append(out, p.flags[strings.TrimLeft(name, "-")]...)
	}
	return out
}

// BoolFlag reports whether any of the names was set.
func (p *ArgParser) BoolFlag(names ...string) bool {
	for _, name := range names {
		if p.boolFlags[strings.TrimLeft(name, "-")] {
			return true
		}
	}
	return false
}

// Positional returns the positional arguments.
func (p *ArgParser) Positional() []string {
	return p.positional
}

// Unknown returns the flags not listed in known, sorted.
func (p *ArgParser) Unknown(known ...string) []string {
	ok := make(map[string]bool, len(known))
	for _, k := range known {
		ok[k] = true
	}
	var out []string
	for name := range p.flags {
		if !ok[name] {
			out = append(out, name)
		}
	}
	for name := range p.boolFlags {
		if !ok[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// =============================================================================
// HOST ARGUMENTS
// =============================================================================

// Args holds the parsed command line of the console host.
type Args struct {
	ConfigPath string   // --config PATH
	Mode       string   // --mode tui|line
	Exec       []string // -e/--exec LINE, repeatable; run and exit
	Scripts    []string // positional script files run at startup
	NoHistory  bool     // --no-history
	Help       bool     // -h/--help
	Version    bool     // --version
}

// Usage is the help text for the host.
const Usage = `usage: quake-console [flags] [script ...]

flags:
  --config PATH   configuration file (default ~/.quake-console/config.toml)
  --mode MODE     front end: tui or line (default from config)
  -e, --exec LINE execute LINE and exit; may be repeated
  --no-history    do not load or save the history file
  -h, --help      show this help
  --version       print the version`

// ParseArgs parses the host's arguments.
func ParseArgs(raw []string) (Args, error) {
	p := NewArgParser(raw, "no-history", "h", "help", "version")

	if unknown := p.Unknown("config", "mode", "e", "exec", "no-history", "h", "help", "version"); len(unknown) > 0 {
		return Args{}, &UsageError{Flag: unknown[0], Reason: "unknown flag"}
	}

	args := Args{
		ConfigPath: p.Flag("config"),
		Mode:       p.Flag("mode"),
		Exec:       p.FlagValues("e", "exec"),
		Scripts:    p.Positional(),
		NoHistory:  p.BoolFlag("no-history"),
		Help:       p.BoolFlag("h", "help"),
		Version:    p.BoolFlag("version"),
	}

	switch args.Mode {
	case "", "tui", "line":
	default:
		return Args{}, &UsageError{Flag: "mode", Value: args.Mode, Reason: "must be tui or line"}
	}
	return args, nil
}
