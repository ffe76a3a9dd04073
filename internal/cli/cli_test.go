// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/quake-console/internal/config"
	"github.com/jeranaias/quake-console/internal/console"
	"github.com/jeranaias/quake-console/internal/output"
)

// =============================================================================
// ARGUMENTS
// =============================================================================

func TestArgParser(t *testing.T) {
	p := NewArgParser([]string{"--config=a.toml", "-e", "echo x", "--exec", "help", "--no-history", "boot.cfg", "--", "--literal"}, "no-history")

	assert.Equal(t, "a.toml", p.Flag("config"))
	assert.Equal(t, []string{"echo x", "help"}, p.FlagValues("e", "exec"))
	assert.True(t, p.BoolFlag("no-history"))
	assert.False(t, p.BoolFlag("missing"))
	assert.Equal(t, []string{"boot.cfg", "--literal"}, p.Positional())
	assert.Empty(t, p.Unknown("config", "e", "exec", "no-history"))
	assert.Equal(t, []string{"config"}, p.Unknown("e", "exec", "no-history"))
}

func TestArgParser_BoolDoesNotConsumeValue(t *testing.T) {
	p := NewArgParser([]string{"--no-history", "boot.cfg"}, "no-history")
	assert.True(t, p.BoolFlag("no-history"))
	assert.Equal(t, []string{"boot.cfg"}, p.Positional())

	p = NewArgParser([]string{"--other", "boot.cfg"})
	assert.Equal(t, "boot.cfg", p.Flag("other"))
	assert.Empty(t, p.Positional())
}

func TestParseArgs(t *testing.T) {
	args, err := ParseArgs([]string{"--mode", "line", "-e", "echo health", "--version", "a.cfg", "b.cfg"})
	require.NoError(t, err)
	assert.Equal(t, "line", args.Mode)
	assert.Equal(t, []string{"echo health"}, args.Exec)
	assert.Equal(t, []string{"a.cfg", "b.cfg"}, args.Scripts)
	assert.True(t, args.Version)
	assert.False(t, args.Help)
}

func TestParseArgs_Errors(t *testing.T) {
	_, err := ParseArgs([]string{"--bogus"})
	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Equal(t, "bogus", usage.Flag)

	_, err = ParseArgs([]string{"--mode", "gui"})
	require.ErrorAs(t, err, &usage)
	assert.Equal(t, "invalid --mode: must be tui or line (got: gui)", err.Error())
}

// =============================================================================
// ERRORS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", &UsageError{Flag: "x", Reason: "bad"}, ExitUsageError},
		{"config", &ConfigError{Path: "c.toml", Err: errors.New("boom")}, ExitConfigError},
		{"validation", fmt.Errorf("load: %w", config.ValidateErrors{{Field: "history.size", Message: "bad"}}), ExitConfigError},
		{"missing script", &console.Error{Kind: console.FileOpenError, Subject: "a.cfg"}, ExitNotFoundError},
		{"other", errors.New("x"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, &ConfigError{Err: errors.New("boom")})
	assert.Contains(t, buf.String(), "[ERROR]")
	assert.Contains(t, buf.String(), "config: boom")

	buf.Reset()
	DisplayError(&buf, nil)
	assert.Empty(t, buf.String())
}

// =============================================================================
// TERMINAL
// =============================================================================

func TestDetectColors(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}
	yes := func() bool { return true }
	no := func() bool { return false }

	assert.True(t, detectColors(env(nil), yes))
	assert.False(t, detectColors(env(nil), no))
	assert.False(t, detectColors(env(map[string]string{"NO_COLOR": "1", "FORCE_COLOR": "1"}), yes))
	assert.True(t, detectColors(env(map[string]string{"FORCE_COLOR": "1"}), no))
}

func TestBanner(t *testing.T) {
	b := Banner("quake-console", "type help")
	assert.Contains(t, b, "quake-console")
	assert.Contains(t, b, strings.Repeat("=", len("quake-console")))
	assert.True(t, strings.HasSuffix(b, "\n"))
}

// =============================================================================
// COMPLETION AND SCRIPTS
// =============================================================================

func TestCompleter(t *testing.T) {
	c := console.New(console.DefaultOptions())
	complete := Completer(c)

	assert.Equal(t, []string{"echo "}, complete("ech"))
	assert.Equal(t, []string{"help listCVars", "help listCmd", "help listHelp"}, complete("help list"))
	assert.Nil(t, complete("zzz"))
}

func TestRunScript(t *testing.T) {
	c := console.New(console.DefaultOptions())
	var buf bytes.Buffer
	out := output.NewSimple(&buf)

	path := filepath.Join(t.TempDir(), "boot.cfg")
	require.NoError(t, os.WriteFile(path, []byte("var greeting hi\necho greeting\n"), 0600))
	require.NoError(t, RunScript(c, path, out))
	assert.Contains(t, buf.String(), "reloading "+path)
	assert.Contains(t, buf.String(), "hi")

	buf.Reset()
	err := RunScript(c, filepath.Join(t.TempDir(), "gone.cfg"), out)
	assert.True(t, console.IsKind(err, console.FileOpenError))
	assert.Equal(t, 1, strings.Count(buf.String(), "[error]: Unable to open file"))
}

// =============================================================================
// MANUAL
// =============================================================================

func TestManual(t *testing.T) {
	c := console.New(console.DefaultOptions())
	health := 100
	require.NoError(t, c.BindCVar("health", &health, "player health | hp"))
	c.SetHelpTopic("scripting", "Scripts are plain command lines.")

	md := Manual(c)
	assert.Contains(t, md, "| `runFile` |")
	assert.Contains(t, md, "| `health` | `100` | player health \\| hp |")
	assert.Contains(t, md, "### scripting")
	assert.NotContains(t, md, "### health")
}

func TestRenderManual_Plain(t *testing.T) {
	out, err := RenderManual("# Title\n\nSome `code` here.\n", 60, false)
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "code")
}
