// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/quake-console/internal/output"
)

// clearEnv unsets the override variables for the duration of a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"QCONSOLE_HISTORY_SIZE", "QCONSOLE_HISTORY_FILE", "QCONSOLE_AUTOEXEC", "QCONSOLE_COLOR", "NO_COLOR"} {
		if v, ok := os.LookupEnv(k); ok {
			os.Unsetenv(k)
			t.Cleanup(func() { os.Setenv(k, v) })
		}
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.History.Size)
	assert.True(t, cfg.Console.RecordComments)
	assert.Equal(t, 16, cfg.Console.MaxScriptDepth)
}

func TestLoadFromPath_TOML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", `
[history]
size = 50

[console]
record_comments = false

[output]
color = "never"
background = "#000080"
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.History.Size)
	assert.False(t, cfg.Console.RecordComments)
	assert.Equal(t, 16, cfg.Console.MaxScriptDepth, "missing keys keep defaults")
	assert.Equal(t, "#d4d4d4", cfg.Output.Foreground)
	assert.Equal(t, "never", cfg.Output.Color)
}

func TestLoadFromPath_JSON(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.json", `{"history": {"size": 3}, "ui": {"mode": "line"}}`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.History.Size)
	assert.Equal(t, "line", cfg.UI.Mode)
}

func TestLoadFromPath_Errors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad toml", "[history\nsize = 1"},
		{"unknown key", "[history]\nlength = 4"},
		{"invalid color mode", "[output]\ncolor = \"sometimes\""},
		{"invalid foreground", "[output]\nforeground = \"red\""},
		{"negative depth", "[console]\nmax_script_depth = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromPath(writeFile(t, "config.toml", tt.body))
			assert.Error(t, err)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.History.Size = 0
	cfg.UI.Mode = "gui"
	cfg.Output.MaxLines = -5

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidateErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
	assert.Equal(t, "history.size", verrs[0].Field)
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("QCONSOLE_HISTORY_SIZE", "25")
	t.Setenv("QCONSOLE_HISTORY_FILE", "")
	t.Setenv("QCONSOLE_AUTOEXEC", "/tmp/autoexec.cfg")
	t.Setenv("QCONSOLE_COLOR", "always")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, 25, cfg.History.Size)
	assert.Empty(t, cfg.History.File)
	assert.Empty(t, cfg.HistoryPath())
	assert.Equal(t, "/tmp/autoexec.cfg", cfg.AutoexecPath())
	assert.Equal(t, "always", cfg.Output.Color)

	t.Setenv("NO_COLOR", "1")
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "never", cfg.Output.Color)
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.History.Size = 42
	cfg.Scripts.Autoexec = "autoexec.cfg"
	cfg.Scripts.Watch = true
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestStyling(t *testing.T) {
	cfg := Default()

	assert.Equal(t, output.ColorStyling(), cfg.Styling(termenv.ANSI))
	assert.Equal(t, output.PlainStyling(), cfg.Styling(termenv.Ascii))

	cfg.Output.Color = "always"
	assert.Equal(t, output.ColorStyling(), cfg.Styling(termenv.Ascii))

	cfg.Output.Color = "never"
	opts := cfg.ConsoleOptions(termenv.TrueColor)
	assert.Equal(t, output.PlainStyling(), opts.Styling)
	assert.Equal(t, 10, opts.HistorySize)
	assert.True(t, opts.RecordComments)
}

func TestParserConfig(t *testing.T) {
	cfg := Default()
	cfg.Output.Foreground = "#ffffff"
	cfg.Output.Background = "#000000"
	cfg.Output.MaxLines = 100

	pc := cfg.ParserConfig()
	assert.Equal(t, uint8(255), pc.DefaultStyle.Foreground.R)
	assert.True(t, pc.DefaultStyle.HasBackground)
	assert.Equal(t, 100, pc.MaxLines)
}

func TestGet(t *testing.T) {
	cfg := Default()

	v, err := cfg.Get("history.size")
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = cfg.Get("console.max_script_depth")
	require.NoError(t, err)
	assert.Equal(t, 16, v)

	_, err = cfg.Get("history.nope")
	assert.Error(t, err)
	_, err = cfg.Get("history.size.more")
	assert.Error(t, err)
	_, err = cfg.Get("")
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "history.size")
	assert.Contains(t, keys, "ui.highlight_style")
	for _, k := range keys {
		_, err := Default().Get(k)
		assert.NoError(t, err, k)
	}
}
