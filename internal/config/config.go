// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/muesli/termenv"

	"github.com/jeranaias/quake-console/internal/console"
	"github.com/jeranaias/quake-console/internal/output"
	"github.com/jeranaias/quake-console/internal/styledtext"
	"github.com/jeranaias/quake-console/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete console configuration.
type Config struct {
	Console ConsoleConfig `toml:"console" json:"console"`
	History HistoryConfig `toml:"history" json:"history"`
	Output  OutputConfig  `toml:"output" json:"output"`
	Scripts ScriptsConfig `toml:"scripts" json:"scripts"`
	UI      UIConfig      `toml:"ui" json:"ui"`
}

// ConsoleConfig controls the dispatcher.
type ConsoleConfig struct {
	// RecordComments keeps comment lines in the history.
	RecordComments bool `toml:"record_comments" json:"record_comments"`
	// MaxScriptDepth limits runFile nesting. 0 disables the limit.
	MaxScriptDepth int `toml:"max_script_depth" json:"max_script_depth"`
}

// HistoryConfig controls the executed-line history.
type HistoryConfig struct {
	Size int `toml:"size" json:"size"`
	// File is the history file. Relative paths are under ConfigDir.
	// Empty disables persistence.
	File string `toml:"file" json:"file"`
}

// OutputConfig controls how console output is styled.
type OutputConfig struct {
	// Color is "auto", "always" or "never".
	Color string `toml:"color" json:"color"`
	// Foreground is the default text color as #rrggbb.
	Foreground string `toml:"foreground" json:"foreground"`
	// Background, when set, gives default text a background color.
	Background string `toml:"background" json:"background"`
	// MaxLines caps the scrollback. 0 keeps everything.
	MaxLines int `toml:"max_lines" json:"max_lines"`
}

// ScriptsConfig controls startup scripts.
type ScriptsConfig struct {
	// Autoexec runs at startup when set. Relative paths are under ConfigDir.
	Autoexec string `toml:"autoexec" json:"autoexec"`
	// Watch reruns Autoexec whenever it changes.
	Watch bool `toml:"watch" json:"watch"`
}

// UIConfig controls the front end.
type UIConfig struct {
	// Mode is "auto", "tui" or "line".
	Mode   string `toml:"mode" json:"mode"`
	Prompt string `toml:"prompt" json:"prompt"`
	// HighlightStyle is the chroma style used by the source command.
	HighlightStyle string `toml:"highlight_style" json:"highlight_style"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Console: ConsoleConfig{
			RecordComments: true,
			MaxScriptDepth: 16,
		},
		History: HistoryConfig{
			Size: 10,
			File: "history.txt",
		},
		Output: OutputConfig{
			Color:      "auto",
			Foreground: "#d4d4d4",
			MaxLines:   2000,
		},
		Scripts: ScriptsConfig{
			Autoexec: "",
			Watch:    false,
		},
		UI: UIConfig{
			Mode:           "auto",
			Prompt:         "] ",
			HighlightStyle: "monokai",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".quake-console"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir creates the config directory if needed.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// resolve places a relative path under the config directory.
func resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	dir, err := ConfigDir()
	if err != nil {
		return path
	}
	return filepath.Join(dir, path)
}

// HistoryPath returns the absolute history file path, or "" when
// persistence is disabled.
func (c *Config) HistoryPath() string {
	return resolve(c.History.File)
}

// AutoexecPath returns the absolute autoexec script path, or "".
func (c *Config) AutoexecPath() string {
	return resolve(c.Scripts.Autoexec)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads ~/.quake-console/config.toml when it exists and falls back to
// defaults otherwise. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Keys missing from the file keep
// their current values.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return fillDefaults(cfg)
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads a specific file, TOML unless it ends in .json, and
// validates the result.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults replaces zero values that are never valid.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.History.Size == 0 {
		cfg.History.Size = defaults.History.Size
	}
	if cfg.Output.Color == "" {
		cfg.Output.Color = defaults.Output.Color
	}
	if cfg.Output.Foreground == "" {
		cfg.Output.Foreground = defaults.Output.Foreground
	}
	if cfg.UI.Mode == "" {
		cfg.UI.Mode = defaults.UI.Mode
	}
	if cfg.UI.HighlightStyle == "" {
		cfg.UI.HighlightStyle = defaults.UI.HighlightStyle
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default TOML file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML atomically writes the configuration as TOML.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# quake-console configuration file\n")
	buf.WriteString("# Generated by quake-console - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError is one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every invalid setting.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every setting and returns ValidateErrors when any fail.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.History.Size < 1 || c.History.Size > 100000 {
		errs = append(errs, ValidationError{
			Field:   "history.size",
			Message: fmt.Sprintf("must be between 1 and 100000, got %d", c.History.Size),
		})
	}

	if c.Console.MaxScriptDepth < 0 {
		errs = append(errs, ValidationError{
			Field:   "console.max_script_depth",
			Message: fmt.Sprintf("must not be negative, got %d", c.Console.MaxScriptDepth),
		})
	}

	if !oneOf(c.Output.Color, "auto", "always", "never") {
		errs = append(errs, ValidationError{
			Field:   "output.color",
			Message: fmt.Sprintf("invalid mode '%s', must be one of: auto, always, never", c.Output.Color),
		})
	}

	if _, err := styledtext.ParseHex(c.Output.Foreground); err != nil {
		errs = append(errs, ValidationError{Field: "output.foreground", Message: err.Error()})
	}
	if c.Output.Background != "" {
		if _, err := styledtext.ParseHex(c.Output.Background); err != nil {
			errs = append(errs, ValidationError{Field: "output.background", Message: err.Error()})
		}
	}

	if c.Output.MaxLines < 0 {
		errs = append(errs, ValidationError{
			Field:   "output.max_lines",
			Message: fmt.Sprintf("must not be negative, got %d", c.Output.MaxLines),
		})
	}

	if !oneOf(c.UI.Mode, "auto", "tui", "line") {
		errs = append(errs, ValidationError{
			Field:   "ui.mode",
			Message: fmt.Sprintf("invalid mode '%s', must be one of: auto, tui, line", c.UI.Mode),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - QCONSOLE_HISTORY_SIZE: overrides history.size
//   - QCONSOLE_HISTORY_FILE: overrides history.file
//   - QCONSOLE_AUTOEXEC: overrides scripts.autoexec
//   - QCONSOLE_COLOR: overrides output.color
//   - NO_COLOR: any value forces output.color to "never"
func (c *Config) ApplyEnvOverrides() {
	if size := os.Getenv("QCONSOLE_HISTORY_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			c.History.Size = n
		}
	}

	if file, ok := os.LookupEnv("QCONSOLE_HISTORY_FILE"); ok {
		c.History.File = file
	}

	if autoexec := os.Getenv("QCONSOLE_AUTOEXEC"); autoexec != "" {
		c.Scripts.Autoexec = autoexec
	}

	if mode := os.Getenv("QCONSOLE_COLOR"); mode != "" {
		c.Output.Color = mode
	}

	// https://no-color.org
	if os.Getenv("NO_COLOR") != "" {
		c.Output.Color = "never"
	}
}

// =============================================================================
// PACKAGE OPTIONS
// =============================================================================

// Styling resolves the color mode against the terminal's profile.
func (c *Config) Styling(profile termenv.Profile) output.Styling {
	switch strings.ToLower(c.Output.Color) {
	case "always":
		return output.ColorStyling()
	case "never":
		return output.PlainStyling()
	}
	return output.StylingFor(profile)
}

// ConsoleOptions maps the configuration onto console options.
func (c *Config) ConsoleOptions(profile termenv.Profile) console.Options {
	return console.Options{
		HistorySize:    c.History.Size,
		MaxScriptDepth: c.Console.MaxScriptDepth,
		RecordComments: c.Console.RecordComments,
		Styling:        c.Styling(profile),
	}
}

// ParserConfig maps the configuration onto the styled text parser. The
// colors were checked by Validate; invalid ones fall back to defaults.
func (c *Config) ParserConfig() styledtext.ParserConfig {
	pc := styledtext.DefaultParserConfig()
	pc.MaxLines = c.Output.MaxLines
	if fg, err := styledtext.ParseHex(c.Output.Foreground); err == nil {
		pc.DefaultStyle.Foreground = fg
	}
	if c.Output.Background != "" {
		if bg, err := styledtext.ParseHex(c.Output.Background); err == nil {
			pc.DefaultStyle.Background = bg
			pc.DefaultStyle.HasBackground = true
		}
	}
	return pc
}

// =============================================================================
// GET HELPER (DOT NOTATION)
// =============================================================================

// Get retrieves a value using dot notation (e.g. "history.size").
func (c *Config) Get(key string) (interface{}, error) {
	if key == "" {
		return nil, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field.Interface(), nil
		}
		if field.Kind() != reflect.Struct {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return nil, fmt.Errorf("invalid key: %s", key)
}

// Keys returns every leaf key in dot notation, in declaration order.
func Keys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := strings.Split(f.Tag.Get("toml"), ",")[0]
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, prefix+name+".")
				continue
			}
			keys = append(keys, prefix+name)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	return keys
}

// normalizeFieldName converts snake_case or kebab-case to a Go field name.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// String renders the configuration as indented JSON.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
