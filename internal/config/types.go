// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ColorSchemeAuto picks dark or light from the terminal background.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark palette.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light palette.
	ColorSchemeLight ColorScheme = "light"
)

// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
var ErrInvalidColorScheme = errors.New("invalid color scheme")

type (
	// ColorScheme selects the palette for styled output.
	ColorScheme string

	// Config is the fully resolved gdmach configuration.
	Config struct {
		Build    BuildConfig    `json:"build" mapstructure:"build" toml:"build"`
		Binaries BinariesConfig `json:"binaries" mapstructure:"binaries" toml:"binaries"`
		Debugger DebuggerConfig `json:"debugger" mapstructure:"debugger" toml:"debugger"`
		UI       UIConfig       `json:"ui" mapstructure:"ui" toml:"ui"`
	}

	// BuildConfig describes the build tree.
	BuildConfig struct {
		// Objdir is the object directory. Empty means auto-detect.
		Objdir string `json:"objdir" mapstructure:"objdir" toml:"objdir"`
		// BinDir is where built binaries live, relative to Objdir.
		BinDir string `json:"bin_dir" mapstructure:"bin_dir" toml:"bin_dir"`
		// Make is the program that runs build targets.
		Make string `json:"make" mapstructure:"make" toml:"make"`
		// SelfTestTarget is the target driver-test builds.
		SelfTestTarget string `json:"self_test_target" mapstructure:"self_test_target" toml:"self_test_target"`
	}

	// BinariesConfig names the binaries driver-run launches.
	BinariesConfig struct {
		Driver string `json:"driver" mapstructure:"driver" toml:"driver"`
		App    string `json:"app" mapstructure:"app" toml:"app"`
		// MacBundle is the dist/*.app bundle holding App on macOS.
		MacBundle string `json:"mac_bundle" mapstructure:"mac_bundle" toml:"mac_bundle"`
	}

	// DebuggerConfig controls debugger selection.
	DebuggerConfig struct {
		// Default is used when debugging is requested without a name.
		Default string `json:"default" mapstructure:"default" toml:"default"`
		// Search is "keep-looking" or "only-first".
		Search string `json:"search" mapstructure:"search" toml:"search"`
		// Custom adds debuggers to the builtin table.
		Custom []DebuggerDefinition `json:"custom" mapstructure:"custom" toml:"custom"`
	}

	// DebuggerDefinition describes a user-defined debugger.
	DebuggerDefinition struct {
		Name                string   `json:"name" mapstructure:"name" toml:"name"`
		Args                []string `json:"args" mapstructure:"args" toml:"args,omitempty"`
		Interactive         bool     `json:"interactive" mapstructure:"interactive" toml:"interactive"`
		RequiresEscapedArgs bool     `json:"requires_escaped_args" mapstructure:"requires_escaped_args" toml:"requires_escaped_args"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		LogLevel string `json:"log_level" mapstructure:"log_level" toml:"log_level"`
		// EditorEnv marks a session inside an interactive editor. When set,
		// logging is quieted while a debugger owns the terminal.
		EditorEnv   string      `json:"editor_env" mapstructure:"editor_env" toml:"editor_env"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
	}

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Build: BuildConfig{
			BinDir:         "dist/bin",
			Make:           "",
			SelfTestTarget: "testing/geckodriver/check",
		},
		Binaries: BinariesConfig{
			Driver: "geckodriver",
			App:    "firefox",
		},
		Debugger: DebuggerConfig{
			Search: "keep-looking",
			Custom: []DebuggerDefinition{},
		},
		UI: UIConfig{
			LogLevel:    "info",
			EditorEnv:   "INSIDE_EMACS",
			ColorScheme: ColorSchemeAuto,
		},
	}
}

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Validate returns an error if the scheme is not one of the known values.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}
