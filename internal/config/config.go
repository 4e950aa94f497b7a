// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gdmach-cli/internal/issue"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const (
	// AppName names the config directory.
	AppName = "gdmach"
	// EnvPrefix prefixes environment overrides, e.g. GDMACH_BUILD_OBJDIR.
	EnvPrefix = "GDMACH"
	// FileName is the config file name without extension.
	FileName = "config"

	// FormatCUE selects config.cue.
	FormatCUE Format = "cue"
	// FormatTOML selects config.toml.
	FormatTOML Format = "toml"

	maxFileSize = 1 << 20
)

var (
	// ErrUnsupportedFormat is returned for config files that are neither CUE nor TOML.
	ErrUnsupportedFormat = errors.New("unsupported config file format")
	// ErrConfigExists is returned by WriteDefault when it would overwrite a file.
	ErrConfigExists = errors.New("config file already exists")
)

// Format is a config file format, named after its file extension.
type Format string

// Dir returns the gdmach config directory.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Candidates returns the paths Load tries, in order, when no file is given.
func Candidates(dir string) []string {
	if dir == "" {
		dir = Dir()
	}
	return []string{
		filepath.Join(dir, FileName+"."+string(FormatCUE)),
		filepath.Join(dir, FileName+"."+string(FormatTOML)),
		FileName + "." + string(FormatCUE),
		FileName + "." + string(FormatTOML),
	}
}

// load builds a Viper instance from defaults, the config file and the
// environment, and decodes it. It returns the file used, if any.
func load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("load config canceled: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := opts.ConfigFilePath
	if path != "" {
		if !fileExists(path) {
			return nil, "", loadError(path, fmt.Errorf("config file not found: %s", path),
				"Verify the path passed to --config")
		}
	} else {
		for _, c := range Candidates(opts.ConfigDirPath) {
			if fileExists(c) {
				path = c
				break
			}
		}
	}

	if path != "" {
		if err := mergeFile(v, path); err != nil {
			return nil, "", loadError(path, err,
				"Check the file against the schema printed by 'gdmach config schema'")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.UI.ColorScheme.Validate(); err != nil {
		return nil, "", loadError(path, err, "Set ui.color_scheme to auto, dark or light")
	}
	return &cfg, path, nil
}

func loadError(path string, cause error, suggestion string) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion(suggestion).
		WithSuggestion("Run 'gdmach config path' to see where gdmach looks for config files").
		Wrap(cause).
		BuildError()
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("build.objdir", d.Build.Objdir)
	v.SetDefault("build.bin_dir", d.Build.BinDir)
	v.SetDefault("build.make", d.Build.Make)
	v.SetDefault("build.self_test_target", d.Build.SelfTestTarget)
	v.SetDefault("binaries.driver", d.Binaries.Driver)
	v.SetDefault("binaries.app", d.Binaries.App)
	v.SetDefault("binaries.mac_bundle", d.Binaries.MacBundle)
	v.SetDefault("debugger.default", d.Debugger.Default)
	v.SetDefault("debugger.search", d.Debugger.Search)
	v.SetDefault("debugger.custom", d.Debugger.Custom)
	v.SetDefault("ui.log_level", d.UI.LogLevel)
	v.SetDefault("ui.editor_env", d.UI.EditorEnv)
	v.SetDefault("ui.color_scheme", string(d.UI.ColorScheme))
}

// mergeFile decodes and validates a config file and merges it into v.
func mergeFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxFileSize)
	}

	var m map[string]any
	switch Format(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case FormatCUE:
		m, err = decodeCUE(data, path)
	case FormatTOML:
		m, err = decodeTOML(data, path)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(m); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// WriteDefault writes the default configuration to dir in the given format
// and returns the path written. Existing files are kept unless force is set.
func WriteDefault(dir string, format Format, force bool) (string, error) {
	if dir == "" {
		dir = Dir()
	}
	data, err := Generate(DefaultConfig(), format)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName+"."+string(format))
	if !force && fileExists(path) {
		return path, fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// Generate renders cfg as a config file.
func Generate(cfg *Config, format Format) ([]byte, error) {
	switch format {
	case FormatCUE:
		return []byte(GenerateCUE(cfg)), nil
	case FormatTOML:
		return GenerateTOML(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
