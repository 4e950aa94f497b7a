// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed config_schema.cue
var configSchema string

// Schema returns the CUE schema config files are validated against.
func Schema() string {
	return configSchema
}

// decodeCUE compiles a CUE config file, validates it against #Config and
// returns it as a plain map for Viper.
func decodeCUE(data []byte, path string) (map[string]any, error) {
	ctx := cuecontext.New()
	return validate(ctx, ctx.CompileBytes(data, cue.Filename(path)), path)
}

// validate unifies a user value with #Config and decodes the result.
func validate(ctx *cue.Context, user cue.Value, path string) (map[string]any, error) {
	if err := user.Err(); err != nil {
		return nil, formatCUEError(err, path)
	}

	schemaValue := ctx.CompileString(configSchema, cue.Filename("config_schema.cue"))
	if err := schemaValue.Err(); err != nil {
		return nil, fmt.Errorf("internal error: failed to compile config schema: %w", err)
	}

	unified := schemaValue.LookupPath(cue.ParsePath("#Config")).Unify(user)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, path)
	}

	var m map[string]any
	if err := unified.Decode(&m); err != nil {
		return nil, formatCUEError(err, path)
	}
	return m, nil
}

// formatCUEError flattens CUE errors into "file: field.path: message" lines.
func formatCUEError(err error, path string) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("%s: %w", path, err)
	}

	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		field := fieldPath(cueerrors.Path(e))
		msg := e.Error()
		if field != "" {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, field), ":"))
			msg = field + ": " + msg
		}
		lines = append(lines, msg)
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", path, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", path, strings.Join(lines, "\n  "))
}

// fieldPath renders ["debugger", "custom", "0", "name"] as
// "debugger.custom[0].name".
func fieldPath(parts []string) string {
	var sb strings.Builder
	for i, p := range parts {
		switch {
		case i > 0 && isIndex(p):
			sb.WriteString("[" + p + "]")
		case i > 0:
			sb.WriteString("." + p)
		default:
			sb.WriteString(p)
		}
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// GenerateCUE renders cfg as a CUE config file.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// gdmach configuration\n")
	sb.WriteString("// Every field is optional. Run 'gdmach config show' to see the effective values.\n\n")

	sb.WriteString("build: {\n")
	if cfg.Build.Objdir != "" {
		fmt.Fprintf(&sb, "\tobjdir: %q\n", cfg.Build.Objdir)
	}
	fmt.Fprintf(&sb, "\tbin_dir: %q\n", cfg.Build.BinDir)
	if cfg.Build.Make != "" {
		fmt.Fprintf(&sb, "\tmake: %q\n", cfg.Build.Make)
	}
	fmt.Fprintf(&sb, "\tself_test_target: %q\n", cfg.Build.SelfTestTarget)
	sb.WriteString("}\n\n")

	sb.WriteString("binaries: {\n")
	fmt.Fprintf(&sb, "\tdriver: %q\n", cfg.Binaries.Driver)
	fmt.Fprintf(&sb, "\tapp: %q\n", cfg.Binaries.App)
	if cfg.Binaries.MacBundle != "" {
		fmt.Fprintf(&sb, "\tmac_bundle: %q\n", cfg.Binaries.MacBundle)
	}
	sb.WriteString("}\n\n")

	sb.WriteString("debugger: {\n")
	if cfg.Debugger.Default != "" {
		fmt.Fprintf(&sb, "\tdefault: %q\n", cfg.Debugger.Default)
	}
	fmt.Fprintf(&sb, "\tsearch: %q\n", cfg.Debugger.Search)
	if len(cfg.Debugger.Custom) > 0 {
		sb.WriteString("\tcustom: [\n")
		for _, d := range cfg.Debugger.Custom {
			args := make([]string, len(d.Args))
			for i, a := range d.Args {
				args[i] = fmt.Sprintf("%q", a)
			}
			fmt.Fprintf(&sb, "\t\t{name: %q, args: [%s], interactive: %v, requires_escaped_args: %v},\n",
				d.Name, strings.Join(args, ", "), d.Interactive, d.RequiresEscapedArgs)
		}
		sb.WriteString("\t]\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("ui: {\n")
	fmt.Fprintf(&sb, "\tlog_level: %q\n", cfg.UI.LogLevel)
	fmt.Fprintf(&sb, "\teditor_env: %q\n", cfg.UI.EditorEnv)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}
