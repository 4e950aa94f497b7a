// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
)

// decodeTOML decodes a TOML config file and checks it against the CUE schema.
func decodeTOML(data []byte, path string) (map[string]any, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("%s:%d:%d: %s", path, row, col, decodeErr.Error())
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	ctx := cuecontext.New()
	return validate(ctx, ctx.Encode(raw), path)
}

// GenerateTOML renders cfg as a TOML config file.
func GenerateTOML(cfg *Config) ([]byte, error) {
	out := *cfg
	if out.Debugger.Custom == nil {
		out.Debugger.Custom = []DebuggerDefinition{}
	}
	data, err := toml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return append([]byte("# gdmach configuration\n\n"), data...), nil
}
